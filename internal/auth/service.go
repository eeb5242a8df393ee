package auth

import (
	"context"
	"errors"
	"time"

	"investory/internal/apperr"
	"investory/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	pool   *pgxpool.Pool
	issuer string
	secret []byte
	ttl    time.Duration
}

func NewService(pool *pgxpool.Pool, issuer string, secret []byte, ttl time.Duration) *Service {
	return &Service{pool: pool, issuer: issuer, secret: secret, ttl: ttl}
}

func (s *Service) Register(ctx context.Context, loginID, email, nickname, password string) (string, error) {
	if loginID == "" || email == "" || password == "" {
		return "", apperr.New(apperr.KindInvalidInput, "login_id, email and password required")
	}
	if nickname == "" {
		nickname = loginID
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	var userID string
	err = s.pool.QueryRow(ctx, `
		insert into users (login_id, email, nickname, password_hash, level, experience, version, is_active)
		values ($1, $2, $3, $4, 1, 0, 1, true)
		returning id
	`, loginID, email, nickname, string(hash)).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *Service) Login(ctx context.Context, loginID, password string) (string, error) {
	var userID, hash string
	err := s.pool.QueryRow(ctx, "select id, password_hash from users where login_id = $1 and is_active", loginID).Scan(&userID, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.New(apperr.KindAccessDenied, "invalid credentials")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", apperr.New(apperr.KindAccessDenied, "invalid credentials")
	}
	_, err = s.pool.Exec(ctx, "update users set last_login_at = $1 where id = $2", time.Now().UTC(), userID)
	if err != nil {
		return "", err
	}
	return s.signToken(userID)
}

func (s *Service) signToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *Service) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Issuer != s.issuer {
		return "", errors.New("invalid issuer")
	}
	if claims.Subject == "" {
		return "", errors.New("invalid subject")
	}
	return claims.Subject, nil
}

const userColumns = "id, login_id, email, nickname, level, experience, wmti_type, version, is_active, created_at, last_login_at"

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.LoginID, &u.Email, &u.Nickname, &u.Level, &u.Experience, &u.WmtiType, &u.Version, &u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	return u, err
}

func (s *Service) GetUser(ctx context.Context, userID string) (model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, "select "+userColumns+" from users where id = $1", userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return u, apperr.ErrUserNotFound
	}
	return u, err
}

func (s *Service) GetByLoginID(ctx context.Context, loginID string) (model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, "select "+userColumns+" from users where login_id = $1", loginID))
	if errors.Is(err, pgx.ErrNoRows) {
		return u, apperr.ErrUserNotFound
	}
	return u, err
}
