package rewards

import (
	"context"
	"errors"
	"time"

	"investory/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type progression struct {
	UserID     string
	Experience int
	Level      int
	Version    int64
}

func (s *Store) getProgression(ctx context.Context, tx pgx.Tx, userID string) (progression, error) {
	var p progression
	err := tx.QueryRow(ctx, "select id, experience, level, version from users where id = $1", userID).Scan(&p.UserID, &p.Experience, &p.Level, &p.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, apperr.ErrUserNotFound
	}
	return p, err
}

// updateProgression compare-and-swaps the user's experience/level on the row
// version so two concurrent grants cannot both win.
func (s *Store) updateProgression(ctx context.Context, tx pgx.Tx, p progression) error {
	tag, err := tx.Exec(ctx, "update users set experience = $1, level = $2, version = version + 1 where id = $3 and version = $4",
		p.Experience, p.Level, p.UserID, p.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrVersionConflict
	}
	return nil
}

type userAchievement struct {
	Code       string
	Progress   int
	IsUnlocked bool
	UnlockedAt *time.Time
}

func (s *Store) getUserAchievement(ctx context.Context, tx pgx.Tx, userID, code string) (userAchievement, bool, error) {
	var ua userAchievement
	err := tx.QueryRow(ctx, "select code, progress, is_unlocked, unlocked_at from user_achievements where user_id = $1 and code = $2", userID, code).
		Scan(&ua.Code, &ua.Progress, &ua.IsUnlocked, &ua.UnlockedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return userAchievement{Code: code}, false, nil
	}
	if err != nil {
		return ua, false, err
	}
	return ua, true, nil
}

func (s *Store) upsertUserAchievement(ctx context.Context, tx pgx.Tx, userID string, ua userAchievement) error {
	_, err := tx.Exec(ctx, `
		insert into user_achievements (user_id, code, progress, is_unlocked, unlocked_at, updated_at)
		values ($1, $2, $3, $4, $5, $6)
		on conflict (user_id, code)
		do update set progress = excluded.progress, is_unlocked = excluded.is_unlocked, unlocked_at = excluded.unlocked_at, updated_at = excluded.updated_at
	`, userID, ua.Code, ua.Progress, ua.IsUnlocked, ua.UnlockedAt, time.Now().UTC())
	return err
}

func (s *Store) listUserAchievements(ctx context.Context, userID string) (map[string]userAchievement, error) {
	rows, err := s.pool.Query(ctx, "select code, progress, is_unlocked, unlocked_at from user_achievements where user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]userAchievement)
	for rows.Next() {
		var ua userAchievement
		if err := rows.Scan(&ua.Code, &ua.Progress, &ua.IsUnlocked, &ua.UnlockedAt); err != nil {
			return nil, err
		}
		out[ua.Code] = ua
	}
	return out, rows.Err()
}
