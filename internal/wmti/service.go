package wmti

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"investory/internal/apperr"
	"investory/internal/rewards"
)

// Completing the assessment grants a one-off experience bonus.
const completionExperienceReward = 100

var errNotCompleted = apperr.New(apperr.KindInvalidInput, "investment personality test not completed")

type Result struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ResultType     string    `json:"result_type"`
	Scores         Scores    `json:"scores"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

type Service struct {
	pool    *pgxpool.Pool
	rewards *rewards.Service
}

func NewService(pool *pgxpool.Pool, rw *rewards.Service) *Service {
	return &Service{pool: pool, rewards: rw}
}

// Submit scores the answers, records the result, stamps the user's type and
// grants the completion experience in one transaction. Retaking the test
// appends a new result row; the user's type always reflects the latest run.
func (s *Service) Submit(ctx context.Context, userID string, answers []Answer) (Result, error) {
	if len(answers) == 0 {
		return Result{}, apperr.New(apperr.KindInvalidInput, "answers are required")
	}
	for _, a := range answers {
		if a.OptionID < 1 || a.OptionID > 5 {
			return Result{}, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("question %d: option out of range", a.QuestionID))
		}
	}

	scores, resultType := Score(answers)
	rawAnswers, err := json.Marshal(answers)
	if err != nil {
		return Result{}, fmt.Errorf("encode answers: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return Result{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	res := Result{
		UserID:         userID,
		ResultType:     resultType,
		Scores:         scores,
		Description:    description(resultType),
		Recommendation: recommendation(resultType),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO wmti_results (user_id, result_type, stability_score, growth_score, risk_score, income_score, answers, description, recommendation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		userID, res.ResultType, scores.Stability, scores.Growth, scores.Risk, scores.Income,
		rawAnswers, res.Description, res.Recommendation,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return Result{}, fmt.Errorf("insert wmti result: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE users SET wmti_type = $1 WHERE id = $2`, resultType, userID)
	if err != nil {
		return Result{}, fmt.Errorf("update user type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Result{}, apperr.ErrUserNotFound
	}

	if err := s.rewards.AddExperienceTx(ctx, tx, userID, completionExperienceReward); err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit tx: %w", err)
	}
	return res, nil
}

// Latest returns the user's most recent result.
func (s *Service) Latest(ctx context.Context, userID string) (Result, error) {
	row := s.pool.QueryRow(ctx, resultQuery+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
	res, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, errNotCompleted
	}
	return res, err
}

// History returns every result for the user, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]Result, error) {
	rows, err := s.pool.Query(ctx, resultQuery+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query wmti results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

const resultQuery = `
	SELECT id, user_id, result_type, stability_score, growth_score, risk_score, income_score, description, recommendation, created_at
	FROM wmti_results`

func scanResult(row pgx.Row) (Result, error) {
	var res Result
	err := row.Scan(
		&res.ID, &res.UserID, &res.ResultType,
		&res.Scores.Stability, &res.Scores.Growth, &res.Scores.Risk, &res.Scores.Income,
		&res.Description, &res.Recommendation, &res.CreatedAt,
	)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
