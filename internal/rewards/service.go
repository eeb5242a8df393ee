package rewards

import (
	"context"
	"errors"
	"log"
	"time"

	"investory/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	pool  *pgxpool.Pool
	store *Store
}

func NewService(pool *pgxpool.Pool, store *Store) *Service {
	return &Service{pool: pool, store: store}
}

// AddExperienceTx grants experience inside the caller's transaction, so a
// fill and its reward commit or roll back together. Negative amounts are
// rejected; level is always rederived from the new experience total.
func (s *Service) AddExperienceTx(ctx context.Context, tx pgx.Tx, userID string, amount int) error {
	if amount < 0 {
		return apperr.New(apperr.KindInvalidInput, "experience amount must not be negative")
	}
	p, err := s.store.getProgression(ctx, tx, userID)
	if err != nil {
		return err
	}
	p.Experience += amount
	p.Level = LevelForExperience(p.Experience)
	return s.store.updateProgression(ctx, tx, p)
}

// AddExperience is the standalone variant for activity events that arrive
// outside an order transaction.
func (s *Service) AddExperience(ctx context.Context, userID string, amount int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := s.AddExperienceTx(ctx, tx, userID, amount); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CheckAndUnlockTx records achievement progress and, once the definition's
// threshold is met, unlocks it and grants its experience reward. Unlocking is
// one-shot; later reports are ignored. Unknown codes are ignored too.
func (s *Service) CheckAndUnlockTx(ctx context.Context, tx pgx.Tx, userID, code string, progress int) error {
	def, ok := AchievementByCode(code)
	if !ok {
		return nil
	}
	ua, _, err := s.store.getUserAchievement(ctx, tx, userID, code)
	if err != nil {
		return err
	}
	if ua.IsUnlocked {
		return nil
	}
	if progress > ua.Progress {
		ua.Progress = progress
	}
	if def.MaxProgress == 0 || ua.Progress >= def.MaxProgress {
		now := time.Now().UTC()
		ua.IsUnlocked = true
		ua.UnlockedAt = &now
		if err := s.AddExperienceTx(ctx, tx, userID, def.ExpReward); err != nil {
			return err
		}
		log.Printf("achievement unlocked: user=%s code=%s (+%d exp)", userID, code, def.ExpReward)
	}
	return s.store.upsertUserAchievement(ctx, tx, userID, ua)
}

type LevelInfo struct {
	Level           int     `json:"level"`
	Title           string  `json:"title"`
	CurrentExp      int     `json:"current_exp"`
	RequiredExp     int     `json:"required_exp"`
	ExpToNextLevel  int     `json:"exp_to_next_level"`
	ProgressPercent float64 `json:"progress_percent"`
	Tiers           []Tier  `json:"tiers"`
}

func (s *Service) GetLevelInfo(ctx context.Context, userID string) (LevelInfo, error) {
	var level, exp int
	err := s.pool.QueryRow(ctx, "select level, experience from users where id = $1", userID).Scan(&level, &exp)
	if errors.Is(err, pgx.ErrNoRows) {
		return LevelInfo{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return LevelInfo{}, err
	}
	return NewLevelInfo(level, exp), nil
}

func NewLevelInfo(level, exp int) LevelInfo {
	required := RequiredExpForLevel(level)
	prev := 0
	if level > 1 {
		prev = RequiredExpForLevel(level - 1)
	}
	toNext := required - exp
	if toNext < 0 {
		toNext = 0
	}
	progress := float64(exp-prev) / float64(required-prev) * 100
	if progress > 100 {
		progress = 100
	}
	return LevelInfo{
		Level:           level,
		Title:           TitleForLevel(level),
		CurrentExp:      exp,
		RequiredExp:     required,
		ExpToNextLevel:  toNext,
		ProgressPercent: progress,
		Tiers:           LevelTiers(),
	}
}

type AchievementItem struct {
	Achievement
	CurrentProgress int        `json:"current_progress"`
	IsUnlocked      bool       `json:"is_unlocked"`
	UnlockedAt      *time.Time `json:"unlocked_at,omitempty"`
}

type AchievementSummary struct {
	TotalCount     int               `json:"total_count"`
	UnlockedCount  int               `json:"unlocked_count"`
	TotalExpEarned int               `json:"total_exp_earned"`
	Achievements   []AchievementItem `json:"achievements"`
}

// GetAchievements merges the fixed definition table with the user's recorded
// progress; definitions without a row show zero progress.
func (s *Service) GetAchievements(ctx context.Context, userID string) (AchievementSummary, error) {
	recorded, err := s.store.listUserAchievements(ctx, userID)
	if err != nil {
		return AchievementSummary{}, err
	}
	summary := AchievementSummary{TotalCount: len(achievementDefs)}
	for _, def := range Achievements() {
		item := AchievementItem{Achievement: def}
		if ua, ok := recorded[def.Code]; ok {
			item.CurrentProgress = ua.Progress
			item.IsUnlocked = ua.IsUnlocked
			item.UnlockedAt = ua.UnlockedAt
		}
		if item.IsUnlocked {
			summary.UnlockedCount++
			summary.TotalExpEarned += def.ExpReward
		}
		summary.Achievements = append(summary.Achievements, item)
	}
	return summary, nil
}
