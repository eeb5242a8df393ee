// Package holdings persists the per-(user, stock) weighted-average-cost
// ledger. All writes are compare-and-swapped on a version counter; a lost
// race surfaces as a Conflict error and the caller retries.
package holdings

import (
	"context"
	"errors"
	"time"

	"investory/internal/apperr"
	"investory/internal/model"
	"investory/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const holdingColumns = "id, user_id, stock_id, quantity, average_price, total_investment, version, created_at, updated_at"

func scanHolding(row pgx.Row) (model.Holding, error) {
	var h model.Holding
	err := row.Scan(&h.ID, &h.UserID, &h.StockID, &h.Quantity, &h.AveragePrice, &h.TotalInvestment, &h.Version, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// Get loads the holding for a user/stock pair inside tx. Absence is
// apperr.ErrHoldingNotFound.
func (s *Store) Get(ctx context.Context, tx pgx.Tx, userID, stockID string) (model.Holding, error) {
	row := tx.QueryRow(ctx, "select "+holdingColumns+" from holdings where user_id = $1 and stock_id = $2", userID, stockID)
	h, err := scanHolding(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return h, apperr.ErrHoldingNotFound
	}
	return h, err
}

// Save inserts a new holding (ID empty) or compare-and-swaps an existing one
// on its version. A version mismatch returns apperr.ErrVersionConflict.
func (s *Store) Save(ctx context.Context, tx pgx.Tx, h *model.Holding) error {
	now := time.Now().UTC()
	if h.ID == "" {
		err := tx.QueryRow(ctx, `
			insert into holdings (user_id, stock_id, quantity, average_price, total_investment, version, created_at, updated_at)
			values ($1, $2, $3, $4, $5, 1, $6, $6)
			returning id
		`, h.UserID, h.StockID, h.Quantity, h.AveragePrice, h.TotalInvestment, now).Scan(&h.ID)
		if err != nil {
			return err
		}
		h.Version = 1
		h.CreatedAt = now
		h.UpdatedAt = now
		return nil
	}
	tag, err := tx.Exec(ctx, `
		update holdings
		set quantity = $1, average_price = $2, total_investment = $3, version = version + 1, updated_at = $4
		where id = $5 and version = $6
	`, h.Quantity, h.AveragePrice, h.TotalInvestment, now, h.ID, h.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrVersionConflict
	}
	h.Version++
	h.UpdatedAt = now
	return nil
}

// Delete removes a fully sold position. Version-checked like Save.
func (s *Store) Delete(ctx context.Context, tx pgx.Tx, h *model.Holding) error {
	tag, err := tx.Exec(ctx, "delete from holdings where id = $1 and version = $2", h.ID, h.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrVersionConflict
	}
	return nil
}

// CountByUser counts distinct held stocks, feeding the diversification
// achievement.
func (s *Store) CountByUser(ctx context.Context, tx pgx.Tx, userID string) (int, error) {
	var n int
	err := tx.QueryRow(ctx, "select count(*) from holdings where user_id = $1 and quantity > 0", userID).Scan(&n)
	return n, err
}

// Position is a holding joined with its stock, the read shape portfolio
// valuation works over.
type Position struct {
	Holding model.Holding
	Stock   model.Stock
}

// ListPositions returns a user's holdings with their stocks, optionally
// limited to the given markets.
func (s *Store) ListPositions(ctx context.Context, userID string, markets []types.Market) ([]Position, error) {
	query := `
		select h.id, h.user_id, h.stock_id, h.quantity, h.average_price, h.total_investment, h.version, h.created_at, h.updated_at,
		       s.id, s.code, s.name, s.english_name, s.market, s.sector, s.current_price, s.previous_close, s.change_amount, s.change_rate, s.volume, s.is_active, s.updated_at
		from holdings h
		join stocks s on s.id = h.stock_id
		where h.user_id = $1
	`
	args := []any{userID}
	if len(markets) > 0 {
		query += " and s.market = any($2)"
		names := make([]string, 0, len(markets))
		for _, m := range markets {
			names = append(names, string(m))
		}
		args = append(args, names)
	}
	query += " order by s.code"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Position
	for rows.Next() {
		var p Position
		var market string
		err := rows.Scan(
			&p.Holding.ID, &p.Holding.UserID, &p.Holding.StockID, &p.Holding.Quantity, &p.Holding.AveragePrice, &p.Holding.TotalInvestment, &p.Holding.Version, &p.Holding.CreatedAt, &p.Holding.UpdatedAt,
			&p.Stock.ID, &p.Stock.Code, &p.Stock.Name, &p.Stock.EnglishName, &market, &p.Stock.Sector, &p.Stock.CurrentPrice, &p.Stock.PreviousClose, &p.Stock.ChangeAmount, &p.Stock.ChangeRate, &p.Stock.Volume, &p.Stock.IsActive, &p.Stock.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.Stock.Market = types.Market(market)
		out = append(out, p)
	}
	return out, rows.Err()
}
