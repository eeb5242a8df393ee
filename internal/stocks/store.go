package stocks

import (
	"context"
	"errors"
	"time"

	"investory/internal/apperr"
	"investory/internal/model"
	"investory/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const stockColumns = "id, code, name, english_name, market, sector, current_price, previous_close, change_amount, change_rate, volume, is_active, updated_at"

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanStock(row pgx.Row) (model.Stock, error) {
	var s model.Stock
	var market string
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.EnglishName, &market, &s.Sector, &s.CurrentPrice, &s.PreviousClose, &s.ChangeAmount, &s.ChangeRate, &s.Volume, &s.IsActive, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.Market = types.Market(market)
	return s, nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (model.Stock, error) {
	row := s.pool.QueryRow(ctx, "select "+stockColumns+" from stocks where code = $1 and is_active", code)
	stock, err := scanStock(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return stock, apperr.ErrStockNotFound
	}
	return stock, err
}

func (s *Store) List(ctx context.Context, market types.Market) ([]model.Stock, error) {
	query := "select " + stockColumns + " from stocks where is_active"
	args := []any{}
	if market != "" {
		query += " and market = $1"
		args = append(args, string(market))
	}
	query += " order by code"
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Stock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, stock)
	}
	return out, rows.Err()
}

// Search matches the keyword against code, name and english name,
// case-insensitively.
func (s *Store) Search(ctx context.Context, keyword string, limit int) ([]model.Stock, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pattern := "%" + keyword + "%"
	rows, err := s.pool.Query(ctx,
		"select "+stockColumns+" from stocks where is_active and (code ilike $1 or name ilike $1 or english_name ilike $1) order by code limit $2",
		pattern, limit)
	if err != nil {
		return nil, err
	}
	return collectStocks(rows)
}

// ListTop ranks the universe by the requested criterion. Unknown criteria
// fall back to volume, like the original ranking endpoint.
func (s *Store) ListTop(ctx context.Context, criterion string, limit int) ([]model.Stock, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var query string
	switch criterion {
	case "gainers":
		query = "select " + stockColumns + " from stocks where is_active and change_rate > 0 order by change_rate desc limit $1"
	case "losers":
		query = "select " + stockColumns + " from stocks where is_active and change_rate < 0 order by change_rate asc limit $1"
	default:
		query = "select " + stockColumns + " from stocks where is_active order by volume desc limit $1"
	}
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectStocks(rows)
}

func (s *Store) Sectors(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "select distinct sector from stocks where is_active and sector <> '' order by sector")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var sector string
		if err := rows.Scan(&sector); err != nil {
			return nil, err
		}
		out = append(out, sector)
	}
	return out, rows.Err()
}

func (s *Store) ListBySector(ctx context.Context, sector string) ([]model.Stock, error) {
	rows, err := s.pool.Query(ctx, "select "+stockColumns+" from stocks where is_active and sector = $1 order by code", sector)
	if err != nil {
		return nil, err
	}
	return collectStocks(rows)
}

func collectStocks(rows pgx.Rows) ([]model.Stock, error) {
	defer rows.Close()
	var out []model.Stock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, stock)
	}
	return out, rows.Err()
}

// UpdatePrice applies a new reference price, rolling the old one into
// previous close. Runs in its own short transaction; order and valuation
// reads tolerate the price moving between their own reads.
func (s *Store) UpdatePrice(ctx context.Context, code string, newPrice decimal.Decimal) (model.Stock, error) {
	if newPrice.LessThanOrEqual(decimal.Zero) {
		return model.Stock{}, apperr.ErrInvalidOrderPrice
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Stock{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, "select "+stockColumns+" from stocks where code = $1 for update", code)
	stock, err := scanStock(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return stock, apperr.ErrStockNotFound
	}
	if err != nil {
		return stock, err
	}
	stock.UpdatePrice(newPrice)
	stock.UpdatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, "update stocks set current_price = $1, previous_close = $2, change_amount = $3, change_rate = $4, updated_at = $5 where id = $6",
		stock.CurrentPrice, stock.PreviousClose, stock.ChangeAmount, stock.ChangeRate, stock.UpdatedAt, stock.ID)
	if err != nil {
		return stock, err
	}
	return stock, tx.Commit(ctx)
}
