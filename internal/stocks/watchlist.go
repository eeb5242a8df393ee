package stocks

import (
	"context"
	"time"

	"investory/internal/apperr"
	"investory/internal/model"
	"investory/internal/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultWatchlistGroup is the group a stock lands in when the caller names
// none.
const DefaultWatchlistGroup = "default"

// WatchlistItem is a favorited stock with its grouping and position.
type WatchlistItem struct {
	ID        string      `json:"id"`
	GroupName string      `json:"group_name"`
	SortOrder int         `json:"sort_order"`
	Stock     model.Stock `json:"stock"`
	CreatedAt time.Time   `json:"created_at"`
}

// WatchlistStore persists per-user favorite stocks. A (user, stock) pair
// appears at most once across all groups.
type WatchlistStore struct {
	pool   *pgxpool.Pool
	stocks *Store
}

func NewWatchlistStore(pool *pgxpool.Pool, stocks *Store) *WatchlistStore {
	return &WatchlistStore{pool: pool, stocks: stocks}
}

const watchlistColumns = "w.id, w.group_name, w.sort_order, w.created_at, " +
	"s.id, s.code, s.name, s.english_name, s.market, s.sector, s.current_price, s.previous_close, s.change_amount, s.change_rate, s.volume, s.is_active, s.updated_at"

func (s *WatchlistStore) list(ctx context.Context, query string, args ...any) ([]WatchlistItem, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WatchlistItem
	for rows.Next() {
		var item WatchlistItem
		var market string
		err := rows.Scan(
			&item.ID, &item.GroupName, &item.SortOrder, &item.CreatedAt,
			&item.Stock.ID, &item.Stock.Code, &item.Stock.Name, &item.Stock.EnglishName, &market, &item.Stock.Sector,
			&item.Stock.CurrentPrice, &item.Stock.PreviousClose, &item.Stock.ChangeAmount, &item.Stock.ChangeRate,
			&item.Stock.Volume, &item.Stock.IsActive, &item.Stock.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		item.Stock.Market = types.Market(market)
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *WatchlistStore) List(ctx context.Context, userID string) ([]WatchlistItem, error) {
	return s.list(ctx, "select "+watchlistColumns+" from watchlists w join stocks s on s.id = w.stock_id where w.user_id = $1 order by w.sort_order", userID)
}

func (s *WatchlistStore) ListByGroup(ctx context.Context, userID, group string) ([]WatchlistItem, error) {
	return s.list(ctx, "select "+watchlistColumns+" from watchlists w join stocks s on s.id = w.stock_id where w.user_id = $1 and w.group_name = $2 order by w.sort_order", userID, group)
}

func (s *WatchlistStore) Groups(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, "select distinct group_name from watchlists where user_id = $1 order by group_name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Add favorites a stock. Adding a stock twice is a conflict regardless of
// group; sort order appends at the end of the user's list.
func (s *WatchlistStore) Add(ctx context.Context, userID, stockCode, group string) (WatchlistItem, error) {
	if group == "" {
		group = DefaultWatchlistGroup
	}
	stock, err := s.stocks.GetByCode(ctx, stockCode)
	if err != nil {
		return WatchlistItem{}, err
	}
	exists, err := s.Contains(ctx, userID, stockCode)
	if err != nil {
		return WatchlistItem{}, err
	}
	if exists {
		return WatchlistItem{}, apperr.New(apperr.KindConflict, "stock already in watchlist")
	}
	var count int
	if err := s.pool.QueryRow(ctx, "select count(*) from watchlists where user_id = $1", userID).Scan(&count); err != nil {
		return WatchlistItem{}, err
	}
	item := WatchlistItem{GroupName: group, SortOrder: count, Stock: stock, CreatedAt: time.Now().UTC()}
	err = s.pool.QueryRow(ctx, `
		insert into watchlists (user_id, stock_id, group_name, sort_order, created_at)
		values ($1, $2, $3, $4, $5)
		returning id
	`, userID, stock.ID, group, count, item.CreatedAt).Scan(&item.ID)
	if err != nil {
		return WatchlistItem{}, err
	}
	return item, nil
}

func (s *WatchlistStore) Remove(ctx context.Context, userID, stockCode string) error {
	stock, err := s.stocks.GetByCode(ctx, stockCode)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, "delete from watchlists where user_id = $1 and stock_id = $2", userID, stock.ID)
	return err
}

func (s *WatchlistStore) Contains(ctx context.Context, userID, stockCode string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "select exists(select 1 from watchlists w join stocks s on s.id = w.stock_id where w.user_id = $1 and s.code = $2)", userID, stockCode).Scan(&exists)
	return exists, err
}
