package orders

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

const orderColumns = "o.id, o.user_id, o.stock_id, s.code, o.type, o.side, o.status, o.quantity, o.filled_quantity, o.price, o.filled_price, o.total_amount, o.created_at, o.filled_at, o.cancelled_at, coalesce(o.cancel_reason, '')"

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	var typ, side, status string
	err := row.Scan(&o.ID, &o.UserID, &o.StockID, &o.StockCode, &typ, &side, &status, &o.Quantity, &o.FilledQty, &o.Price, &o.FilledPrice, &o.TotalAmount, &o.CreatedAt, &o.FilledAt, &o.CancelledAt, &o.CancelReason)
	if err != nil {
		return o, err
	}
	o.Type = types.OrderType(typ)
	o.Side = types.OrderSide(side)
	o.Status = types.OrderStatus(status)
	return o, nil
}

func (s *Store) Create(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	now := time.Now().UTC()
	err := tx.QueryRow(ctx, `
		insert into orders (user_id, stock_id, type, side, status, quantity, filled_quantity, price, created_at)
		values ($1, $2, $3, $4, $5, $6, 0, $7, $8)
		returning id
	`, o.UserID, o.StockID, string(o.Type), string(o.Side), string(o.Status), o.Quantity, o.Price, now).Scan(&o.ID)
	if err != nil {
		return err
	}
	o.CreatedAt = now
	return nil
}

// GetForUpdate locks the order row for the lifetime of tx.
func (s *Store) GetForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (model.Order, error) {
	row := tx.QueryRow(ctx, "select "+orderColumns+" from orders o join stocks s on s.id = o.stock_id where o.id = $1 for update of o", orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, apperr.ErrOrderNotFound
	}
	return o, err
}

func (s *Store) Get(ctx context.Context, orderID string) (model.Order, error) {
	row := s.pool.QueryRow(ctx, "select "+orderColumns+" from orders o join stocks s on s.id = o.stock_id where o.id = $1", orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, apperr.ErrOrderNotFound
	}
	return o, err
}

func (s *Store) ListByUser(ctx context.Context, userID string, status types.OrderStatus, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows pgx.Rows
	var err error
	if status == "" {
		rows, err = s.pool.Query(ctx, "select "+orderColumns+" from orders o join stocks s on s.id = o.stock_id where o.user_id = $1 order by o.created_at desc limit $2", userID, limit)
	} else {
		rows, err = s.pool.Query(ctx, "select "+orderColumns+" from orders o join stocks s on s.id = o.stock_id where o.user_id = $1 and o.status = $2 order by o.created_at desc limit $3", userID, string(status), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) UpdateFill(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	_, err := tx.Exec(ctx, `
		update orders
		set status = $1, filled_quantity = $2, filled_price = $3, total_amount = $4, filled_at = $5
		where id = $6
	`, string(o.Status), o.FilledQty, o.FilledPrice, o.TotalAmount, o.FilledAt, o.ID)
	return err
}

func (s *Store) UpdateCancel(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	_, err := tx.Exec(ctx, `
		update orders
		set status = $1, cancelled_at = $2, cancel_reason = $3
		where id = $4
	`, string(o.Status), o.CancelledAt, o.CancelReason, o.ID)
	return err
}

// CountExecutedByUser counts orders that have received at least one fill,
// feeding trade-count achievements.
func (s *Store) CountExecutedByUser(ctx context.Context, tx pgx.Tx, userID string) (int, error) {
	var n int
	err := tx.QueryRow(ctx, "select count(*) from orders where user_id = $1 and filled_quantity > 0", userID).Scan(&n)
	return n, err
}
