package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"investory/internal/apperr"
	"investory/internal/model"
	"investory/internal/rewards"
	"investory/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Every executed order grants the same flat experience reward, regardless of
// side or size.
const fillExperienceReward = 20

// The service talks to its collaborators through narrow interfaces so the
// trading scenarios can run against in-memory stores. The pgx-backed stores
// and *pgxpool.Pool satisfy them directly.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type orderStore interface {
	Create(ctx context.Context, tx pgx.Tx, o *model.Order) error
	Get(ctx context.Context, orderID string) (model.Order, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (model.Order, error)
	ListByUser(ctx context.Context, userID string, status types.OrderStatus, limit int) ([]model.Order, error)
	UpdateFill(ctx context.Context, tx pgx.Tx, o *model.Order) error
	UpdateCancel(ctx context.Context, tx pgx.Tx, o *model.Order) error
	CountExecutedByUser(ctx context.Context, tx pgx.Tx, userID string) (int, error)
}

type holdingLedger interface {
	Get(ctx context.Context, tx pgx.Tx, userID, stockID string) (model.Holding, error)
	Save(ctx context.Context, tx pgx.Tx, h *model.Holding) error
	Delete(ctx context.Context, tx pgx.Tx, h *model.Holding) error
	CountByUser(ctx context.Context, tx pgx.Tx, userID string) (int, error)
}

type stockGetter interface {
	GetByCode(ctx context.Context, code string) (model.Stock, error)
}

type rewarder interface {
	AddExperienceTx(ctx context.Context, tx pgx.Tx, userID string, amount int) error
	CheckAndUnlockTx(ctx context.Context, tx pgx.Tx, userID, code string, progress int) error
}

type Service struct {
	pool     txBeginner
	store    orderStore
	holdings holdingLedger
	stocks   stockGetter
	rewards  rewarder
}

func NewService(pool txBeginner, store orderStore, holdingStore holdingLedger, stockStore stockGetter, rewardSvc rewarder) *Service {
	return &Service{pool: pool, store: store, holdings: holdingStore, stocks: stockStore, rewards: rewardSvc}
}

type CreateOrderRequest struct {
	UserID    string
	StockCode string
	Type      types.OrderType
	Side      types.OrderSide
	Quantity  int64
	Price     *decimal.Decimal
}

// CreateOrder validates the intent, persists a pending order and, for market
// orders, executes it in the same transaction against the current reference
// price. No mutation happens before all preconditions pass.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (model.Order, error) {
	if !req.Side.Valid() {
		return model.Order{}, apperr.New(apperr.KindInvalidInput, "invalid side")
	}
	if !req.Type.Valid() {
		return model.Order{}, apperr.New(apperr.KindInvalidInput, "invalid type")
	}
	if req.Quantity < 1 {
		return model.Order{}, apperr.New(apperr.KindInvalidInput, "quantity must be at least 1")
	}
	if req.Type == types.OrderTypeLimit && req.Price == nil {
		return model.Order{}, apperr.New(apperr.KindInvalidInput, "price required for limit order")
	}

	stock, err := s.stocks.GetByCode(ctx, req.StockCode)
	if err != nil {
		return model.Order{}, err
	}

	orderPrice := resolveOrderPrice(req.Type, req.Price, stock)
	if orderPrice == nil || orderPrice.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, apperr.ErrInvalidOrderPrice
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback(ctx)

	if req.Side == types.OrderSideSell {
		holding, err := s.holdings.Get(ctx, tx, req.UserID, stock.ID)
		if err != nil {
			return model.Order{}, err
		}
		if holding.Quantity < req.Quantity {
			return model.Order{}, apperr.ErrInsufficientHolding
		}
	}

	order := model.Order{
		UserID:    req.UserID,
		StockID:   stock.ID,
		StockCode: stock.Code,
		Type:      req.Type,
		Side:      req.Side,
		Status:    types.OrderStatusPending,
		Quantity:  req.Quantity,
		Price:     orderPrice,
	}
	if err := s.store.Create(ctx, tx, &order); err != nil {
		return model.Order{}, err
	}
	log.Printf("order created: user=%s %s %s %s qty=%d @%s", req.UserID, stock.Code, order.Side, order.Type, order.Quantity, orderPrice.String())

	// Market orders self-execute in full; there is no resting book.
	if req.Type == types.OrderTypeMarket {
		if err := s.executeTx(ctx, tx, &order, *orderPrice, order.Quantity); err != nil {
			return model.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func resolveOrderPrice(typ types.OrderType, requested *decimal.Decimal, stock model.Stock) *decimal.Decimal {
	if typ == types.OrderTypeMarket {
		p := stock.CurrentPrice
		return &p
	}
	return requested
}

// Execute applies a fill to a pending or partially filled order. It is the
// path limit orders take when the surrounding application decides they have
// matched; market orders go through it inside CreateOrder.
func (s *Service) Execute(ctx context.Context, orderID string, executionPrice decimal.Decimal, executedQty int64) (model.Order, error) {
	if executionPrice.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, apperr.ErrInvalidOrderPrice
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback(ctx)

	order, err := s.store.GetForUpdate(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if executedQty <= 0 || executedQty > order.RemainingQty() {
		return model.Order{}, apperr.New(apperr.KindInvalidInput, "executed quantity exceeds remaining quantity")
	}
	if err := s.executeTx(ctx, tx, &order, executionPrice, executedQty); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// executeTx performs the fill, the paired holding mutation and the
// progression grant inside one transaction, so they land all-or-nothing.
func (s *Service) executeTx(ctx context.Context, tx pgx.Tx, order *model.Order, executionPrice decimal.Decimal, executedQty int64) error {
	if err := order.Fill(executionPrice, executedQty, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.store.UpdateFill(ctx, tx, order); err != nil {
		return err
	}

	if order.Side == types.OrderSideBuy {
		holding, err := s.holdings.Get(ctx, tx, order.UserID, order.StockID)
		if err != nil {
			if !errors.Is(err, apperr.ErrHoldingNotFound) {
				return err
			}
			holding = model.Holding{UserID: order.UserID, StockID: order.StockID, AveragePrice: decimal.Zero, TotalInvestment: decimal.Zero}
		}
		if err := holding.Add(executedQty, executionPrice); err != nil {
			return err
		}
		if err := s.holdings.Save(ctx, tx, &holding); err != nil {
			return err
		}
	} else {
		holding, err := s.holdings.Get(ctx, tx, order.UserID, order.StockID)
		if err != nil {
			return err
		}
		if err := holding.Reduce(executedQty); err != nil {
			return err
		}
		if holding.Quantity == 0 {
			if err := s.holdings.Delete(ctx, tx, &holding); err != nil {
				return err
			}
		} else if err := s.holdings.Save(ctx, tx, &holding); err != nil {
			return err
		}
	}

	if err := s.rewards.AddExperienceTx(ctx, tx, order.UserID, fillExperienceReward); err != nil {
		return err
	}
	if err := s.reportAchievements(ctx, tx, order.UserID); err != nil {
		return err
	}

	log.Printf("order executed: user=%s %s %s qty=%d @%s", order.UserID, order.StockCode, order.Side, executedQty, executionPrice.String())
	return nil
}

func (s *Service) reportAchievements(ctx context.Context, tx pgx.Tx, userID string) error {
	trades, err := s.store.CountExecutedByUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	if err := s.rewards.CheckAndUnlockTx(ctx, tx, userID, rewards.AchievementFirstTrade, trades); err != nil {
		return err
	}
	if err := s.rewards.CheckAndUnlockTx(ctx, tx, userID, rewards.AchievementTradeTen, trades); err != nil {
		return err
	}
	held, err := s.holdings.CountByUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	return s.rewards.CheckAndUnlockTx(ctx, tx, userID, rewards.AchievementDiversify, held)
}

// CancelOrder cancels a pending order owned by userID. Any other state, or
// another user's order, fails without mutation.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID, reason string) (model.Order, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback(ctx)

	order, err := s.store.GetForUpdate(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.UserID != userID {
		return model.Order{}, apperr.ErrAccessDenied
	}
	if err := order.Cancel(reason, time.Now().UTC()); err != nil {
		return model.Order{}, err
	}
	if err := s.store.UpdateCancel(ctx, tx, &order); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, err
	}
	log.Printf("order cancelled: user=%s order=%s reason=%q", userID, orderID, order.CancelReason)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (model.Order, error) {
	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.UserID != userID {
		return model.Order{}, apperr.ErrAccessDenied
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string, status types.OrderStatus, limit int) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid status filter")
	}
	return s.store.ListByUser(ctx, userID, status, limit)
}
