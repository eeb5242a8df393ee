package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gotest.tools/assert"

	"investory/internal/apperr"
	"investory/internal/model"
	"investory/internal/rewards"
	"investory/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// In-memory collaborators. fakeTx embeds pgx.Tx only to satisfy the
// interface; the service never touches it beyond Commit and Rollback because
// the fake stores keep their state in plain maps.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	lastTx *fakeTx
}

func (db *fakeDB) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	db.lastTx = &fakeTx{}
	return db.lastTx, nil
}

type fakeOrderStore struct {
	orders  map[string]model.Order
	created int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]model.Order{}}
}

func (s *fakeOrderStore) Create(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	s.created++
	o.ID = fmt.Sprintf("order-%d", s.created)
	s.orders[o.ID] = *o
	return nil
}

func (s *fakeOrderStore) Get(ctx context.Context, orderID string) (model.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return model.Order{}, apperr.ErrOrderNotFound
	}
	return o, nil
}

func (s *fakeOrderStore) GetForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (model.Order, error) {
	return s.Get(ctx, orderID)
}

func (s *fakeOrderStore) ListByUser(ctx context.Context, userID string, status types.OrderStatus, limit int) ([]model.Order, error) {
	var out []model.Order
	for _, o := range s.orders {
		if o.UserID == userID && (status == "" || o.Status == status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateFill(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	s.orders[o.ID] = *o
	return nil
}

func (s *fakeOrderStore) UpdateCancel(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	s.orders[o.ID] = *o
	return nil
}

func (s *fakeOrderStore) CountExecutedByUser(ctx context.Context, tx pgx.Tx, userID string) (int, error) {
	n := 0
	for _, o := range s.orders {
		if o.UserID == userID && o.FilledQty > 0 {
			n++
		}
	}
	return n, nil
}

type fakeHoldingStore struct {
	holdings map[string]model.Holding
	deleted  []string
	saveErr  error
}

func newFakeHoldingStore() *fakeHoldingStore {
	return &fakeHoldingStore{holdings: map[string]model.Holding{}}
}

func holdingKey(userID, stockID string) string {
	return userID + "/" + stockID
}

func (s *fakeHoldingStore) Get(ctx context.Context, tx pgx.Tx, userID, stockID string) (model.Holding, error) {
	h, ok := s.holdings[holdingKey(userID, stockID)]
	if !ok {
		return model.Holding{}, apperr.ErrHoldingNotFound
	}
	return h, nil
}

func (s *fakeHoldingStore) Save(ctx context.Context, tx pgx.Tx, h *model.Holding) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if h.ID == "" {
		h.ID = holdingKey(h.UserID, h.StockID)
	}
	s.holdings[holdingKey(h.UserID, h.StockID)] = *h
	return nil
}

func (s *fakeHoldingStore) Delete(ctx context.Context, tx pgx.Tx, h *model.Holding) error {
	delete(s.holdings, holdingKey(h.UserID, h.StockID))
	s.deleted = append(s.deleted, h.StockID)
	return nil
}

func (s *fakeHoldingStore) CountByUser(ctx context.Context, tx pgx.Tx, userID string) (int, error) {
	n := 0
	for _, h := range s.holdings {
		if h.UserID == userID && h.Quantity > 0 {
			n++
		}
	}
	return n, nil
}

type fakeStockStore struct {
	stocks map[string]model.Stock
}

func (s *fakeStockStore) GetByCode(ctx context.Context, code string) (model.Stock, error) {
	st, ok := s.stocks[code]
	if !ok {
		return model.Stock{}, apperr.ErrStockNotFound
	}
	return st, nil
}

type fakeRewardService struct {
	experience map[string]int
	unlocked   map[string]int
}

func newFakeRewardService() *fakeRewardService {
	return &fakeRewardService{experience: map[string]int{}, unlocked: map[string]int{}}
}

func (s *fakeRewardService) AddExperienceTx(ctx context.Context, tx pgx.Tx, userID string, amount int) error {
	s.experience[userID] += amount
	return nil
}

func (s *fakeRewardService) CheckAndUnlockTx(ctx context.Context, tx pgx.Tx, userID, code string, progress int) error {
	s.unlocked[code] = progress
	return nil
}

type fixture struct {
	svc      *Service
	db       *fakeDB
	orders   *fakeOrderStore
	holdings *fakeHoldingStore
	rewards  *fakeRewardService
}

func newFixture(t *testing.T, stockList ...model.Stock) *fixture {
	t.Helper()
	f := &fixture{
		db:       &fakeDB{},
		orders:   newFakeOrderStore(),
		holdings: newFakeHoldingStore(),
		rewards:  newFakeRewardService(),
	}
	stockStore := &fakeStockStore{stocks: map[string]model.Stock{}}
	for _, st := range stockList {
		stockStore.stocks[st.Code] = st
	}
	f.svc = NewService(f.db, f.orders, f.holdings, stockStore, f.rewards)
	return f
}

func samsung() model.Stock {
	return model.Stock{
		ID:           "stock-1",
		Code:         "005930",
		Name:         "Samsung Electronics",
		Market:       types.MarketKOSPI,
		CurrentPrice: decimal.NewFromInt(71500),
		IsActive:     true,
	}
}

func seedHolding(f *fixture, userID string, stock model.Stock, qty int64, avgPrice int64) {
	avg := decimal.NewFromInt(avgPrice)
	f.holdings.holdings[holdingKey(userID, stock.ID)] = model.Holding{
		ID:              "holding-1",
		UserID:          userID,
		StockID:         stock.ID,
		Quantity:        qty,
		AveragePrice:    avg,
		TotalInvestment: avg.Mul(decimal.NewFromInt(qty)),
	}
}

func TestMarketBuyCreatesHolding(t *testing.T) {
	f := newFixture(t, samsung())

	order, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeMarket,
		Side:      types.OrderSideBuy,
		Quantity:  10,
	})
	assert.NilError(t, err)

	assert.Equal(t, order.Status, types.OrderStatusFilled)
	assert.Assert(t, order.FilledPrice.Equal(decimal.NewFromInt(71500)))
	assert.Assert(t, order.TotalAmount.Equal(decimal.NewFromInt(715000)))

	holding, err := f.holdings.Get(context.Background(), nil, "user-1", "stock-1")
	assert.NilError(t, err)
	assert.Equal(t, holding.Quantity, int64(10))
	assert.Assert(t, holding.AveragePrice.Equal(decimal.NewFromInt(71500)))
	assert.Assert(t, holding.TotalInvestment.Equal(decimal.NewFromInt(715000)))

	assert.Equal(t, f.rewards.experience["user-1"], fillExperienceReward)
	assert.Equal(t, f.rewards.unlocked[rewards.AchievementFirstTrade], 1)
	assert.Assert(t, f.db.lastTx.committed)
}

func TestMarketBuyAveragesIntoExistingHolding(t *testing.T) {
	stock := samsung()
	f := newFixture(t, stock)
	seedHolding(f, "user-1", stock, 10, 69500)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeMarket,
		Side:      types.OrderSideBuy,
		Quantity:  10,
	})
	assert.NilError(t, err)

	holding, err := f.holdings.Get(context.Background(), nil, "user-1", "stock-1")
	assert.NilError(t, err)
	assert.Equal(t, holding.Quantity, int64(20))
	assert.Assert(t, holding.AveragePrice.Equal(decimal.NewFromInt(70500)))
}

func TestFullSellDeletesHolding(t *testing.T) {
	stock := samsung()
	f := newFixture(t, stock)
	seedHolding(f, "user-1", stock, 10, 70000)

	order, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeMarket,
		Side:      types.OrderSideSell,
		Quantity:  10,
	})
	assert.NilError(t, err)
	assert.Equal(t, order.Status, types.OrderStatusFilled)

	_, err = f.holdings.Get(context.Background(), nil, "user-1", "stock-1")
	assert.Assert(t, errors.Is(err, apperr.ErrHoldingNotFound))
	assert.DeepEqual(t, f.holdings.deleted, []string{"stock-1"})
	assert.Assert(t, f.db.lastTx.committed)
}

func TestSellBeyondHoldingCreatesNoOrder(t *testing.T) {
	stock := samsung()
	f := newFixture(t, stock)
	seedHolding(f, "user-1", stock, 5, 70000)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeMarket,
		Side:      types.OrderSideSell,
		Quantity:  10,
	})
	assert.Assert(t, errors.Is(err, apperr.ErrInsufficientHolding))

	assert.Equal(t, f.orders.created, 0)
	assert.Assert(t, !f.db.lastTx.committed)

	holding, err := f.holdings.Get(context.Background(), nil, "user-1", "stock-1")
	assert.NilError(t, err)
	assert.Equal(t, holding.Quantity, int64(5))
}

func TestSellWithoutHoldingCreatesNoOrder(t *testing.T) {
	f := newFixture(t, samsung())

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeMarket,
		Side:      types.OrderSideSell,
		Quantity:  1,
	})
	assert.Assert(t, errors.Is(err, apperr.ErrHoldingNotFound))
	assert.Equal(t, f.orders.created, 0)
}

func TestLimitOrderStaysPending(t *testing.T) {
	f := newFixture(t, samsung())
	price := decimal.NewFromInt(70000)

	order, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeLimit,
		Side:      types.OrderSideBuy,
		Quantity:  10,
		Price:     &price,
	})
	assert.NilError(t, err)

	assert.Equal(t, order.Status, types.OrderStatusPending)
	assert.Equal(t, len(f.holdings.holdings), 0)
	assert.Equal(t, f.rewards.experience["user-1"], 0)
	assert.Assert(t, f.db.lastTx.committed)
}

func TestExecuteFillsPendingLimitOrder(t *testing.T) {
	f := newFixture(t, samsung())
	price := decimal.NewFromInt(70000)

	created, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeLimit,
		Side:      types.OrderSideBuy,
		Quantity:  10,
		Price:     &price,
	})
	assert.NilError(t, err)

	order, err := f.svc.Execute(context.Background(), created.ID, decimal.NewFromInt(69800), 10)
	assert.NilError(t, err)
	assert.Equal(t, order.Status, types.OrderStatusFilled)

	holding, err := f.holdings.Get(context.Background(), nil, "user-1", "stock-1")
	assert.NilError(t, err)
	assert.Assert(t, holding.AveragePrice.Equal(decimal.NewFromInt(69800)))
}

func TestFillRollsBackWhenHoldingSaveFails(t *testing.T) {
	f := newFixture(t, samsung())
	f.holdings.saveErr = errors.New("storage unavailable")

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeMarket,
		Side:      types.OrderSideBuy,
		Quantity:  10,
	})
	assert.ErrorContains(t, err, "storage unavailable")

	assert.Assert(t, !f.db.lastTx.committed)
	assert.Assert(t, f.db.lastTx.rolledBack)
	assert.Equal(t, f.rewards.experience["user-1"], 0)
}

func TestCancelPendingOrder(t *testing.T) {
	f := newFixture(t, samsung())
	price := decimal.NewFromInt(70000)

	created, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    "user-1",
		StockCode: "005930",
		Type:      types.OrderTypeLimit,
		Side:      types.OrderSideBuy,
		Quantity:  10,
		Price:     &price,
	})
	assert.NilError(t, err)

	order, err := f.svc.CancelOrder(context.Background(), "user-1", created.ID, "changed my mind")
	assert.NilError(t, err)
	assert.Equal(t, order.Status, types.OrderStatusCancelled)

	_, err = f.svc.CancelOrder(context.Background(), "user-2", created.ID, "")
	assert.Assert(t, errors.Is(err, apperr.ErrAccessDenied))
}
