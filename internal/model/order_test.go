package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gotest.tools/assert"

	"investory/internal/apperr"
	"investory/internal/model"
	"investory/internal/types"
)

func newPendingOrder(qty int64) model.Order {
	price := decimal.NewFromInt(70000)
	return model.Order{
		ID:       "o-1",
		UserID:   "u-1",
		StockID:  "s-1",
		Type:     types.OrderTypeLimit,
		Side:     types.OrderSideBuy,
		Status:   types.OrderStatusPending,
		Quantity: qty,
		Price:    &price,
	}
}

func TestOrderFill_PartialThenComplete(t *testing.T) {
	o := newPendingOrder(10)
	now := time.Now()

	err := o.Fill(decimal.NewFromInt(100), 4, now)
	assert.NilError(t, err)
	assert.Equal(t, o.Status, types.OrderStatusPartiallyFilled)
	assert.Equal(t, o.FilledQty, int64(4))
	assert.Assert(t, o.FilledPrice.Equal(decimal.NewFromInt(100)))
	assert.Assert(t, o.TotalAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, o.RemainingQty(), int64(6))

	err = o.Fill(decimal.NewFromInt(110), 6, now)
	assert.NilError(t, err)
	assert.Equal(t, o.Status, types.OrderStatusFilled)
	assert.Equal(t, o.FilledQty, int64(10))
	// latest fill overwrites, it does not accumulate
	assert.Assert(t, o.FilledPrice.Equal(decimal.NewFromInt(110)))
	assert.Assert(t, o.TotalAmount.Equal(decimal.NewFromInt(660)))
	assert.Assert(t, o.FilledAt != nil)
}

func TestOrderFill_FullMarketFill(t *testing.T) {
	o := newPendingOrder(10)
	now := time.Now()

	err := o.Fill(decimal.NewFromInt(71500), 10, now)
	assert.NilError(t, err)
	assert.Equal(t, o.Status, types.OrderStatusFilled)
	assert.Assert(t, o.TotalAmount.Equal(decimal.NewFromInt(715000)))
	assert.Equal(t, o.RemainingQty(), int64(0))
}

func TestOrderFill_TerminalState(t *testing.T) {
	now := time.Now()

	o := newPendingOrder(5)
	assert.NilError(t, o.Fill(decimal.NewFromInt(100), 5, now))
	err := o.Fill(decimal.NewFromInt(100), 1, now)
	assert.Assert(t, apperr.IsKind(err, apperr.KindConflict))

	cancelled := newPendingOrder(5)
	assert.NilError(t, cancelled.Cancel("", now))
	err = cancelled.Fill(decimal.NewFromInt(100), 1, now)
	assert.Assert(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestOrderFill_QuantityBounds(t *testing.T) {
	now := time.Now()
	o := newPendingOrder(10)
	assert.NilError(t, o.Fill(decimal.NewFromInt(100), 8, now))

	err := o.Fill(decimal.NewFromInt(100), 5, now)
	assert.Assert(t, apperr.IsKind(err, apperr.KindInvalidInput))
	assert.Equal(t, o.FilledQty, int64(8))

	err = o.Fill(decimal.NewFromInt(100), 0, now)
	assert.Assert(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestOrderCancel(t *testing.T) {
	now := time.Now()

	o := newPendingOrder(10)
	assert.NilError(t, o.Cancel("", now))
	assert.Equal(t, o.Status, types.OrderStatusCancelled)
	assert.Equal(t, o.CancelReason, "cancelled by user")
	assert.Assert(t, o.CancelledAt != nil)

	again := o.Cancel("twice", now)
	assert.Assert(t, apperr.IsKind(again, apperr.KindOrderCannotCancel))
}

func TestOrderCancel_PartiallyFilledRefused(t *testing.T) {
	now := time.Now()
	o := newPendingOrder(10)
	assert.NilError(t, o.Fill(decimal.NewFromInt(100), 3, now))

	err := o.Cancel("late", now)
	assert.Assert(t, apperr.IsKind(err, apperr.KindOrderCannotCancel))
	assert.Equal(t, o.Status, types.OrderStatusPartiallyFilled)
}
