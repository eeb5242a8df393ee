package model

import (
	"time"

	"investory/internal/apperr"
	"investory/internal/types"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	StockID      string            `json:"stock_id"`
	StockCode    string            `json:"stock_code,omitempty"`
	Type         types.OrderType   `json:"type"`
	Side         types.OrderSide   `json:"side"`
	Status       types.OrderStatus `json:"status"`
	Quantity     int64             `json:"quantity"`
	FilledQty    int64             `json:"filled_quantity"`
	Price        *decimal.Decimal  `json:"price"`
	FilledPrice  *decimal.Decimal  `json:"filled_price"`
	TotalAmount  *decimal.Decimal  `json:"total_amount"`
	CreatedAt    time.Time         `json:"created_at"`
	FilledAt     *time.Time        `json:"filled_at"`
	CancelledAt  *time.Time        `json:"cancelled_at"`
	CancelReason string            `json:"cancel_reason,omitempty"`
}

// Fill applies one execution to the order. The filled price and total amount
// reflect the latest fill only; they are overwritten, not accumulated.
func (o *Order) Fill(executionPrice decimal.Decimal, executedQty int64, now time.Time) error {
	if o.Status.Terminal() {
		return apperr.New(apperr.KindConflict, "order is in terminal state "+string(o.Status))
	}
	if executedQty <= 0 || o.FilledQty+executedQty > o.Quantity {
		return apperr.New(apperr.KindInvalidInput, "executed quantity exceeds remaining quantity")
	}
	o.FilledQty += executedQty
	o.FilledPrice = &executionPrice
	amount := executionPrice.Mul(decimal.NewFromInt(executedQty))
	o.TotalAmount = &amount
	o.FilledAt = &now
	if o.FilledQty == o.Quantity {
		o.Status = types.OrderStatusFilled
	} else {
		o.Status = types.OrderStatusPartiallyFilled
	}
	return nil
}

// Cancel moves a pending order to cancelled. Any other state fails.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.Status != types.OrderStatusPending {
		return apperr.ErrOrderCannotCancel
	}
	if reason == "" {
		reason = "cancelled by user"
	}
	o.Status = types.OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	return nil
}

func (o *Order) RemainingQty() int64 {
	return o.Quantity - o.FilledQty
}
