package model

import (
	"time"

	"investory/internal/apperr"

	"github.com/shopspring/decimal"
)

// Holding is a user's weighted-average-cost position in one stock. A
// (user, stock) pair has at most one row; the row is deleted when the
// position is sold down to zero.
type Holding struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	StockID         string          `json:"stock_id"`
	Quantity        int64           `json:"quantity"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	Version         int64           `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Add books a buy fill. The average price is recomputed from the full cost
// basis rather than blended incrementally, so rounding error does not
// compound across many small buys.
func (h *Holding) Add(qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidInput, "quantity must be positive")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return apperr.ErrInvalidOrderPrice
	}
	h.TotalInvestment = h.TotalInvestment.Add(price.Mul(decimal.NewFromInt(qty)))
	h.Quantity += qty
	h.AveragePrice = h.TotalInvestment.DivRound(decimal.NewFromInt(h.Quantity), 2)
	return nil
}

// Reduce books a sell fill. Sold quantity is costed at the current weighted
// average, not FIFO/LIFO. At exactly zero quantity the average price and cost
// basis are forced to zero so no rounding residue survives.
func (h *Holding) Reduce(qty int64) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidInput, "quantity must be positive")
	}
	if h.Quantity < qty {
		return apperr.ErrInsufficientHolding
	}
	sold := h.AveragePrice.Mul(decimal.NewFromInt(qty))
	h.TotalInvestment = h.TotalInvestment.Sub(sold)
	h.Quantity -= qty
	if h.Quantity == 0 {
		h.AveragePrice = decimal.Zero
		h.TotalInvestment = decimal.Zero
	}
	return nil
}

func (h *Holding) CurrentValue(currentPrice decimal.Decimal) decimal.Decimal {
	return currentPrice.Mul(decimal.NewFromInt(h.Quantity))
}

func (h *Holding) ProfitLoss(currentPrice decimal.Decimal) decimal.Decimal {
	return h.CurrentValue(currentPrice).Sub(h.TotalInvestment)
}

func (h *Holding) ProfitLossRate(currentPrice decimal.Decimal) decimal.Decimal {
	if h.TotalInvestment.IsZero() {
		return decimal.Zero
	}
	return h.ProfitLoss(currentPrice).DivRound(h.TotalInvestment, 4).Mul(decimal.NewFromInt(100))
}
