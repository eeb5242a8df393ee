package model

import (
	"time"

	"investory/internal/types"

	"github.com/shopspring/decimal"
)

// Stock is the instrument reference the core reads prices from. The price
// fields are updated by the market data simulator independently of any order,
// so a price read at order time may differ from the one read at valuation.
type Stock struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	EnglishName   string          `json:"english_name,omitempty"`
	Market        types.Market    `json:"market"`
	Sector        string          `json:"sector,omitempty"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	ChangeAmount  decimal.Decimal `json:"change_amount"`
	ChangeRate    decimal.Decimal `json:"change_rate"`
	Volume        int64           `json:"volume"`
	IsActive      bool            `json:"is_active"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UpdatePrice rolls the current price into previous close and recomputes the
// change against it.
func (s *Stock) UpdatePrice(newPrice decimal.Decimal) {
	s.ChangeAmount = newPrice.Sub(s.CurrentPrice)
	if s.CurrentPrice.GreaterThan(decimal.Zero) {
		s.ChangeRate = s.ChangeAmount.DivRound(s.CurrentPrice, 4).Mul(decimal.NewFromInt(100))
	}
	s.PreviousClose = s.CurrentPrice
	s.CurrentPrice = newPrice
}
