package portfolio

import (
	"investory/internal/holdings"
	"investory/internal/types"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type HoldingItem struct {
	StockCode      string          `json:"stock_code"`
	StockName      string          `json:"stock_name"`
	Market         types.Market    `json:"market"`
	Quantity       int64           `json:"quantity"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	Investment     decimal.Decimal `json:"investment"`
	ProfitLoss     decimal.Decimal `json:"profit_loss"`
	ProfitLossRate decimal.Decimal `json:"profit_loss_rate"`
	Weight         decimal.Decimal `json:"weight"`
}

type Summary struct {
	TotalValue          decimal.Decimal `json:"total_value"`
	TotalInvestment     decimal.Decimal `json:"total_investment"`
	TotalProfitLoss     decimal.Decimal `json:"total_profit_loss"`
	TotalProfitLossRate decimal.Decimal `json:"total_profit_loss_rate"`
	DailyProfitLoss     decimal.Decimal `json:"daily_profit_loss"`
	DailyProfitLossRate decimal.Decimal `json:"daily_profit_loss_rate"`
	HoldingCount        int             `json:"holding_count"`
	Holdings            []HoldingItem   `json:"holdings"`
}

// Compute aggregates a snapshot of positions. It is pure: same positions in,
// same summary out, with all rates at scale 4 half-up and amounts at the
// store's scale 2.
func Compute(positions []holdings.Position) Summary {
	sum := Summary{
		TotalValue:      decimal.Zero,
		TotalInvestment: decimal.Zero,
		DailyProfitLoss: decimal.Zero,
		HoldingCount:    len(positions),
		Holdings:        make([]HoldingItem, 0, len(positions)),
	}

	for _, p := range positions {
		sum.TotalValue = sum.TotalValue.Add(p.Holding.CurrentValue(p.Stock.CurrentPrice))
		sum.TotalInvestment = sum.TotalInvestment.Add(p.Holding.TotalInvestment)
		dayChange := p.Stock.CurrentPrice.Sub(p.Stock.PreviousClose).Mul(decimal.NewFromInt(p.Holding.Quantity))
		sum.DailyProfitLoss = sum.DailyProfitLoss.Add(dayChange)
	}

	sum.TotalProfitLoss = sum.TotalValue.Sub(sum.TotalInvestment)
	if sum.TotalInvestment.GreaterThan(decimal.Zero) {
		sum.TotalProfitLossRate = sum.TotalProfitLoss.DivRound(sum.TotalInvestment, 4).Mul(hundred)
	} else {
		sum.TotalProfitLossRate = decimal.Zero
	}

	previousValue := sum.TotalValue.Sub(sum.DailyProfitLoss)
	if previousValue.GreaterThan(decimal.Zero) {
		sum.DailyProfitLossRate = sum.DailyProfitLoss.DivRound(previousValue, 4).Mul(hundred)
	} else {
		sum.DailyProfitLossRate = decimal.Zero
	}

	for _, p := range positions {
		value := p.Holding.CurrentValue(p.Stock.CurrentPrice)
		weight := decimal.Zero
		if sum.TotalValue.GreaterThan(decimal.Zero) {
			weight = value.DivRound(sum.TotalValue, 4).Mul(hundred)
		}
		sum.Holdings = append(sum.Holdings, HoldingItem{
			StockCode:      p.Stock.Code,
			StockName:      p.Stock.Name,
			Market:         p.Stock.Market,
			Quantity:       p.Holding.Quantity,
			AveragePrice:   p.Holding.AveragePrice,
			CurrentPrice:   p.Stock.CurrentPrice,
			CurrentValue:   value,
			Investment:     p.Holding.TotalInvestment,
			ProfitLoss:     p.Holding.ProfitLoss(p.Stock.CurrentPrice),
			ProfitLossRate: p.Holding.ProfitLossRate(p.Stock.CurrentPrice),
			Weight:         weight,
		})
	}
	return sum
}
