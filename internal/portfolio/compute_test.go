package portfolio_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"gotest.tools/assert"

	"investory/internal/holdings"
	"investory/internal/model"
	"investory/internal/portfolio"
	"investory/internal/types"
)

func position(code string, market types.Market, qty int64, avg, current, prevClose string) holdings.Position {
	avgPrice := decimal.RequireFromString(avg)
	return holdings.Position{
		Holding: model.Holding{
			Quantity:        qty,
			AveragePrice:    avgPrice,
			TotalInvestment: avgPrice.Mul(decimal.NewFromInt(qty)),
		},
		Stock: model.Stock{
			Code:          code,
			Name:          code,
			Market:        market,
			CurrentPrice:  decimal.RequireFromString(current),
			PreviousClose: decimal.RequireFromString(prevClose),
		},
	}
}

func TestComputeEmpty(t *testing.T) {
	sum := portfolio.Compute(nil)
	assert.Equal(t, sum.HoldingCount, 0)
	assert.Assert(t, sum.TotalValue.IsZero())
	assert.Assert(t, sum.TotalProfitLossRate.IsZero())
	assert.Assert(t, sum.DailyProfitLossRate.IsZero())
	assert.Equal(t, len(sum.Holdings), 0)
}

func TestComputeSinglePosition(t *testing.T) {
	// 10 shares bought at 100, now 110, closed yesterday at 105
	sum := portfolio.Compute([]holdings.Position{
		position("005930", types.MarketKOSPI, 10, "100", "110", "105"),
	})

	assert.Assert(t, sum.TotalValue.Equal(decimal.NewFromInt(1100)))
	assert.Assert(t, sum.TotalInvestment.Equal(decimal.NewFromInt(1000)))
	assert.Assert(t, sum.TotalProfitLoss.Equal(decimal.NewFromInt(100)))
	assert.Assert(t, sum.TotalProfitLossRate.Equal(decimal.NewFromInt(10)))
	assert.Assert(t, sum.DailyProfitLoss.Equal(decimal.NewFromInt(50)))
	// 50 gain over a previous value of 1050: 4.7619% rounds to 4.76
	assert.Assert(t, sum.DailyProfitLossRate.Equal(decimal.RequireFromString("4.76")))

	assert.Equal(t, len(sum.Holdings), 1)
	item := sum.Holdings[0]
	assert.Assert(t, item.Weight.Equal(decimal.NewFromInt(100)))
	assert.Assert(t, item.ProfitLossRate.Equal(decimal.NewFromInt(10)))
}

func TestComputeWeights(t *testing.T) {
	sum := portfolio.Compute([]holdings.Position{
		position("AAPL", types.MarketNASDAQ, 3, "150", "200", "200"),
		position("MSFT", types.MarketNASDAQ, 1, "380", "400", "400"),
	})

	assert.Assert(t, sum.TotalValue.Equal(decimal.NewFromInt(1000)))
	assert.Assert(t, sum.Holdings[0].Weight.Equal(decimal.NewFromInt(60)))
	assert.Assert(t, sum.Holdings[1].Weight.Equal(decimal.NewFromInt(40)))
	// flat day: no daily movement, rate divides against current value
	assert.Assert(t, sum.DailyProfitLoss.IsZero())
	assert.Assert(t, sum.DailyProfitLossRate.IsZero())
}

func TestComputeIsPure(t *testing.T) {
	positions := []holdings.Position{
		position("005930", types.MarketKOSPI, 7, "71000", "71500", "71000"),
		position("NVDA", types.MarketNASDAQ, 2, "120", "95", "100"),
	}
	a := portfolio.Compute(positions)
	b := portfolio.Compute(positions)
	assert.Equal(t, a.HoldingCount, b.HoldingCount)
	assert.Assert(t, a.TotalValue.Equal(b.TotalValue))
	assert.Assert(t, a.TotalInvestment.Equal(b.TotalInvestment))
	assert.Assert(t, a.TotalProfitLossRate.Equal(b.TotalProfitLossRate))
	assert.Assert(t, a.DailyProfitLossRate.Equal(b.DailyProfitLossRate))
}
