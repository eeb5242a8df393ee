package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"gotest.tools/assert"

	"investory/internal/apperr"
	"investory/internal/model"
)

func TestHoldingAdd_AverageFromCostBasis(t *testing.T) {
	var h model.Holding

	assert.NilError(t, h.Add(10, decimal.NewFromInt(100)))
	assert.Equal(t, h.Quantity, int64(10))
	assert.Assert(t, h.AveragePrice.Equal(decimal.NewFromInt(100)))
	assert.Assert(t, h.TotalInvestment.Equal(decimal.NewFromInt(1000)))

	assert.NilError(t, h.Add(10, decimal.NewFromInt(200)))
	assert.Equal(t, h.Quantity, int64(20))
	assert.Assert(t, h.AveragePrice.Equal(decimal.NewFromInt(150)))
	assert.Assert(t, h.TotalInvestment.Equal(decimal.NewFromInt(3000)))
}

func TestHoldingAdd_RoundsHalfUp(t *testing.T) {
	var h model.Holding

	// 3 shares for 100 total: 33.333... rounds to 33.33
	assert.NilError(t, h.Add(3, decimal.RequireFromString("33.333333")))
	assert.Assert(t, h.AveragePrice.Equal(decimal.RequireFromString("33.33")))

	h = model.Holding{}
	assert.NilError(t, h.Add(2, decimal.RequireFromString("0.005")))
	// 0.01 / 2 = 0.005 rounds up to 0.01
	assert.Assert(t, h.AveragePrice.Equal(decimal.RequireFromString("0.01")))
}

func TestHoldingAdd_WeightedAverage(t *testing.T) {
	var h model.Holding
	assert.NilError(t, h.Add(10, decimal.NewFromInt(71500)))
	assert.NilError(t, h.Add(10, decimal.NewFromInt(73500)))

	assert.Equal(t, h.Quantity, int64(20))
	assert.Assert(t, h.TotalInvestment.Equal(decimal.NewFromInt(1450000)))
	assert.Assert(t, h.AveragePrice.Equal(decimal.NewFromInt(72500)))
}

func TestHoldingAdd_Validation(t *testing.T) {
	var h model.Holding

	err := h.Add(0, decimal.NewFromInt(100))
	assert.Assert(t, apperr.IsKind(err, apperr.KindInvalidInput))

	err = h.Add(1, decimal.Zero)
	assert.Assert(t, apperr.IsKind(err, apperr.KindInvalidOrderPrice))
}

func TestHoldingReduce_CostsAtAverage(t *testing.T) {
	var h model.Holding
	assert.NilError(t, h.Add(10, decimal.NewFromInt(100)))
	assert.NilError(t, h.Add(10, decimal.NewFromInt(200)))

	// sell 5 at whatever market price: basis drops by 5 * avg(150)
	assert.NilError(t, h.Reduce(5))
	assert.Equal(t, h.Quantity, int64(15))
	assert.Assert(t, h.TotalInvestment.Equal(decimal.NewFromInt(2250)))
	assert.Assert(t, h.AveragePrice.Equal(decimal.NewFromInt(150)))
}

func TestHoldingReduce_ZeroesOutOnFullSell(t *testing.T) {
	var h model.Holding
	assert.NilError(t, h.Add(3, decimal.RequireFromString("33.333333")))
	assert.NilError(t, h.Reduce(3))

	assert.Equal(t, h.Quantity, int64(0))
	assert.Assert(t, h.AveragePrice.IsZero())
	assert.Assert(t, h.TotalInvestment.IsZero())
}

func TestHoldingReduce_Insufficient(t *testing.T) {
	var h model.Holding
	assert.NilError(t, h.Add(5, decimal.NewFromInt(100)))

	err := h.Reduce(6)
	assert.Assert(t, apperr.IsKind(err, apperr.KindInsufficientHolding))
	assert.Equal(t, h.Quantity, int64(5))
}

func TestHoldingProfitLoss(t *testing.T) {
	var h model.Holding
	assert.NilError(t, h.Add(10, decimal.NewFromInt(100)))

	cur := decimal.NewFromInt(125)
	assert.Assert(t, h.CurrentValue(cur).Equal(decimal.NewFromInt(1250)))
	assert.Assert(t, h.ProfitLoss(cur).Equal(decimal.NewFromInt(250)))
	assert.Assert(t, h.ProfitLossRate(cur).Equal(decimal.NewFromInt(25)))

	empty := model.Holding{}
	assert.Assert(t, empty.ProfitLossRate(cur).IsZero())
}
