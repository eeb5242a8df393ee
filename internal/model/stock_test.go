package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"gotest.tools/assert"

	"investory/internal/model"
)

func TestStockUpdatePrice(t *testing.T) {
	s := model.Stock{
		Code:          "005930",
		CurrentPrice:  decimal.NewFromInt(71500),
		PreviousClose: decimal.NewFromInt(71000),
	}

	s.UpdatePrice(decimal.NewFromInt(72215))

	assert.Assert(t, s.PreviousClose.Equal(decimal.NewFromInt(71500)))
	assert.Assert(t, s.CurrentPrice.Equal(decimal.NewFromInt(72215)))
	assert.Assert(t, s.ChangeAmount.Equal(decimal.NewFromInt(715)))
	// 715 / 71500 = exactly 1%
	assert.Assert(t, s.ChangeRate.Equal(decimal.NewFromInt(1)))
}

func TestStockUpdatePrice_ZeroBase(t *testing.T) {
	var s model.Stock
	s.UpdatePrice(decimal.NewFromInt(500))

	assert.Assert(t, s.CurrentPrice.Equal(decimal.NewFromInt(500)))
	assert.Assert(t, s.ChangeRate.IsZero())
}
