// Package portfolio derives a valuation of a user's holdings against current
// reference prices. It owns no state and performs no mutation.
package portfolio

import (
	"context"

	"investory/internal/apperr"
	"investory/internal/holdings"
	"investory/internal/types"
)

type Service struct {
	holdings *holdings.Store
}

func NewService(holdingStore *holdings.Store) *Service {
	return &Service{holdings: holdingStore}
}

// GetPortfolio values the user's positions, optionally limited to the
// "domestic" or "foreign" market set. Prices are whatever is current at read
// time; two calls with no intervening mutation agree.
func (s *Service) GetPortfolio(ctx context.Context, userID, marketFilter string) (Summary, error) {
	markets, ok := types.MarketsForFilter(marketFilter)
	if !ok {
		return Summary{}, apperr.New(apperr.KindInvalidInput, "market filter must be domestic or foreign")
	}
	positions, err := s.holdings.ListPositions(ctx, userID, markets)
	if err != nil {
		return Summary{}, err
	}
	return Compute(positions), nil
}
