package stocks

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Code          string `json:"code"`
	Price         string `json:"price"`
	PreviousClose string `json:"previous_close"`
	ChangeAmount  string `json:"change_amount"`
	ChangeRate    string `json:"change_rate"`
	Timestamp     int64  `json:"ts"`
}

// StartSimulator drives the reference prices with a bounded random walk and
// publishes each move to the bus. It is the only writer of stock prices; the
// trading core reads whatever price is current at the moment it asks.
func StartSimulator(ctx context.Context, store *Store, bus *Bus, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick(ctx, store, bus)
			}
		}
	}()
}

func tick(ctx context.Context, store *Store, bus *Bus) {
	list, err := store.List(ctx, "")
	if err != nil {
		log.Printf("[simulator] list stocks: %v", err)
		return
	}
	for _, st := range list {
		// Move up to ±0.5% per tick, two decimal places.
		drift := decimal.NewFromFloat((rand.Float64() - 0.5) / 100)
		next := st.CurrentPrice.Add(st.CurrentPrice.Mul(drift)).Round(2)
		if next.LessThanOrEqual(decimal.Zero) {
			continue
		}
		updated, err := store.UpdatePrice(ctx, st.Code, next)
		if err != nil {
			log.Printf("[simulator] update %s: %v", st.Code, err)
			continue
		}
		bus.Publish(Event{Type: "quote", Data: Quote{
			Code:          updated.Code,
			Price:         updated.CurrentPrice.StringFixed(2),
			PreviousClose: updated.PreviousClose.StringFixed(2),
			ChangeAmount:  updated.ChangeAmount.StringFixed(2),
			ChangeRate:    updated.ChangeRate.StringFixed(2),
			Timestamp:     time.Now().UnixMilli(),
		}})
	}
}
