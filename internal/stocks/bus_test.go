package stocks_test

import (
	"testing"

	"gotest.tools/assert"

	"investory/internal/stocks"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := stocks.NewBus()
	ch := bus.Subscribe()

	bus.Publish(stocks.Event{Type: "quote", Data: "005930"})

	evt := <-ch
	assert.Equal(t, evt.Type, "quote")
	assert.Equal(t, evt.Data, "005930")
}

func TestBusUnsubscribeCloses(t *testing.T) {
	bus := stocks.NewBus()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	_, open := <-ch
	assert.Assert(t, !open)

	// publishing after unsubscribe must not panic on the closed channel
	bus.Publish(stocks.Event{Type: "quote"})
	bus.Unsubscribe(ch)
}

func TestBusDropsWhenSubscriberIsSlow(t *testing.T) {
	bus := stocks.NewBus()
	ch := bus.Subscribe()

	for i := 0; i < 150; i++ {
		bus.Publish(stocks.Event{Type: "quote", Data: i})
	}

	// buffer is 100; the rest were dropped without blocking
	assert.Equal(t, len(ch), 100)
}
