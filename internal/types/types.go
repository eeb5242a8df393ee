package types

type OrderSide string

type OrderType string

type OrderStatus string

type Market string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRejected        OrderStatus = "rejected"
)

const (
	MarketKOSPI  Market = "KOSPI"
	MarketKOSDAQ Market = "KOSDAQ"
	MarketNASDAQ Market = "NASDAQ"
	MarketNYSE   Market = "NYSE"
	MarketAMEX   Market = "AMEX"
)

func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

func (t OrderType) Valid() bool {
	return t == OrderTypeMarket || t == OrderTypeLimit
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPartiallyFilled, OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further fills or cancellations are permitted.
// Partially filled orders may still receive fills.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled || s == OrderStatusRejected
}

func (m Market) Valid() bool {
	switch m {
	case MarketKOSPI, MarketKOSDAQ, MarketNASDAQ, MarketNYSE, MarketAMEX:
		return true
	}
	return false
}

// MarketsForFilter resolves the portfolio market filter keyword to the
// concrete exchange set. Empty keyword means no filter.
func MarketsForFilter(filter string) ([]Market, bool) {
	switch filter {
	case "":
		return nil, true
	case "domestic":
		return []Market{MarketKOSPI, MarketKOSDAQ}, true
	case "foreign":
		return []Market{MarketNASDAQ, MarketNYSE, MarketAMEX}, true
	}
	return nil, false
}
