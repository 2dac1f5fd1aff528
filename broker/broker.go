// Package broker defines the capability contracts the gateway consumes:
// a DataProvider for read-only terminal state and a Submitter for order
// placement and position management. The in-memory simulator in broker/sim
// satisfies both, so everything above this package is testable without a
// live terminal connection.
package broker

import (
	"context"
	"time"
)

// Side of an order relative to the market.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// MarginMode selects the broker formula family used to compute required
// collateral for a symbol.
type MarginMode int

const (
	MarginForex MarginMode = iota
	MarginFutures
	MarginOther
)

// SymbolMetadata describes a tradable instrument as reported by the broker.
type SymbolMetadata struct {
	Name         string
	Digits       int
	Point        float64
	TickValue    float64
	ContractSize float64
	MarginMode   MarginMode
	MarginRate   float64
	// MarginRequired is the broker-quoted flat margin per lot, used only
	// when MarginMode is MarginOther.
	MarginRequired float64
	Spread         int
	TradeAllowed   bool
}

// AccountSnapshot is a read-only view of the trading account at one point
// in time. Each orchestration call works from a single snapshot.
type AccountSnapshot struct {
	Login       int64
	Balance     float64
	Equity      float64
	Margin      float64
	FreeMargin  float64
	MarginLevel float64
	Currency    string
	Leverage    int
	Profit      float64
	ServerTime  time.Time
}

// Quote is the current bid/ask for a symbol.
type Quote struct {
	Symbol string
	Bid    float64
	Ask    float64
	Time   time.Time
}

// DataProvider supplies symbol, price, and account state from the broker.
// Implementations own freshness and caching; callers treat every result as
// a point-in-time read.
type DataProvider interface {
	GetSymbolMetadata(ctx context.Context, symbol string) (SymbolMetadata, error)
	GetCurrentPrice(ctx context.Context, symbol string, side Side) (float64, error)
	GetAccountSnapshot(ctx context.Context) (AccountSnapshot, error)
}

// MarketOrderRequest is a fully sized, risk-resolved order ready for
// submission. StopLoss and TakeProfit are nil when no level is wanted.
type MarketOrderRequest struct {
	Symbol     string
	Side       Side
	Lots       float64
	StopLoss   *float64
	TakeProfit *float64
	Magic      int
	Comment    string
}

// OrderFill reports a broker-accepted order.
type OrderFill struct {
	OrderID    string
	PositionID string
	Price      float64
	ServerTime time.Time
}

// Position is an open position as reported by the broker. A zero StopLoss
// or TakeProfit means the level is not set.
type Position struct {
	Ticket     string
	Symbol     string
	Side       Side
	Lots       float64
	OpenPrice  float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Profit     float64
	Swap       float64
	Magic      int
	Comment    string
	OpenTime   time.Time
}

// Submitter places and manages orders at the broker.
type Submitter interface {
	SubmitMarketOrder(ctx context.Context, req MarketOrderRequest) (OrderFill, error)

	// ModifyPosition replaces the stop-loss and/or take-profit of an open
	// position. A nil level leaves the current value in place.
	ModifyPosition(ctx context.Context, ticket string, stopLoss, takeProfit *float64) error

	// ClosePosition closes an open position, fully when lots is nil,
	// otherwise partially by the given volume.
	ClosePosition(ctx context.Context, ticket string, lots *float64) error

	// GetOpenPositions lists open positions, optionally filtered by symbol
	// (empty symbol means all).
	GetOpenPositions(ctx context.Context, symbol string) ([]Position, error)
}
