package gateway

import "time"

// Reason classifies why a signal was rejected. All reasons are terminal;
// the gateway never retries on its own.
type Reason string

const (
	// ReasonNone marks a filled order.
	ReasonNone Reason = ""

	// DuplicateSignal: the idempotency key was already admitted within the
	// retention window. Resending the same key will not help.
	DuplicateSignal Reason = "duplicate_signal"

	// SymbolUnavailable: the broker does not know the symbol. Transient if
	// the terminal is still warming up.
	SymbolUnavailable Reason = "symbol_unavailable"

	// TradeNotAllowed: the broker forbids trading the symbol right now.
	TradeNotAllowed Reason = "trade_not_allowed"

	// PriceUnavailable: no current quote for the symbol.
	PriceUnavailable Reason = "price_unavailable"

	// AccountUnavailable: the account snapshot could not be read.
	AccountUnavailable Reason = "account_unavailable"

	// InvalidStopDistance: the stop configuration yields an unusable loss
	// per lot. Caller input error, not retryable as-is.
	InvalidStopDistance Reason = "invalid_stop_distance"

	// InsufficientMargin: the pre-trade estimate fails; the order never
	// reached the broker.
	InsufficientMargin Reason = "insufficient_margin"

	// BrokerRejected: the broker declined the order. The broker's reason
	// is passed through verbatim in ErrorMessage.
	BrokerRejected Reason = "broker_rejected"

	// BrokerUnavailable: the submission did not get a definitive answer.
	// The order may or may not exist at the broker; this ambiguity is
	// surfaced, never hidden.
	BrokerUnavailable Reason = "broker_unavailable"
)

// OrderResult is the single artifact an orchestration call returns.
type OrderResult struct {
	Success       bool      `json:"ok"`
	Reason        Reason    `json:"reason,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	PositionID    string    `json:"position_id,omitempty"`
	ExecutedPrice float64   `json:"executed_price,omitempty"`
	StopLoss      *float64  `json:"sl,omitempty"`
	TakeProfit    *float64  `json:"tp,omitempty"`
	LotSize       float64   `json:"lot_size,omitempty"`
	ServerTime    time.Time `json:"server_time,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}
