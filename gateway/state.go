package gateway

// State names a step of the execution pipeline. Transitions move forward
// only; Filled and Rejected are terminal.
type State int

const (
	StateReceived State = iota
	StateKeyChecked
	StateSymbolResolved
	StatePriceResolved
	StateSized
	StateStopsResolved
	StateMarginChecked
	StateSubmitted
	StateFilled
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateKeyChecked:
		return "key_checked"
	case StateSymbolResolved:
		return "symbol_resolved"
	case StatePriceResolved:
		return "price_resolved"
	case StateSized:
		return "sized"
	case StateStopsResolved:
		return "stops_resolved"
	case StateMarginChecked:
		return "margin_checked"
	case StateSubmitted:
		return "submitted"
	case StateFilled:
		return "filled"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
