package broker

import (
	"errors"
	"fmt"
)

var (
	// ErrSymbolNotFound means the broker does not know the symbol.
	ErrSymbolNotFound = errors.New("broker: symbol not found")

	// ErrPriceUnavailable means no current quote exists for the symbol.
	ErrPriceUnavailable = errors.New("broker: price unavailable")

	// ErrAccountUnavailable means the account snapshot could not be read.
	ErrAccountUnavailable = errors.New("broker: account unavailable")

	// ErrUnavailable means the broker did not respond; the outcome of an
	// in-flight order is unknown.
	ErrUnavailable = errors.New("broker: unavailable")

	// ErrPositionNotFound means no open position matches the ticket.
	ErrPositionNotFound = errors.New("broker: position not found")
)

// RejectError carries the broker's reported rejection reason verbatim.
// It is distinct from ErrUnavailable: a rejection is definitive, the order
// does not exist at the broker.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("broker: order rejected: %s", e.Reason)
}
