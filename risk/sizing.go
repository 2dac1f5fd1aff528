// Package risk holds the pure calculation engines of the gateway: position
// sizing, stop/target resolution, and margin estimation. Everything here is
// deterministic given its inputs; there is no clock, no randomness, and no
// broker access.
package risk

import (
	"errors"
	"math"

	"github.com/UchiaGhost/mt5-gateway/broker"
	"github.com/UchiaGhost/mt5-gateway/signal"
)

// ErrInvalidStopDistance means the stop configuration yields a non-positive
// loss per lot, so no lot size can be derived safely.
var ErrInvalidStopDistance = errors.New("risk: stop distance yields non-positive loss per lot")

// Limits are the broker-legal bounds applied to a computed lot size.
type Limits struct {
	MinLot  float64
	MaxLot  float64
	LotStep float64
}

// Size converts a risk specification and a stop distance (in symbol points)
// into a broker-legal lot size.
//
// Risk amount is either the fixed amount, or Percent of balance, capped at
// MaxRiskPerTrade percent of balance. The raw lot is risk amount divided by
// the monetary loss a one-lot position suffers over the stop distance, then
// clamped to [MinLot, MaxLot] and rounded half-up to the nearest LotStep.
func Size(sym broker.SymbolMetadata, spec signal.RiskSpec, acct broker.AccountSnapshot, stopPoints float64, lim Limits) (float64, error) {
	riskAmount := acct.Balance * spec.Percent / 100
	if spec.FixedAmount != nil {
		riskAmount = *spec.FixedAmount
	}
	if maxRisk := acct.Balance * spec.MaxRiskPerTrade / 100; riskAmount > maxRisk {
		riskAmount = maxRisk
	}

	perPointPerLot := sym.TickValue * sym.ContractSize
	lossPerLot := stopPoints * sym.Point * perPointPerLot
	if lossPerLot <= 0 {
		return 0, ErrInvalidStopDistance
	}

	lot := riskAmount / lossPerLot
	lot = math.Max(lot, lim.MinLot)
	lot = math.Min(lot, lim.MaxLot)
	if lim.LotStep > 0 {
		lot = math.Floor(lot/lim.LotStep+0.5) * lim.LotStep
	}
	return lot, nil
}
