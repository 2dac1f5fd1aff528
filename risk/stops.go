package risk

import (
	"math"

	"github.com/UchiaGhost/mt5-gateway/broker"
	"github.com/UchiaGhost/mt5-gateway/signal"
)

// ResolveStops computes concrete stop-loss and take-profit prices from the
// signal's stop and target specs, using entry as the reference price.
//
// Stop: pip distance wins when present, otherwise an explicit price.
// Target: explicit price, else pip distance, else risk:reward ratio applied
// to the resolved stop. A nil return means the level is unset.
//
// After both levels are independently resolved, any level closer to entry
// than minStopPips is pushed out to exactly that distance on the side the
// order implies. Levels are never pulled in.
func ResolveStops(sym broker.SymbolMetadata, side broker.Side, entry float64, stop signal.StopSpec, target signal.TargetSpec, minStopPips float64) (stopPrice, targetPrice *float64) {
	switch {
	case stop.Pips != nil:
		stopPrice = ref(stopLevel(side, entry, float64(*stop.Pips)*sym.Point))
	case stop.Price != nil:
		stopPrice = ref(*stop.Price)
	}

	switch {
	case target.Price != nil:
		targetPrice = ref(*target.Price)
	case target.Pips != nil:
		targetPrice = ref(targetLevel(side, entry, float64(*target.Pips)*sym.Point))
	case target.RiskRewardRatio != nil && stopPrice != nil:
		reward := math.Abs(entry-*stopPrice) * *target.RiskRewardRatio
		targetPrice = ref(targetLevel(side, entry, reward))
	}

	minDistance := minStopPips * sym.Point
	if stopPrice != nil && math.Abs(entry-*stopPrice) < minDistance {
		*stopPrice = stopLevel(side, entry, minDistance)
	}
	if targetPrice != nil && math.Abs(entry-*targetPrice) < minDistance {
		*targetPrice = targetLevel(side, entry, minDistance)
	}
	return stopPrice, targetPrice
}

// stopLevel places a stop the given distance on the losing side of entry.
func stopLevel(side broker.Side, entry, distance float64) float64 {
	if side == broker.Buy {
		return entry - distance
	}
	return entry + distance
}

// targetLevel places a target the given distance on the winning side of entry.
func targetLevel(side broker.Side, entry, distance float64) float64 {
	if side == broker.Buy {
		return entry + distance
	}
	return entry - distance
}

func ref(v float64) *float64 { return &v }
