package sim

import "github.com/UchiaGhost/mt5-gateway/broker"

// DefaultSymbols returns the forex majors the demo backend starts with.
func DefaultSymbols() []broker.SymbolMetadata {
	specs := []struct {
		name   string
		digits int
		point  float64
	}{
		{"EURUSD", 5, 0.00001},
		{"GBPUSD", 5, 0.00001},
		{"USDJPY", 3, 0.001},
		{"AUDUSD", 5, 0.00001},
		{"USDCAD", 5, 0.00001},
	}

	out := make([]broker.SymbolMetadata, 0, len(specs))
	for _, s := range specs {
		out = append(out, broker.SymbolMetadata{
			Name:         s.name,
			Digits:       s.digits,
			Point:        s.point,
			TickValue:    1.0,
			ContractSize: 100000,
			MarginMode:   broker.MarginForex,
			Spread:       20,
			TradeAllowed: true,
		})
	}
	return out
}
