// Package account derives risk metrics and warnings from an account
// snapshot. Everything here is a pure function of the snapshot.
package account

import "github.com/UchiaGhost/mt5-gateway/broker"

// Margin-health thresholds. MarginLevel is a percentage as reported by the
// broker; 100 is the classic margin-call line.
const (
	marginLevelWarn    = 200.0
	marginLevelCall    = 100.0
	freeMarginLowOfBal = 0.10
)

// Metrics summarizes account health for a single snapshot.
type Metrics struct {
	Balance           float64
	Equity            float64
	Margin            float64
	FreeMargin        float64
	MarginLevel       float64
	Profit            float64
	ProfitPercent     float64
	MarginUsedPercent float64
	Currency          string
	Leverage          int
	Warnings          []string
}

// ComputeMetrics derives risk metrics and warnings from a snapshot.
func ComputeMetrics(a broker.AccountSnapshot) Metrics {
	m := Metrics{
		Balance:     a.Balance,
		Equity:      a.Equity,
		Margin:      a.Margin,
		FreeMargin:  a.FreeMargin,
		MarginLevel: a.MarginLevel,
		Profit:      a.Profit,
		Currency:    a.Currency,
		Leverage:    a.Leverage,
	}

	if a.Balance > 0 {
		m.ProfitPercent = a.Profit / a.Balance * 100
	}
	if a.Equity > 0 {
		m.MarginUsedPercent = a.Margin / a.Equity * 100
	}

	if a.MarginLevel > 0 && a.MarginLevel < marginLevelWarn {
		m.Warnings = append(m.Warnings, "margin level below 200%")
	}
	if a.MarginLevel > 0 && a.MarginLevel < marginLevelCall {
		m.Warnings = append(m.Warnings, "margin call risk")
	}
	if a.FreeMargin < a.Balance*freeMarginLowOfBal {
		m.Warnings = append(m.Warnings, "low free margin")
	}

	return m
}
