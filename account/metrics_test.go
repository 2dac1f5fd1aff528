package account

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UchiaGhost/mt5-gateway/broker"
)

func TestComputeMetricsHealthyAccount(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(broker.AccountSnapshot{
		Balance:     10000,
		Equity:      10500,
		Margin:      1000,
		FreeMargin:  9500,
		MarginLevel: 1050,
		Profit:      500,
		Currency:    "USD",
		Leverage:    100,
	})

	assert.InDelta(t, 5.0, m.ProfitPercent, 1e-9)
	assert.InDelta(t, 1000.0/10500*100, m.MarginUsedPercent, 1e-9)
	assert.Empty(t, m.Warnings)
}

func TestComputeMetricsWarnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap broker.AccountSnapshot
		want []string
	}{
		{
			"margin level below warn threshold",
			broker.AccountSnapshot{Balance: 10000, Equity: 9000, Margin: 6000, FreeMargin: 3000, MarginLevel: 150},
			[]string{"margin level below 200%"},
		},
		{
			"margin call risk",
			broker.AccountSnapshot{Balance: 10000, Equity: 5000, Margin: 6000, FreeMargin: 0, MarginLevel: 83},
			[]string{"margin level below 200%", "margin call risk", "low free margin"},
		},
		{
			"low free margin only",
			broker.AccountSnapshot{Balance: 10000, Equity: 10000, Margin: 9500, FreeMargin: 500, MarginLevel: 1000},
			[]string{"low free margin"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := ComputeMetrics(tt.snap)
			assert.Equal(t, tt.want, m.Warnings)
		})
	}
}

func TestComputeMetricsZeroBalanceNoDivide(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(broker.AccountSnapshot{})
	assert.Zero(t, m.ProfitPercent)
	assert.Zero(t, m.MarginUsedPercent)
}
