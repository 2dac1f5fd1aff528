package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UchiaGhost/mt5-gateway/account"
	"github.com/UchiaGhost/mt5-gateway/config"
	"github.com/UchiaGhost/mt5-gateway/journal"
	"github.com/UchiaGhost/mt5-gateway/signal"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted session against the simulated broker",
	Long: `Execute a small scripted session: one buy signal on EURUSD with
risk-based sizing, a duplicate resend that the idempotency guard rejects,
and a final account summary.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	gw, engine := buildGateway(cfg, journal.Noop{})
	ctx := context.Background()

	pips := func(n int) *int { return &n }
	sig := signal.TradingSignal{
		Strategy: "demo",
		Symbol:   "EURUSD",
		Side:     "buy",
		Kind:     signal.Market,
		Risk:     signal.RiskSpec{Percent: 1, MaxRiskPerTrade: 2},
		Stop:     signal.StopSpec{Pips: pips(20)},
		Target:   signal.TargetSpec{Pips: pips(40)},
		Comment:  "demo signal",
	}
	if err := sig.Normalize(); err != nil {
		return err
	}
	if err := sig.Validate(); err != nil {
		return err
	}

	res := gw.ExecuteSignal(ctx, sig)
	if !res.Success {
		return fmt.Errorf("demo signal rejected: %s (%s)", res.Reason, res.ErrorMessage)
	}
	fmt.Printf("filled: order=%s lot=%.2f price=%.5f\n", res.OrderID, res.LotSize, res.ExecutedPrice)
	if res.StopLoss != nil {
		fmt.Printf("  stop loss:   %.5f\n", *res.StopLoss)
	}
	if res.TakeProfit != nil {
		fmt.Printf("  take profit: %.5f\n", *res.TakeProfit)
	}

	// Same key again: the guard must reject it.
	dup := gw.ExecuteSignal(ctx, sig)
	fmt.Printf("resend with same key: %s\n", dup.Reason)

	positions, err := gw.GetOpenPositions(ctx, "")
	if err != nil {
		return err
	}
	for _, p := range positions {
		fmt.Printf("open: %s %s %s %.2f @ %.5f\n", p.Ticket, p.Symbol, p.Side, p.Lots, p.OpenPrice)
	}

	snap, err := engine.GetAccountSnapshot(ctx)
	if err != nil {
		return err
	}
	metrics := account.ComputeMetrics(snap)
	fmt.Printf("account: balance=%.2f equity=%.2f free_margin=%.2f margin_used=%.1f%%\n",
		metrics.Balance, metrics.Equity, metrics.FreeMargin, metrics.MarginUsedPercent)
	for _, w := range metrics.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}
