package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/UchiaGhost/mt5-gateway/broker"
	"github.com/UchiaGhost/mt5-gateway/broker/sim"
	"github.com/UchiaGhost/mt5-gateway/config"
	"github.com/UchiaGhost/mt5-gateway/gateway"
	"github.com/UchiaGhost/mt5-gateway/idempotency"
	"github.com/UchiaGhost/mt5-gateway/journal"
	"github.com/UchiaGhost/mt5-gateway/signal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute signals read as JSON lines from stdin",
	Long: `Read newline-delimited JSON trading signals from stdin, execute each
through the gateway against the simulated broker backend, and print one
JSON result per line on stdout.

Example:
  echo '{"strategy":"demo","symbol":"EURUSD","side":"buy","risk":{"percent":1},"sl":{"pips":20},"tp":{"pips":40}}' | mt5-gateway run`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to config file (defaults apply when omitted)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	log := newLogger()

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	gw, _ := buildGateway(cfg, jnl)

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var sig signal.TradingSignal
		if err := json.Unmarshal(line, &sig); err != nil {
			log.Error().Err(err).Msg("malformed signal")
			continue
		}
		if err := sig.Normalize(); err != nil {
			log.Error().Err(err).Msg("normalize signal")
			continue
		}
		if err := sig.Validate(); err != nil {
			log.Error().Err(err).Msg("invalid signal")
			continue
		}

		res := gw.ExecuteSignal(ctx, sig)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return scanner.Err()
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.File)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Noop{}, nil
	}
}

// buildGateway wires the simulated backend and returns both the gateway
// and the engine behind it. A live terminal adapter would slot in here
// once one exists.
func buildGateway(cfg *config.Config, jnl journal.Journal) (*gateway.Gateway, *sim.Engine) {
	engine := sim.NewEngine(broker.AccountSnapshot{
		Login:      cfg.Account.Login,
		Balance:    cfg.Account.Balance,
		Equity:     cfg.Account.Balance,
		FreeMargin: cfg.Account.Balance,
		Currency:   cfg.Account.Currency,
		Leverage:   cfg.Account.Leverage,
	})
	for _, meta := range sim.DefaultSymbols() {
		engine.AddSymbol(meta)
	}
	now := time.Now().UTC()
	for _, q := range []broker.Quote{
		{Symbol: "EURUSD", Bid: 1.08490, Ask: 1.08510, Time: now},
		{Symbol: "GBPUSD", Bid: 1.26490, Ask: 1.26520, Time: now},
		{Symbol: "USDJPY", Bid: 147.490, Ask: 147.520, Time: now},
		{Symbol: "AUDUSD", Bid: 0.65490, Ask: 0.65510, Time: now},
		{Symbol: "USDCAD", Bid: 1.37490, Ask: 1.37520, Time: now},
	} {
		engine.SetQuote(q)
	}

	guard := idempotency.NewGuard(time.Duration(cfg.Trading.IdempotencyRetentionSecs) * time.Second)

	gw := gateway.New(engine, engine, guard, jnl, gateway.Config{
		MinLot:      cfg.Trading.MinLot,
		MaxLot:      cfg.Trading.MaxLot,
		LotStep:     cfg.Trading.LotStep,
		MinStopPips: cfg.Trading.MinStopPips,
	}, newLogger())
	return gw, engine
}
