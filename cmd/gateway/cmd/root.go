package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mt5-gateway",
	Short: "A signal-to-order execution gateway with risk-based sizing",
	Long: `mt5-gateway turns trading-signal requests into sized, risk-bounded
orders against a broker account.

It provides:
  - At-most-once signal execution via idempotency keys
  - Risk-based position sizing with broker-legal lot rounding
  - Stop/target resolution with minimum-distance enforcement
  - Pre-trade margin sufficiency gating
  - An execution journal (CSV or SQLite)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	logLevel  string
	logFormat string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
}

// newLogger builds the process logger from the persistent flags.
func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if logFormat == "console" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log
}
