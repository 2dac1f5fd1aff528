// Package config loads and validates gateway configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete gateway configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Trading TradingConfig `json:"trading" yaml:"trading"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// AccountConfig bootstraps the simulated account backend.
type AccountConfig struct {
	Login    int64   `json:"login" yaml:"login"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
	Leverage int     `json:"leverage" yaml:"leverage"`
}

// TradingConfig holds the execution limits the orchestrator enforces.
type TradingConfig struct {
	MinLot                   float64 `json:"min_lot" yaml:"min_lot"`
	MaxLot                   float64 `json:"max_lot" yaml:"max_lot"`
	LotStep                  float64 `json:"lot_step" yaml:"lot_step"`
	MinStopPips              float64 `json:"min_stop_pips" yaml:"min_stop_pips"`
	IdempotencyRetentionSecs int     `json:"idempotency_retention_seconds" yaml:"idempotency_retention_seconds"`
}

// JournalConfig selects the execution journal backend.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing the format by
// extension (.yaml/.yml get YAML, everything else JSON).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Account.Leverage <= 0 {
		return fmt.Errorf("account.leverage must be positive")
	}
	if c.Trading.MinLot <= 0 {
		return fmt.Errorf("trading.min_lot must be positive")
	}
	if c.Trading.MaxLot < c.Trading.MinLot {
		return fmt.Errorf("trading.max_lot must be >= trading.min_lot")
	}
	if c.Trading.LotStep <= 0 {
		return fmt.Errorf("trading.lot_step must be positive")
	}
	if c.Trading.MinStopPips < 0 {
		return fmt.Errorf("trading.min_stop_pips must not be negative")
	}
	if c.Trading.IdempotencyRetentionSecs <= 0 {
		return fmt.Errorf("trading.idempotency_retention_seconds must be positive")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.File == "" {
			return fmt.Errorf("journal.file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Login:    1234567,
			Currency: "USD",
			Balance:  10000,
			Leverage: 100,
		},
		Trading: TradingConfig{
			MinLot:                   0.01,
			MaxLot:                   100,
			LotStep:                  0.01,
			MinStopPips:              5,
			IdempotencyRetentionSecs: 3600,
		},
		Journal: JournalConfig{
			Type: "csv",
			File: "./executions.csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
