// Package journal persists one record per terminal execution outcome,
// filled or rejected, so every signal that reached the gateway can be
// audited later.
package journal

import "time"

// ExecutionRecord is one terminal orchestration outcome.
type ExecutionRecord struct {
	ID         string
	Strategy   string
	Symbol     string
	Side       string
	Status     string // "filled" or the reject reason
	LotSize    float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	OrderID    string
	PositionID string
	Error      string
	Time       time.Time
}

type Journal interface {
	RecordExecution(ExecutionRecord) error
	Close() error
}

// Noop discards all records. Used when journaling is disabled.
type Noop struct{}

func (Noop) RecordExecution(ExecutionRecord) error { return nil }
func (Noop) Close() error                          { return nil }
