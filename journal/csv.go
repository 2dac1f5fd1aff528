package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	header := []string{
		"id", "strategy", "symbol", "side", "status", "lot_size", "price",
		"stop_loss", "take_profit", "order_id", "position_id", "error", "time",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordExecution(r ExecutionRecord) error {
	err := j.w.Write([]string{
		r.ID,
		r.Strategy,
		r.Symbol,
		r.Side,
		r.Status,
		f(r.LotSize),
		f(r.Price),
		f(r.StopLoss),
		f(r.TakeProfit),
		r.OrderID,
		r.PositionID,
		r.Error,
		r.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
