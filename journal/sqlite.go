package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordExecution(r ExecutionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO executions
		(id, strategy, symbol, side, status, lot_size, price, stop_loss, take_profit, order_id, position_id, error, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Strategy, r.Symbol, r.Side, r.Status, r.LotSize, r.Price,
		r.StopLoss, r.TakeProfit, r.OrderID, r.PositionID, r.Error, r.Time,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
