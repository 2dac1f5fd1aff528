package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetExecution returns a single execution record by ID.
func (j *SQLite) GetExecution(id string) (ExecutionRecord, error) {
	var rec ExecutionRecord

	row := j.db.QueryRow(`
		SELECT id, strategy, symbol, side, status, lot_size, price, stop_loss, take_profit, order_id, position_id, error, time
		FROM executions
		WHERE id = ?`, id)

	err := row.Scan(
		&rec.ID,
		&rec.Strategy,
		&rec.Symbol,
		&rec.Side,
		&rec.Status,
		&rec.LotSize,
		&rec.Price,
		&rec.StopLoss,
		&rec.TakeProfit,
		&rec.OrderID,
		&rec.PositionID,
		&rec.Error,
		&rec.Time,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return ExecutionRecord{}, fmt.Errorf("execution %q not found", id)
		}
		return ExecutionRecord{}, err
	}
	return rec, nil
}

// ListExecutionsBetween returns executions whose time is within [start, end).
func (j *SQLite) ListExecutionsBetween(start, end time.Time) ([]ExecutionRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, strategy, symbol, side, status, lot_size, price, stop_loss, take_profit, order_id, position_id, error, time
		FROM executions
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExecutionRecord
	for rows.Next() {
		var rec ExecutionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Strategy,
			&rec.Symbol,
			&rec.Side,
			&rec.Status,
			&rec.LotSize,
			&rec.Price,
			&rec.StopLoss,
			&rec.TakeProfit,
			&rec.OrderID,
			&rec.PositionID,
			&rec.Error,
			&rec.Time,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
