package journal

const Schema = `
CREATE TABLE IF NOT EXISTS executions (
	id TEXT PRIMARY KEY,
	strategy TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	status TEXT NOT NULL,
	lot_size REAL NOT NULL,
	price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	order_id TEXT NOT NULL,
	position_id TEXT NOT NULL,
	error TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_executions_time ON executions(time);
CREATE INDEX IF NOT EXISTS idx_executions_symbol ON executions(symbol);
`
