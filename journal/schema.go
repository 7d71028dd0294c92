package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	type TEXT NOT NULL,
	profit TEXT NOT NULL,
	volume TEXT NOT NULL,
	equity TEXT NOT NULL,
	date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_trades_date_symbol ON trades(date, symbol);
`
