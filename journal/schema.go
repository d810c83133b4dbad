package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	order_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	asset TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	submitted_at DATETIME NOT NULL,
	filled_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_asset ON fills(asset);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	cash REAL NOT NULL,
	exposure REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
