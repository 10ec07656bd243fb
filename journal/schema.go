// journal/schema.go
package journal

// Money columns are TEXT so decimal values round-trip losslessly.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	action TEXT NOT NULL,
	qty INTEGER NOT NULL,
	fill_price TEXT NOT NULL,
	raw_price TEXT NOT NULL,
	amount TEXT NOT NULL,
	commission TEXT NOT NULL,
	slippage TEXT NOT NULL,
	pnl TEXT,
	class TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
