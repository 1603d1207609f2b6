// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS alerts (
	alert_id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	severity TEXT NOT NULL,
	message TEXT NOT NULL,
	time DATETIME NOT NULL,
	action TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS approvals (
	request_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	volume REAL NOT NULL,
	price REAL NOT NULL,
	notional REAL NOT NULL,
	risk_score INTEGER NOT NULL,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	resolved_at DATETIME NOT NULL,
	notes TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	equity REAL NOT NULL,
	total_net_pl REAL NOT NULL,
	total_volume REAL NOT NULL,
	margin_used REAL NOT NULL,
	open_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_time ON alerts(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
