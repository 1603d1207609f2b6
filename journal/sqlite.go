package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordAlert(a AlertRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO alerts
		(alert_id, type, severity, message, time, action)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.AlertID, a.Type, a.Severity, a.Message, a.Time, a.Action,
	)
	return err
}

func (j *SQLiteJournal) RecordApproval(r ApprovalRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO approvals
		(request_id, symbol, side, volume, price, notional, risk_score, status, created_at, resolved_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			status = excluded.status,
			resolved_at = excluded.resolved_at,
			notes = excluded.notes`,
		r.RequestID, r.Symbol, r.Side, r.Volume, r.Price, r.Notional,
		r.RiskScore, r.Status, r.CreatedAt, r.ResolvedAt, r.Notes,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, equity, total_net_pl, total_volume, margin_used, open_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.Equity, e.TotalNetPL, e.TotalVolume, e.MarginUsed, e.OpenCount,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
