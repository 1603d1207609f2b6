package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetApproval returns a single approval record by request ID.
func (j *SQLiteJournal) GetApproval(requestID string) (ApprovalRecord, error) {
	var rec ApprovalRecord

	row := j.db.QueryRow(`
		SELECT request_id, symbol, side, volume, price, notional, risk_score, status, created_at, resolved_at, notes
		FROM approvals
		WHERE request_id = ?`, requestID)

	err := row.Scan(
		&rec.RequestID,
		&rec.Symbol,
		&rec.Side,
		&rec.Volume,
		&rec.Price,
		&rec.Notional,
		&rec.RiskScore,
		&rec.Status,
		&rec.CreatedAt,
		&rec.ResolvedAt,
		&rec.Notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return ApprovalRecord{}, fmt.Errorf("approval %q not found", requestID)
		}
		return ApprovalRecord{}, err
	}
	return rec, nil
}

// ListAlertsBetween returns alerts whose time is within [start, end).
func (j *SQLiteJournal) ListAlertsBetween(start, end time.Time) ([]AlertRecord, error) {
	rows, err := j.db.Query(`
		SELECT alert_id, type, severity, message, time, action
		FROM alerts
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		if err := rows.Scan(
			&rec.AlertID,
			&rec.Type,
			&rec.Severity,
			&rec.Message,
			&rec.Time,
			&rec.Action,
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
