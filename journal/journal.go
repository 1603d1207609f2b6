// journal/journal.go
package journal

import "time"

// AlertRecord is one safety alert written to the audit trail.
type AlertRecord struct {
	AlertID  string
	Type     string
	Severity string
	Message  string
	Time     time.Time
	Action   string
}

// ApprovalRecord is the final state of an approval request. Expired
// requests are "undecided", not denials, and are recorded as such.
type ApprovalRecord struct {
	RequestID  string
	Symbol     string
	Side       string
	Volume     float64
	Price      float64
	Notional   float64
	RiskScore  int
	Status     string
	CreatedAt  time.Time
	ResolvedAt time.Time
	Notes      string
}

// EquitySnapshot captures the portfolio aggregate at a point in time.
type EquitySnapshot struct {
	Time        time.Time
	Equity      float64
	TotalNetPL  float64
	TotalVolume float64
	MarginUsed  float64
	OpenCount   int
}

type Journal interface {
	RecordAlert(AlertRecord) error
	RecordApproval(ApprovalRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Discard is a no-op journal.
type Discard struct{}

func (Discard) RecordAlert(AlertRecord) error       { return nil }
func (Discard) RecordApproval(ApprovalRecord) error { return nil }
func (Discard) RecordEquity(EquitySnapshot) error   { return nil }
func (Discard) Close() error                        { return nil }
