package safety

import "time"

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityEmergency
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	case SeverityEmergency:
		return "emergency"
	default:
		return "info"
	}
}

type AlertType string

const (
	AlertDailyLoss     AlertType = "daily_loss"
	AlertDrawdown      AlertType = "drawdown"
	AlertEmergencyStop AlertType = "emergency_stop"
	AlertAnomaly       AlertType = "anomaly"
	AlertPause         AlertType = "pause"
)

// Alert is an ephemeral in-memory safety alert. Non-critical alerts are
// pruned after the retention window; critical and emergency alerts stay
// until a resume clears them.
type Alert struct {
	ID       string
	Type     AlertType
	Severity Severity
	Message  string
	Time     time.Time
	Action   string // optional remediation, e.g. "close all positions"
}
