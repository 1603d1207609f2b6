package safety

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDenied   ApprovalStatus = "rejected"
	ApprovalExpired  ApprovalStatus = "expired"
)

// ApprovalRequest is created when a proposed trade's notional exceeds the
// approval threshold or a high-confidence anomaly forces review. It is
// resolved by an explicit approve/reject or expires after the configured
// timeout.
type ApprovalRequest struct {
	ID         string
	Trade      TradeRequest
	Notional   float64
	RiskScore  int
	Status     ApprovalStatus
	CreatedAt  time.Time
	ResolvedAt time.Time
	Notes      string
}

// approval pairs the request with its wake-on-resolve channel. done is
// closed exactly once, under the controller lock, when the request leaves
// the pending state; racing resolutions and timeouts are serialized there.
type approval struct {
	req  ApprovalRequest
	done chan struct{}
}

func (a *approval) resolveLocked(status ApprovalStatus, notes string, now time.Time) bool {
	if a.req.Status != ApprovalPending {
		return false
	}
	a.req.Status = status
	a.req.Notes = notes
	a.req.ResolvedAt = now
	close(a.done)
	return true
}
