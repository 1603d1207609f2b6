package safety

import (
	"context"
	"time"
)

// Sweep runs one periodic maintenance pass as of now: stale non-critical
// alerts are pruned, pending approvals past their deadline expire, and
// resolved approvals older than the retention window are dropped.
// Taking now as a parameter keeps the sweep testable without a real
// clock.
func (c *Controller) Sweep(now time.Time) {
	var expired []string

	c.mu.Lock()
	cutoff := now.Add(-c.settings.AlertRetention)
	kept := c.alerts[:0]
	for _, a := range c.alerts {
		if a.Severity >= SeverityCritical || a.Time.After(cutoff) {
			kept = append(kept, a)
		}
	}
	c.alerts = kept

	deadline := c.settings.ApprovalTimeout
	for id, ap := range c.approvals {
		switch {
		case ap.req.Status == ApprovalPending && now.Sub(ap.req.CreatedAt) >= deadline:
			expired = append(expired, id)
		case ap.req.Status != ApprovalPending && ap.req.ResolvedAt.Before(cutoff):
			delete(c.approvals, id)
		}
	}
	c.mu.Unlock()

	for _, id := range expired {
		c.expireApproval(id, "timed out")
	}
}

// RunPeriodicChecks owns the safety tick: every interval it sweeps alerts
// and approvals until the context is cancelled. Run it on its own
// goroutine.
func (c *Controller) RunPeriodicChecks(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(time.Now())
		}
	}
}
