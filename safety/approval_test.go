package safety

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tracker/journal"
	"github.com/rustyeddy/tracker/valuation"
)

// captureJournal records approval resolutions for inspection.
type captureJournal struct {
	mu        sync.Mutex
	approvals []journal.ApprovalRecord
}

func (c *captureJournal) RecordAlert(journal.AlertRecord) error { return nil }

func (c *captureJournal) RecordApproval(r journal.ApprovalRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.approvals = append(c.approvals, r)
	return nil
}

func (c *captureJournal) RecordEquity(journal.EquitySnapshot) error { return nil }
func (c *captureJournal) Close() error                              { return nil }

func bigTrade() TradeRequest {
	// 2.0 lots at 1.1: notional 220,000.
	return TradeRequest{
		Symbol: "EURUSD",
		Side:   valuation.Long,
		Volume: 2.0,
		Price:  1.1,
		Time:   time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}
}

func approvalSettings(timeout time.Duration) Settings {
	s := openSettings()
	s.ApprovalThreshold = 100_000
	s.ApprovalTimeout = timeout
	return s
}

func TestApproval_Timeout(t *testing.T) {
	t.Parallel()

	c := newTestController(t, approvalSettings(50*time.Millisecond))

	res, err := c.ValidateTrade(context.Background(), bigTrade())
	require.Error(t, err)
	assert.Equal(t, ApprovalTimeout, CodeOf(err))
	assert.False(t, res.Valid)
	assert.Empty(t, c.PendingApprovals())
}

func TestApproval_Approved(t *testing.T) {
	t.Parallel()

	c := newTestController(t, approvalSettings(5*time.Second))

	go func() {
		for i := 0; i < 100; i++ {
			if pending := c.PendingApprovals(); len(pending) == 1 {
				c.ApproveTrade(pending[0].ID, "looks fine")
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	res, err := c.ValidateTrade(context.Background(), bigTrade())
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.NotEmpty(t, res.ApprovalID)
}

func TestApproval_Rejected(t *testing.T) {
	t.Parallel()

	c := newTestController(t, approvalSettings(5*time.Second))

	go func() {
		for i := 0; i < 100; i++ {
			if pending := c.PendingApprovals(); len(pending) == 1 {
				c.RejectTrade(pending[0].ID, "too large for this session")
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	_, err := c.ValidateTrade(context.Background(), bigTrade())
	require.Error(t, err)
	assert.Equal(t, ApprovalRejected, CodeOf(err))
	assert.Contains(t, err.Error(), "too large")
}

func TestApproval_ContextCancelled(t *testing.T) {
	t.Parallel()

	c := newTestController(t, approvalSettings(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := c.ValidateTrade(ctx, bigTrade())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.PendingApprovals(), "cancelled request must not stay pending")
}

func TestApproval_BelowThresholdSkipsApproval(t *testing.T) {
	t.Parallel()

	c := newTestController(t, approvalSettings(5*time.Second))

	small := bigTrade()
	small.Volume = 0.5 // notional 55,000, under the 100,000 threshold

	res, err := c.ValidateTrade(context.Background(), small)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.ApprovalID)
}

func TestApproval_ResolveUnknownIsNoop(t *testing.T) {
	t.Parallel()

	c := newTestController(t, openSettings())
	c.ApproveTrade("no-such-request", "")
	c.RejectTrade("no-such-request", "")
	assert.Empty(t, c.PendingApprovals())
}

func TestApproval_CarriesRiskScore(t *testing.T) {
	t.Parallel()

	j := &captureJournal{}
	c, err := NewController(approvalSettings(5*time.Second), j, nil)
	require.NoError(t, err)
	c.SetRiskScorer(func(TradeRequest) int { return 7 })

	pendingc := make(chan ApprovalRequest, 1)
	go func() {
		for i := 0; i < 100; i++ {
			if pending := c.PendingApprovals(); len(pending) == 1 {
				pendingc <- pending[0]
				c.ApproveTrade(pending[0].ID, "ok")
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	res, err := c.ValidateTrade(context.Background(), bigTrade())
	require.NoError(t, err)
	require.True(t, res.Valid)

	pending := <-pendingc
	assert.Equal(t, 7, pending.RiskScore, "pending request carries the computed score")

	j.mu.Lock()
	defer j.mu.Unlock()
	require.Len(t, j.approvals, 1)
	assert.Equal(t, 7, j.approvals[0].RiskScore)
	assert.Equal(t, "approved", j.approvals[0].Status)
}

func TestSweep_DropsResolvedApprovals(t *testing.T) {
	t.Parallel()

	c := newTestController(t, approvalSettings(5*time.Second))

	go func() {
		for i := 0; i < 100; i++ {
			if pending := c.PendingApprovals(); len(pending) == 1 {
				c.ApproveTrade(pending[0].ID, "ok")
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	_, err := c.ValidateTrade(context.Background(), bigTrade())
	require.NoError(t, err)

	c.mu.Lock()
	held := len(c.approvals)
	c.mu.Unlock()
	require.Equal(t, 1, held, "resolved request is retained for inspection")

	// Past the retention window the resolved request is garbage collected.
	c.Sweep(time.Now().Add(2 * time.Hour))

	c.mu.Lock()
	held = len(c.approvals)
	c.mu.Unlock()
	assert.Zero(t, held)
}

func TestSweep_ExpiresPendingApprovals(t *testing.T) {
	t.Parallel()

	c := newTestController(t, approvalSettings(time.Minute))

	errc := make(chan error, 1)
	go func() {
		_, err := c.ValidateTrade(context.Background(), bigTrade())
		errc <- err
	}()

	require.Eventually(t, func() bool {
		return len(c.PendingApprovals()) == 1
	}, time.Second, 10*time.Millisecond)

	c.Sweep(time.Now().Add(2 * time.Minute))

	select {
	case err := <-errc:
		assert.Equal(t, ApprovalTimeout, CodeOf(err))
	case <-time.After(time.Second):
		t.Fatal("validation did not return after sweep expiry")
	}
	assert.Empty(t, c.PendingApprovals())
}
