package safety

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/tracker/internal/id"
	"github.com/rustyeddy/tracker/journal"
	"github.com/rustyeddy/tracker/notify"
	"github.com/rustyeddy/tracker/position"
	"github.com/rustyeddy/tracker/valuation"
)

// SessionState is the trading session state. EmergencyStopped supersedes
// Paused: clearing the pause alone never unblocks trading while the stop
// is active.
type SessionState int

const (
	StateNormal SessionState = iota
	StatePaused
	StateEmergencyStopped
)

func (s SessionState) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateEmergencyStopped:
		return "emergency-stopped"
	default:
		return "normal"
	}
}

// TradeRequest is a proposed trade submitted for validation.
type TradeRequest struct {
	Symbol string
	Side   valuation.Side
	Volume float64
	Price  float64
	Time   time.Time // zero means "now"
}

func (r TradeRequest) notional() float64 {
	return r.Volume * valuation.ContractSize(r.Symbol) * r.Price
}

// ValidationResult is returned when a trade passes validation.
type ValidationResult struct {
	Valid      bool
	PaperTrade bool
	Warnings   []string
	ApprovalID string // set when the trade went through manual approval
}

// AccountState is the account context fed from the outside: the
// controller never reads broker state itself.
type AccountState struct {
	Equity           float64
	OpenPositions    int
	ExposureNotional float64
}

// Controller is the safety state machine. One mutex guards all mutable
// state; the only blocking operation, the approval wait, happens outside
// the lock on a wake-on-resolve channel.
type Controller struct {
	mu       sync.Mutex
	settings Settings
	journal  journal.Journal
	notifier notify.Notifier

	emergencyStopped bool
	paused           bool
	pauseReason      string
	needsConfirm     bool // set by an emergency stop, cleared by ConfirmResume
	resumeConfirmed  bool

	acct           AccountState
	dailyPnL       float64
	lossAlertLevel int

	peakEquity      float64
	drawdown        float64
	drawdownAlerted bool

	alerts    []Alert
	approvals map[string]*approval
	anomalies detector
	scoreRisk func(TradeRequest) int
}

// NewController validates the settings and builds a controller. A nil
// journal or notifier is replaced with a discard implementation.
func NewController(settings Settings, j journal.Journal, n notify.Notifier) (*Controller, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("safety settings: %w", err)
	}
	if settings.ApprovalTimeout == 0 {
		settings.ApprovalTimeout = 60 * time.Second
	}
	if settings.AlertRetention == 0 {
		settings.AlertRetention = time.Hour
	}
	if j == nil {
		j = journal.Discard{}
	}
	if n == nil {
		n = notify.Discard{}
	}
	return &Controller{
		settings:  settings,
		journal:   j,
		notifier:  n,
		approvals: make(map[string]*approval),
	}, nil
}

func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.emergencyStopped:
		return StateEmergencyStopped
	case c.paused:
		return StatePaused
	default:
		return StateNormal
	}
}

// ValidateTrade runs the ordered safety checks and fails fast at the
// first violation. Trades over the approval threshold (or flagged by a
// high-confidence anomaly) block on a cancellable approval wait.
func (c *Controller) ValidateTrade(ctx context.Context, req TradeRequest) (ValidationResult, error) {
	now := req.Time
	if now.IsZero() {
		now = time.Now()
	}
	notional := req.notional()

	c.mu.Lock()

	if c.emergencyStopped {
		c.mu.Unlock()
		return ValidationResult{}, newCheckError(EmergencyStopActive, "emergency stop is active")
	}
	if c.paused {
		reason := c.pauseReason
		c.mu.Unlock()
		return ValidationResult{}, newCheckError(TradingPaused, "trading is paused (%s)", reason)
	}
	if c.settings.PaperTrading {
		c.anomalies.record(now, req.Volume)
		c.mu.Unlock()
		return ValidationResult{
			Valid:      true,
			PaperTrade: true,
			Warnings:   []string{"paper trading mode: order will not reach the broker"},
		}, nil
	}
	if c.settings.DailyLossLimit > 0 && c.dailyPnL <= -c.settings.DailyLossLimit {
		c.mu.Unlock()
		return ValidationResult{}, newCheckError(DailyLossLimitExceeded,
			"daily P/L %.2f breaches loss limit %.2f", c.dailyPnL, c.settings.DailyLossLimit)
	}
	if c.settings.MaxOpenPositions > 0 && c.acct.OpenPositions >= c.settings.MaxOpenPositions {
		c.mu.Unlock()
		return ValidationResult{}, newCheckError(MaxPositionsExceeded,
			"open positions %d >= max %d", c.acct.OpenPositions, c.settings.MaxOpenPositions)
	}
	if c.settings.MaxLeverage > 0 && c.acct.Equity > 0 {
		projected := (c.acct.ExposureNotional + notional) / c.acct.Equity
		if projected > c.settings.MaxLeverage {
			c.mu.Unlock()
			return ValidationResult{}, newCheckError(LeverageLimitExceeded,
				"projected leverage %.1f exceeds max %.1f", projected, c.settings.MaxLeverage)
		}
	}
	if !c.settings.withinTradingHours(now) {
		c.mu.Unlock()
		return ValidationResult{}, newCheckError(OutsideTradingHours,
			"no trading window configured for %s %s", now.Weekday(), now.Format("15:04"))
	}
	if cerr := c.settings.symbolAllowed(req.Symbol); cerr != nil {
		c.mu.Unlock()
		return ValidationResult{}, cerr
	}

	var warnings []string
	forceApproval := false
	if c.settings.AnomalyDetectionEnabled {
		if rep, found := c.anomalies.check(now, req.Volume); found {
			warnings = append(warnings, rep.Reason)
			c.emitAlertLocked(AlertAnomaly, SeverityWarning, rep.Reason, "")
			if rep.Confidence > forceApprovalConfidence {
				forceApproval = true
			}
		}
	}

	needsApproval := forceApproval ||
		(c.settings.ApprovalThreshold > 0 && notional > c.settings.ApprovalThreshold)
	if !needsApproval {
		c.anomalies.record(now, req.Volume)
		c.mu.Unlock()
		return ValidationResult{Valid: true, Warnings: warnings}, nil
	}

	scorer := c.scoreRisk
	c.mu.Unlock()

	// The scorer runs outside the lock; it may consult stores that call
	// back into the controller.
	var score int
	if scorer != nil {
		score = scorer(req)
	}

	c.mu.Lock()
	ap := &approval{
		req: ApprovalRequest{
			ID:        id.New(),
			Trade:     req,
			Notional:  notional,
			RiskScore: score,
			Status:    ApprovalPending,
			CreatedAt: now,
		},
		done: make(chan struct{}),
	}
	c.approvals[ap.req.ID] = ap
	timeout := c.settings.ApprovalTimeout
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ap.done:
	case <-timer.C:
		c.expireApproval(ap.req.ID, "timed out")
	case <-ctx.Done():
		c.expireApproval(ap.req.ID, "context cancelled")
		return ValidationResult{}, ctx.Err()
	}

	c.mu.Lock()
	status, notes := ap.req.Status, ap.req.Notes
	if status == ApprovalApproved {
		c.anomalies.record(now, req.Volume)
	}
	c.mu.Unlock()

	switch status {
	case ApprovalApproved:
		return ValidationResult{Valid: true, Warnings: warnings, ApprovalID: ap.req.ID}, nil
	case ApprovalDenied:
		return ValidationResult{}, newCheckError(ApprovalRejected, "trade rejected: %s", notes)
	default:
		return ValidationResult{}, newCheckError(ApprovalTimeout,
			"approval request %s expired after %s", ap.req.ID, timeout)
	}
}

// CanExecuteTrade is the fast synchronous pre-flight gate: the same hard
// limits, without anomaly detection or approval routing.
func (c *Controller) CanExecuteTrade(symbol string, side valuation.Side, volume, price, balance float64) (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.emergencyStopped {
		return false, "emergency stop is active"
	}
	if c.paused {
		return false, "trading is paused"
	}
	if c.settings.DailyLossLimit > 0 && c.dailyPnL <= -c.settings.DailyLossLimit {
		return false, "daily loss limit reached"
	}
	if c.settings.MaxOpenPositions > 0 && c.acct.OpenPositions >= c.settings.MaxOpenPositions {
		return false, "max open positions reached"
	}
	if c.settings.MaxLeverage > 0 && balance > 0 {
		notional := volume * valuation.ContractSize(symbol) * price
		if (c.acct.ExposureNotional+notional)/balance > c.settings.MaxLeverage {
			return false, "leverage limit exceeded"
		}
	}
	if !c.settings.withinTradingHours(time.Now()) {
		return false, "outside trading hours"
	}
	if cerr := c.settings.symbolAllowed(symbol); cerr != nil {
		return false, cerr.Msg
	}
	return true, ""
}

// ActivateEmergencyStop hard-halts the session. Repeat activations are
// no-ops and emit no further alerts.
func (c *Controller) ActivateEmergencyStop() {
	c.mu.Lock()
	if c.emergencyStopped {
		c.mu.Unlock()
		return
	}
	c.emergencyStopped = true
	c.paused = true
	c.pauseReason = "emergency stop"
	c.needsConfirm = true
	c.resumeConfirmed = false
	c.emitAlertLocked(AlertEmergencyStop, SeverityEmergency,
		"emergency stop activated: all trading halted", "close all positions")
	c.mu.Unlock()

	// Fire-and-forget; the notification sink must never block the caller.
	go func() {
		_ = c.notifier.Notify(context.Background(), "EMERGENCY STOP: all trading halted, close all positions")
	}()
}

// DeactivateEmergencyStop clears the hard halt but leaves the session
// paused. Trading resumes only after ConfirmResume and an explicit
// ResumeTrading call.
func (c *Controller) DeactivateEmergencyStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.emergencyStopped {
		return
	}
	c.emergencyStopped = false
	c.emitAlertLocked(AlertEmergencyStop, SeverityInfo,
		"emergency stop deactivated; session remains paused until resume is confirmed", "")
}

// ConfirmResume is the explicit operator acknowledgement required between
// an emergency stop and a resume.
func (c *Controller) ConfirmResume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeConfirmed = true
}

func (c *Controller) PauseTrading(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.paused = true
	c.pauseReason = reason
	c.emitAlertLocked(AlertPause, SeverityWarning, "trading paused: "+reason, "")
}

// ResumeTrading lifts a pause and clears held alerts. It refuses while the
// emergency stop is active, and after one it requires a prior
// ConfirmResume.
func (c *Controller) ResumeTrading() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.emergencyStopped {
		return newCheckError(EmergencyStopActive, "deactivate the emergency stop first")
	}
	if c.needsConfirm && !c.resumeConfirmed {
		return ErrResumeNotConfirmed
	}

	c.paused = false
	c.pauseReason = ""
	c.needsConfirm = false
	c.resumeConfirmed = false
	c.lossAlertLevel = 0
	c.drawdownAlerted = false
	c.alerts = nil
	return nil
}

// UpdateDailyPnL records the session's realized+unrealized daily P/L and
// escalates: warning at 80% of the loss limit, critical at the limit with
// an auto-pause when the emergency-stop setting is enabled.
func (c *Controller) UpdateDailyPnL(pnl float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dailyPnL = pnl
	limit := c.settings.DailyLossLimit
	if limit <= 0 {
		return
	}

	level := 0
	switch {
	case pnl <= -limit:
		level = 2
	case pnl <= -0.8*limit:
		level = 1
	}

	if level > c.lossAlertLevel {
		switch level {
		case 1:
			c.emitAlertLocked(AlertDailyLoss, SeverityWarning,
				fmt.Sprintf("daily P/L %.2f at 80%% of loss limit %.2f", pnl, limit), "")
		case 2:
			c.emitAlertLocked(AlertDailyLoss, SeverityCritical,
				fmt.Sprintf("daily loss limit reached: %.2f", pnl), "reduce exposure")
			if c.settings.EmergencyStopEnabled && !c.paused {
				c.paused = true
				c.pauseReason = "daily loss limit"
			}
		}
	}
	c.lossAlertLevel = level
}

// UpdateDrawdown tracks the peak-equity high-water mark and the current
// drawdown fraction. Crossing the configured limit emits a critical alert
// and auto-pauses when enabled.
func (c *Controller) UpdateDrawdown(equity float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if equity > c.peakEquity {
		c.peakEquity = equity
	}
	if c.peakEquity > 0 {
		c.drawdown = (c.peakEquity - equity) / c.peakEquity
	}

	limit := c.settings.MaxDrawdownLimit
	if limit <= 0 {
		return
	}
	if c.drawdown > limit {
		if !c.drawdownAlerted {
			c.drawdownAlerted = true
			c.emitAlertLocked(AlertDrawdown, SeverityCritical,
				fmt.Sprintf("drawdown %.1f%% exceeds limit %.1f%%", c.drawdown*100, limit*100),
				"reduce exposure")
			if c.settings.EmergencyStopEnabled && !c.paused {
				c.paused = true
				c.pauseReason = "max drawdown"
			}
		}
	} else {
		c.drawdownAlerted = false
	}
}

// SetRiskScorer installs the function whose result is attached to every
// approval request as its computed risk score. Without one, requests
// carry a zero score.
func (c *Controller) SetRiskScorer(fn func(TradeRequest) int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scoreRisk = fn
}

// UpdateAccount feeds the account context the leverage and position-count
// checks run against.
func (c *Controller) UpdateAccount(acct AccountState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acct = acct
}

// OnPositionsUpdated keeps the open-position count current; it lets the
// controller subscribe directly to a position.Tracker.
func (c *Controller) OnPositionsUpdated(agg position.Aggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acct.OpenPositions = agg.OpenCount
}

// ApproveTrade resolves a pending approval request. Unknown or already
// resolved requests are no-ops.
func (c *Controller) ApproveTrade(requestID, notes string) {
	c.resolveApproval(requestID, ApprovalApproved, notes)
}

// RejectTrade resolves a pending approval request as denied.
func (c *Controller) RejectTrade(requestID, reason string) {
	c.resolveApproval(requestID, ApprovalDenied, reason)
}

func (c *Controller) expireApproval(requestID, note string) {
	c.resolveApproval(requestID, ApprovalExpired, note)
}

func (c *Controller) resolveApproval(requestID string, status ApprovalStatus, notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ap, ok := c.approvals[requestID]
	if !ok {
		return
	}
	if !ap.resolveLocked(status, notes, time.Now()) {
		return
	}

	_ = c.journal.RecordApproval(journal.ApprovalRecord{
		RequestID:  ap.req.ID,
		Symbol:     ap.req.Trade.Symbol,
		Side:       ap.req.Trade.Side.String(),
		Volume:     ap.req.Trade.Volume,
		Price:      ap.req.Trade.Price,
		Notional:   ap.req.Notional,
		RiskScore:  ap.req.RiskScore,
		Status:     string(ap.req.Status),
		CreatedAt:  ap.req.CreatedAt,
		ResolvedAt: ap.req.ResolvedAt,
		Notes:      ap.req.Notes,
	})
}

// PendingApprovals returns copies of the requests still awaiting a
// decision.
func (c *Controller) PendingApprovals() []ApprovalRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []ApprovalRequest
	for _, ap := range c.approvals {
		if ap.req.Status == ApprovalPending {
			out = append(out, ap.req)
		}
	}
	return out
}

// Alerts returns a copy of the currently held alerts.
func (c *Controller) Alerts() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Alert, len(c.alerts))
	copy(out, c.alerts)
	return out
}

// SafetyScore is an informational 0-100 score: 100 minus deductions for
// loss-limit, drawdown and leverage utilization plus open anomaly alerts.
func (c *Controller) SafetyScore() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	score := 100.0

	if limit := c.settings.DailyLossLimit; limit > 0 && c.dailyPnL < 0 {
		score -= 30 * minf(1, -c.dailyPnL/limit)
	}
	if limit := c.settings.MaxDrawdownLimit; limit > 0 {
		score -= 30 * minf(1, c.drawdown/limit)
	}
	if c.settings.MaxLeverage > 0 && c.acct.Equity > 0 {
		lev := c.acct.ExposureNotional / c.acct.Equity
		score -= 20 * minf(1, lev/c.settings.MaxLeverage)
	}

	var anomalies int
	for _, a := range c.alerts {
		if a.Type == AlertAnomaly {
			anomalies++
		}
	}
	score -= minf(20, float64(anomalies)*5)

	if score < 0 {
		score = 0
	}
	return score
}

// emitAlertLocked appends an alert and writes it to the journal. Caller
// holds the lock. Journal failures do not block safety decisions.
func (c *Controller) emitAlertLocked(typ AlertType, sev Severity, msg, action string) {
	a := Alert{
		ID:       id.New(),
		Type:     typ,
		Severity: sev,
		Message:  msg,
		Time:     time.Now(),
		Action:   action,
	}
	c.alerts = append(c.alerts, a)
	_ = c.journal.RecordAlert(journal.AlertRecord{
		AlertID:  a.ID,
		Type:     string(a.Type),
		Severity: a.Severity.String(),
		Message:  a.Message,
		Time:     a.Time,
		Action:   a.Action,
	})
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
