package safety

import (
	"errors"
	"fmt"
)

// CheckCode identifies which safety check a trade failed. Validation
// failures are expected control flow; callers branch on the code to show
// the right message.
type CheckCode string

const (
	EmergencyStopActive    CheckCode = "EMERGENCY_STOP_ACTIVE"
	TradingPaused          CheckCode = "TRADING_PAUSED"
	DailyLossLimitExceeded CheckCode = "DAILY_LOSS_LIMIT_EXCEEDED"
	MaxPositionsExceeded   CheckCode = "MAX_POSITIONS_EXCEEDED"
	LeverageLimitExceeded  CheckCode = "LEVERAGE_LIMIT_EXCEEDED"
	OutsideTradingHours    CheckCode = "OUTSIDE_TRADING_HOURS"
	BlacklistedSymbol      CheckCode = "BLACKLISTED_SYMBOL"
	NotWhitelisted         CheckCode = "NOT_WHITELISTED"
	ApprovalTimeout        CheckCode = "APPROVAL_TIMEOUT"
	ApprovalRejected       CheckCode = "APPROVAL_REJECTED"
)

// CheckError is the typed failure for a single violated check. Validation
// fails fast: only the first violated check in the declared order is
// reported.
type CheckError struct {
	Code CheckCode
	Msg  string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func newCheckError(code CheckCode, format string, args ...any) *CheckError {
	return &CheckError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the check code from an error, or "" when the error is
// not a safety check failure.
func CodeOf(err error) CheckCode {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// ErrResumeNotConfirmed is returned by ResumeTrading after an emergency
// stop until the operator explicitly confirms the resume.
var ErrResumeNotConfirmed = errors.New("resume requires explicit confirmation after emergency stop")
