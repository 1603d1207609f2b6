// Package safety guards trade execution: it validates proposed trades
// against configured limits and can escalate to pausing or emergency
// stopping a trading session.
package safety

import (
	"fmt"
	"strings"
	"time"
)

// Window is a daily trading window, inclusive of Start, exclusive of End.
type Window struct {
	Start string `json:"start" yaml:"start"` // "HH:MM"
	End   string `json:"end" yaml:"end"`
}

func (w Window) contains(t time.Time) (bool, error) {
	start, err := parseClock(w.Start)
	if err != nil {
		return false, fmt.Errorf("window start: %w", err)
	}
	end, err := parseClock(w.End)
	if err != nil {
		return false, fmt.Errorf("window end: %w", err)
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= start && minutes < end, nil
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	return h*60 + m, nil
}

// Settings is the full safety configuration. Limits set to zero are
// disabled; negative limits are rejected at load time, never clamped.
type Settings struct {
	PaperTrading            bool    `json:"paper_trading" yaml:"paper_trading"`
	DailyLossLimit          float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`
	MaxDrawdownLimit        float64 `json:"max_drawdown_limit" yaml:"max_drawdown_limit"` // fraction of peak
	ApprovalThreshold       float64 `json:"approval_threshold" yaml:"approval_threshold"` // notional, account currency
	EmergencyStopEnabled    bool    `json:"emergency_stop_enabled" yaml:"emergency_stop_enabled"`
	AnomalyDetectionEnabled bool    `json:"anomaly_detection_enabled" yaml:"anomaly_detection_enabled"`
	MaxOpenPositions        int     `json:"max_open_positions" yaml:"max_open_positions"`
	MaxLeverage             float64 `json:"max_leverage" yaml:"max_leverage"`

	Blacklist []string `json:"blacklist,omitempty" yaml:"blacklist,omitempty"`
	Whitelist []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`

	// TradingHours maps lowercase weekday names ("monday") to windows.
	// An empty map means trading is allowed around the clock; a non-empty
	// map closes any weekday it does not mention.
	TradingHours map[string]Window `json:"trading_hours,omitempty" yaml:"trading_hours,omitempty"`

	ApprovalTimeout time.Duration `json:"approval_timeout" yaml:"approval_timeout"`
	AlertRetention  time.Duration `json:"alert_retention" yaml:"alert_retention"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		DailyLossLimit:          1000,
		MaxDrawdownLimit:        0.20,
		ApprovalThreshold:       500_000,
		EmergencyStopEnabled:    true,
		AnomalyDetectionEnabled: true,
		MaxOpenPositions:        10,
		MaxLeverage:             30,
		ApprovalTimeout:         60 * time.Second,
		AlertRetention:          time.Hour,
	}
}

// Validate rejects malformed settings. Bad configuration is a load-time
// error, not something to silently repair.
func (s Settings) Validate() error {
	if s.DailyLossLimit < 0 {
		return fmt.Errorf("daily_loss_limit must not be negative")
	}
	if s.MaxDrawdownLimit < 0 || s.MaxDrawdownLimit > 1 {
		return fmt.Errorf("max_drawdown_limit must be a fraction in [0,1]")
	}
	if s.ApprovalThreshold < 0 {
		return fmt.Errorf("approval_threshold must not be negative")
	}
	if s.MaxOpenPositions < 0 {
		return fmt.Errorf("max_open_positions must not be negative")
	}
	if s.MaxLeverage < 0 {
		return fmt.Errorf("max_leverage must not be negative")
	}
	if s.ApprovalTimeout < 0 {
		return fmt.Errorf("approval_timeout must not be negative")
	}
	if s.AlertRetention < 0 {
		return fmt.Errorf("alert_retention must not be negative")
	}
	for day, w := range s.TradingHours {
		if !validWeekday(day) {
			return fmt.Errorf("trading_hours: unknown weekday %q", day)
		}
		start, err := parseClock(w.Start)
		if err != nil {
			return fmt.Errorf("trading_hours[%s]: %w", day, err)
		}
		end, err := parseClock(w.End)
		if err != nil {
			return fmt.Errorf("trading_hours[%s]: %w", day, err)
		}
		if end <= start {
			return fmt.Errorf("trading_hours[%s]: end must be after start", day)
		}
	}
	return nil
}

func validWeekday(day string) bool {
	switch strings.ToLower(day) {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}

// withinTradingHours reports whether t falls inside the configured window
// for its weekday.
func (s Settings) withinTradingHours(t time.Time) bool {
	if len(s.TradingHours) == 0 {
		return true
	}
	day := strings.ToLower(t.Weekday().String())
	w, ok := s.TradingHours[day]
	if !ok {
		return false
	}
	in, err := w.contains(t)
	if err != nil {
		// Validate() keeps this unreachable for loaded settings.
		return false
	}
	return in
}

// symbolAllowed evaluates blacklist and whitelist independently: a
// non-empty whitelist confines trading to listed symbols regardless of
// the blacklist.
func (s Settings) symbolAllowed(symbol string) *CheckError {
	for _, b := range s.Blacklist {
		if strings.EqualFold(b, symbol) {
			return newCheckError(BlacklistedSymbol, "symbol %s is blacklisted", symbol)
		}
	}
	if len(s.Whitelist) > 0 {
		for _, w := range s.Whitelist {
			if strings.EqualFold(w, symbol) {
				return nil
			}
		}
		return newCheckError(NotWhitelisted, "symbol %s is not whitelisted", symbol)
	}
	return nil
}
