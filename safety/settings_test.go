package safety

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, DefaultSettings().Validate())
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"zero_value_ok", func(s *Settings) {}, ""},
		{"negative_loss_limit", func(s *Settings) { s.DailyLossLimit = -1 }, "daily_loss_limit"},
		{"drawdown_over_one", func(s *Settings) { s.MaxDrawdownLimit = 1.5 }, "max_drawdown_limit"},
		{"negative_drawdown", func(s *Settings) { s.MaxDrawdownLimit = -0.1 }, "max_drawdown_limit"},
		{"negative_threshold", func(s *Settings) { s.ApprovalThreshold = -100 }, "approval_threshold"},
		{"negative_positions", func(s *Settings) { s.MaxOpenPositions = -1 }, "max_open_positions"},
		{"negative_leverage", func(s *Settings) { s.MaxLeverage = -30 }, "max_leverage"},
		{"negative_timeout", func(s *Settings) { s.ApprovalTimeout = -time.Second }, "approval_timeout"},
		{
			"unknown_weekday",
			func(s *Settings) {
				s.TradingHours = map[string]Window{"funday": {Start: "08:00", End: "17:00"}}
			},
			"unknown weekday",
		},
		{
			"end_before_start",
			func(s *Settings) {
				s.TradingHours = map[string]Window{"monday": {Start: "17:00", End: "08:00"}}
			},
			"end must be after start",
		},
		{
			"bad_clock",
			func(s *Settings) {
				s.TradingHours = map[string]Window{"monday": {Start: "8am", End: "17:00"}}
			},
			"bad clock",
		},
		{
			"clock_out_of_range",
			func(s *Settings) {
				s.TradingHours = map[string]Window{"monday": {Start: "25:00", End: "26:00"}}
			},
			"bad clock",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var s Settings
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWithinTradingHours(t *testing.T) {
	t.Parallel()

	monday := func(hour, min int) time.Time {
		return time.Date(2026, 8, 31, hour, min, 0, 0, time.UTC)
	}

	empty := Settings{}
	assert.True(t, empty.withinTradingHours(monday(3, 0)), "no windows means always open")

	s := Settings{TradingHours: map[string]Window{
		"monday": {Start: "08:00", End: "17:00"},
	}}

	assert.True(t, s.withinTradingHours(monday(8, 0)), "start is inclusive")
	assert.True(t, s.withinTradingHours(monday(16, 59)))
	assert.False(t, s.withinTradingHours(monday(17, 0)), "end is exclusive")
	assert.False(t, s.withinTradingHours(monday(7, 59)))

	tuesday := monday(10, 0).AddDate(0, 0, 1)
	assert.False(t, s.withinTradingHours(tuesday), "unlisted weekday is closed")
}

func TestSymbolAllowed(t *testing.T) {
	t.Parallel()

	s := Settings{
		Blacklist: []string{"USDTRY"},
		Whitelist: []string{"EURUSD", "USDJPY"},
	}

	assert.Nil(t, s.symbolAllowed("EURUSD"))
	assert.Equal(t, NotWhitelisted, s.symbolAllowed("GBPUSD").Code)
	assert.Equal(t, BlacklistedSymbol, s.symbolAllowed("USDTRY").Code)
	assert.Equal(t, BlacklistedSymbol, s.symbolAllowed("usdtry").Code)
}
