package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		change float64
		symbol string
		want   float64
	}{
		{"eurusd_10_pips", 0.0010, "EURUSD", 10.0},
		{"usdjpy_10_pips", 0.10, "USDJPY", 10.0},
		{"eurusd_negative", -0.0025, "EURUSD", -25.0},
		{"gbpjpy_substring_match", 0.05, "GBPJPY", 5.0},
		{"zero", 0, "EURUSD", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Pips(tt.change, tt.symbol)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		side     Side
		open     float64
		current  float64
		volume   float64
		symbol   string
		wantPL   float64
		wantPips float64
	}{
		{
			name: "long_profit",
			side: Long, open: 1.1000, current: 1.1010, volume: 1.0, symbol: "EURUSD",
			wantPL: 100.0, wantPips: 10.0,
		},
		{
			name: "short_same_move_loses",
			side: Short, open: 1.1000, current: 1.1010, volume: 1.0, symbol: "EURUSD",
			wantPL: -100.0, wantPips: -10.0,
		},
		{
			name: "short_profit",
			side: Short, open: 1.2000, current: 1.1900, volume: 0.5, symbol: "EURUSD",
			wantPL: 500.0, wantPips: 100.0,
		},
		{
			name: "jpy_scale",
			side: Long, open: 150.00, current: 150.50, volume: 0.1, symbol: "USDJPY",
			wantPL: 5000.0, wantPips: 50.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pl, pips := PL(tt.side, tt.open, tt.current, tt.volume, tt.symbol)
			assert.InDelta(t, tt.wantPL, pl, 1e-6)
			assert.InDelta(t, tt.wantPips, pips, 1e-9)
		})
	}
}

func TestPipValue(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.0, PipValue("EURUSD", 1.0), 1e-9)
	assert.InDelta(t, 100.0, PipValue("USDJPY", 0.1), 1e-9)
	// volume sign never makes pip value negative
	assert.InDelta(t, 10.0, PipValue("EURUSD", -1.0), 1e-9)
}

func TestMarginUsed(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1100.0, MarginUsed("EURUSD", 1.0, 1.1000, 100), 1e-9)
	assert.InDelta(t, 0.0, MarginUsed("EURUSD", 1.0, 1.1000, 0), 1e-9)
	assert.GreaterOrEqual(t, MarginUsed("EURUSD", -2.0, 1.1000, 50), 0.0)
}

func TestRiskReward(t *testing.T) {
	t.Parallel()

	stop := 1.0900
	take := 1.1300

	rr, ok := RiskReward(Long, 1.1000, &stop, &take)
	assert.True(t, ok)
	assert.InDelta(t, 3.0, rr, 1e-9)

	_, ok = RiskReward(Long, 1.1000, nil, &take)
	assert.False(t, ok, "missing stop means undefined, not zero")

	_, ok = RiskReward(Long, 1.1000, &stop, nil)
	assert.False(t, ok)

	zeroRisk := 1.1000
	_, ok = RiskReward(Long, 1.1000, &zeroRisk, &take)
	assert.False(t, ok, "zero risk distance is undefined")
}
