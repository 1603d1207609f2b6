// Package riskscore turns historical performance and live positions into a
// bounded composite risk score with a narrative breakdown. It never
// returns errors: sparse data falls back to documented heuristics.
package riskscore

// Style is a trading entity's declared style, used as a leverage fallback
// when no live positions exist.
type Style string

const (
	Scalping    Style = "scalping"
	DayTrading  Style = "day"
	Swing       Style = "swing"
	PositionTrd Style = "position"
	Algorithmic Style = "algorithmic"
	Mixed       Style = "mixed"
)

// styleLeverage is the assumed average leverage per declared style when no
// live position data is available.
var styleLeverage = map[Style]float64{
	Scalping:    200,
	DayTrading:  100,
	Swing:       50,
	PositionTrd: 30,
	Algorithmic: 100,
	Mixed:       75,
}

// Profile is the historical performance of a trading entity.
type Profile struct {
	Name            string    `json:"name"`
	Style           Style     `json:"style"`
	PeriodicReturns []float64 `json:"periodic_returns"`
	AnnualReturn    float64   `json:"annual_return"`
	MaxDrawdown     float64   `json:"max_drawdown"` // fraction of peak
	WinRate         float64   `json:"win_rate"`
	FavoredSymbols  []string  `json:"favored_symbols"`
	TradesPerDay    float64   `json:"trades_per_day"` // 0 when unknown
}
