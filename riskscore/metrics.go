package riskscore

import (
	"math"

	"github.com/rustyeddy/tracker/position"
)

// Metrics is a computed risk snapshot. Nothing here is persisted.
type Metrics struct {
	MaxDrawdown        float64
	Volatility         float64 // population std-dev of periodic returns
	Sharpe             float64
	Calmar             float64 // annual return / max drawdown; 0 if no drawdown
	AvgLeverage        float64
	Concentration      float64 // Herfindahl index over per-symbol volume share
	WinRateConsistency float64
	ReturnConsistency  float64 // fraction of profitable periods
}

// CalculateMetrics computes the metric snapshot for a profile, optionally
// refined by live positions. positions may be empty or nil.
func CalculateMetrics(p Profile, positions []position.Position) Metrics {
	m := Metrics{
		MaxDrawdown:        p.MaxDrawdown,
		Volatility:         popStdDev(p.PeriodicReturns),
		WinRateConsistency: p.WinRate,
		ReturnConsistency:  profitableFraction(p.PeriodicReturns),
	}

	if m.Volatility > 0 {
		m.Sharpe = mean(p.PeriodicReturns) / m.Volatility
	}
	if p.MaxDrawdown > 0 {
		m.Calmar = p.AnnualReturn / p.MaxDrawdown
	}

	m.AvgLeverage = averageLeverage(p.Style, positions)
	m.Concentration = concentration(p.FavoredSymbols, positions)
	return m
}

// averageLeverage prefers live position data; without it the declared
// trading style picks a fixed assumption.
func averageLeverage(style Style, positions []position.Position) float64 {
	var totalMargin, totalVolume float64
	for _, p := range positions {
		totalMargin += p.MarginUsed
		totalVolume += p.Volume
	}
	if totalVolume > 0 {
		return totalMargin * 100 / totalVolume
	}
	if lev, ok := styleLeverage[style]; ok {
		return lev
	}
	return styleLeverage[Mixed]
}

// concentration is the Herfindahl index of per-symbol volume share when
// live positions exist. Otherwise a 3-tier heuristic on how many distinct
// symbols the entity historically favors.
func concentration(favored []string, positions []position.Position) float64 {
	var total float64
	bySymbol := make(map[string]float64)
	for _, p := range positions {
		bySymbol[p.Symbol] += p.Volume
		total += p.Volume
	}
	if total > 0 {
		var h float64
		for _, v := range bySymbol {
			share := v / total
			h += share * share
		}
		return h
	}

	distinct := make(map[string]struct{})
	for _, s := range favored {
		distinct[s] = struct{}{}
	}
	switch n := len(distinct); {
	case n <= 2:
		return 0.8
	case n <= 5:
		return 0.5
	default:
		return 0.3
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// popStdDev is the population standard deviation; 0 for an empty sequence.
func popStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mu := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func profitableFraction(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var wins int
	for _, x := range xs {
		if x > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(xs))
}
