package riskscore

import (
	"math"

	"github.com/rustyeddy/tracker/position"
)

// Factors are the six sub-scores, each clamped to [0,10].
type Factors struct {
	Drawdown      float64
	Volatility    float64
	Concentration float64
	Leverage      float64
	Frequency     float64
	Consistency   float64
}

// Factor weights for the overall score.
const (
	weightDrawdown      = 0.25
	weightVolatility    = 0.20
	weightConcentration = 0.15
	weightLeverage      = 0.20
	weightFrequency     = 0.10
	weightConsistency   = 0.10
)

// frequencyFallback is used when the profile carries no trade-frequency
// history at all.
const frequencyFallback = 5.0

// CalculateFactors derives the six sub-scores from a metric snapshot.
func CalculateFactors(m Metrics, tradesPerDay float64) Factors {
	return Factors{
		Drawdown:      clamp10(m.MaxDrawdown * 20),
		Volatility:    clamp10(m.Volatility * 100),
		Concentration: clamp10(m.Concentration * 10),
		Leverage:      clamp10(m.AvgLeverage / 50),
		Frequency:     frequencyRisk(tradesPerDay),
		Consistency:   clamp10(10 - m.ReturnConsistency*10),
	}
}

// frequencyRisk scores trade frequency: roughly one point per ten trades a
// day, saturating at ten. Without frequency history the score falls back
// to the midpoint.
func frequencyRisk(tradesPerDay float64) float64 {
	if tradesPerDay <= 0 {
		return frequencyFallback
	}
	return clamp10(tradesPerDay / 10)
}

func (f Factors) weighted() float64 {
	return f.Drawdown*weightDrawdown +
		f.Volatility*weightVolatility +
		f.Concentration*weightConcentration +
		f.Leverage*weightLeverage +
		f.Frequency*weightFrequency +
		f.Consistency*weightConsistency
}

// Score computes the overall risk score for a profile: the weighted factor
// sum, rounded to the nearest integer and clamped to [1,10].
func Score(p Profile, positions []position.Position) int {
	m := CalculateMetrics(p, positions)
	f := CalculateFactors(m, p.TradesPerDay)

	score := int(math.Round(f.weighted()))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

func clamp10(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 10 {
		return 10
	}
	return x
}
