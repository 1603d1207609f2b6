package riskscore

import (
	"fmt"

	"github.com/rustyeddy/tracker/position"
)

// Analysis bundles the score with its inputs and generated narrative. The
// strings are presentation text, not control-flow signals.
type Analysis struct {
	Score   int
	Factors Factors
	Metrics Metrics

	Summary         string
	Recommendations []string
	Strengths       []string
	Weaknesses      []string
}

// Analyze computes the full risk breakdown for a profile.
func Analyze(p Profile, positions []position.Position) Analysis {
	m := CalculateMetrics(p, positions)
	f := CalculateFactors(m, p.TradesPerDay)

	a := Analysis{
		Score:   Score(p, positions),
		Factors: f,
		Metrics: m,
	}

	switch {
	case a.Score <= 3:
		a.Summary = fmt.Sprintf("Overall risk is low (%d/10): conservative exposure and stable returns.", a.Score)
	case a.Score >= 7:
		a.Summary = fmt.Sprintf("Overall risk is high (%d/10): review position sizing and exposure before adding risk.", a.Score)
	default:
		a.Summary = fmt.Sprintf("Overall risk is moderate (%d/10).", a.Score)
	}

	type check struct {
		score    float64
		high     string
		low      string
		weakness string
	}
	for _, c := range []check{
		{f.Drawdown, "Reduce position sizes until drawdown recovers below 25% of the historical peak.", "Drawdown is well contained.", "Historical drawdown is deep relative to equity."},
		{f.Volatility, "Smooth return volatility by trimming the largest positions.", "Return volatility is low.", "Returns are highly volatile period to period."},
		{f.Concentration, "Diversify across more symbols; exposure is concentrated.", "Exposure is well diversified.", "Volume is concentrated in very few symbols."},
		{f.Leverage, "Lower average leverage; current usage amplifies every other risk.", "Leverage usage is conservative.", "Average leverage is aggressive."},
		{f.Frequency, "Trade less often; churn at this frequency erodes edge.", "Trade frequency is measured.", "Trading frequency is elevated."},
		{f.Consistency, "Too few profitable periods; revisit the strategy before scaling.", "Profitable periods are consistent.", "Profitability is inconsistent across periods."},
	} {
		switch {
		case c.score > 7:
			a.Recommendations = append(a.Recommendations, c.high)
			a.Weaknesses = append(a.Weaknesses, c.weakness)
		case c.score < 3:
			a.Strengths = append(a.Strengths, c.low)
		}
	}

	return a
}
