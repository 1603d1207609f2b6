package position

// Aggregate is the portfolio view over the current position set. It is a
// pure function of the tracked positions, recomputed wholesale after every
// mutation, so it cannot drift.
type Aggregate struct {
	OpenCount    int
	TotalNetPL   float64
	TotalVolume  float64
	TotalMargin  float64
	WinRate      float64 // fraction of open positions with positive net P/L
	AvgWin       float64
	AvgLoss      float64 // absolute value
	ProfitFactor float64 // AvgWin / AvgLoss; 0 when AvgLoss is 0
}

func aggregate(positions map[string]*Position) Aggregate {
	var agg Aggregate
	var winSum, lossSum float64
	var wins, losses int

	for _, p := range positions {
		agg.OpenCount++
		agg.TotalNetPL += p.NetPL
		agg.TotalVolume += p.Volume
		agg.TotalMargin += p.MarginUsed

		if p.NetPL > 0 {
			wins++
			winSum += p.NetPL
		} else if p.NetPL < 0 {
			losses++
			lossSum += -p.NetPL
		}
	}

	if agg.OpenCount > 0 {
		agg.WinRate = float64(wins) / float64(agg.OpenCount)
	}
	if wins > 0 {
		agg.AvgWin = winSum / float64(wins)
	}
	if losses > 0 {
		agg.AvgLoss = lossSum / float64(losses)
	}
	if agg.AvgLoss > 0 {
		agg.ProfitFactor = agg.AvgWin / agg.AvgLoss
	}
	return agg
}
