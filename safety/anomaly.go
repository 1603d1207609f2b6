package safety

import "time"

// anomalyWindow is how far back the burst heuristic looks.
const anomalyWindow = 5 * time.Minute

// AnomalyReport is the outcome of the heuristic anomaly checks. Confidence
// above forceApprovalConfidence routes the trade through manual approval.
type AnomalyReport struct {
	Reason     string
	Confidence float64
	Time       time.Time
}

const forceApprovalConfidence = 0.8

type tradeStamp struct {
	time   time.Time
	volume float64
}

// detector keeps the recent validated trades that feed the two heuristics:
// oversized trades versus the recent average, and bursts of more than ten
// trades in five minutes. Not safe for concurrent use; the controller
// serializes access.
type detector struct {
	recent []tradeStamp
}

func (d *detector) record(now time.Time, volume float64) {
	d.recent = append(d.recent, tradeStamp{time: now, volume: volume})
	d.trim(now)
}

func (d *detector) trim(now time.Time) {
	cutoff := now.Add(-anomalyWindow)
	i := 0
	for ; i < len(d.recent); i++ {
		if d.recent[i].time.After(cutoff) {
			break
		}
	}
	d.recent = d.recent[i:]
}

// check runs the heuristics against a proposed trade. When both trip, the
// higher-confidence finding wins.
func (d *detector) check(now time.Time, volume float64) (AnomalyReport, bool) {
	d.trim(now)

	var report AnomalyReport
	var found bool

	if avg := d.averageVolume(); avg > 0 && volume > 3*avg {
		report = AnomalyReport{
			Reason:     "trade size exceeds 3x recent average volume",
			Confidence: 0.85,
			Time:       now,
		}
		found = true
	}

	if len(d.recent) > 10 {
		burst := AnomalyReport{
			Reason:     "more than 10 trades within 5 minutes",
			Confidence: 0.7,
			Time:       now,
		}
		if !found || burst.Confidence > report.Confidence {
			report = burst
		}
		found = true
	}

	return report, found
}

func (d *detector) averageVolume() float64 {
	if len(d.recent) == 0 {
		return 0
	}
	var sum float64
	for _, t := range d.recent {
		sum += t.volume
	}
	return sum / float64(len(d.recent))
}
