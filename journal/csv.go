// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	alerts *csv.Writer
	equity *csv.Writer
	af, ef *os.File
}

func NewCSV(alertsPath, equityPath string) (*CSVJournal, error) {
	af, err := os.Create(alertsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		af.Close()
		return nil, err
	}

	aw := csv.NewWriter(af)
	ew := csv.NewWriter(ef)

	if err := writeHeaders(aw, ew); err != nil {
		af.Close()
		ef.Close()
		return nil, err
	}

	return &CSVJournal{aw, ew, af, ef}, nil
}

func writeHeaders(aw, ew *csv.Writer) error {
	if err := aw.Write([]string{"alert_id", "type", "severity", "message", "time", "action"}); err != nil {
		return err
	}
	if err := ew.Write([]string{"time", "equity", "total_net_pl", "total_volume", "margin_used", "open_count"}); err != nil {
		return err
	}

	aw.Flush()
	if err := aw.Error(); err != nil {
		return err
	}
	ew.Flush()
	return ew.Error()
}

func (j *CSVJournal) RecordAlert(a AlertRecord) error {
	j.alerts.Write([]string{
		a.AlertID,
		a.Type,
		a.Severity,
		a.Message,
		a.Time.Format(time.RFC3339),
		a.Action,
	})
	j.alerts.Flush()
	return j.alerts.Error()
}

// RecordApproval appends the approval outcome to the alerts file; the CSV
// journal keeps a single audit stream.
func (j *CSVJournal) RecordApproval(r ApprovalRecord) error {
	j.alerts.Write([]string{
		r.RequestID,
		"approval",
		r.Status,
		r.Symbol + " " + r.Side + " " + f(r.Volume) + " @ " + f(r.Price),
		r.ResolvedAt.Format(time.RFC3339),
		r.Notes,
	})
	j.alerts.Flush()
	return j.alerts.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Equity),
		f(e.TotalNetPL),
		f(e.TotalVolume),
		f(e.MarginUsed),
		strconv.Itoa(e.OpenCount),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.alerts.Flush()
	if err := j.alerts.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.af.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
