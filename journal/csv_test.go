package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVBadEquityPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	alertsPath := filepath.Join(dir, "alerts.csv")

	_, err := NewCSV(alertsPath, filepath.Join(dir, "missing", "equity.csv"))
	require.Error(t, err)

	// The half-created alerts file must not be left open: reopening the
	// same path has to work cleanly.
	j, err := NewCSV(alertsPath, filepath.Join(dir, "equity.csv"))
	require.NoError(t, err)
	assert.NoError(t, j.Close())
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	alertsPath := filepath.Join(dir, "alerts.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(alertsPath, equityPath)
	require.NoError(t, err)

	when := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordAlert(AlertRecord{
		AlertID:  "A1",
		Type:     "daily_loss",
		Severity: "warning",
		Message:  "80% of limit",
		Time:     when,
	}))
	require.NoError(t, j.RecordApproval(ApprovalRecord{
		RequestID:  "R1",
		Symbol:     "EURUSD",
		Side:       "long",
		Volume:     2.0,
		Price:      1.1,
		Status:     "approved",
		ResolvedAt: when.Add(time.Minute),
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time: when, Equity: 100097, TotalNetPL: 97, TotalVolume: 1.0, MarginUsed: 1100, OpenCount: 1,
	}))
	require.NoError(t, j.Close())

	af, err := os.Open(alertsPath)
	require.NoError(t, err)
	defer af.Close()
	rows, err := csv.NewReader(af).ReadAll()
	require.NoError(t, err)

	// Header, the alert, the approval outcome on the same audit stream.
	require.Len(t, rows, 3)
	assert.Equal(t, "alert_id", rows[0][0])
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "warning", rows[1][2])
	assert.Equal(t, "R1", rows[2][0])
	assert.Equal(t, "approval", rows[2][1])
	assert.Equal(t, "approved", rows[2][2])

	ef, err := os.Open(equityPath)
	require.NoError(t, err)
	defer ef.Close()
	erows, err := csv.NewReader(ef).ReadAll()
	require.NoError(t, err)
	require.Len(t, erows, 2)
	assert.Equal(t, when.Format(time.RFC3339), erows[1][0])
	assert.Equal(t, "1", erows[1][5])
}
