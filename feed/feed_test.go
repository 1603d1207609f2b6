package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tracker/valuation"
)

func TestTickFeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ticks.csv")
	doc := `time,instrument,bid,ask
2026-08-28T10:00:00Z,EURUSD,1.1000,1.1002
2026-08-28T10:00:01.250Z,USDJPY,150.10,150.13
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	feed, err := OpenTicks(path)
	require.NoError(t, err)
	defer feed.Close()

	q, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "EURUSD", q.Symbol)
	assert.InDelta(t, 1.1000, q.Bid, 1e-9)
	assert.InDelta(t, 1.1002, q.Ask, 1e-9)
	assert.True(t, q.Time.Equal(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)))

	q, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "USDJPY", q.Symbol)
	assert.InDelta(t, 150.13, q.Ask, 1e-9)

	_, ok, err = feed.Next()
	require.NoError(t, err)
	assert.False(t, ok, "end of feed")
}

func TestTickFeedNoHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ticks.csv")
	doc := "2026-08-28T10:00:00Z,EURUSD,1.1000,1.1002\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	feed, err := OpenTicks(path)
	require.NoError(t, err)
	defer feed.Close()

	q, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "EURUSD", q.Symbol)
}

func TestTickFeedBadRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ticks.csv")
	doc := "2026-08-28T10:00:00Z,EURUSD,not-a-price,1.1002\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	feed, err := OpenTicks(path)
	require.NoError(t, err)
	defer feed.Close()

	_, _, err = feed.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad bid")
}

func TestTickFeedMissingFile(t *testing.T) {
	t.Parallel()
	_, err := OpenTicks(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "positions.json")
	doc := `[
  {
    "id": "P1",
    "symbol": "EURUSD",
    "side": "long",
    "volume": 1.0,
    "open_price": 1.1000,
    "open_time": "2026-08-28T09:00:00Z",
    "commission": 2.0,
    "swap": 1.0,
    "current_price": 1.1010
  },
  {
    "id": "P2",
    "symbol": "USDJPY",
    "side": "sell",
    "volume": 0.5,
    "open_price": 150.00,
    "stop_loss": 150.50
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	raws, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "P1", raws[0].ID)
	assert.Equal(t, valuation.Long, raws[0].Side)
	assert.InDelta(t, 1.1010, raws[0].CurrentPrice, 1e-9)

	// Broker exports say "sell"; it decodes to the short side.
	assert.Equal(t, valuation.Short, raws[1].Side)
	require.NotNil(t, raws[1].StopLoss)
	assert.InDelta(t, 150.50, *raws[1].StopLoss, 1e-9)
}

func TestLoadSnapshotBadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "positions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse snapshot")
}
