// Package feed reads recorded broker data: tick CSVs (optionally
// xz-compressed archives) and JSON position snapshots. It is the replay
// side of the price/position feed the engine consumes.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/tracker/market"
)

// TickFeed streams quotes from a CSV with rows:
//
//	time,instrument,bid,ask
//
// A header row is allowed. Files ending in .xz are decompressed on the
// fly; tick archives are usually stored compressed.
type TickFeed struct {
	f *os.File
	r *csv.Reader

	sawFirst bool
}

func OpenTicks(path string) (*TickFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open ticks: %w", err)
		}
		src = xr
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	return &TickFeed{f: f, r: r}, nil
}

func (t *TickFeed) Close() error {
	if t.f != nil {
		return t.f.Close()
	}
	return nil
}

// Next returns the next quote. ok is false at end of feed.
func (t *TickFeed) Next() (q market.Quote, ok bool, err error) {
	for {
		row, err := t.r.Read()
		if err == io.EOF {
			return market.Quote{}, false, nil
		}
		if err != nil {
			return market.Quote{}, false, err
		}
		if len(row) < 4 {
			return market.Quote{}, false, fmt.Errorf("ticks: short row %v", row)
		}

		// Tolerate a header on the first row.
		if !t.sawFirst {
			t.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		q, err := parseTick(row)
		if err != nil {
			return market.Quote{}, false, err
		}
		return q, true, nil
	}
}

func parseTick(row []string) (market.Quote, error) {
	ts, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return market.Quote{}, fmt.Errorf("ticks: bad time %q: %w", row[0], err)
	}
	bid, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return market.Quote{}, fmt.Errorf("ticks: bad bid %q: %w", row[2], err)
	}
	ask, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return market.Quote{}, fmt.Errorf("ticks: bad ask %q: %w", row[3], err)
	}
	return market.Quote{
		Symbol: strings.TrimSpace(row[1]),
		Bid:    bid,
		Ask:    ask,
		Time:   ts,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, s)
}
