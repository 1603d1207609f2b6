// Package position owns the authoritative in-memory set of open positions
// and keeps every derived field consistent with the latest price and
// position feed.
package position

import (
	"time"

	"github.com/rustyeddy/tracker/valuation"
)

// RawPosition is one record from the broker position feed.
type RawPosition struct {
	ID           string         `json:"id"`
	Symbol       string         `json:"symbol"`
	Side         valuation.Side `json:"side"`
	Volume       float64        `json:"volume"`
	OpenPrice    float64        `json:"open_price"`
	OpenTime     string         `json:"open_time"` // ISO-8601
	StopLoss     *float64       `json:"stop_loss,omitempty"`
	TakeProfit   *float64       `json:"take_profit,omitempty"`
	Commission   float64        `json:"commission"`
	Swap         float64        `json:"swap"`
	CurrentPrice float64        `json:"current_price,omitempty"`
	Comment      string         `json:"comment,omitempty"`
	Magic        int            `json:"magic,omitempty"`
}

// Position is a tracked position: immutable identity and trade terms plus
// live-derived valuation fields recomputed on every tick.
type Position struct {
	// Identity, fixed at creation.
	ID        string
	Symbol    string
	Side      valuation.Side
	Volume    float64
	OpenPrice float64
	OpenTime  time.Time

	// Static trade terms.
	StopLoss   *float64
	TakeProfit *float64
	Commission float64
	Swap       float64
	Comment    string
	Magic      int

	// Live-derived. NetPL = UnrealizedPL - Commission - Swap, always.
	CurrentPrice float64
	Bid          float64
	Ask          float64
	Spread       float64
	UnrealizedPL float64
	NetPL        float64
	PLPercent    float64
	PipValue     float64
	PipsInProfit float64
	MarginUsed   float64
	RiskReward   *float64 // nil when either protective level is missing

	// Running watermarks over unrealized P/L.
	MaxProfit float64
	MaxLoss   float64
}

// markPrice is the side-correct valuation price: longs mark on bid,
// shorts on ask.
func (p *Position) markPrice() float64 {
	if p.Side == valuation.Short {
		return p.Ask
	}
	return p.Bid
}

// revalue recomputes every derived field from the current bid/ask and the
// account leverage. Watermarks only ever widen.
func (p *Position) revalue(leverage float64) {
	p.Spread = p.Ask - p.Bid
	p.CurrentPrice = p.markPrice()

	pl, pips := valuation.PL(p.Side, p.OpenPrice, p.CurrentPrice, p.Volume, p.Symbol)
	p.UnrealizedPL = pl
	p.PipsInProfit = pips
	p.NetPL = pl - p.Commission - p.Swap

	p.PipValue = valuation.PipValue(p.Symbol, p.Volume)
	p.MarginUsed = valuation.MarginUsed(p.Symbol, p.Volume, p.OpenPrice, leverage)

	notional := p.Volume * valuation.ContractSize(p.Symbol) * p.OpenPrice
	if notional != 0 {
		p.PLPercent = p.NetPL / notional * 100
	} else {
		p.PLPercent = 0
	}

	if rr, ok := valuation.RiskReward(p.Side, p.OpenPrice, p.StopLoss, p.TakeProfit); ok {
		p.RiskReward = &rr
	} else {
		p.RiskReward = nil
	}

	if p.UnrealizedPL > p.MaxProfit {
		p.MaxProfit = p.UnrealizedPL
	}
	if p.UnrealizedPL < p.MaxLoss {
		p.MaxLoss = p.UnrealizedPL
	}
}

// parseOpenTime accepts the RFC3339 variants brokers actually emit. A bad
// or empty timestamp yields the zero time rather than an error; the feed
// layer treats it as "unknown open time".
func parseOpenTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
