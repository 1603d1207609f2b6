package position

import (
	"sync"

	"github.com/rustyeddy/tracker/market"
	"github.com/rustyeddy/tracker/valuation"
)

// UpdateListener is notified after the tracker finishes a full
// re-derivation pass. Listeners are called after the tracker lock is
// released, so they may call back into the tracker.
type UpdateListener interface {
	OnPositionsUpdated(Aggregate)
}

// Tracker maintains the tracked position set under a single-writer
// discipline: one mutex guards the map, derived fields and the published
// aggregate, and the aggregate is only replaced after a complete pass.
//
// The tracker performs no I/O and raises no domain errors. A symbol with
// no live quote yet simply keeps its feed-reported price; callers must
// treat that as a valid transient state.
type Tracker struct {
	mu        sync.Mutex
	quotes    *market.QuoteStore
	leverage  float64
	positions map[string]*Position
	agg       Aggregate
	listeners []UpdateListener
}

func NewTracker(quotes *market.QuoteStore, leverage float64) *Tracker {
	if quotes == nil {
		quotes = market.NewQuoteStore()
	}
	if leverage <= 0 {
		leverage = 100
	}
	return &Tracker{
		quotes:    quotes,
		leverage:  leverage,
		positions: make(map[string]*Position),
	}
}

func (t *Tracker) Subscribe(l UpdateListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// ApplySnapshot replaces the tracked set with the latest broker snapshot.
// Positions absent from the snapshot were closed externally and are
// dropped; positions carried over keep their P/L watermarks. An empty
// snapshot is not an error, it just yields zero positions.
func (t *Tracker) ApplySnapshot(raws []RawPosition) {
	t.mu.Lock()

	next := make(map[string]*Position, len(raws))
	for _, raw := range raws {
		p := &Position{
			ID:         raw.ID,
			Symbol:     raw.Symbol,
			Side:       raw.Side,
			Volume:     raw.Volume,
			OpenPrice:  raw.OpenPrice,
			OpenTime:   parseOpenTime(raw.OpenTime),
			StopLoss:   raw.StopLoss,
			TakeProfit: raw.TakeProfit,
			Commission: raw.Commission,
			Swap:       raw.Swap,
			Comment:    raw.Comment,
			Magic:      raw.Magic,
		}
		if prev, ok := t.positions[raw.ID]; ok {
			p.MaxProfit = prev.MaxProfit
			p.MaxLoss = prev.MaxLoss
		}

		if q, ok := t.quotes.Get(raw.Symbol); ok {
			p.Bid, p.Ask = q.Bid, q.Ask
		} else {
			// No live quote yet: value at the feed's own reported price.
			fallback := raw.CurrentPrice
			if fallback == 0 {
				fallback = raw.OpenPrice
			}
			p.Bid, p.Ask = fallback, fallback
		}
		p.revalue(t.leverage)
		next[raw.ID] = p
	}

	t.positions = next
	t.publishLocked()
}

// ApplyQuotes records the latest quotes and revalues every position whose
// symbol appears in the update. Other positions are left untouched.
func (t *Tracker) ApplyQuotes(quotes []market.Quote) {
	t.mu.Lock()

	touched := make(map[string]market.Quote, len(quotes))
	for _, q := range quotes {
		t.quotes.Set(q)
		touched[q.Symbol] = q
	}

	for _, p := range t.positions {
		q, ok := touched[p.Symbol]
		if !ok {
			continue
		}
		p.Bid, p.Ask = q.Bid, q.Ask
		p.revalue(t.leverage)
	}

	t.publishLocked()
}

// Close removes a position after an explicit close. Removing an unknown id
// is a no-op.
func (t *Tracker) Close(id string) {
	t.mu.Lock()
	if _, ok := t.positions[id]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.positions, id)
	t.publishLocked()
}

// Get returns a copy of the position, or ok=false when it is not tracked.
func (t *Tracker) Get(id string) (Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.positions[id]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// BySymbol returns copies of every tracked position for a symbol.
func (t *Tracker) BySymbol(symbol string) []Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Position
	for _, p := range t.positions {
		if p.Symbol == symbol {
			out = append(out, *p)
		}
	}
	return out
}

// All returns copies of every tracked position.
func (t *Tracker) All() []Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Position, 0, len(t.positions))
	for _, p := range t.positions {
		out = append(out, *p)
	}
	return out
}

// Exposure is the signed lot exposure for a symbol: long volume counts
// positive, short volume negative.
func (t *Tracker) Exposure(symbol string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total float64
	for _, p := range t.positions {
		if p.Symbol != symbol {
			continue
		}
		if p.Side == valuation.Short {
			total -= p.Volume
		} else {
			total += p.Volume
		}
	}
	return total
}

// NotionalExposure is the total absolute notional across all positions,
// in account currency, used by the safety layer's leverage projection.
func (t *Tracker) NotionalExposure() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total float64
	for _, p := range t.positions {
		total += p.Volume * valuation.ContractSize(p.Symbol) * p.OpenPrice
	}
	return total
}

// Aggregate returns the portfolio aggregate as of the last completed pass.
func (t *Tracker) Aggregate() Aggregate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.agg
}

// publishLocked recomputes the aggregate, releases the lock and notifies
// listeners. Must be called with the lock held; it unlocks.
func (t *Tracker) publishLocked() {
	t.agg = aggregate(t.positions)
	agg := t.agg
	listeners := make([]UpdateListener, len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	for _, l := range listeners {
		l.OnPositionsUpdated(agg)
	}
}
