// market/instruments.go
package market

import (
	"math"
	"strings"
)

// InstrumentMeta describes how a symbol prices: its quote currency and
// the decimal position of one pip.
type InstrumentMeta struct {
	Symbol        string
	QuoteCurrency string
	PipLocation   int
}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": {
		Symbol:        "EURUSD",
		QuoteCurrency: "USD",
		PipLocation:   -4,
	},
	"GBPUSD": {
		Symbol:        "GBPUSD",
		QuoteCurrency: "USD",
		PipLocation:   -4,
	},
	"USDJPY": {
		Symbol:        "USDJPY",
		QuoteCurrency: "JPY",
		PipLocation:   -2,
	},
	"AUDUSD": {
		Symbol:        "AUDUSD",
		QuoteCurrency: "USD",
		PipLocation:   -4,
	},
}

// PipSize returns the price increment of one pip for a symbol: the
// instrument's pip location when the symbol is known, otherwise the
// quote-currency convention (0.01 for JPY-quoted pairs, 0.0001 for the
// rest).
func PipSize(symbol string) float64 {
	if meta, ok := Instruments[symbol]; ok {
		return math.Pow(10, float64(meta.PipLocation))
	}
	if IsJPYQuoted(symbol) {
		return 0.01
	}
	return 0.0001
}

// IsJPYQuoted reports whether a symbol trades with the 2-decimal pip scale
// instead of the usual 4-decimal one. Symbols missing from the Instruments
// table fall back to a substring check so broker feeds carrying exotic
// pairs still value correctly.
func IsJPYQuoted(symbol string) bool {
	if meta, ok := Instruments[symbol]; ok {
		return meta.QuoteCurrency == "JPY"
	}
	return strings.Contains(strings.ToUpper(symbol), "JPY")
}
