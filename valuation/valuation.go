// Package valuation holds the pure position math: pips, P/L, pip value,
// margin and risk/reward. Every function is stateless so it can be tested
// against literal fixtures.
package valuation

import (
	"math"

	"github.com/rustyeddy/tracker/market"
)

// Side of a position.
type Side int

const (
	Long Side = iota
	Short
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// ContractSize returns the notional units of one lot. Fixed at the
// 100,000-unit standard lot for every symbol; real venues vary this per
// instrument.
func ContractSize(symbol string) float64 {
	return 100_000
}

// Pips converts a raw price change into pips. JPY-quoted pairs use the
// 2-decimal pip scale, everything else the 4-decimal one; the instrument
// table decides.
func Pips(priceChange float64, symbol string) float64 {
	return priceChange / market.PipSize(symbol)
}

// PipSize returns the price increment of one pip for a symbol.
func PipSize(symbol string) float64 {
	return market.PipSize(symbol)
}

// PL returns the unrealized profit in account currency and the signed
// pips-in-profit for a position marked at currentPrice.
func PL(side Side, openPrice, currentPrice, volume float64, symbol string) (pl, pips float64) {
	change := currentPrice - openPrice
	if side == Short {
		change = openPrice - currentPrice
	}
	return change * volume * ContractSize(symbol), Pips(change, symbol)
}

// PipValue is the account-currency value of a one pip move for the given
// volume. Always non-negative.
func PipValue(symbol string, volume float64) float64 {
	return math.Abs(volume) * ContractSize(symbol) * PipSize(symbol)
}

// MarginUsed is the capital reserved against a position: notional value
// divided by leverage. Always non-negative.
func MarginUsed(symbol string, volume, openPrice, leverage float64) float64 {
	if leverage <= 0 {
		return 0
	}
	return math.Abs(volume) * ContractSize(symbol) * openPrice / leverage
}

// RiskReward returns |take - open| / |open - stop|. ok is false when either
// protective level is absent or the risk distance is zero; "no stop set" is
// not the same thing as zero risk.
func RiskReward(side Side, openPrice float64, stopLoss, takeProfit *float64) (float64, bool) {
	if stopLoss == nil || takeProfit == nil {
		return 0, false
	}
	risk := math.Abs(openPrice - *stopLoss)
	if risk == 0 {
		return 0, false
	}
	return math.Abs(*takeProfit-openPrice) / risk, true
}
