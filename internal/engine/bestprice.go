package engine

import (
	"strings"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// Spread side keys. The selector compares spread quotes by line sign rather
// than team name, assuming a standard two-sided spread market.
const (
	SidePlus  = "plus"
	SideMinus = "minus"
)

// BestByOutcome picks the single highest-priced quote per outcome key within
// one bucket. Ties keep the first-seen quote; equal prices are economically
// equivalent so the choice does not matter.
func BestByOutcome(group []odds.Quote) map[string]odds.Quote {
	best := make(map[string]odds.Quote, 2)
	for _, q := range group {
		key := outcomeKey(q)
		if prev, ok := best[key]; !ok || q.Price > prev.Price {
			best[key] = q
		}
	}
	return best
}

// outcomeKey is the raw outcome label for every market except spreads, where
// the quote's own (unnormalized) line sign decides the side. A zero line
// counts as plus. An unparseable spread line falls back to the outcome label,
// which keeps the quote comparable instead of dropping it.
func outcomeKey(q odds.Quote) string {
	if strings.ToLower(q.Market) != odds.MarketSpreads {
		return q.Outcome
	}
	v, ok := odds.ParseLine(q.Line)
	if !ok {
		return q.Outcome
	}
	if v >= 0 {
		return SidePlus
	}
	return SideMinus
}

// Margin returns the guaranteed percent return of proportionally staking all
// outcomes in best at their selected prices, or 0 when there is none. Any
// non-positive price disqualifies the bucket outright (its reciprocal would
// be undefined).
func Margin(best map[string]odds.Quote) float64 {
	var invSum float64
	for _, q := range best {
		if q.Price <= 0 {
			return 0
		}
		invSum += 1 / q.Price
	}
	if invSum < 1 {
		return (1 - invSum) * 100
	}
	return 0
}
