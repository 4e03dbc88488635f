package engine

import (
	"strings"
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// Filter drops quotes the scan must not consider: unknown start times (could
// already be live), events starting within MinHoursAhead of now, and anything
// outside the league/market/sportsbook allow-sets. Empty sets allow everything.
// League and market membership is checked lower-cased; sportsbook titles are
// matched exactly.
func Filter(quotes []odds.Quote, now time.Time, p Params) []odds.Quote {
	cutoff := now.Add(time.Duration(p.MinHoursAhead * float64(time.Hour)))
	out := make([]odds.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.CommenceTime == nil {
			continue
		}
		// Timestamps are stored as UTC; anything that slipped in without a
		// zone is treated as UTC rather than silently shifted.
		ct := q.CommenceTime.UTC()
		if !ct.After(cutoff) {
			continue
		}
		if len(p.Leagues) > 0 {
			if _, ok := p.Leagues[strings.ToLower(q.League)]; !ok {
				continue
			}
		}
		if len(p.Markets) > 0 {
			if _, ok := p.Markets[strings.ToLower(q.Market)]; !ok {
				continue
			}
		}
		if len(p.Sportsbooks) > 0 {
			if _, ok := p.Sportsbooks[q.Sportsbook]; !ok {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}
