// Package engine turns a flat snapshot of sportsbook quotes into ranked
// cross-book opportunities: true arbitrage buckets and totals middle
// candidates. It is pure and synchronous; all I/O lives with the callers.
package engine

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// Scan runs the full pipeline over one immutable quote snapshot:
// filter, group, best-price selection, margin scoring, ranking and
// pagination, plus the independent books summary and (optionally) the totals
// middle scan. now anchors both the lead-time filter and GeneratedAt.
func Scan(quotes []odds.Quote, now time.Time, p Params) Result {
	filtered := Filter(quotes, now, p)

	summary := SummarizeBooks(filtered)
	groups := GroupQuotes(filtered)

	opportunities := make([]Opportunity, 0)
	for _, key := range sortedGroupKeys(groups) {
		group := groups[key]
		best := BestByOutcome(group)
		// A single-sided market cannot be hedged.
		if len(best) < 2 {
			continue
		}
		margin := Margin(best)
		if margin <= 0 || margin < p.MinMargin {
			continue
		}
		opportunities = append(opportunities, buildOpportunity(key, group, best, margin))
	}

	sortOpportunities(opportunities, p.SortBy, p.SortDir)
	total := len(opportunities)
	page := paginate(opportunities, p.Page, p.Limit)

	middles := make([]Middle, 0)
	if p.ShowMiddles {
		middles = DetectMiddles(filtered, p.MiddleMinWidth, p.MiddleMinPrice)
		sortMiddles(middles)
	}

	return Result{
		Opportunities: page,
		Total:         total,
		Middles:       middles,
		BooksSummary:  summary,
		GeneratedAt:   now.UTC(),
	}
}

// sortedGroupKeys fixes the bucket visiting order so output is deterministic
// across runs (map iteration is not).
func sortedGroupKeys(groups map[GroupKey][]odds.Quote) []GroupKey {
	keys := make([]GroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Event != keys[j].Event {
			return keys[i].Event < keys[j].Event
		}
		if keys[i].Market != keys[j].Market {
			return keys[i].Market < keys[j].Market
		}
		return keys[i].Line < keys[j].Line
	})
	return keys
}

func buildOpportunity(key GroupKey, group []odds.Quote, best map[string]odds.Quote, margin float64) Opportunity {
	sample := sampleQuote(group)

	var line *string
	if key.Market != odds.MarketH2H && key.Line != "" {
		l := key.Line
		line = &l
	}

	legs := make([]BestQuote, 0, len(best))
	for outcome, q := range best {
		var legLine *string
		if trimmed := trimmedLine(q.Line); trimmed != "" {
			legLine = &trimmed
		}
		legs = append(legs, BestQuote{
			Sportsbook: q.Sportsbook,
			Outcome:    outcome,
			Price:      q.Price,
			American:   q.American,
			Line:       legLine,
		})
	}
	sort.Slice(legs, func(i, j int) bool { return legs[i].Outcome < legs[j].Outcome })

	return Opportunity{
		Event:        key.Event,
		League:       strings.ToLower(sample.League),
		Market:       key.Market,
		Line:         line,
		CommenceTime: sample.CommenceTime,
		EventDate:    sample.EventDate,
		Margin:       math.Round(margin*1000) / 1000,
		BestPrices:   legs,
	}
}
