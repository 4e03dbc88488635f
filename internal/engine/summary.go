package engine

import (
	"strings"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// outcomeGroupKey is the fine-grained comparison unit for the books summary:
// exact trimmed line (no spread sign collapsing) and outcome included, so each
// group is one directly comparable price across books.
type outcomeGroupKey struct {
	event   string
	market  string
	line    string
	outcome string
}

// SummarizeBooks credits each sportsbook with a "best price win" per outcome
// group it tops, and tracks the average decimal price it offered across all
// its quotes. Purely observational; it never gates opportunities.
//
// Non-positive prices still count toward the offered average, matching the
// historical behavior of the stats (see DESIGN.md).
func SummarizeBooks(quotes []odds.Quote) map[string]BookStat {
	bestInGroup := make(map[outcomeGroupKey]odds.Quote)
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, q := range quotes {
		if q.Sportsbook == "" {
			continue
		}
		key := outcomeGroupKey{
			event:   q.Event,
			market:  strings.ToLower(q.Market),
			line:    trimmedLine(q.Line),
			outcome: q.Outcome,
		}
		if prev, ok := bestInGroup[key]; !ok || q.Price > prev.Price {
			bestInGroup[key] = q
		}
		sums[q.Sportsbook] += q.Price
		counts[q.Sportsbook]++
	}

	wins := make(map[string]int)
	for _, q := range bestInGroup {
		wins[q.Sportsbook]++
	}

	summary := make(map[string]BookStat, len(counts))
	for book, n := range counts {
		avg := sums[book] / float64(n)
		summary[book] = BookStat{BestPriceCount: wins[book], AvgOfferedPrice: &avg}
	}
	// A win without offered quotes is unreachable today; kept so the union of
	// both maps always lands in the summary.
	for book, w := range wins {
		if _, ok := summary[book]; !ok {
			summary[book] = BookStat{BestPriceCount: w}
		}
	}
	return summary
}
