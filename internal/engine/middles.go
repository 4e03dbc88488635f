package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// MiddleNote annotates every candidate; a middle only pays double if the
// final total lands strictly between the two lines.
const MiddleNote = "Totals middle candidate (not guaranteed profit)."

// DetectMiddles scans totals quotes for line gaps: an Over priced at a lower
// total than somebody else's Under. Both legs must price at least minPrice and
// the gap must be at least minWidth. Quotes whose line does not parse as a
// number are ignored here (and only here).
func DetectMiddles(quotes []odds.Quote, minWidth, minPrice float64) []Middle {
	byEvent := make(map[string][]odds.Quote)
	var eventOrder []string
	for _, q := range quotes {
		if strings.ToLower(q.Market) != odds.MarketTotals {
			continue
		}
		if _, ok := byEvent[q.Event]; !ok {
			eventOrder = append(eventOrder, q.Event)
		}
		byEvent[q.Event] = append(byEvent[q.Event], q)
	}

	var candidates []Middle
	for _, event := range eventOrder {
		candidates = append(candidates, middlesForEvent(event, byEvent[event], minWidth, minPrice)...)
	}
	return candidates
}

func middlesForEvent(event string, group []odds.Quote, minWidth, minPrice float64) []Middle {
	bestOver := bestPerLine(group, "over")
	bestUnder := bestPerLine(group, "under")
	if len(bestOver) == 0 || len(bestUnder) == 0 {
		return nil
	}

	overLines := sortedLines(bestOver)
	underLines := sortedLines(bestUnder)

	// Pair fan-out is bounded by distinct lines per side, i.e. by the number
	// of participating books.
	var out []Middle
	for _, lo := range overLines {
		over := bestOver[lo]
		if over.Price < minPrice {
			continue
		}
		for _, lu := range underLines {
			if lu <= lo {
				continue
			}
			under := bestUnder[lu]
			if under.Price < minPrice {
				continue
			}
			width := lu - lo
			if width < minWidth {
				continue
			}
			out = append(out, Middle{
				Event:        event,
				Market:       odds.MarketTotals,
				Over:         middleLeg(over, lo),
				Under:        middleLeg(under, lu),
				Width:        width,
				CommenceTime: firstCommence(over, under),
				EventDate:    firstEventDate(over, under),
				Note:         MiddleNote,
			})
		}
	}
	return out
}

// bestPerLine keeps the max-price quote per distinct numeric line for the
// outcome side whose label starts with prefix (case-insensitive).
func bestPerLine(group []odds.Quote, prefix string) map[float64]odds.Quote {
	best := make(map[float64]odds.Quote)
	for _, q := range group {
		if !strings.HasPrefix(strings.ToLower(q.Outcome), prefix) {
			continue
		}
		line, ok := odds.ParseLine(q.Line)
		if !ok {
			continue
		}
		if prev, seen := best[line]; !seen || q.Price > prev.Price {
			best[line] = q
		}
	}
	return best
}

func sortedLines(m map[float64]odds.Quote) []float64 {
	lines := make([]float64, 0, len(m))
	for l := range m {
		lines = append(lines, l)
	}
	sort.Float64s(lines)
	return lines
}

func middleLeg(q odds.Quote, line float64) MiddleLeg {
	return MiddleLeg{
		Sportsbook: q.Sportsbook,
		Line:       strconv.FormatFloat(line, 'f', -1, 64),
		Price:      q.Price,
		American:   q.American,
	}
}

func firstCommence(a, b odds.Quote) *time.Time {
	if a.CommenceTime != nil {
		return a.CommenceTime
	}
	return b.CommenceTime
}

func firstEventDate(a, b odds.Quote) string {
	if a.EventDate != "" {
		return a.EventDate
	}
	return b.EventDate
}
