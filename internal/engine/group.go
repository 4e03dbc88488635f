package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// GroupKey identifies one comparable market: quotes with equal keys price the
// same real-world proposition and may be hedged against each other.
// Line is "" for h2h.
type GroupKey struct {
	Event  string
	Market string
	Line   string
}

// GroupQuotes buckets quotes by (event, market, normalized line). Member order
// follows input order, which downstream tie-breaks rely on.
func GroupQuotes(quotes []odds.Quote) map[GroupKey][]odds.Quote {
	buckets := make(map[GroupKey][]odds.Quote)
	for _, q := range quotes {
		market := strings.ToLower(q.Market)
		key := GroupKey{Event: q.Event, Market: market, Line: lineKey(market, q.Line)}
		buckets[key] = append(buckets[key], q)
	}
	return buckets
}

// lineKey derives the grouping line per market:
//   - h2h has no line, all quotes for an event share one bucket;
//   - totals must match on the exact published total (trimmed string);
//   - spreads collapse the two mirrored sides: -2.5 and +2.5 both become "2.5".
func lineKey(market string, line *string) string {
	switch market {
	case odds.MarketSpreads:
		return normSpreadLine(line)
	case odds.MarketTotals:
		return trimmedLine(line)
	default:
		return ""
	}
}

func trimmedLine(line *string) string {
	if line == nil {
		return ""
	}
	return strings.TrimSpace(*line)
}

// normSpreadLine renders the absolute spread value rounded to 3 decimals with
// no trailing zeros, so "-2.500" and "2.5" agree. A non-numeric line falls
// back to the trimmed raw string instead of failing the whole quote.
func normSpreadLine(line *string) string {
	v, ok := odds.ParseLine(line)
	if !ok {
		return trimmedLine(line)
	}
	v = math.Round(math.Abs(v)*1000) / 1000
	return strconv.FormatFloat(v, 'f', -1, 64)
}
