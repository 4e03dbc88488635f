package engine

import (
	"testing"
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func quote(book, event, market, outcome string, line *string, price float64, commence time.Time) odds.Quote {
	ct := commence
	return odds.Quote{
		Sportsbook:   book,
		League:       "soccer epl",
		Event:        event,
		Market:       market,
		Outcome:      outcome,
		Line:         line,
		Price:        price,
		CommenceTime: &ct,
	}
}

func futureQuote(book, event, market, outcome string, line *string, price float64) odds.Quote {
	return quote(book, event, market, outcome, line, price, testNow.Add(48*time.Hour))
}

func TestScanH2HScenario(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "h2h", "A", nil, 2.10),
		futureQuote("Book2", "A vs B", "h2h", "B", nil, 2.05),
		futureQuote("Book3", "A vs B", "h2h", "A", nil, 1.95),
	}

	res := Scan(quotes, testNow, Params{Page: 1, Limit: 50})

	if res.Total != 1 {
		t.Fatalf("total = %d, want 1", res.Total)
	}
	op := res.Opportunities[0]
	// 1/2.10 + 1/2.05 = 0.96399... -> margin 3.601%
	if op.Margin < 3.5 || op.Margin > 3.7 {
		t.Errorf("margin = %v, want ~3.6", op.Margin)
	}
	if op.Line != nil {
		t.Errorf("h2h opportunity line = %v, want nil", *op.Line)
	}
	if len(op.BestPrices) != 2 {
		t.Fatalf("best prices = %d legs, want 2", len(op.BestPrices))
	}
	// Legs are ordered by outcome; outcome A must be Book1's 2.10, not 1.95.
	if op.BestPrices[0].Sportsbook != "Book1" || op.BestPrices[0].Price != 2.10 {
		t.Errorf("leg A = %s@%v, want Book1@2.10", op.BestPrices[0].Sportsbook, op.BestPrices[0].Price)
	}
}

func TestScanMinMarginThreshold(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "h2h", "A", nil, 2.10),
		futureQuote("Book2", "A vs B", "h2h", "B", nil, 2.05),
	}

	res := Scan(quotes, testNow, Params{MinMargin: 5.0, Page: 1, Limit: 50})
	if res.Total != 0 {
		t.Fatalf("total = %d with min margin 5%%, want 0", res.Total)
	}

	res = Scan(quotes, testNow, Params{MinMargin: 3.0, Page: 1, Limit: 50})
	if res.Total != 1 {
		t.Fatalf("total = %d with min margin 3%%, want 1", res.Total)
	}
}

func TestScanSingleOutcomeNeverReported(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "h2h", "A", nil, 5.0),
		futureQuote("Book2", "A vs B", "h2h", "A", nil, 6.0),
	}
	res := Scan(quotes, testNow, Params{Page: 1, Limit: 50})
	if res.Total != 0 {
		t.Fatalf("single-sided bucket reported: total = %d, want 0", res.Total)
	}
}

func TestScanNonPositivePriceDisqualifies(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "h2h", "A", nil, 0),
		futureQuote("Book2", "A vs B", "h2h", "B", nil, 50.0),
	}
	res := Scan(quotes, testNow, Params{Page: 1, Limit: 50})
	if res.Total != 0 {
		t.Fatalf("bucket with non-positive price reported: total = %d, want 0", res.Total)
	}
}

func TestScanPagination(t *testing.T) {
	// Five distinct events, each a clean two-way arb.
	events := []string{"E1", "E2", "E3", "E4", "E5"}
	var quotes []odds.Quote
	for i, ev := range events {
		// Slightly different prices so margins differ per event.
		p := 2.10 + float64(i)*0.05
		quotes = append(quotes,
			futureQuote("Book1", ev, "h2h", "Home", nil, p),
			futureQuote("Book2", ev, "h2h", "Away", nil, 2.10),
		)
	}

	first := Scan(quotes, testNow, Params{Page: 1, Limit: 2})
	if first.Total != 5 {
		t.Fatalf("total = %d, want 5", first.Total)
	}
	if len(first.Opportunities) != 2 {
		t.Fatalf("page 1 size = %d, want 2", len(first.Opportunities))
	}

	last := Scan(quotes, testNow, Params{Page: 3, Limit: 2})
	if last.Total != 5 {
		t.Errorf("total on page 3 = %d, want 5", last.Total)
	}
	if len(last.Opportunities) != 1 {
		t.Errorf("page 3 size = %d, want 1", len(last.Opportunities))
	}

	beyond := Scan(quotes, testNow, Params{Page: 9, Limit: 2})
	if beyond.Total != 5 || len(beyond.Opportunities) != 0 {
		t.Errorf("page beyond range: total = %d len = %d, want 5 and 0", beyond.Total, len(beyond.Opportunities))
	}
}

func TestScanSortOrders(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "B event", "h2h", "Home", nil, 2.30),
		futureQuote("Book2", "B event", "h2h", "Away", nil, 2.30),
		futureQuote("Book1", "A event", "h2h", "Home", nil, 2.10),
		futureQuote("Book2", "A event", "h2h", "Away", nil, 2.10),
	}

	byProfit := Scan(quotes, testNow, Params{Page: 1, Limit: 50})
	if byProfit.Opportunities[0].Event != "B event" {
		t.Errorf("default sort: first event = %q, want the higher-margin B event", byProfit.Opportunities[0].Event)
	}

	byEvent := Scan(quotes, testNow, Params{SortBy: SortByEvent, SortDir: SortAsc, Page: 1, Limit: 50})
	if byEvent.Opportunities[0].Event != "A event" {
		t.Errorf("event asc sort: first event = %q, want A event", byEvent.Opportunities[0].Event)
	}
}

func TestScanMiddlesOnlyWhenRequested(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "totals", "Over", strPtr("47.5"), 1.91),
		futureQuote("Book2", "A vs B", "totals", "Under", strPtr("49.5"), 1.91),
	}

	res := Scan(quotes, testNow, Params{Page: 1, Limit: 50, MiddleMinWidth: 0.5, MiddleMinPrice: 1.87})
	if len(res.Middles) != 0 {
		t.Errorf("middles returned without ShowMiddles: %d", len(res.Middles))
	}

	res = Scan(quotes, testNow, Params{Page: 1, Limit: 50, ShowMiddles: true, MiddleMinWidth: 0.5, MiddleMinPrice: 1.87})
	if len(res.Middles) != 1 {
		t.Fatalf("middles = %d, want 1", len(res.Middles))
	}
	if res.Middles[0].Width != 2.0 {
		t.Errorf("middle width = %v, want 2.0", res.Middles[0].Width)
	}
}

func TestScanGeneratedAtIsUTC(t *testing.T) {
	local := testNow.In(time.FixedZone("EST", -5*3600))
	res := Scan(nil, local, Params{})
	if res.GeneratedAt.Location() != time.UTC {
		t.Errorf("GeneratedAt zone = %v, want UTC", res.GeneratedAt.Location())
	}
	if !res.GeneratedAt.Equal(testNow) {
		t.Errorf("GeneratedAt = %v, want %v", res.GeneratedAt, testNow)
	}
}
