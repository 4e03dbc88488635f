package engine

import (
	"testing"
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

func TestDetectMiddlesBasicGap(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "totals", "Over", strPtr("47.5"), 1.91),
		futureQuote("Book2", "A vs B", "totals", "Under", strPtr("49.5"), 1.91),
	}

	got := DetectMiddles(quotes, 0.5, 1.87)
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	m := got[0]
	if m.Width != 2.0 {
		t.Errorf("width = %v, want 2.0", m.Width)
	}
	if m.Over.Line != "47.5" || m.Under.Line != "49.5" {
		t.Errorf("legs = over %s / under %s, want 47.5 / 49.5", m.Over.Line, m.Under.Line)
	}
	if m.Note == "" {
		t.Error("candidate must carry the heuristic annotation")
	}

	// Raising the price floor above both legs removes the candidate.
	if got := DetectMiddles(quotes, 0.5, 2.0); len(got) != 0 {
		t.Errorf("candidates at minPrice 2.0 = %d, want 0", len(got))
	}
}

func TestDetectMiddlesRequiresUnderAboveOver(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "totals", "Over", strPtr("49.5"), 1.95),
		futureQuote("Book2", "A vs B", "totals", "Under", strPtr("47.5"), 1.95),
	}
	if got := DetectMiddles(quotes, 0.5, 1.87); len(got) != 0 {
		t.Errorf("inverted lines produced %d candidates, want 0", len(got))
	}
}

func TestDetectMiddlesMinWidth(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "totals", "Over", strPtr("48"), 1.95),
		futureQuote("Book2", "A vs B", "totals", "Under", strPtr("48.5"), 1.95),
	}
	if got := DetectMiddles(quotes, 1.0, 1.87); len(got) != 0 {
		t.Errorf("0.5 gap passed minWidth 1.0: %d candidates", len(got))
	}
	if got := DetectMiddles(quotes, 0.5, 1.87); len(got) != 1 {
		t.Errorf("0.5 gap at minWidth 0.5: %d candidates, want 1", len(got))
	}
}

func TestDetectMiddlesBestPricePerLine(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "totals", "Over", strPtr("47.5"), 1.89),
		futureQuote("Book2", "A vs B", "totals", "Over", strPtr("47.5"), 1.95),
		futureQuote("Book3", "A vs B", "totals", "Under", strPtr("49.5"), 1.91),
	}
	got := DetectMiddles(quotes, 0.5, 1.87)
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	if got[0].Over.Sportsbook != "Book2" {
		t.Errorf("over leg = %s, want the better-priced Book2", got[0].Over.Sportsbook)
	}
}

func TestDetectMiddlesSkipsUnparseableLines(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "totals", "Over", strPtr("junk"), 1.95),
		futureQuote("Book2", "A vs B", "totals", "Under", strPtr("49.5"), 1.95),
	}
	if got := DetectMiddles(quotes, 0.5, 1.87); len(got) != 0 {
		t.Errorf("unparseable over line still produced %d candidates", len(got))
	}
}

func TestDetectMiddlesIgnoresOtherMarkets(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "spreads", "Over something", strPtr("47.5"), 1.95),
		futureQuote("Book2", "A vs B", "totals", "Under", strPtr("49.5"), 1.95),
	}
	if got := DetectMiddles(quotes, 0.5, 1.87); len(got) != 0 {
		t.Errorf("non-totals quote participated: %d candidates", len(got))
	}
}

func TestSortMiddles(t *testing.T) {
	early := testNow.Add(24 * time.Hour)
	late := testNow.Add(72 * time.Hour)
	ms := []Middle{
		{Event: "narrow", Width: 1.0, CommenceTime: &late},
		{Event: "wide", Width: 3.0, CommenceTime: &early},
		{Event: "narrow-late", Width: 1.0, CommenceTime: &early},
	}
	sortMiddles(ms)
	if ms[0].Event != "wide" {
		t.Errorf("first = %s, want widest", ms[0].Event)
	}
	if ms[1].Event != "narrow" {
		t.Errorf("equal widths must order by commence desc, got %s second", ms[1].Event)
	}
}
