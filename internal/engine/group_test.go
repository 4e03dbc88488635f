package engine

import (
	"testing"

	"github.com/akulkarni/oddsedge/internal/odds"
)

func TestGroupQuotesSpreadMirroring(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "spreads", "A", strPtr("-2.5"), 1.91),
		futureQuote("Book2", "A vs B", "spreads", "B", strPtr("+2.5"), 1.95),
		futureQuote("Book3", "A vs B", "spreads", "A", strPtr("-3"), 1.90),
	}
	buckets := GroupQuotes(quotes)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2 (-2.5/+2.5 together, -3 apart)", len(buckets))
	}
	mirrored := buckets[GroupKey{Event: "A vs B", Market: "spreads", Line: "2.5"}]
	if len(mirrored) != 2 {
		t.Errorf("mirrored spread bucket has %d quotes, want 2", len(mirrored))
	}
}

func TestGroupQuotesTotalsExactLine(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "totals", "Over", strPtr("48.5"), 1.91),
		futureQuote("Book2", "A vs B", "totals", "Under", strPtr("48.5 "), 1.91),
		futureQuote("Book3", "A vs B", "totals", "Over", strPtr("48"), 1.91),
	}
	buckets := GroupQuotes(quotes)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2 (trimmed 48.5 together, 48 apart)", len(buckets))
	}
	same := buckets[GroupKey{Event: "A vs B", Market: "totals", Line: "48.5"}]
	if len(same) != 2 {
		t.Errorf("48.5 bucket has %d quotes, want 2", len(same))
	}
}

func TestGroupQuotesH2HIgnoresLine(t *testing.T) {
	quotes := []odds.Quote{
		futureQuote("Book1", "A vs B", "h2h", "A", nil, 2.0),
		futureQuote("Book2", "A vs B", "h2h", "B", nil, 2.0),
	}
	buckets := GroupQuotes(quotes)
	if len(buckets) != 1 {
		t.Fatalf("h2h buckets = %d, want 1", len(buckets))
	}
}

func TestNormSpreadLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-2.500", "2.5"},
		{"2.5", "2.5"},
		{"+2.5", "2.5"},
		{"-3", "3"},
		{"0", "0"},
		{" 7.0 ", "7"},
		{"-10.255", "10.255"},
		{"pick'em", "pick'em"}, // unparseable falls back to the raw string
		{" junk ", "junk"},
	}
	for _, tt := range tests {
		in := tt.in
		if got := normSpreadLine(&in); got != tt.want {
			t.Errorf("normSpreadLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
