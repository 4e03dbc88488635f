package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "quotes.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.CreateTables(context.Background()); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return store
}

func testQuote(book, outcome string, line *string, price float64) odds.Quote {
	ct := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	return odds.Quote{
		Sportsbook:   book,
		League:       "soccer epl",
		Event:        "A vs B",
		Market:       "totals",
		Outcome:      outcome,
		Line:         line,
		Price:        price,
		American:     odds.DecimalToAmerican(price),
		CommenceTime: &ct,
		EventDate:    "2026-09-01",
	}
}

func TestUpsertAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	line := "48.5"
	quotes := []odds.Quote{
		testQuote("DraftKings", "Over", &line, 1.91),
		testQuote("FanDuel", "Under", &line, 1.95),
	}
	if err := store.UpsertQuotes(ctx, quotes); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.ListQuotes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	for _, q := range got {
		if q.Line == nil || *q.Line != "48.5" {
			t.Errorf("line round-trip = %v, want 48.5", q.Line)
		}
		if q.CommenceTime == nil {
			t.Errorf("commence time lost for %s", q.Sportsbook)
		}
		if q.LastUpdated.IsZero() {
			t.Errorf("last_updated not set for %s", q.Sportsbook)
		}
	}
}

func TestUpsertReplacesPrice(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	line := "48.5"
	if err := store.UpsertQuotes(ctx, []odds.Quote{testQuote("DraftKings", "Over", &line, 1.91)}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := store.UpsertQuotes(ctx, []odds.Quote{testQuote("DraftKings", "Over", &line, 2.05)}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := store.ListQuotes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d after re-upsert, want 1", len(got))
	}
	if got[0].Price != 2.05 {
		t.Errorf("price = %v, want the refreshed 2.05", got[0].Price)
	}
}

func TestNilLineRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	q := testQuote("BetMGM", "A", nil, 2.10)
	q.Market = "h2h"
	if err := store.UpsertQuotes(ctx, []odds.Quote{q}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.ListQuotes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Line != nil {
		t.Fatalf("h2h line should round-trip as nil, got %+v", got)
	}
}

func TestDistinctValues(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	line := "48.5"
	a := testQuote("FanDuel", "Over", &line, 1.91)
	b := testQuote("DraftKings", "Under", &line, 1.95)
	b.League = "Soccer EPL" // stored mixed-case, listed lower-cased
	c := testQuote("DraftKings", "A", nil, 2.0)
	c.Market = "h2h"
	if err := store.UpsertQuotes(ctx, []odds.Quote{a, b, c}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	leagues, err := store.DistinctLeagues(ctx)
	if err != nil {
		t.Fatalf("leagues: %v", err)
	}
	if len(leagues) != 1 || leagues[0] != "soccer epl" {
		t.Errorf("leagues = %v, want [soccer epl]", leagues)
	}

	markets, err := store.DistinctMarkets(ctx)
	if err != nil {
		t.Fatalf("markets: %v", err)
	}
	if len(markets) != 2 {
		t.Errorf("markets = %v, want h2h and totals", markets)
	}

	books, err := store.DistinctSportsbooks(ctx)
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	if len(books) != 2 || books[0] != "DraftKings" || books[1] != "FanDuel" {
		t.Errorf("books = %v, want sorted [DraftKings FanDuel]", books)
	}
}
