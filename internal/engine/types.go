package engine

import (
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// Sort keys accepted by Scan.
const (
	SortByProfit = "profit"
	SortByDate   = "date"
	SortByLeague = "league"
	SortByEvent  = "event"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params selects and shapes one scan. Zero values mean "no constraint" except
// Page/Limit, which Scan normalizes (Page < 1 becomes 1, Limit <= 0 disables
// pagination so workers can consume the full list).
type Params struct {
	Leagues     map[string]struct{}
	Markets     map[string]struct{}
	Sportsbooks map[string]struct{}

	MinMargin     float64
	MinHoursAhead float64

	ShowMiddles    bool
	MiddleMinWidth float64
	MiddleMinPrice float64

	SortBy  string
	SortDir string
	Page    int
	Limit   int
}

// BestQuote is one leg of the hedge: the single best price for one outcome.
type BestQuote struct {
	Sportsbook string  `json:"sportsbook"`
	Outcome    string  `json:"outcome"`
	Price      float64 `json:"odds_decimal"`
	American   string  `json:"odds_american,omitempty"`
	Line       *string `json:"line"`
}

// Opportunity is a bucket whose best prices sum to a guaranteed margin.
type Opportunity struct {
	Event        string      `json:"event"`
	League       string      `json:"league"`
	Market       string      `json:"market"`
	Line         *string     `json:"line"`
	CommenceTime *time.Time  `json:"commence_time"`
	EventDate    string      `json:"event_date,omitempty"`
	Margin       float64     `json:"profit_margin"`
	BestPrices   []BestQuote `json:"best_odds"`
}

// MiddleLeg is one side of a totals middle candidate.
type MiddleLeg struct {
	Sportsbook string  `json:"sportsbook"`
	Line       string  `json:"line"`
	Price      float64 `json:"odds_decimal"`
	American   string  `json:"odds_american,omitempty"`
}

// Middle is a totals gap candidate: Over at a lower line, Under at a higher
// one. It is a heuristic, not a proven profit.
type Middle struct {
	Event        string     `json:"event"`
	Market       string     `json:"market"`
	Over         MiddleLeg  `json:"over"`
	Under        MiddleLeg  `json:"under"`
	Width        float64    `json:"middle_width"`
	CommenceTime *time.Time `json:"commence_time"`
	EventDate    string     `json:"event_date,omitempty"`
	Note         string     `json:"note"`
}

// BookStat is the per-sportsbook slice of the books summary.
// AvgOfferedPrice is nil for a book that never offered a price.
type BookStat struct {
	BestPriceCount  int      `json:"best_price_count"`
	AvgOfferedPrice *float64 `json:"avg_offered_decimal"`
}

// Result is everything one scan produces.
type Result struct {
	Opportunities []Opportunity       `json:"opportunities"`
	Total         int                 `json:"total"`
	Middles       []Middle            `json:"middles"`
	BooksSummary  map[string]BookStat `json:"books_summary"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// sampleQuote exists so helpers can pull event metadata off any member of a
// bucket without caring which one.
func sampleQuote(group []odds.Quote) odds.Quote {
	if len(group) == 0 {
		return odds.Quote{}
	}
	return group[0]
}
