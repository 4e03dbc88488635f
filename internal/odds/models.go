package odds

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Market keys as stored. Anything else is passed through untouched but the
// engine only has special handling for these three.
const (
	MarketH2H     = "h2h"
	MarketSpreads = "spreads"
	MarketTotals  = "totals"
)

// Quote is one priced outcome at one sportsbook, as stored by the collector.
// The engine treats quotes as an immutable snapshot; nothing mutates them.
type Quote struct {
	Sportsbook   string     `json:"sportsbook"`
	League       string     `json:"league"`
	Event        string     `json:"event"`
	Market       string     `json:"market"`
	Outcome      string     `json:"outcome"`
	Line         *string    `json:"line,omitempty"`
	Price        float64    `json:"odds_decimal"`
	American     string     `json:"odds_american,omitempty"`
	CommenceTime *time.Time `json:"commence_time,omitempty"`
	EventDate    string     `json:"event_date,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
}

// ParseLine parses a quote's line as a number. A nil or non-numeric line
// returns ok=false so callers can tell "no line" / "unparseable" apart from a
// valid zero.
func ParseLine(line *string) (float64, bool) {
	if line == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*line), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DecimalToAmerican renders decimal odds in American notation for display.
// Prices at or below 1.0 have no American representation and yield "".
func DecimalToAmerican(dec float64) string {
	if dec <= 1.0 {
		return ""
	}
	if dec >= 2.0 {
		return fmt.Sprintf("+%d", int((dec-1)*100))
	}
	return strconv.Itoa(int(-100 / (dec - 1)))
}
