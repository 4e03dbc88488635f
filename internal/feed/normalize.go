package feed

import (
	"strconv"
	"strings"
	"time"

	"github.com/akulkarni/oddsedge/internal/odds"
)

// Normalize flattens raw feed events into quote rows. allowedBooks restricts
// which sportsbooks survive (matched on title, falling back to key); an empty
// set allows every book. Lay/exchange markets are skipped. Events whose
// commence time fails to parse keep a nil CommenceTime, which the engine's
// filter later treats as unsafe.
func Normalize(events []Event, allowedBooks map[string]struct{}) []odds.Quote {
	var quotes []odds.Quote
	for _, ev := range events {
		league := strings.ToLower(firstNonEmpty(ev.SportTitle, ev.SportKey))
		title := ev.HomeTeam + " vs " + ev.AwayTeam

		var commence *time.Time
		var eventDate string
		if ev.CommenceTime != "" {
			if t, err := time.Parse(time.RFC3339, ev.CommenceTime); err == nil {
				utc := t.UTC()
				commence = &utc
				eventDate = utc.Format("2006-01-02")
			}
		}

		for _, book := range ev.Bookmakers {
			sportsbook := firstNonEmpty(book.Title, book.Key)
			if len(allowedBooks) > 0 {
				if _, ok := allowedBooks[sportsbook]; !ok {
					continue
				}
			}

			for _, m := range book.Markets {
				marketKey := strings.ToLower(firstNonEmpty(m.Key, odds.MarketH2H))
				if strings.Contains(marketKey, "lay") {
					continue
				}

				for _, o := range m.Outcomes {
					var line *string
					if o.Point != nil {
						l := strconv.FormatFloat(*o.Point, 'f', -1, 64)
						line = &l
					}
					quotes = append(quotes, odds.Quote{
						Sportsbook:   sportsbook,
						League:       league,
						Event:        title,
						Market:       marketKey,
						Outcome:      o.Name,
						Line:         line,
						Price:        o.Price,
						American:     odds.DecimalToAmerican(o.Price),
						CommenceTime: commence,
						EventDate:    eventDate,
					})
				}
			}
		}
	}
	return quotes
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
