package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/akulkarni/oddsedge/internal/engine"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	defaultMiddleMinWidth = 0.5
	defaultMiddleMinPrice = 1.87
)

// arbParams is the parsed /arbitrage query string, kept alongside the
// normalized engine.Params so the response can echo what was applied.
type arbParams struct {
	engine engine.Params

	leagues     []string
	markets     []string
	sportsbooks []string
}

// parseArbParams normalizes the query string. Unparseable numerics fall back
// to their defaults rather than erroring; league and market names are
// lower-cased, sportsbook titles keep their case.
func parseArbParams(r *http.Request) arbParams {
	q := r.URL.Query()

	leagues := csvSet(q.Get("leagues"), true)
	markets := csvSet(q.Get("markets"), true)
	books := csvSet(q.Get("sportsbooks"), false)

	p := arbParams{
		engine: engine.Params{
			Leagues:        leagues,
			Markets:        markets,
			Sportsbooks:    books,
			MinMargin:      floatParam(q.Get("min_margin"), 0),
			MinHoursAhead:  floatParam(q.Get("time"), 0),
			ShowMiddles:    boolParam(q.Get("show_middles")),
			MiddleMinWidth: floatParam(q.Get("middle_min_width"), defaultMiddleMinWidth),
			MiddleMinPrice: floatParam(q.Get("middle_min_price"), defaultMiddleMinPrice),
			SortBy:         stringParam(q.Get("sort_by"), engine.SortByProfit),
			SortDir:        stringParam(q.Get("sort_dir"), engine.SortDesc),
			Page:           intParam(q.Get("page"), 1),
			Limit:          intParam(q.Get("limit"), defaultLimit),
		},
		leagues:     sortedKeys(leagues),
		markets:     sortedKeys(markets),
		sportsbooks: sortedKeys(books),
	}

	if p.engine.Page < 1 {
		p.engine.Page = 1
	}
	if p.engine.Limit < 1 {
		p.engine.Limit = 1
	}
	if p.engine.Limit > maxLimit {
		p.engine.Limit = maxLimit
	}
	return p
}

// csvSet splits a comma-separated value into a set. Empty input returns nil,
// which the engine reads as "no constraint".
func csvSet(raw string, lower bool) map[string]struct{} {
	if raw == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		v := strings.TrimSpace(part)
		if lower {
			v = strings.ToLower(v)
		}
		if v != "" {
			set[v] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func floatParam(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func boolParam(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func stringParam(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	return strings.ToLower(raw)
}

// filtersEcho mirrors the applied filters back in the response body.
type filtersEcho struct {
	Leagues        []string `json:"leagues"`
	Markets        []string `json:"markets"`
	Sportsbooks    []string `json:"sportsbooks"`
	MinMargin      float64  `json:"min_margin"`
	MinHoursAhead  float64  `json:"min_hours_ahead"`
	ShowMiddles    bool     `json:"show_middles"`
	MiddleMinWidth float64  `json:"middle_min_width"`
	MiddleMinPrice float64  `json:"middle_min_price"`
}

type sortEcho struct {
	By  string `json:"by"`
	Dir string `json:"dir"`
}

type arbResponse struct {
	Filters       filtersEcho                `json:"filters"`
	Sort          sortEcho                   `json:"sort"`
	Page          int                        `json:"page"`
	Limit         int                        `json:"limit"`
	Total         int                        `json:"total"`
	Opportunities []engine.Opportunity       `json:"opportunities"`
	Middles       []engine.Middle            `json:"middles"`
	BooksSummary  map[string]engine.BookStat `json:"books_summary"`
	GeneratedAt   string                     `json:"generated_at"`
}

func buildArbResponse(p arbParams, res *engine.Result) arbResponse {
	ops := res.Opportunities
	if ops == nil {
		ops = []engine.Opportunity{}
	}
	middles := res.Middles
	if middles == nil {
		middles = []engine.Middle{}
	}
	summary := res.BooksSummary
	if summary == nil {
		summary = map[string]engine.BookStat{}
	}
	return arbResponse{
		Filters: filtersEcho{
			Leagues:        p.leagues,
			Markets:        p.markets,
			Sportsbooks:    p.sportsbooks,
			MinMargin:      p.engine.MinMargin,
			MinHoursAhead:  p.engine.MinHoursAhead,
			ShowMiddles:    p.engine.ShowMiddles,
			MiddleMinWidth: p.engine.MiddleMinWidth,
			MiddleMinPrice: p.engine.MiddleMinPrice,
		},
		Sort:          sortEcho{By: p.engine.SortBy, Dir: p.engine.SortDir},
		Page:          p.engine.Page,
		Limit:         p.engine.Limit,
		Total:         res.Total,
		Opportunities: ops,
		Middles:       middles,
		BooksSummary:  summary,
		GeneratedAt:   res.GeneratedAt.Format("2006-01-02T15:04:05.999999Z07:00"),
	}
}
