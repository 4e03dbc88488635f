// Package feed retrieves raw odds from the-odds-api and normalizes them into
// quote rows for storage.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.the-odds-api.com/v4"

// Client talks to the-odds-api v4.
type Client struct {
	baseURL    string
	apiKey     string
	regions    string
	markets    string
	httpClient *http.Client
}

// Config provides the API key plus optional overrides.
type Config struct {
	APIKey  string
	BaseURL string
	Regions string // comma-separated, e.g. "us"
	Markets string // comma-separated, e.g. "h2h,spreads,totals"
	Timeout time.Duration
}

// NewClient builds a configured odds-feed client.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	regions := cfg.Regions
	if regions == "" {
		regions = "us"
	}
	markets := cfg.Markets
	if markets == "" {
		markets = "h2h,spreads,totals"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		regions: regions,
		markets: markets,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Sport is one entry of the feed's sports catalogue.
type Sport struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// Event is one raw event payload with nested bookmaker prices.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker carries one book's markets for an event.
type Bookmaker struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Markets []MarketData `json:"markets"`
}

// MarketData is one priced market (h2h, spreads, totals, ...).
type MarketData struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one priced selection. Point is nil for h2h.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point"`
}

// ListSports fetches the sports catalogue.
func (c *Client) ListSports(ctx context.Context) ([]Sport, error) {
	endpoint := fmt.Sprintf("%s/sports/", c.baseURL)
	var sports []Sport
	if err := c.getJSON(ctx, endpoint, nil, &sports); err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	return sports, nil
}

// FetchOdds fetches all events with current bookmaker prices for one sport.
func (c *Client) FetchOdds(ctx context.Context, sportKey string) ([]Event, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/odds", c.baseURL, url.PathEscape(sportKey))
	params := url.Values{
		"regions":    {c.regions},
		"markets":    {c.markets},
		"oddsFormat": {"decimal"},
	}
	var events []Event
	if err := c.getJSON(ctx, endpoint, params, &events); err != nil {
		return nil, fmt.Errorf("fetch odds for %s: %w", sportKey, err)
	}
	return events, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("api key not configured")
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, feedErrorMessage(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// feedErrorMessage pulls the API's message field out of an error body, falling
// back to the raw payload.
func feedErrorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	const maxLen = 200
	if len(body) > maxLen {
		body = body[:maxLen]
	}
	return string(body)
}
