package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/akulkarni/oddsedge/internal/engine"
	"github.com/akulkarni/oddsedge/internal/logging"
	"github.com/akulkarni/oddsedge/internal/odds"
)

// QuoteSource is the storage surface the handlers need.
type QuoteSource interface {
	ListQuotes(ctx context.Context) ([]odds.Quote, error)
	DistinctLeagues(ctx context.Context) ([]string, error)
	DistinctMarkets(ctx context.Context) ([]string, error)
	DistinctSportsbooks(ctx context.Context) ([]string, error)
}

type Handler struct {
	source QuoteSource
}

func NewHandler(source QuoteSource) *Handler {
	return &Handler{source: source}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) Leagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.source.DistinctLeagues(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list leagues", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"leagues": emptyIfNil(leagues)})
}

func (h *Handler) Markets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.source.DistinctMarkets(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list markets", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"markets": emptyIfNil(markets)})
}

func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	books, err := h.source.DistinctSportsbooks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sportsbooks", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"sportsbooks": emptyIfNil(books)})
}

// Arbitrage loads the full quote snapshot and runs one scan against it.
func (h *Handler) Arbitrage(w http.ResponseWriter, r *http.Request) {
	params := parseArbParams(r)

	quotes, err := h.source.ListQuotes(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load quotes", err)
		return
	}

	result := engine.Scan(quotes, time.Now().UTC(), params.engine)
	respondJSON(w, http.StatusOK, buildArbResponse(params, &result))
}

func emptyIfNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("encode response: %v", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Errorf("%s: %v", message, err)
	}
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
