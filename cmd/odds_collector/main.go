package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/akulkarni/oddsedge/internal/feed"
	"github.com/akulkarni/oddsedge/internal/logging"
	sqlstore "github.com/akulkarni/oddsedge/internal/storage/sqlite"
)

func main() {
	godotenv.Load()
	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	apiKey := os.Getenv("ODDS_API_KEY")
	if apiKey == "" {
		log.Fatal("ODDS_API_KEY is required")
	}

	store, err := sqlstore.Open(os.Getenv("SQLITE_PATH"))
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.CreateTables(ctx); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	client := feed.NewClient(feed.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("ODDS_API_BASE_URL"),
		Regions: os.Getenv("ODDS_REGIONS"),
		Markets: os.Getenv("ODDS_MARKETS"),
	})

	sports := csvList(os.Getenv("ODDS_SPORTS"))
	allowedBooks := csvSet(os.Getenv("ALLOWED_BOOKS"))
	interval := time.Duration(envInt("COLLECT_INTERVAL_SEC", 300)) * time.Second

	collect(ctx, client, store, sports, allowedBooks)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logging.Infof("[collector] shutting down")
			return
		case <-ticker.C:
			collect(ctx, client, store, sports, allowedBooks)
		}
	}
}

func collect(ctx context.Context, client *feed.Client, store *sqlstore.Store, sports []string, allowedBooks map[string]struct{}) {
	keys := sports
	if len(keys) == 0 {
		var err error
		keys, err = activeSportKeys(ctx, client)
		if err != nil {
			logging.Errorf("[collector] list sports: %v", err)
			return
		}
	}

	var total int
	for _, key := range keys {
		events, err := client.FetchOdds(ctx, key)
		if err != nil {
			logging.Errorf("[collector] fetch %s: %v", key, err)
			continue
		}
		quotes := feed.Normalize(events, allowedBooks)
		if len(quotes) == 0 {
			continue
		}
		if err := store.UpsertQuotes(ctx, quotes); err != nil {
			logging.Errorf("[collector] upsert %s: %v", key, err)
			continue
		}
		total += len(quotes)
		logging.Debugf("[collector] %s: %d quotes", key, len(quotes))
	}
	logging.Infof("[collector] stored %d quotes across %d sports", total, len(keys))
}

// activeSportKeys pulls the live catalogue, skipping outright/futures markets.
func activeSportKeys(ctx context.Context, client *feed.Client) ([]string, error) {
	sports, err := client.ListSports(ctx)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, s := range sports {
		if !s.Active || strings.HasSuffix(s.Key, "_winner") {
			continue
		}
		keys = append(keys, s.Key)
	}
	return keys, nil
}

func csvList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func csvSet(raw string) map[string]struct{} {
	list := csvList(raw)
	if len(list) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	return set
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
