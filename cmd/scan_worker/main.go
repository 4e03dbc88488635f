package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/joho/godotenv"

	"github.com/akulkarni/oddsedge/internal/engine"
	kafkautil "github.com/akulkarni/oddsedge/internal/kafka"
	"github.com/akulkarni/oddsedge/internal/logging"
	"github.com/akulkarni/oddsedge/internal/queue"
	sqlstore "github.com/akulkarni/oddsedge/internal/storage/sqlite"
)

func main() {
	godotenv.Load()
	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := sqlstore.Open(os.Getenv("SQLITE_PATH"))
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	writer := setupWriter(ctx)
	defer func() {
		if writer != nil {
			writer.Close()
		}
	}()

	// Limit 0 keeps the full opportunity list; consumers do their own slicing.
	params := engine.Params{
		MinMargin:     envFloat("SCAN_MIN_MARGIN", 0),
		MinHoursAhead: envFloat("SCAN_MIN_HOURS_AHEAD", 0),
		SortBy:        engine.SortByProfit,
		SortDir:       engine.SortDesc,
		Page:          1,
		Limit:         0,
	}
	interval := time.Duration(envInt("SCAN_INTERVAL_SEC", 60)) * time.Second

	scan(ctx, store, writer, params)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logging.Infof("[scan-worker] shutting down")
			return
		case <-ticker.C:
			scan(ctx, store, writer, params)
		}
	}
}

func scan(ctx context.Context, store *sqlstore.Store, writer *kafkago.Writer, params engine.Params) {
	quotes, err := store.ListQuotes(ctx)
	if err != nil {
		logging.Errorf("[scan-worker] list quotes: %v", err)
		return
	}

	result := engine.Scan(quotes, time.Now().UTC(), params)
	logging.Infof("[scan-worker] %d quotes, %d opportunities", len(quotes), result.Total)

	if err := queue.PublishOpportunities(ctx, writer, result.Opportunities); err != nil {
		logging.Errorf("[scan-worker] publish error: %v", err)
	}
}

func setupWriter(ctx context.Context) *kafkago.Writer {
	brokers := kafkautil.Brokers()
	topic := kafkautil.TopicFromEnv("OPPORTUNITY_KAFKA_TOPIC", kafkautil.DefaultOpportunityTopic)

	waitCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()
	if err := kafkautil.WaitForBroker(waitCtx, brokers); err != nil {
		logging.Warnf("[scan-worker] kafka unavailable: %v", err)
		return nil
	}

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 30*time.Second)
	if err := kafkautil.EnsureTopic(ensureCtx, brokers, topic); err != nil {
		logging.Warnf("[scan-worker] ensure topic warning: %v", err)
	}
	cancelEnsure()
	return kafkautil.NewWriter(brokers, topic)
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
