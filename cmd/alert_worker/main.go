package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/akulkarni/oddsedge/internal/cache"
	"github.com/akulkarni/oddsedge/internal/hashutil"
	"github.com/akulkarni/oddsedge/internal/kafka"
	"github.com/akulkarni/oddsedge/internal/logging"
	"github.com/akulkarni/oddsedge/internal/notify"
	"github.com/akulkarni/oddsedge/internal/queue"
	"github.com/akulkarni/oddsedge/internal/workers"
)

func main() {
	godotenv.Load()
	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	brokers := kafka.Brokers()
	topic := kafka.TopicFromEnv("OPPORTUNITY_KAFKA_TOPIC", kafka.DefaultOpportunityTopic)
	group := envString("ALERT_WORKER_GROUP", "alert-workers")
	workerCount := envInt("ALERT_WORKERS", 2)
	minMargin := envFloat("ALERT_MIN_MARGIN", 1.0)
	maxAge := time.Duration(envInt("ALERT_MAX_AGE_SEC", 300)) * time.Second

	waitCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	if err := kafka.WaitForBroker(waitCtx, brokers); err != nil {
		log.Fatalf("[alert-worker] wait for broker: %v", err)
	}
	cancel()

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 30*time.Second)
	if err := kafka.EnsureTopic(ensureCtx, brokers, topic); err != nil {
		logging.Warnf("[alert-worker] ensure topic warning: %v", err)
	}
	cancelEnsure()

	alertCache, err := cache.NewRedisAlertCache(
		envString("REDIS_ADDR", "redis-server:6379"),
		os.Getenv("REDIS_PASSWORD"),
		envInt("REDIS_DB", 0),
		time.Duration(envInt("ALERT_CACHE_TTL_HOURS", 24))*time.Hour,
		envString("ALERT_CACHE_PREFIX", "alert_best"),
	)
	if err != nil {
		log.Fatalf("[alert-worker] redis cache: %v", err)
	}
	defer alertCache.Close()

	notifier, err := notify.NewNotifier(os.Getenv("TELEGRAM_BOT_TOKEN"), envInt64("TELEGRAM_CHAT_ID", 0))
	if err != nil {
		log.Fatalf("[alert-worker] telegram: %v", err)
	}

	handler := func(ctx context.Context, msg *queue.OpportunityMessage) error {
		op := &msg.Opportunity
		if op.Margin < minMargin {
			return nil
		}
		if maxAge > 0 && time.Since(msg.ScannedAt) > maxAge {
			logging.Debugf("[alert-worker] stale detection for %s, skipping", op.Event)
			return nil
		}

		line := ""
		if op.Line != nil {
			line = *op.Line
		}
		key := hashutil.HashStrings(op.Event, op.Market, line)

		prev, found, err := alertCache.Get(ctx, key)
		if err != nil {
			logging.Warnf("[alert-worker] cache get: %v", err)
		}
		if found && prev.Margin >= op.Margin {
			return nil
		}

		if err := notifier.SendOpportunity(op); err != nil {
			return err
		}
		logging.Infof("[alert-worker] alerted %s %s margin %.3f%%", op.Event, op.Market, op.Margin)
		return alertCache.Set(ctx, key, cache.AlertRecord{
			Margin:    op.Margin,
			UpdatedAt: time.Now().UTC(),
		})
	}

	logging.Infof("[alert-worker] consuming %s with group %s (%d workers)", topic, group, workerCount)
	workers.Run(ctx, brokers, topic, group, workerCount, handler)
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
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

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
