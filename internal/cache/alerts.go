package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AlertRecord captures the last alerted margin for a market so repeat scans
// of the same opportunity stay quiet unless the edge improves.
type AlertRecord struct {
	Margin    float64   `json:"margin"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlertCache stores the best alerted margin per market key.
type AlertCache interface {
	Get(ctx context.Context, marketKey string) (*AlertRecord, bool, error)
	Set(ctx context.Context, marketKey string, record AlertRecord) error
	Close() error
}

type redisAlertCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisAlertCache builds a cache keyed by the hashed market identity.
func NewRedisAlertCache(addr, password string, db int, ttl time.Duration, prefix string) (AlertCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if prefix == "" {
		prefix = "alert_best"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisAlertCache{client: client, ttl: ttl, prefix: prefix}, nil
}

func (c *redisAlertCache) key(marketKey string) string {
	return fmt.Sprintf("%s:%s", c.prefix, marketKey)
}

func (c *redisAlertCache) Get(ctx context.Context, marketKey string) (*AlertRecord, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(marketKey)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var record AlertRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (c *redisAlertCache) Set(ctx context.Context, marketKey string, record AlertRecord) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(marketKey), payload, c.ttl).Err()
}

func (c *redisAlertCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
