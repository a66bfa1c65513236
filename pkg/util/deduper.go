package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper makes event consumption idempotent across redeliveries by claiming
// event IDs in Redis with SETNX.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// Claim returns true if this consumer is the first to see the key.
// On Redis failure it returns true: processing twice beats dropping an event.
func (d *Deduper) Claim(ctx context.Context, key string) bool {
	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("Dedup check failed, processing anyway",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}
	return ok
}

// Release drops a claim so a failed handler run can be redelivered.
func (d *Deduper) Release(ctx context.Context, key string) {
	if err := d.rdb.Del(ctx, key).Err(); err != nil {
		d.logger.Warn("Failed to release dedup key",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// FormatDedupKey builds the dedup key for an event.
func FormatDedupKey(routingKey, eventID string) string {
	return fmt.Sprintf("dedup:%s:%s", routingKey, eventID)
}
