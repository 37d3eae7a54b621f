// Package cache holds a redis-backed read cache for user balances.
//
// Balance lookups do not join the per-user mutation lane, so serving them
// from redis is the same accepted staleness the storage read path has.
// The cache is best effort: every redis failure degrades to a storage read.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pointledger/internal/logger"
	"pointledger/internal/models"
)

const defaultTTL = 5 * time.Minute

type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewBalanceCache(client *redis.Client, ttl time.Duration, l logger.Logger) *BalanceCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &BalanceCache{
		client: client,
		ttl:    ttl,
		log:    l,
	}
}

// Get returns the cached balance and whether it was present.
// Any redis error counts as a miss.
func (c *BalanceCache) Get(ctx context.Context, userID int64) (models.UserPoint, bool) {
	var point models.UserPoint

	data, err := c.client.Get(ctx, balanceKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("balance cache read failed", "user_id", userID, "error", err)
		}
		return point, false
	}

	if err := json.Unmarshal(data, &point); err != nil {
		c.log.Warn("balance cache entry is corrupt", "user_id", userID, "error", err)
		return point, false
	}

	return point, true
}

// Set stores the committed balance. Failures are logged and swallowed:
// a stale or missing cache entry never fails the request that produced it.
func (c *BalanceCache) Set(ctx context.Context, point models.UserPoint) {
	data, err := json.Marshal(point)
	if err != nil {
		c.log.Warn("balance cache marshal failed", "user_id", point.UserID, "error", err)
		return
	}

	if err := c.client.Set(ctx, balanceKey(point.UserID), data, c.ttl).Err(); err != nil {
		c.log.Warn("balance cache write failed", "user_id", point.UserID, "error", err)
	}
}

func balanceKey(userID int64) string {
	return fmt.Sprintf("point:balance:%d", userID)
}
