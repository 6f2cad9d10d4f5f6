// Package cache provides Redis-backed caching for derived read models.
package cache

import (
	"context"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"hamu/internal/core/id"
	"hamu/pkg/logger"
)

// StockLevels caches computed stock levels per inventory item. The ledger
// remains the source of truth; cached values are dropped on every movement
// and expire on their own as a backstop.
type StockLevels struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStockLevels creates a stock level cache.
func NewStockLevels(addr, password string, db int, ttl time.Duration) *StockLevels {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &StockLevels{client: client, ttl: ttl}
}

// Ping verifies connectivity.
func (c *StockLevels) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *StockLevels) Close() error {
	return c.client.Close()
}

func levelKey(itemID id.ID) string {
	return "stock:level:" + itemID.String()
}

// GetLevel returns the cached level for an item. Any cache failure is a
// miss: callers fall back to the database.
func (c *StockLevels) GetLevel(ctx context.Context, itemID id.ID) (int, bool) {
	val, err := c.client.Get(ctx, levelKey(itemID)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		logger.Warn(ctx, "stock level cache read failed", "item_id", itemID, "error", err)
		return 0, false
	}

	level, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return level, true
}

// SetLevel stores a computed level.
func (c *StockLevels) SetLevel(ctx context.Context, itemID id.ID, level int) {
	if err := c.client.Set(ctx, levelKey(itemID), strconv.Itoa(level), c.ttl).Err(); err != nil {
		logger.Warn(ctx, "stock level cache write failed", "item_id", itemID, "error", err)
	}
}

// Invalidate drops the cached level for an item.
func (c *StockLevels) Invalidate(ctx context.Context, itemID id.ID) {
	if err := c.client.Del(ctx, levelKey(itemID)).Err(); err != nil {
		logger.Warn(ctx, "stock level cache invalidation failed", "item_id", itemID, "error", err)
	}
}
