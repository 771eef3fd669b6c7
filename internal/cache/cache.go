// Package cache puts a Redis read-through layer in front of the catalog
// repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel-services/internal/logger"
)

// Cache stores JSON documents in Redis with a fixed TTL. Redis failures are
// logged and treated as misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: log}
}

// NewClient opens a Redis client and checks it with a ping
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// readThrough returns the cached value for key, or calls load and caches
// its result. Errors from load are returned as is and never cached.
func readThrough[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			return cached, nil
		}
		c.logger.Error("cache_decode_failed", "Dropping undecodable cache entry", "", jsonErr, map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		c.logger.Error("cache_get_failed", "Failed to read from cache", "", err, map[string]interface{}{"key": key})
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	body, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("cache_encode_failed", "Failed to encode cache entry", "", err, map[string]interface{}{"key": key})
		return value, nil
	}
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Error("cache_set_failed", "Failed to write to cache", "", err, map[string]interface{}{"key": key})
	}
	return value, nil
}

// invalidate deletes every key matching pattern
func (c *Cache) invalidate(ctx context.Context, pattern string) {
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("cache_scan_failed", "Failed to scan cache keys", "", err, map[string]interface{}{"pattern": pattern})
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("cache_invalidate_failed", "Failed to invalidate cache keys", "", err, map[string]interface{}{"pattern": pattern})
	}
}

func filterKey(category *string, available *bool) string {
	cat, avail := "any", "any"
	if category != nil {
		cat = strconv.Quote(*category)
	}
	if available != nil {
		avail = strconv.FormatBool(*available)
	}
	return cat + ":" + avail
}
