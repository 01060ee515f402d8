package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"greenforge/internal/compound/models"
	"greenforge/internal/scoring"
)

const defaultKeyPrefix = "greenforge:compound:"

// RedisCache shares catalog lookups across instances. Values are JSON arrays
// of catalog rows; an empty array marks a name missing from the catalog.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, prefix: defaultKeyPrefix, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(name string) string {
	return c.prefix + scoring.CatalogKey(name)
}

// Get returns the cached rows for name.
func (c *RedisCache) Get(ctx context.Context, name string) ([]models.Compound, bool, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get compound: %w", err)
	}
	var rows []models.Compound
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false, fmt.Errorf("decode cached compound: %w", err)
	}
	return rows, true, nil
}

// Set stores rows for name with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, name string, rows []models.Compound) error {
	if rows == nil {
		rows = []models.Compound{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode compound: %w", err)
	}
	if err := c.client.Set(ctx, c.key(name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set compound: %w", err)
	}
	return nil
}

// Purge deletes every key under the cache prefix.
func (c *RedisCache) Purge(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan compound keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
