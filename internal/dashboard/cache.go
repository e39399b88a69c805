package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "dashboard:version"

// Cache stores rendered summaries in Redis under a versioned key. Bumping
// the version invalidates every cached view at once, which is how imports
// and invoice mutations keep dashboards fresh without enumerating keys.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache builds a dashboard cache with the given entry lifetime.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// BuildKey derives the cache key for the current version and key parts.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	version, err := c.client.Get(ctx, cacheVersionKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("dashboard cache version: %w", err)
		}
		version = "0"
	}
	return "dashboard:v" + version + ":" + strings.Join(parts, ":"), nil
}

// FetchJSON loads a cached summary into dest. The second return is false on
// cache miss.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("dashboard cache get: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("dashboard cache decode: %w", err)
	}
	return true, nil
}

// StoreJSON writes a rendered summary under key.
func (c *Cache) StoreJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("dashboard cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("dashboard cache set: %w", err)
	}
	return nil
}

// Bump invalidates all cached views by advancing the version counter.
func (c *Cache) Bump(ctx context.Context) error {
	if err := c.client.Incr(ctx, cacheVersionKey).Err(); err != nil {
		return fmt.Errorf("dashboard cache bump: %w", err)
	}
	return nil
}
