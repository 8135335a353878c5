// Package cache implements the Redis-backed JSON cache. Profiles are the
// only mutable shared state in the system, so cache entries are always
// invalidated before a profile write returns.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agroclima/agroclima-pro/internal/config"
)

// ProfileTTL bounds how long a profile may be served from cache. The
// entitlement decision itself is never cached; only the profile snapshot
// it is computed from.
const ProfileTTL = 5 * time.Minute

// Cache wraps the Redis client.
type Cache struct {
	DB *redis.Client
}

// InitServer dials Redis with the configured settings and verifies the
// connection with a ping.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{DB: db}, nil
}

// ProfileKey builds the cache key for a profile snapshot.
func ProfileKey(userUID string) string {
	return fmt.Sprintf("profile:%s", userUID)
}

// Get reads a JSON value into result, reporting whether the key was found.
func (c *Cache) Get(key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.DB.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set stores a JSON value under key with the given lifetime.
func (c *Cache) Set(key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.DB.Set(context.Background(), key, jsonData, expiration).Err()
}

// Invalidate drops the key from the cache.
func (c *Cache) Invalidate(key string) error {
	return c.DB.Del(context.Background(), key).Err()
}
