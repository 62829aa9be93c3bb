// Package cache connects to Redis and exposes the round-trip probe used by
// the health check.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supplychain/backend/internal/infrastructure/config"
)

// DefaultDialTimeout bounds connection setup to the Redis server
const DefaultDialTimeout = 5 * time.Second

// NewClient creates a Redis client from configuration. It does not
// connect; the first command does.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: DefaultDialTimeout,
		MaxRetries:  1,
	})
}

// Ping verifies the server is reachable
func Ping(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// RedisProbe writes a value and reads it back through a Redis client
type RedisProbe struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisProbe creates a probe over client. Keys are namespaced with
// keyPrefix.
func NewRedisProbe(client *redis.Client, keyPrefix string) *RedisProbe {
	return &RedisProbe{client: client, keyPrefix: keyPrefix}
}

// RoundTrip sets key to value with ttl and returns what GET reads back.
// A key that vanished before the read returns "".
func (p *RedisProbe) RoundTrip(ctx context.Context, key, value string, ttl time.Duration) (string, error) {
	key = p.keyPrefix + key
	if err := p.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set %s: %w", key, err)
	}
	got, err := p.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return got, nil
}
