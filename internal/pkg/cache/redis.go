// Package cache is a small key/value port over Redis, used to replay
// responses for repeated idempotency keys.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a string key-value store with expiry.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get returns "" and no error when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation string, parts ...string) string
	Ping(ctx context.Context) error
	Close() error
}

type redisCache struct {
	client      *redis.Client
	serviceName string
}

// NewRedisCache prefixes every generated key with serviceName. The client
// connects lazily; call Ping to check the server.
func NewRedisCache(addr, serviceName string) Cache {
	return &redisCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cache: get %s: %w", key, err)
	}
	return val, nil
}

// GenerateKey namespaces a key by service and operation:
// "storefront:place-order:<user>:<key>".
func (r *redisCache) GenerateKey(operation string, parts ...string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, strings.Join(parts, ":"))
}

func (r *redisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
