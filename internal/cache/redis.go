// Package cache is the Redis layer: per-category article candidate
// lists, the login rate limiter and the analytics stream connection all
// share one client.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pool defaults, used when the config leaves the knobs unset.
const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
	poolWaitTimeout     = 4 * time.Second
	connMaxIdleTime     = 5 * time.Minute
)

// Options tunes the connection pool.
type Options struct {
	PoolSize     int
	MinIdleConns int
}

// Cache wraps the shared Redis client.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection before returning.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	if opts.MinIdleConns <= 0 {
		opts.MinIdleConns = defaultMinIdleConns
	}

	parsed.PoolSize = opts.PoolSize
	parsed.MinIdleConns = opts.MinIdleConns
	parsed.PoolTimeout = poolWaitTimeout
	parsed.ConnMaxIdleTime = connMaxIdleTime

	client := redis.NewClient(parsed)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping reports Redis reachability for health checks.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client and its pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client for the stream publisher and worker.
func (c *Cache) Client() *redis.Client {
	return c.client
}
