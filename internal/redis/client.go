package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client shared across the application. One client
// serves the key-value store, the catalog cache and the event stream, so
// connection pooling is reused everywhere.
type Client struct {
	*redis.Client
}

// NewClient creates a Redis client from a URL such as
// redis://localhost:6379 or redis://:password@host:6379/0.
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &Client{Client: redis.NewClient(opts)}, nil
}

// Ping verifies the connection. Called at startup to fail fast when the
// backend is unreachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
