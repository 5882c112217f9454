package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// catalogRecentKey holds game ids scored by publish time.
	catalogRecentKey = "catalog:recent"

	// CatalogRecentCap is the maximum number of ids kept in the cache.
	CatalogRecentCap = 100

	// catalogTTL bounds staleness; the cache is rebuilt from events as new
	// games are published, and readers fall back to the repositories when
	// it is empty.
	catalogTTL = 7 * 24 * time.Hour
)

// GameScore pairs a game id with its publish timestamp for warming.
type GameScore struct {
	GameID      string
	PublishedAt int64 // Unix seconds
}

// CatalogCache is the read-path cache for the "recently published" shelf.
type CatalogCache interface {
	// Add records one published game.
	Add(ctx context.Context, gameID string, publishedAt int64) error

	// Recent returns up to limit game ids, newest first.
	Recent(ctx context.Context, limit int) ([]string, error)

	// Warm bulk-inserts entries.
	Warm(ctx context.Context, games []GameScore) error
}

// RedisCatalogCache implements CatalogCache on a Redis sorted set.
type RedisCatalogCache struct {
	client *redis.Client
}

// NewCatalogCache creates a CatalogCache backed by Redis.
func NewCatalogCache(client *redis.Client) CatalogCache {
	return &RedisCatalogCache{client: client}
}

// Add pipelines ZADD + trim-to-cap + TTL refresh.
func (c *RedisCatalogCache) Add(ctx context.Context, gameID string, publishedAt int64) error {
	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, catalogRecentKey, redis.Z{Score: float64(publishedAt), Member: gameID})
	// Keep the CatalogRecentCap highest scores (newest), drop the rest.
	pipe.ZRemRangeByRank(ctx, catalogRecentKey, 0, int64(-CatalogRecentCap-1))
	pipe.Expire(ctx, catalogRecentKey, catalogTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add game to catalog cache: %w", err)
	}
	return nil
}

// Recent reads the newest ids with ZREVRANGE.
func (c *RedisCatalogCache) Recent(ctx context.Context, limit int) ([]string, error) {
	ids, err := c.client.ZRevRange(ctx, catalogRecentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read catalog cache: %w", err)
	}
	return ids, nil
}

// Warm bulk-inserts with a single pipelined ZADD.
func (c *RedisCatalogCache) Warm(ctx context.Context, games []GameScore) error {
	if len(games) == 0 {
		return nil
	}

	members := make([]redis.Z, len(games))
	for i, g := range games {
		members[i] = redis.Z{Score: float64(g.PublishedAt), Member: g.GameID}
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, catalogRecentKey, members...)
	pipe.ZRemRangeByRank(ctx, catalogRecentKey, 0, int64(-CatalogRecentCap-1))
	pipe.Expire(ctx, catalogRecentKey, catalogTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("warm catalog cache: %w", err)
	}
	return nil
}
