package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN when listing by prefix.
const scanBatch = 100

// RedisStore implements Store on Redis. Shared keys are stored verbatim, so
// data written by earlier clients under `user:`, `game:` and `friends:`
// prefixes keeps working unchanged. Private keys are scoped under
// `client:<clientID>:` so session pointers never leak between clients that
// happen to share the same backend.
type RedisStore struct {
	client   *redis.Client
	clientID string
}

// NewRedisStore returns a Store bound to one client's private namespace.
func NewRedisStore(client *redis.Client, clientID string) *RedisStore {
	return &RedisStore{client: client, clientID: clientID}
}

func (s *RedisStore) resolve(key string, shared bool) string {
	if shared {
		return key
	}
	return "client:" + s.clientID + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string, shared bool) (string, error) {
	val, err := s.client.Get(ctx, s.resolve(key, shared)).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, shared bool) error {
	if err := s.client.Set(ctx, s.resolve(key, shared), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string, shared bool) error {
	if err := s.client.Del(ctx, s.resolve(key, shared)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// ListKeys scans for keys matching prefix*. SCAN is cursor-based, so large
// collections are walked in batches instead of blocking the server the way
// KEYS would.
func (s *RedisStore) ListKeys(ctx context.Context, prefix string, shared bool) ([]string, error) {
	resolved := s.resolve(prefix, shared)
	match := resolved + "*"
	strip := resolved[:len(resolved)-len(prefix)]

	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, strip))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
