package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key does not exist. Any other
// error from a Store means the backend itself failed.
var ErrKeyNotFound = errors.New("key not found")

// Store is the four-operation contract of the external key-value storage
// service. The shared flag selects between two namespaces: shared data
// (users, games, friend lists) is visible to every client, while private
// data (the session pointer) is scoped to the one client this Store instance
// was created for.
//
// None of the operations are atomic across keys and Set carries no
// concurrency token: last writer wins at single-key granularity.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string, shared bool) (string, error)

	// Set upserts key to value.
	Set(ctx context.Context, key, value string, shared bool) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string, shared bool) error

	// ListKeys returns every key starting with prefix. Ordering is
	// unspecified and must not be relied upon.
	ListKeys(ctx context.Context, prefix string, shared bool) ([]string, error)
}

// Factory builds a Store view bound to one client's private namespace.
type Factory func(clientID string) Store
