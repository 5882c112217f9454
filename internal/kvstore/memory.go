package kvstore

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is a map-backed Store. It backs tests and local development
// without external services; all clients handed out by NewMemoryBackend
// share the same shared namespace, like clients of a real backend would.
type MemoryStore struct {
	backend  *MemoryBackend
	clientID string
}

// MemoryBackend holds the data shared by every MemoryStore view.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]string // namespace -> key -> value
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]map[string]string)}
}

// ForClient returns a Store view bound to one client's private namespace.
func (b *MemoryBackend) ForClient(clientID string) *MemoryStore {
	return &MemoryStore{backend: b, clientID: clientID}
}

func (s *MemoryStore) namespace(shared bool) string {
	if shared {
		return sharedNamespace
	}
	return "client:" + s.clientID
}

func (s *MemoryStore) Get(ctx context.Context, key string, shared bool) (string, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	val, ok := b.data[s.namespace(shared)][key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, shared bool) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	ns := s.namespace(shared)
	if b.data[ns] == nil {
		b.data[ns] = make(map[string]string)
	}
	b.data[ns][key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string, shared bool) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data[s.namespace(shared)], key)
	return nil
}

func (s *MemoryStore) ListKeys(ctx context.Context, prefix string, shared bool) ([]string, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for k := range b.data[s.namespace(shared)] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
