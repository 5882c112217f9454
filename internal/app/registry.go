package app

import (
	"context"
	"sync"

	"gamehub/internal/kvstore"
	"gamehub/internal/queue"
	"gamehub/internal/repository"
)

// Registry hands out one Client per opaque client id, mirroring one browser
// tab of the original application. Each Client gets its own store view so
// its session pointer lives in its own private namespace, while all of them
// see the same shared catalog.
type Registry struct {
	mu        sync.Mutex
	clients   map[string]*Client
	newStore  kvstore.Factory
	publisher queue.Publisher
}

// NewRegistry creates a registry. publisher may be nil.
func NewRegistry(newStore kvstore.Factory, publisher queue.Publisher) *Registry {
	return &Registry{
		clients:   make(map[string]*Client),
		newStore:  newStore,
		publisher: publisher,
	}
}

// Client returns the state machine for clientID, creating and bootstrapping
// it on first use. Bootstrap runs outside the registry lock; Client's own
// once-guard keeps it from running twice.
func (r *Registry) Client(ctx context.Context, clientID string) *Client {
	r.mu.Lock()
	c, ok := r.clients[clientID]
	if !ok {
		c = NewClient(repository.New(r.newStore(clientID)), r.publisher)
		r.clients[clientID] = c
	}
	r.mu.Unlock()

	c.Bootstrap(ctx)
	return c
}
