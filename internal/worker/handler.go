package worker

import (
	"context"
	"log"

	"gamehub/internal/cache"
	"gamehub/internal/queue"
)

// Handler processes domain events from the catalog stream.
type Handler struct {
	catalog cache.CatalogCache
}

// NewHandler creates an event handler.
func NewHandler(catalog cache.CatalogCache) *Handler {
	return &Handler{catalog: catalog}
}

// HandleEvent routes an event by type. Only game_published does real work
// (warming the recent-games cache); the other events are logged for audit.
func (h *Handler) HandleEvent(ctx context.Context, event queue.Event) error {
	switch event.Type {
	case queue.EventGamePublished:
		return h.handleGamePublished(ctx, event)
	case queue.EventUserRegistered:
		log.Printf("[Handler] user registered: user=%s", event.UserID)
		return nil
	case queue.EventFriendAdded:
		log.Printf("[Handler] friend added: owner=%s friend=%s", event.OwnerID, event.FriendID)
		return nil
	default:
		log.Printf("[Handler] unknown event type: %s", event.Type)
		return nil
	}
}

func (h *Handler) handleGamePublished(ctx context.Context, event queue.Event) error {
	ts := event.PublishedAt
	if ts == 0 {
		ts = event.Timestamp
	}
	if err := h.catalog.Add(ctx, event.GameID, ts); err != nil {
		return err
	}
	log.Printf("[Handler] cached published game=%s author=%s", event.GameID, event.AuthorID)
	return nil
}
