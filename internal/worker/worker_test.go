package worker

import (
	"context"
	"errors"
	"testing"

	"gamehub/internal/cache"
	"gamehub/internal/queue"
)

type mockCatalogCache struct {
	addFn func(ctx context.Context, gameID string, publishedAt int64) error

	addCalls []cache.GameScore
}

func (m *mockCatalogCache) Add(ctx context.Context, gameID string, publishedAt int64) error {
	m.addCalls = append(m.addCalls, cache.GameScore{GameID: gameID, PublishedAt: publishedAt})
	if m.addFn != nil {
		return m.addFn(ctx, gameID, publishedAt)
	}
	return nil
}

func (m *mockCatalogCache) Recent(ctx context.Context, limit int) ([]string, error) {
	return nil, nil
}

func (m *mockCatalogCache) Warm(ctx context.Context, games []cache.GameScore) error {
	return nil
}

func TestHandleEvent_GamePublishedWarmsCache(t *testing.T) {
	catalog := &mockCatalogCache{}
	h := NewHandler(catalog)

	event := queue.NewGamePublishedEvent("game-1", "author-1", 1700000000)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(catalog.addCalls) != 1 {
		t.Fatalf("Add called %d times, want 1", len(catalog.addCalls))
	}
	got := catalog.addCalls[0]
	if got.GameID != "game-1" || got.PublishedAt != 1700000000 {
		t.Errorf("cached %+v, want game-1 @ 1700000000", got)
	}
}

func TestHandleEvent_GamePublishedFallsBackToEventTimestamp(t *testing.T) {
	catalog := &mockCatalogCache{}
	h := NewHandler(catalog)

	event := queue.Event{
		Type:      queue.EventGamePublished,
		Timestamp: 1699999999,
		GameID:    "game-2",
	}
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(catalog.addCalls) != 1 || catalog.addCalls[0].PublishedAt != 1699999999 {
		t.Errorf("calls = %+v, want fallback to event timestamp", catalog.addCalls)
	}
}

func TestHandleEvent_CacheErrorPropagates(t *testing.T) {
	wantErr := errors.New("redis down")
	catalog := &mockCatalogCache{
		addFn: func(ctx context.Context, gameID string, publishedAt int64) error {
			return wantErr
		},
	}
	h := NewHandler(catalog)

	err := h.HandleEvent(context.Background(), queue.NewGamePublishedEvent("g", "a", 1))
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want the cache error", err)
	}
}

func TestHandleEvent_AuditOnlyEventsSucceed(t *testing.T) {
	catalog := &mockCatalogCache{}
	h := NewHandler(catalog)

	events := []queue.Event{
		queue.NewUserRegisteredEvent("u1"),
		queue.NewFriendAddedEvent("u1", "u2"),
		{Type: "unknown_event"},
	}
	for _, e := range events {
		if err := h.HandleEvent(context.Background(), e); err != nil {
			t.Errorf("event %s: %v", e.Type, err)
		}
	}
	if len(catalog.addCalls) != 0 {
		t.Errorf("audit-only events touched the cache: %+v", catalog.addCalls)
	}
}
