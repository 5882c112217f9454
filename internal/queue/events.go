package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types on the catalog stream.
const (
	EventUserRegistered = "user_registered"
	EventGamePublished  = "game_published"
	EventFriendAdded    = "friend_added"
)

// StreamCatalog is the Redis stream all domain events go to.
const StreamCatalog = "stream:gamehub"

// ConsumerGroupCatalog is the consumer group for the catalog workers.
const ConsumerGroupCatalog = "catalog_workers"

// Event is a domain event. Events are best-effort audit/read-path signals;
// no operation depends on one being delivered.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix seconds when the event occurred

	// user_registered
	UserID string `json:"user_id,omitempty"`

	// game_published
	GameID      string `json:"game_id,omitempty"`
	AuthorID    string `json:"author_id,omitempty"`
	PublishedAt int64  `json:"published_at,omitempty"`

	// friend_added
	OwnerID  string `json:"owner_id,omitempty"`
	FriendID string `json:"friend_id,omitempty"`
}

// NewUserRegisteredEvent marks a new account.
func NewUserRegisteredEvent(userID string) Event {
	return Event{
		Type:      EventUserRegistered,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
	}
}

// NewGamePublishedEvent marks a new catalog entry. Workers use it to warm
// the recent-games cache.
func NewGamePublishedEvent(gameID, authorID string, publishedAt int64) Event {
	return Event{
		Type:        EventGamePublished,
		Timestamp:   time.Now().Unix(),
		GameID:      gameID,
		AuthorID:    authorID,
		PublishedAt: publishedAt,
	}
}

// NewFriendAddedEvent marks a friend-list append.
func NewFriendAddedEvent(ownerID, friendID string) Event {
	return Event{
		Type:      EventFriendAdded,
		Timestamp: time.Now().Unix(),
		OwnerID:   ownerID,
		FriendID:  friendID,
	}
}

// ToMap converts the event for Redis XADD. Streams store field-value pairs,
// so the whole event rides in a JSON "data" field next to its type.
func (e Event) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEvent parses an Event from Redis stream message values.
func ParseEvent(values map[string]interface{}) (Event, error) {
	data, ok := values["data"].(string)
	if !ok {
		return Event{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
