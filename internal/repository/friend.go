package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gamehub/internal/kvstore"
	"gamehub/internal/model"
)

const friendsKeyPrefix = "friends:"

type friendRepository struct {
	store kvstore.Store
}

// NewFriendRepository creates a friend-list repository backed by the given
// store.
func NewFriendRepository(store kvstore.Store) FriendRepository {
	return &friendRepository{store: store}
}

func friendsKey(ownerID string) string {
	return friendsKeyPrefix + ownerID
}

// Load returns the full list under the owner's key. A missing key means the
// owner never added anyone; a malformed value is treated the same way rather
// than blocking login.
func (r *friendRepository) Load(ctx context.Context, ownerID string) ([]model.Friend, error) {
	raw, err := r.store.Get(ctx, friendsKey(ownerID), true)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			log.Printf("[FriendRepo] load %s failed, treating as empty: %v", ownerID, err)
		}
		return []model.Friend{}, nil
	}

	var friends []model.Friend
	if err := json.Unmarshal([]byte(raw), &friends); err != nil {
		log.Printf("[FriendRepo] malformed list for %s, treating as empty: %v", ownerID, err)
		return []model.Friend{}, nil
	}
	return friends, nil
}

func (r *friendRepository) Save(ctx context.Context, ownerID string, friends []model.Friend) error {
	raw, err := json.Marshal(friends)
	if err != nil {
		return fmt.Errorf("marshal friends of %s: %w", ownerID, err)
	}
	if err := r.store.Set(ctx, friendsKey(ownerID), string(raw), true); err != nil {
		return fmt.Errorf("%w: save friends of %s: %v", model.ErrStorageUnavailable, ownerID, err)
	}
	return nil
}
