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

const userKeyPrefix = "user:"

// userRepository implements UserRepository over the key-value store.
type userRepository struct {
	store kvstore.Store
}

// NewUserRepository creates a user repository backed by the given store.
func NewUserRepository(store kvstore.Store) UserRepository {
	return &userRepository{store: store}
}

func userKey(id string) string {
	return userKeyPrefix + id
}

// LoadAll lists the user keys and fetches each one. A key that vanished
// between the list and the get, or a value that does not parse, is skipped.
func (r *userRepository) LoadAll(ctx context.Context) ([]model.User, error) {
	keys, err := r.store.ListKeys(ctx, userKeyPrefix, true)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]model.User, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key, true)
		if err != nil {
			if !errors.Is(err, kvstore.ErrKeyNotFound) {
				log.Printf("[UserRepo] skipping %s: %v", key, err)
			}
			continue
		}
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			log.Printf("[UserRepo] skipping malformed %s: %v", key, err)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", user.ID, err)
	}
	if err := r.store.Set(ctx, userKey(user.ID), string(raw), true); err != nil {
		return fmt.Errorf("%w: save user %s: %v", model.ErrStorageUnavailable, user.ID, err)
	}
	return nil
}
