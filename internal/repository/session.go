package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gamehub/internal/kvstore"
	"gamehub/internal/model"
)

// sessionKey is the fixed well-known key for the session pointer. It lives
// in the private namespace: catalog data is global, who is logged in is not.
const sessionKey = "currentUser"

type sessionRepository struct {
	store kvstore.Store
}

// NewSessionRepository creates a session repository backed by the given
// store.
func NewSessionRepository(store kvstore.Store) SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Load(ctx context.Context) (*model.User, error) {
	raw, err := r.store.Get(ctx, sessionKey, false)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, model.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", model.ErrStorageUnavailable, err)
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// A session pointer that does not parse is as good as no session.
		return nil, model.ErrNoSession
	}
	return &u, nil
}

func (r *sessionRepository) Save(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey, string(raw), false); err != nil {
		return fmt.Errorf("%w: save session: %v", model.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, sessionKey, false); err != nil {
		return fmt.Errorf("%w: clear session: %v", model.ErrStorageUnavailable, err)
	}
	return nil
}
