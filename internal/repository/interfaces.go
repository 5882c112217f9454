package repository

import (
	"context"

	"gamehub/internal/model"
)

// The repositories isolate the rest of the system from the storage schema.
// Everything is stored as JSON strings behind a small set of key patterns:
//
//	user:<id>        shared
//	game:<id>        shared
//	friends:<id>     shared
//	currentUser      private (one per client)
//
// These patterns are load-bearing: existing data was written under them and
// must keep parsing.

type UserRepository interface {
	// LoadAll fetches every stored user. Entries that are missing or fail to
	// parse are dropped silently; a partial write must not take the whole
	// collection down.
	LoadAll(ctx context.Context) ([]model.User, error)
	Save(ctx context.Context, user *model.User) error
}

type GameRepository interface {
	// LoadAll fetches every stored game, dropping malformed entries.
	LoadAll(ctx context.Context) ([]model.Game, error)
	Get(ctx context.Context, id string) (*model.Game, error)
	Save(ctx context.Context, game *model.Game) error
}

type FriendRepository interface {
	// Load returns the owner's friend list. Absent or malformed data yields
	// an empty list, not an error.
	Load(ctx context.Context, ownerID string) ([]model.Friend, error)
	// Save upserts the whole list. The storage contract has no append
	// primitive, so callers read-modify-write.
	Save(ctx context.Context, ownerID string, friends []model.Friend) error
}

type SessionRepository interface {
	// Load returns the stored session user, or model.ErrNoSession.
	Load(ctx context.Context) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	// Clear is idempotent.
	Clear(ctx context.Context) error
}

// Repositories bundles the four repositories backed by one client's store
// view.
type Repositories struct {
	Users   UserRepository
	Games   GameRepository
	Friends FriendRepository
	Session SessionRepository
}
