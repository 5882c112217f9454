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

const gameKeyPrefix = "game:"

type gameRepository struct {
	store kvstore.Store
}

// NewGameRepository creates a game repository backed by the given store.
func NewGameRepository(store kvstore.Store) GameRepository {
	return &gameRepository{store: store}
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

// LoadAll follows the same best-effort pattern as the user repository:
// list, fetch each, drop anything absent or malformed.
func (r *gameRepository) LoadAll(ctx context.Context) ([]model.Game, error) {
	keys, err := r.store.ListKeys(ctx, gameKeyPrefix, true)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	games := make([]model.Game, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key, true)
		if err != nil {
			if !errors.Is(err, kvstore.ErrKeyNotFound) {
				log.Printf("[GameRepo] skipping %s: %v", key, err)
			}
			continue
		}
		var g model.Game
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			log.Printf("[GameRepo] skipping malformed %s: %v", key, err)
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

func (r *gameRepository) Get(ctx context.Context, id string) (*model.Game, error) {
	raw, err := r.store.Get(ctx, gameKey(id), true)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, kvstore.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get game %s: %v", model.ErrStorageUnavailable, id, err)
	}
	var g model.Game
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("parse game %s: %w", id, err)
	}
	return &g, nil
}

func (r *gameRepository) Save(ctx context.Context, game *model.Game) error {
	raw, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", game.ID, err)
	}
	if err := r.store.Set(ctx, gameKey(game.ID), string(raw), true); err != nil {
		return fmt.Errorf("%w: save game %s: %v", model.ErrStorageUnavailable, game.ID, err)
	}
	return nil
}
