package repository

import "gamehub/internal/kvstore"

// New builds the four repositories over one client's store view.
func New(store kvstore.Store) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(store),
		Games:   NewGameRepository(store),
		Friends: NewFriendRepository(store),
		Session: NewSessionRepository(store),
	}
}
