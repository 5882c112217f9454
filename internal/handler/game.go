package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"gamehub/internal/app"
	"gamehub/internal/cache"
	"gamehub/internal/httputil"
	"gamehub/internal/model"
)

const defaultRecentLimit = 20

// GameHandler groups the catalog endpoints.
type GameHandler struct {
	clients *app.Registry
	catalog cache.CatalogCache // nil when no cache backend is wired
}

// NewGameHandler wires dependencies for the catalog endpoints. catalog may
// be nil; the recent shelf then serves straight from the loaded collection.
func NewGameHandler(clients *app.Registry, catalog cache.CatalogCache) *GameHandler {
	return &GameHandler{clients: clients, catalog: catalog}
}

// List returns the catalog, optionally filtered by a case-insensitive
// substring match on the title.
// GET /games?q=
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games := clientFor(r, h.clients).FilteredGames(r.URL.Query().Get("q"))
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// Mine returns the games authored by the session user.
// GET /games/mine
func (h *GameHandler) Mine(w http.ResponseWriter, r *http.Request) {
	c := clientFor(r, h.clients)
	if c.CurrentUser() == nil {
		writeDomainError(w, model.ErrNotAuthenticated)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"games": c.MyGames()})
}

// Publish adds a game to the catalog.
// POST /games
func (h *GameHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var form model.GameForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	game, err := clientFor(r, h.clients).PublishGame(r.Context(), &form)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, game)
}

// Recent returns the newest catalog entries, served from the cache when one
// is wired and falling back to the loaded collection otherwise.
// GET /games/recent?limit=
func (h *GameHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > cache.CatalogRecentCap {
		limit = cache.CatalogRecentCap
	}

	c := clientFor(r, h.clients)

	games := h.recentFromCache(r, c, limit)
	if games == nil {
		games = c.RecentGames(limit)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// recentFromCache resolves cached ids against the loaded collection. Returns
// nil when the cache is absent, fails, or has nothing — the caller falls
// back.
func (h *GameHandler) recentFromCache(r *http.Request, c *app.Client, limit int) []model.Game {
	if h.catalog == nil {
		return nil
	}

	ids, err := h.catalog.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("[GameHandler] catalog cache read failed, falling back: %v", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}

	byID := make(map[string]model.Game)
	for _, g := range c.Games() {
		byID[g.ID] = g
	}

	games := make([]model.Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			games = append(games, g)
		}
	}
	if len(games) == 0 {
		return nil
	}
	return games
}
