package handler

import (
	"encoding/json"
	"net/http"

	"gamehub/internal/app"
	"gamehub/internal/httputil"
	"gamehub/internal/model"
)

// FriendHandler groups the friend-list endpoints.
type FriendHandler struct {
	clients *app.Registry
}

// NewFriendHandler wires dependencies for the friend-list endpoints.
func NewFriendHandler(clients *app.Registry) *FriendHandler {
	return &FriendHandler{clients: clients}
}

// List returns the session user's friend list.
// GET /friends
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	c := clientFor(r, h.clients)
	if c.CurrentUser() == nil {
		writeDomainError(w, model.ErrNotAuthenticated)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"friends": c.Friends()})
}

// Add appends a user to the session user's friend list by exact username.
// POST /friends
func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	friend, err := clientFor(r, h.clients).AddFriend(r.Context(), req.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, friend)
}
