package handler

import (
	"encoding/json"
	"net/http"

	"gamehub/internal/app"
	"gamehub/internal/httputil"
	"gamehub/internal/model"
	"gamehub/internal/transport/http/middleware"
)

// AuthHandler groups the session endpoints.
type AuthHandler struct {
	clients *app.Registry
}

// NewAuthHandler wires dependencies for the session endpoints.
func NewAuthHandler(clients *app.Registry) *AuthHandler {
	return &AuthHandler{clients: clients}
}

// clientFor resolves the caller's state machine, creating and bootstrapping
// it on first contact.
func clientFor(r *http.Request, clients *app.Registry) *app.Client {
	clientID, _ := middleware.GetClientID(r.Context())
	return clients.Client(r.Context(), clientID)
}

// Register handles sign-up.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := clientFor(r, h.clients).Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user.Profile())
}

// Login handles sign-in.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := clientFor(r, h.clients).Login(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user.Profile())
}

// Logout clears the stored session. Safe to call while logged out.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := clientFor(r, h.clients).Logout(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me returns the currently authenticated user.
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := clientFor(r, h.clients).CurrentUser()
	if user == nil {
		writeDomainError(w, model.ErrNotAuthenticated)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user.Profile())
}
