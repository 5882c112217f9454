package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gamehub/internal/handler"
	"gamehub/internal/httputil"
	clientmw "gamehub/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	GameHandler   *handler.GameHandler
	FriendHandler *handler.FriendHandler
	MediaHandler  *handler.MediaHandler // nil when uploads are disabled
	TokenSecret   string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Every request carries a client identity token; the middleware mints one
	// for first-time callers. The token scopes the private key namespace.
	r.Use(clientmw.ClientIdentity(cfg.TokenSecret))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Get("/me", cfg.AuthHandler.Me)

	r.Route("/games", func(r chi.Router) {
		r.Get("/", cfg.GameHandler.List)
		r.Post("/", cfg.GameHandler.Publish)
		r.Get("/mine", cfg.GameHandler.Mine)
		r.Get("/recent", cfg.GameHandler.Recent)
	})

	r.Route("/friends", func(r chi.Router) {
		r.Get("/", cfg.FriendHandler.List)
		r.Post("/", cfg.FriendHandler.Add)
	})

	// Media endpoints are only mounted when R2 is configured.
	if cfg.MediaHandler != nil {
		r.Route("/media", func(r chi.Router) {
			r.Post("/covers", cfg.MediaHandler.UploadCover)
			r.Post("/screenshots", cfg.MediaHandler.UploadScreenshot)
		})
	}

	return r
}
