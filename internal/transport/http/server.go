package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"gamehub/internal/app"
	"gamehub/internal/cache"
	"gamehub/internal/config"
	"gamehub/internal/database"
	"gamehub/internal/handler"
	"gamehub/internal/kvstore"
	"gamehub/internal/queue"
	"gamehub/internal/redis"
	"gamehub/internal/service"
	"gamehub/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole application together and blocks until shutdown.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	secret := cfg.ClientTokenSecret
	if secret == "" {
		secret = randomSecret()
		log.Println("[Server] CLIENT_TOKEN_SECRET not set, using a random secret; client identities will not survive restarts")
	}

	// 2. Connect storage and build the per-client store factory
	newStore, redisClient, cleanup, err := buildStoreFactory(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// 3. Event stream, catalog cache and workers ride on Redis. When the
	// storage backend is not Redis they are skipped and the recent shelf
	// falls back to sorting the loaded collection.
	var (
		publisher    queue.Publisher
		catalogCache cache.CatalogCache
		manager      *worker.Manager
	)
	if redisClient != nil {
		publisher = queue.NewPublisher(redisClient.Client)
		catalogCache = cache.NewCatalogCache(redisClient.Client)

		consumer := queue.NewConsumer(redisClient.Client)
		manager = worker.NewManager(consumer, worker.NewHandler(catalogCache), worker.ManagerConfig{
			WorkerCount: cfg.WorkerCount,
		})
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	} else {
		log.Println("[Server] no Redis connection, running without event stream and catalog cache")
	}

	// 4. Application state
	clients := app.NewRegistry(newStore, publisher)

	// 5. Handlers
	var mediaHandler *handler.MediaHandler
	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		log.Printf("[Server] media uploads disabled: %v", err)
	} else {
		mediaHandler = handler.NewMediaHandler(mediaService)
	}

	router := NewRouter(RouterConfig{
		AuthHandler:   handler.NewAuthHandler(clients),
		GameHandler:   handler.NewGameHandler(clients, catalogCache),
		FriendHandler: handler.NewFriendHandler(clients),
		MediaHandler:  mediaHandler,
		TokenSecret:   secret,
	})

	// 6. Serve until interrupted
	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on :%s (storage=%s)", cfg.ServerPort, cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildStoreFactory connects the configured storage backend and returns a
// factory producing one namespaced Store view per client. The returned Redis
// client is nil unless the backend is Redis.
func buildStoreFactory(ctx context.Context, cfg *config.Config) (kvstore.Factory, *redis.Client, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Println("[Server] connected to Redis")

		factory := func(clientID string) kvstore.Store {
			return kvstore.NewRedisStore(client.Client, clientID)
		}
		return factory, client, func() { client.Close() }, nil

	case "postgres":
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := kvstore.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to ensure kv schema: %w", err)
		}

		factory := func(clientID string) kvstore.Store {
			return kvstore.NewPostgresStore(db, clientID)
		}
		return factory, nil, func() { db.Close() }, nil

	case "memory":
		log.Println("[Server] using in-memory storage, data will not survive restarts")
		backend := kvstore.NewMemoryBackend()
		factory := func(clientID string) kvstore.Store {
			return backend.ForClient(clientID)
		}
		return factory, nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken anyway
		panic(err)
	}
	return hex.EncodeToString(buf)
}
