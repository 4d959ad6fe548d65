package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"todoapp/internal/adapter/database/memory"
	"todoapp/internal/adapter/database/postgres"
	pgrepository "todoapp/internal/adapter/database/postgres/repository"
	"todoapp/internal/adapter/database/redis"
	"todoapp/internal/adapter/database/sqlite"
	"todoapp/internal/adapter/database/sqlite/repository"
	"todoapp/internal/adapter/http/middleware"
	"todoapp/internal/adapter/http/routes"
	"todoapp/internal/core/port"
	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
)

func StartServer(metrics *telemetry.AppMetrics, logger *config.AppLogger) {
	StartServerWithConfig(metrics, logger, config.GetDefaultConfig())
}

func StartServerWithConfig(metrics *telemetry.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) {
	todoRepo, userRepo, closeDB, err := openRepositories(cfg)

	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}

	defer closeDB()

	cache := openCache(cfg)
	defer cache.Close()

	container := NewContainer(todoRepo, userRepo, cache, logger, metrics, cfg)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler:  container.AuthHandler,
		TodoHandler:  container.TodoHandler,
		UserHandler:  container.UserHandler,
		WebHandler:   container.WebHandler,
		SessionGuard: middleware.SessionMiddleware(container.SessionUseCase),
	}, metrics, logger, cfg)

	listenPort := cfg.Port

	if listenPort == "" {
		listenPort = "8080"
	}

	slog.Info("Server starting",
		"port", listenPort,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled)

	srv := &http.Server{
		Addr:         ":" + listenPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}

// openRepositories picks postgres when DATABASE_URL is set, an embedded
// sqlite database otherwise.
func openRepositories(cfg *config.AppConfig) (port.TodoRepository, port.UserRepository, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewDB(cfg.DatabaseURL)

		if err != nil {
			return nil, nil, nil, err
		}

		return pgrepository.NewTodoRepository(db), pgrepository.NewUserRepository(db), db.Close, nil
	}

	db, err := sqlite.NewDB(cfg.DatabasePath)

	if err != nil {
		return nil, nil, nil, err
	}

	closeDB := func() { db.Close() }

	return repository.NewTodoRepository(db), repository.NewUserRepository(db), closeDB, nil
}

func openCache(cfg *config.AppConfig) port.CacheRepository {
	if cfg.RedisURL != "" {
		cache, err := redis.New(context.Background(), cfg.RedisURL)

		if err == nil {
			return cache
		}

		slog.Error("Failed to connect to redis, falling back to in-process cache", "error", err)
	}

	return memory.NewMemoryRepository()
}
