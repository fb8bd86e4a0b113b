package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"encounters-server/internal/auth"
	"encounters-server/internal/game"
	"encounters-server/internal/middleware"
	"encounters-server/internal/server"
	"encounters-server/internal/shared/cache"
	"encounters-server/internal/shared/config"
	"encounters-server/internal/shared/database"
	"encounters-server/internal/shared/logger"
	"encounters-server/internal/shared/redis"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, game.Migrations()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redis.Connect(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	var catalogCache cache.Cache = cache.NewMemoryCache()
	cacheKind := "memory"
	if redisClient != nil {
		catalogCache = cache.NewRedisCache(redisClient, "encounters:")
		cacheKind = "redis"
	}

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to set up tokens: %w", err)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.Server.Environment == "production")
	defer rateLimiter.Stop()

	gameRepo := game.NewRepository(db, slog.Default())
	gameService := game.NewService(gameRepo, catalogCache, game.ServiceConfig{
		CacheTTL:    cfg.Randomizer.CatalogCacheTTL,
		DefaultSeed: cfg.Randomizer.DefaultSeed,
	}, slog.Default())

	routes := server.NewRoutes(db, cacheKind, gameService, tokens, rateLimiter, slog.Default())
	cors := middleware.NewCORS(cfg.Frontend)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      cors.Middleware(routes.Setup()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment, "cache", cacheKind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
