package server

import (
	"log/slog"
	"net/http"

	"encounters-server/internal/game"
	gameHandlers "encounters-server/internal/game/handlers"
	"encounters-server/internal/middleware"
	serverHandlers "encounters-server/internal/server/handlers"
)

type Routes struct {
	db          serverHandlers.Pinger
	cacheKind   string
	gameService *game.Service
	tokens      middleware.TokenValidator
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func NewRoutes(
	db serverHandlers.Pinger,
	cacheKind string,
	gameService *game.Service,
	tokens middleware.TokenValidator,
	rateLimiter *middleware.RateLimiter,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:          db,
		cacheKind:   cacheKind,
		gameService: gameService,
		tokens:      tokens,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cacheKind)
	gameHandler := gameHandlers.NewGameHandler(r.gameService)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/games", gameHandler.GetGames)
	mux.HandleFunc("/api/games/{id}/areas", gameHandler.GetAreas)
	mux.HandleFunc("/api/games/{id}/runs", gameHandler.GetRuns)

	// Editors and admins only; limited per token subject
	authenticate := middleware.JWTMiddleware(r.tokens)
	mux.Handle("/api/games/{id}/randomize", authenticate(middleware.RequireRandomizer(
		r.rateLimiter.Middleware(http.HandlerFunc(gameHandler.Randomize)),
	)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/games", "/api/games/{id}/areas", "/api/games/{id}/runs"},
		"editor_endpoints", []string{"/api/games/{id}/randomize"},
	)

	return mux
}
