package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"encounters-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db        Pinger
	cacheKind string
}

// NewHealthHandler reports on db and names the catalog cache backend.
func NewHealthHandler(db Pinger, cacheKind string) *HealthHandler {
	return &HealthHandler{db: db, cacheKind: cacheKind}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		status = "degraded"
		dbStatus = "disconnected"
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Cache:     h.cacheKind,
	}

	response.Success(w, http.StatusOK, resp)
}
