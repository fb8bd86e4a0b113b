package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
		wantDB     string
	}{
		{"connected", nil, "healthy", "connected"},
		{"disconnected", fmt.Errorf("connection refused"), "degraded", "disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler(stubPinger{tt.err}, "memory").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Expected JSON: %v", err)
			}
			if resp.Status != tt.wantStatus || resp.Database != tt.wantDB || resp.Cache != "memory" {
				t.Errorf("Unexpected health %+v", resp)
			}
		})
	}
}
