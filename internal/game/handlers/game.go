package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"encounters-server/internal/game"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/shared/response"
)

type GameHandler struct {
	service *game.Service
}

func NewGameHandler(service *game.Service) *GameHandler {
	return &GameHandler{service: service}
}

func (h *GameHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_games")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	games, err := h.service.GetAllGames(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if games == nil {
		games = []game.Game{}
	}

	response.Success(w, http.StatusOK, games)
}

func (h *GameHandler) GetAreas(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_areas")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := gameIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	timeVariant := false
	if raw := r.URL.Query().Get("time_variant"); raw != "" {
		if timeVariant, err = strconv.ParseBool(raw); err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid time_variant value", err))
			return
		}
	}

	areas, err := h.service.GetAreas(r.Context(), gameID, timeVariant)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if areas == nil {
		areas = []game.AreaRecord{}
	}

	response.Success(w, http.StatusOK, areas)
}

func (h *GameHandler) Randomize(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "randomize")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := gameIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req game.RandomizeRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	run, err := h.service.Randomize(r.Context(), gameID, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, run)
}

func (h *GameHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_runs")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := gameIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	runs, err := h.service.GetRuns(r.Context(), gameID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if runs == nil {
		runs = []game.Run{}
	}

	response.Success(w, http.StatusOK, runs)
}

func gameIDFromPath(r *http.Request) (int, error) {
	gameIDStr := r.PathValue("id")
	if gameIDStr == "" {
		return 0, errors.Validation("game ID is required")
	}

	gameID, err := strconv.Atoi(gameIDStr)
	if err != nil {
		return 0, errors.WrapValidation("invalid game ID format", err)
	}
	return gameID, nil
}
