package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"encounters-server/internal/randomizer"
	"encounters-server/internal/shared/cache"
	"encounters-server/internal/shared/errors"

	"github.com/google/uuid"
)

type Service struct {
	repo        *Repository
	cache       cache.Cache
	cacheTTL    time.Duration
	defaultSeed int64
	logger      *slog.Logger
	newSeed     func() int64
}

type ServiceConfig struct {
	CacheTTL time.Duration
	// DefaultSeed seeds runs that bring no seed. Zero picks a fresh seed per run.
	DefaultSeed int64
}

func NewService(repo *Repository, c cache.Cache, cfg ServiceConfig, logger *slog.Logger) *Service {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return &Service{
		repo:        repo,
		cache:       c,
		cacheTTL:    cfg.CacheTTL,
		defaultSeed: cfg.DefaultSeed,
		logger:      logger,
		newSeed:     func() int64 { return time.Now().UnixNano() },
	}
}

func (s *Service) GetAllGames(ctx context.Context) ([]Game, error) {
	return s.repo.GetAllGames(ctx)
}

func (s *Service) GetAreas(ctx context.Context, gameID int, useTimeVariant bool) ([]AreaRecord, error) {
	snap, err := s.snapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return snap.Areas(useTimeVariant), nil
}

func (s *Service) GetRuns(ctx context.Context, gameID int) ([]Run, error) {
	if _, err := s.repo.GetGameByID(ctx, gameID); err != nil {
		return nil, err
	}
	return s.repo.GetRuns(ctx, gameID)
}

// Randomize runs the engine against a fresh snapshot of the game and saves
// the new encounter table together with a run record. Nothing is written
// when the engine fails.
func (s *Service) Randomize(ctx context.Context, gameID int, req RandomizeRequest) (*Run, error) {
	logger := s.logger.With("component", "game_service", "operation", "randomize", "game_id", gameID)

	mode, err := randomizer.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	settings := req.Settings
	settings.Mode = mode
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}

	seed := s.seed(req.Seed)
	logger.Info("Starting randomization run", "mode", mode.Name(), "seed", seed)

	engine := randomizer.New(snap, rand.New(rand.NewSource(seed)), logger)
	result, err := engine.Randomize(settings)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:       uuid.NewString(),
		GameID:   gameID,
		Seed:     seed,
		Settings: settings,
		Result:   *result,
	}
	if err := s.repo.SaveRun(ctx, snap.Areas(settings.UseTimeBasedEncounters), run); err != nil {
		return nil, err
	}
	s.invalidate(ctx, gameID)

	logger.Info("Randomization run saved", "run_id", run.ID, "changed", run.EncountersChanged)
	return run, nil
}

func (s *Service) seed(requested *int64) int64 {
	if requested != nil {
		return *requested
	}
	if s.defaultSeed != 0 {
		return s.defaultSeed
	}
	return s.newSeed()
}

func catalogKey(gameID int) string {
	return fmt.Sprintf("catalog:%d", gameID)
}

// catalog reads through the cache. Cache failures are logged and fall back
// to the repository.
func (s *Service) catalog(ctx context.Context, gameID int) (*Catalog, error) {
	logger := s.logger.With("component", "game_service", "operation", "load_catalog", "game_id", gameID)
	key := catalogKey(gameID)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("Catalog cache read failed", "error", err)
	} else if ok {
		var c Catalog
		if err := json.Unmarshal(data, &c); err == nil {
			logger.Debug("Catalog cache hit")
			return &c, nil
		}
		logger.Warn("Discarding undecodable cached catalog", "error", err)
	}

	c, err := s.repo.LoadCatalog(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(c); err != nil {
		logger.Warn("Failed to encode catalog for caching", "error", err)
	} else if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		logger.Warn("Catalog cache write failed", "error", err)
	}
	return c, nil
}

func (s *Service) snapshot(ctx context.Context, gameID int) (*Snapshot, error) {
	c, err := s.catalog(ctx, gameID)
	if err != nil {
		return nil, err
	}
	snap, err := NewSnapshot(c)
	if err != nil {
		return nil, errors.WrapInternal("catalog is inconsistent", err)
	}
	return snap, nil
}

func (s *Service) invalidate(ctx context.Context, gameID int) {
	if err := s.cache.Delete(ctx, catalogKey(gameID)); err != nil {
		s.logger.Warn("Failed to invalidate cached catalog", "game_id", gameID, "error", err)
	}
}
