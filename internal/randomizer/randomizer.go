package randomizer

import (
	"log/slog"

	"encounters-server/internal/encounter"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/species"
)

// Source is the game data a run reads from and writes back to.
type Source interface {
	EncounterAreas(useTimeVariant bool) []*encounter.Area
	SetEncounterAreas(useTimeVariant bool, areas []*encounter.Area)
	AllowedSpecies(filter species.Filter) *species.Pool
	BannedSpecies(category species.BanCategory) *species.Pool
	IsTargetPlatform() bool
}

// Rand is the random source every draw of a run consumes. *math/rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Result summarizes one run.
type Result struct {
	Mode              string `json:"mode"`
	AreasProcessed    int    `json:"areas_processed"`
	EncountersChanged int    `json:"encounters_changed"`
	DistinctSpecies   int    `json:"distinct_species"`
}

type Randomizer struct {
	src    Source
	rng    Rand
	logger *slog.Logger
}

func New(src Source, rng Rand, logger *slog.Logger) *Randomizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Randomizer{
		src:    src,
		rng:    rng,
		logger: logger,
	}
}

func (r *Randomizer) RandomizeFullyRandom(settings Settings) (*Result, error) {
	settings.Mode = RandomMode{}
	return r.Randomize(settings)
}

func (r *Randomizer) RandomizeAreaMapped(settings Settings) (*Result, error) {
	settings.Mode = AreaMapping{}
	return r.Randomize(settings)
}

func (r *Randomizer) RandomizeLocationMapped(settings Settings) (*Result, error) {
	settings.Mode = LocationMapping{}
	return r.Randomize(settings)
}

func (r *Randomizer) RandomizeGameMapped(settings Settings) (*Result, error) {
	settings.Mode = GameMapping{}
	return r.Randomize(settings)
}

func (r *Randomizer) RandomizeFamilyMapped(settings Settings) (*Result, error) {
	settings.Mode = FamilyMapping{}
	return r.Randomize(settings)
}

// Randomize rewrites the source's encounter table according to settings.
// The table is written back only when the whole pass succeeds.
func (r *Randomizer) Randomize(settings Settings) (*Result, error) {
	if r.src == nil {
		return nil, errors.ConfigurationConflictf("no encounter source configured")
	}
	if r.rng == nil {
		return nil, errors.ConfigurationConflictf("no random source configured")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger.With("component", "randomizer", "operation", "randomize", "mode", settings.Mode.Name())
	logger.Debug("Starting encounter randomization", "catch_em_all", settings.CatchEmAll, "similar_strength", settings.SimilarStrength)

	original := r.src.EncounterAreas(settings.UseTimeBasedEncounters)
	areas := encounter.CloneAll(original)

	banned := r.bannedSpecies(settings)
	allowed := r.src.AllowedSpecies(species.Filter{
		NoLegendaries:  settings.NoLegendaries,
		AllowAltFormes: settings.AllowAltFormes,
	}).Subtract(banned)

	e := &engine{
		settings:       settings,
		rng:            r.rng,
		logger:         logger,
		targetPlatform: r.src.IsTargetPlatform(),
		allowed:        allowed,
		banned:         banned,
		pools:          newCatchEmAll(allowed),
	}

	var err error
	switch settings.Mode.(type) {
	case RandomMode:
		if e.targetPlatform {
			err = e.randomizeBalanced(areas)
		} else {
			err = e.randomizeStreaming(areas, false, false)
		}
	case AreaMapping:
		err = e.randomizeStreaming(areas, true, false)
	case LocationMapping:
		err = e.randomizeStreaming(areas, true, true)
	case GameMapping:
		err = e.randomizeGameMapped(areas)
	case FamilyMapping:
		err = e.randomizeFamilyMapped(areas)
	}
	if err != nil {
		logger.Error("Encounter randomization failed", "error", err)
		return nil, err
	}

	applyLevelModifier(areas, settings.LevelModifier)
	r.src.SetEncounterAreas(settings.UseTimeBasedEncounters, areas)

	result := summarize(settings.Mode, original, areas)
	logger.Info("Encounters randomized",
		"areas", result.AreasProcessed,
		"changed", result.EncountersChanged,
		"distinct_species", result.DistinctSpecies)
	return result, nil
}

func (r *Randomizer) bannedSpecies(settings Settings) *species.Pool {
	banned := r.src.BannedSpecies(species.BanWildEncounters).Copy()
	banned = banned.Union(r.src.BannedSpecies(species.BanPlayerFormes))
	if !settings.AbilitiesRandomized {
		banned = banned.Union(r.src.BannedSpecies(species.BanAbilityDependentFormes))
	}
	if settings.BanIrregularAltFormes {
		banned = banned.Union(r.src.BannedSpecies(species.BanIrregularFormes))
	}
	return banned
}

func summarize(mode Mode, before, after []*encounter.Area) *Result {
	result := &Result{Mode: mode.Name()}
	used := species.NewPool()
	for i, area := range after {
		if !isUnused(area) {
			result.AreasProcessed++
		}
		for j, enc := range area.Encounters {
			used.Add(enc.Species)
			prev := before[i].Encounters[j]
			if prev.Species != enc.Species || prev.Forme != enc.Forme {
				result.EncountersChanged++
			}
		}
	}
	result.DistinctSpecies = used.Len()
	return result
}
