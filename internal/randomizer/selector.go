package randomizer

import (
	"log/slog"

	"encounters-server/internal/encounter"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/species"
)

// engine holds the state of one run. Per-area state lives in
// selectionContext.
type engine struct {
	settings       Settings
	rng            Rand
	logger         *slog.Logger
	targetPlatform bool

	allowed *species.Pool
	banned  *species.Pool
	pools   *catchEmAll
}

type selectionContext struct {
	area       *encounter.Area
	theme      species.Type
	candidates *species.Pool

	oneToOne bool
	memo     map[*species.Species]*species.Species
	used     *species.Pool
}

func (e *engine) newSelectionContext(area *encounter.Area, theme species.Type, oneToOne bool) *selectionContext {
	ctx := &selectionContext{
		area:       area,
		theme:      theme,
		candidates: e.candidatesFor(theme),
		oneToOne:   oneToOne,
	}
	if oneToOne {
		ctx.memo = make(map[*species.Species]*species.Species)
		ctx.used = species.NewPool()
	}
	return ctx
}

// candidatesFor returns the base pool for a theme: the remaining partition
// while catch-em-all still has members of that type, else the allowed one.
func (e *engine) candidatesFor(theme species.Type) *species.Pool {
	if theme == species.TypeNone {
		if e.settings.CatchEmAll {
			return e.pools.remaining
		}
		return e.allowed
	}
	if e.settings.CatchEmAll {
		if rem := e.pools.remaining.ByType(theme); !rem.IsEmpty() {
			return rem
		}
	}
	return e.allowed.ByType(theme)
}

// randomizeStreaming runs the random, area 1:1 and location 1:1 modes.
func (e *engine) randomizeStreaming(areas []*encounter.Area, oneToOne, byLocation bool) error {
	for _, area := range e.prepareAreas(areas, byLocation) {
		if err := e.randomizeArea(area, oneToOne); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) randomizeArea(area *encounter.Area, oneToOne bool) error {
	theme, err := e.resolveTheme(area)
	if err != nil {
		return err
	}
	e.logger.Debug("Randomizing area", "area", area.DisplayName, "theme", theme, "encounters", len(area.Encounters))

	ctx := e.newSelectionContext(area, theme, oneToOne)
	for _, enc := range area.Encounters {
		original := enc.Species
		replacement, err := e.pickReplacement(ctx, enc)
		if err != nil {
			return err
		}
		if ctx.oneToOne {
			ctx.memo[original] = replacement
			ctx.used.Add(replacement)
		}
		e.assign(enc, replacement)

		if e.settings.CatchEmAll {
			e.pools.take(replacement)
			if ctx.candidates.IsEmpty() {
				ctx.candidates = e.candidatesFor(theme)
			}
		}
	}

	if area.ForceMultipleSpecies {
		return e.enforceMultipleSpecies(area)
	}
	return nil
}

func (e *engine) pickReplacement(ctx *selectionContext, enc *encounter.Encounter) (*species.Species, error) {
	current := enc.Species
	if ctx.oneToOne {
		if replacement, ok := ctx.memo[current]; ok {
			return replacement, nil
		}
	}
	if e.settings.CatchEmAll && e.banned.Contains(current) {
		return current, nil
	}

	pool, theme := ctx.candidates, ctx.theme
	if e.settings.KeepPrimaryType && theme == species.TypeNone {
		theme = current.Primary
		pool = e.candidatesFor(theme)
	}

	pool = pool.Subtract(ctx.area.Banned)
	if pool.IsEmpty() {
		pool = e.allowed
		if theme != species.TypeNone {
			pool = pool.ByType(theme)
		}
		pool = pool.Subtract(ctx.area.Banned)
	}
	if pool.IsEmpty() {
		return nil, errors.EmptyPoolf("no species left to replace %s in %s", current, ctx.area.DisplayName)
	}

	if !ctx.oneToOne {
		return e.draw(pool, enc)
	}

	// Avoid giving two originals the same replacement while the pool allows it.
	for attempt := 0; attempt < pool.Len(); attempt++ {
		replacement, err := e.draw(pool, enc)
		if err != nil {
			return nil, err
		}
		if !ctx.used.Contains(replacement) {
			return replacement, nil
		}
	}
	if unused := pool.Subtract(ctx.used); !unused.IsEmpty() {
		return e.draw(unused, enc)
	}
	return e.draw(pool, enc)
}

func (e *engine) draw(pool *species.Pool, enc *encounter.Encounter) (*species.Species, error) {
	if !e.settings.SimilarStrength {
		return pool.DrawUniform(e.rng)
	}
	if e.settings.BalanceShakingGrass {
		return pool.DrawSimilarPower(min(enc.Species.Power, enc.AverageLevel()*10+250), e.rng)
	}
	return pool.DrawSimilarToSpecies(enc.Species, e.rng)
}

// enforceMultipleSpecies breaks up an area that ended with a single species
// although it must show at least two.
func (e *engine) enforceMultipleSpecies(area *encounter.Area) error {
	if len(area.Encounters) < 2 {
		return nil
	}
	inArea := area.SpeciesInArea()
	if inArea.Len() != 1 {
		return nil
	}

	replacement, err := e.allowed.Subtract(inArea).Subtract(area.Banned).DrawUniform(e.rng)
	if err != nil {
		return err
	}
	e.assign(area.Encounters[e.rng.Intn(len(area.Encounters))], replacement)
	return nil
}
