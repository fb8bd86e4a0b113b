package randomizer

import (
	"encounters-server/internal/encounter"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/species"
)

// themeVote weighs the type themes of the areas a species appears in.
type themeVote map[species.Type]int

func (v themeVote) add(t species.Type, weight int) {
	if t == species.TypeNone || weight < 1 {
		return
	}
	v[t] += weight
}

func (v themeVote) copy() themeVote {
	out := make(themeVote, len(v))
	for t, w := range v {
		out[t] = w
	}
	return out
}

// areaInfo gathers what every area an original species appears in asks of
// its replacement.
type areaInfo struct {
	species *species.Species
	votes   themeVote
	banned  *species.Pool
}

// theme returns the heaviest voted type. Ties go to the species' own primary
// type, then to the first type in type order. Without votes the result is
// TypeNone, or the primary type when defaultToPrimary is set.
func (i *areaInfo) theme(defaultToPrimary bool) species.Type {
	if len(i.votes) == 0 {
		if defaultToPrimary {
			return i.species.Primary
		}
		return species.TypeNone
	}
	best, bestWeight := species.TypeNone, 0
	for _, t := range species.AllTypes {
		w, ok := i.votes[t]
		if !ok {
			continue
		}
		switch {
		case w > bestWeight:
			best, bestWeight = t, w
		case w == bestWeight && t == i.species.Primary:
			best = t
		}
	}
	return best
}

// collectAreaInfo scans every area once. Infos come back in order of first
// appearance.
func (e *engine) collectAreaInfo(areas []*encounter.Area) ([]*areaInfo, map[*species.Species]*areaInfo, error) {
	var order []*areaInfo
	index := map[*species.Species]*areaInfo{}
	for _, area := range areas {
		theme, err := e.resolveTheme(area)
		if err != nil {
			return nil, nil, err
		}
		inArea := area.SpeciesInArea()
		for _, s := range inArea.Slice() {
			info, ok := index[s]
			if !ok {
				info = &areaInfo{species: s, votes: themeVote{}, banned: species.NewPool()}
				index[s] = info
				order = append(order, info)
			}
			info.votes.add(theme, inArea.Len())
			info.banned = info.banned.Union(area.Banned)
		}
	}
	return order, index, nil
}

// Plan maps every original species to its replacement for the whole game.
type Plan map[*species.Species]*species.Species

// verify checks that the plan covers every encounter and never places a
// species banned in its area.
func (p Plan) verify(areas []*encounter.Area) error {
	for _, area := range areas {
		for _, enc := range area.Encounters {
			replacement, ok := p[enc.Species]
			if !ok || replacement == nil {
				return errors.PlanIncompletef("no replacement planned for %s in %s", enc.Species, area.DisplayName)
			}
			if area.IsBanned(replacement) {
				return errors.PlanIncompletef("planned replacement %s for %s is banned in %s", replacement, enc.Species, area.DisplayName)
			}
		}
	}
	return nil
}

func (e *engine) applyPlan(areas []*encounter.Area, plan Plan) error {
	if err := plan.verify(areas); err != nil {
		return err
	}
	for _, area := range areas {
		for _, enc := range area.Encounters {
			e.assign(enc, plan[enc.Species])
		}
	}
	return nil
}

func (e *engine) randomizeGameMapped(areas []*encounter.Area) error {
	prepped := e.prepareAreas(areas, false)
	infos, _, err := e.collectAreaInfo(prepped)
	if err != nil {
		return err
	}
	e.rng.Shuffle(len(infos), func(i, j int) {
		infos[i], infos[j] = infos[j], infos[i]
	})

	plan := Plan{}
	for _, info := range infos {
		replacement, err := e.pickGameReplacement(info)
		if err != nil {
			return err
		}
		plan[info.species] = replacement
	}
	e.logger.Debug("Planned game-wide replacements", "species", len(plan))
	return e.applyPlan(prepped, plan)
}

func (e *engine) pickGameReplacement(info *areaInfo) (*species.Species, error) {
	theme := info.theme(e.settings.KeepPrimaryType)
	themed := func(p *species.Pool) *species.Pool {
		if theme == species.TypeNone {
			return p
		}
		return p.ByType(theme)
	}

	for _, pool := range []*species.Pool{
		themed(e.pools.remaining).Subtract(info.banned),
		themed(e.allowed).Subtract(info.banned),
		e.allowed.Subtract(info.banned),
	} {
		if pool.IsEmpty() {
			continue
		}
		replacement, err := e.drawFor(pool, info.species)
		if err != nil {
			return nil, err
		}
		e.pools.take(replacement)
		return replacement, nil
	}
	return nil, errors.EmptyPoolf("no species left to replace %s", info.species)
}

func (e *engine) drawFor(pool *species.Pool, original *species.Species) (*species.Species, error) {
	if e.settings.SimilarStrength {
		return pool.DrawSimilarToSpecies(original, e.rng)
	}
	return pool.DrawUniform(e.rng)
}
