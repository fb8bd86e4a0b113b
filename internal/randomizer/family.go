package randomizer

import (
	"encounters-server/internal/encounter"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/species"
)

// familyClasses are planned in order, so the rarer long lines get first pick.
var familyClasses = []struct {
	length    int
	allowGaps bool
}{
	{3, false},
	{3, true},
	{2, false},
	{1, false},
}

func (e *engine) randomizeFamilyMapped(areas []*encounter.Area) error {
	prepped := e.prepareAreas(areas, false)
	infos, index, err := e.collectAreaInfo(prepped)
	if err != nil {
		return err
	}

	toPlan := species.NewPool()
	for _, info := range infos {
		toPlan.Add(info.species)
	}
	spreadThemes(toPlan, index)

	plan := Plan{}
	for _, class := range familyClasses {
		if err := e.planFamiliesOfLength(class.length, class.allowGaps, toPlan, index, plan); err != nil {
			return err
		}
	}
	e.logger.Debug("Planned family replacements", "species", len(plan))
	return e.applyPlan(prepped, plan)
}

// spreadThemes gives every encountered member of a family the summed theme
// votes of the whole family.
func spreadThemes(toPlan *species.Pool, index map[*species.Species]*areaInfo) {
	left := toPlan.Copy()
	for _, s := range toPlan.Slice() {
		if !left.Contains(s) {
			continue
		}
		family := left.FilterFamily(s, true)
		left.RemoveAll(family)

		merged := themeVote{}
		for _, relative := range family.Slice() {
			for t, w := range index[relative].votes {
				merged.add(t, w)
			}
		}
		for _, relative := range family.Slice() {
			index[relative].votes = merged.copy()
		}
	}
}

func (e *engine) planFamiliesOfLength(length int, allowGaps bool, toPlan *species.Pool, index map[*species.Species]*areaInfo, plan Plan) error {
	families := toPlan.FilterEvolutionLinesAtLeast(length, allowGaps)
	toPlan.RemoveAll(families)
	e.pools.restrictToFamilies(length, allowGaps)

	for !families.IsEmpty() {
		match, err := families.DrawUniform(e.rng)
		if err != nil {
			return err
		}
		family := families.FilterFamily(match, true)

		assigned, err := e.planFamily(match, family, index)
		if err != nil {
			return err
		}
		for original, replacement := range assigned {
			plan[original] = replacement
		}
		families.RemoveAll(family)

		for _, s := range assigned[match].Family(false) {
			e.pools.take(s)
		}
	}
	return nil
}

// planFamily maps match and its encountered relatives onto one replacement
// family, keeping every relative's stage offset from match.
func (e *engine) planFamily(match *species.Species, family *species.Pool, index map[*species.Species]*areaInfo) (map[*species.Species]*species.Species, error) {
	candidates, err := e.familyCandidates(match, family, index)
	if err != nil {
		return nil, err
	}
	replacement, err := e.drawFor(candidates, match)
	if err != nil {
		return nil, err
	}

	assigned := map[*species.Species]*species.Species{match: replacement}
	for _, relative := range family.Slice() {
		if relative == match {
			continue
		}
		options := species.NewPool(replacement.RelativesAtPosition(match.Relation(relative))...).
			Intersect(e.allowed).
			Subtract(index[relative].banned)
		pick, err := options.DrawUniform(e.rng)
		if err != nil {
			return nil, errors.NoFamilyMatchf("replacement family of %s has no place for %s", replacement, relative)
		}
		assigned[relative] = pick
	}
	return assigned, nil
}

// familyCandidates returns the species that can stand in for match with room
// for every relative. The family-restricted remaining pool is searched first,
// then the allowed pool.
func (e *engine) familyCandidates(match *species.Species, family *species.Pool, index map[*species.Species]*areaInfo) (*species.Pool, error) {
	theme := index[match].theme(e.settings.KeepPrimaryType)
	before, after := family.StagesBefore(match), family.StagesAfter(match)

	search := func(base *species.Pool) *species.Pool {
		pool := base
		if theme != species.TypeNone {
			pool = pool.ByType(theme)
		}
		pool = pool.FilterHasEvoStages(before, after)
		for _, relative := range family.Slice() {
			offset := match.Relation(relative)
			bans := index[relative].banned
			pool = pool.Filter(func(c *species.Species) bool {
				for _, r := range c.RelativesAtPosition(offset) {
					if base.Contains(r) && !bans.Contains(r) {
						return true
					}
				}
				return false
			})
		}
		return pool
	}

	if pool := search(e.pools.restricted); !pool.IsEmpty() {
		return pool, nil
	}
	if pool := search(e.allowed); !pool.IsEmpty() {
		return pool, nil
	}
	return nil, errors.NoFamilyMatchf("no replacement family fits the family of %s", match)
}
