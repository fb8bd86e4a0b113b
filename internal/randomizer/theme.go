package randomizer

import (
	"encounters-server/internal/encounter"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/species"
)

// resolveTheme picks the type every replacement in area must have, or
// TypeNone when the area is unthemed.
func (e *engine) resolveTheme(area *encounter.Area) (species.Type, error) {
	inArea := area.SpeciesInArea()

	theme := species.TypeNone
	if e.settings.KeepTypeThemes {
		theme = inArea.SharedType()
	}
	if theme != species.TypeNone || !e.settings.ThemedAreas {
		return theme, nil
	}

	theme, err := e.rollTheme()
	if err != nil {
		return species.TypeNone, err
	}

	// Banned species stay in place under catch-em-all, so a rolled theme has
	// to fit them.
	if e.settings.CatchEmAll {
		if forced := e.banned.Intersect(inArea).SharedType(); forced != species.TypeNone {
			theme = forced
		}
	}
	return theme, nil
}

// existingTheme is the type the area's current species share, when theming is
// on at all.
func (e *engine) existingTheme(area *encounter.Area) species.Type {
	if !e.settings.KeepTypeThemes && !e.settings.ThemedAreas {
		return species.TypeNone
	}
	return area.SpeciesInArea().SharedType()
}

func (e *engine) themeCandidates(t species.Type) *species.Pool {
	if e.settings.CatchEmAll {
		return e.pools.remaining.ByType(t)
	}
	return e.allowed.ByType(t)
}

// rollTheme rolls uniform types until one has candidates left. After one
// rejection per type it picks among the usable types directly.
func (e *engine) rollTheme() (species.Type, error) {
	for i := 0; i < len(species.AllTypes); i++ {
		t := species.AllTypes[e.rng.Intn(len(species.AllTypes))]
		if !e.themeCandidates(t).IsEmpty() {
			return t, nil
		}
	}

	var usable []species.Type
	for _, t := range species.AllTypes {
		if !e.themeCandidates(t).IsEmpty() {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return species.TypeNone, errors.EmptyPoolf("no type has species left to theme an area")
	}
	return usable[e.rng.Intn(len(usable))], nil
}
