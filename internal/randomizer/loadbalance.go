package randomizer

import (
	"encounters-server/internal/encounter"
	"encounters-server/internal/species"
)

// PlatformLoadThreshold is the map load at which the target platform's
// encounter display crashes. The value and the load formula were found by
// experiment, not documented by the platform.
const PlatformLoadThreshold = 18

type trackedEncounter struct {
	area     *encounter.Area
	original *species.Species
	enc      *encounter.Encounter
}

// randomizeBalanced is fully random mode for the target platform. It adds
// variety map by map only while the map's load stays under the threshold.
func (e *engine) randomizeBalanced(areas []*encounter.Area) error {
	maps := groupByMap(mergeByMapAndCategory(dropUnused(areas)))
	e.rng.Shuffle(len(maps), func(i, j int) {
		maps[i], maps[j] = maps[j], maps[i]
	})

	// Interact areas do not count towards the load.
	var interact []*encounter.Area
	for i, inMap := range maps {
		kept := inMap[:0:0]
		for _, area := range inMap {
			if area.Category == encounter.CategoryInteract {
				interact = append(interact, area)
			} else {
				kept = append(kept, area)
			}
		}
		maps[i] = kept
	}
	if err := e.randomizeStreaming(interact, false, false); err != nil {
		return err
	}

	for _, inMap := range maps {
		if err := e.balanceMap(inMap); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) balanceMap(areas []*encounter.Area) error {
	if len(areas) == 0 {
		return nil
	}

	var pending []trackedEncounter
	for _, area := range areas {
		for _, enc := range area.Encounters {
			pending = append(pending, trackedEncounter{area: area, original: enc.Species, enc: enc})
		}
	}

	if err := e.randomizeStreaming(areas, true, false); err != nil {
		return err
	}

	e.rng.Shuffle(len(pending), func(i, j int) {
		pending[i], pending[j] = pending[j], pending[i]
	})

	for len(pending) > 0 && platformLoad(areas)+1 < PlatformLoadThreshold {
		next := pending[0]
		pending = pending[1:]

		// Re-rolling a species that appears nowhere else only swaps one
		// species for another.
		if !duplicatedIn(next.enc.Species, pending) {
			continue
		}

		theme := e.existingTheme(next.area)
		ctx := e.newSelectionContext(next.area, theme, false)

		next.enc.Species = next.original
		replacement, err := e.pickReplacement(ctx, next.enc)
		if err != nil {
			return err
		}
		e.assign(next.enc, replacement)
		if e.settings.CatchEmAll {
			e.pools.take(replacement)
		}
	}

	e.logger.Debug("Balanced map", "map_index", areas[0].MapIndex, "load", platformLoad(areas))
	return nil
}

func duplicatedIn(s *species.Species, pending []trackedEncounter) bool {
	for _, other := range pending {
		if other.enc.Species == s {
			return true
		}
	}
	return false
}

// platformLoad sums, over the non-interact areas of one map, the number of
// distinct base formes in each area.
func platformLoad(areas []*encounter.Area) int {
	load := 0
	for _, area := range areas {
		if area.Category == encounter.CategoryInteract {
			continue
		}
		bases := species.NewPool()
		for _, enc := range area.Encounters {
			bases.Add(enc.Species.Base())
		}
		load += bases.Len()
	}
	return load
}
