package randomizer

import (
	"fmt"

	"encounters-server/internal/encounter"
)

func isUnused(area *encounter.Area) bool {
	return area.Category == encounter.CategoryUnused || area.LocationTag == encounter.UnusedLocationTag
}

func dropUnused(areas []*encounter.Area) []*encounter.Area {
	live := make([]*encounter.Area, 0, len(areas))
	for _, area := range areas {
		if !isUnused(area) {
			live = append(live, area)
		}
	}
	return live
}

// prepareAreas drops unused areas, merges the rest where the mode or
// platform requires it and shuffles the result. Merged areas share
// encounters with the areas they came from.
func (e *engine) prepareAreas(areas []*encounter.Area, byLocation bool) []*encounter.Area {
	prepped := dropUnused(areas)
	if byLocation {
		prepped = mergeByLocation(prepped)
	} else if e.targetPlatform {
		prepped = mergeByMapAndCategory(prepped)
	}
	e.rng.Shuffle(len(prepped), func(i, j int) {
		prepped[i], prepped[j] = prepped[j], prepped[i]
	})
	return prepped
}

func mergeInto(merged *encounter.Area, parts []*encounter.Area) *encounter.Area {
	for _, part := range parts {
		merged.Encounters = append(merged.Encounters, part.Encounters...)
		merged.BanAll(part.Banned)
		merged.ForceMultipleSpecies = merged.ForceMultipleSpecies || part.ForceMultipleSpecies
	}
	return merged
}

func mergeByLocation(areas []*encounter.Area) []*encounter.Area {
	var tags []string
	groups := map[string][]*encounter.Area{}
	untagged := 0
	for _, area := range areas {
		tag := area.LocationTag
		if tag == "" {
			untagged++
			tag = fmt.Sprintf("UNTAGGED-%d", untagged)
		}
		if _, ok := groups[tag]; !ok {
			tags = append(tags, tag)
		}
		groups[tag] = append(groups[tag], area)
	}

	merged := make([]*encounter.Area, 0, len(tags))
	for _, tag := range tags {
		first := groups[tag][0]
		merged = append(merged, mergeInto(&encounter.Area{
			DisplayName: "All of location " + tag,
			MapIndex:    first.MapIndex,
			LocationTag: tag,
		}, groups[tag]))
	}
	return merged
}

// groupByMap groups areas by map index in first-appearance order.
func groupByMap(areas []*encounter.Area) [][]*encounter.Area {
	var order []int
	groups := map[int][]*encounter.Area{}
	for _, area := range areas {
		if _, ok := groups[area.MapIndex]; !ok {
			order = append(order, area.MapIndex)
		}
		groups[area.MapIndex] = append(groups[area.MapIndex], area)
	}
	out := make([][]*encounter.Area, 0, len(order))
	for _, idx := range order {
		out = append(out, groups[idx])
	}
	return out
}

func mergeByMapAndCategory(areas []*encounter.Area) []*encounter.Area {
	var merged []*encounter.Area
	unnamed := 0
	for _, inMap := range groupByMap(areas) {
		mapName := inMap[0].LocationTag
		if mapName == "" {
			unnamed++
			mapName = fmt.Sprintf("Unknown Map %d", unnamed)
		}

		var categories []encounter.Category
		byCategory := map[encounter.Category][]*encounter.Area{}
		for _, area := range inMap {
			if _, ok := byCategory[area.Category]; !ok {
				categories = append(categories, area.Category)
			}
			byCategory[area.Category] = append(byCategory[area.Category], area)
		}

		for _, category := range categories {
			merged = append(merged, mergeInto(&encounter.Area{
				DisplayName: fmt.Sprintf("%s-%s", mapName, category),
				Category:    category,
				MapIndex:    inMap[0].MapIndex,
				LocationTag: inMap[0].LocationTag,
			}, byCategory[category]))
		}
	}
	return merged
}
