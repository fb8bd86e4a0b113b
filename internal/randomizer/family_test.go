package randomizer

import (
	"testing"

	"encounters-server/internal/encounter"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/species"
)

func chain(ids []int, names []string, t species.Type) []*species.Species {
	out := make([]*species.Species, len(ids))
	for i := range ids {
		out[i] = newSpecies(ids[i], names[i], t, species.TypeNone, 300+100*i)
		if i > 0 {
			species.Link(out[i-1], out[i])
		}
	}
	return out
}

func TestFamilyMappingPlansLongerLinesFirst(t *testing.T) {
	xy := chain([]int{1, 2}, []string{"X", "Y"}, species.TypeNormal)
	p := newSpecies(3, "P", species.TypeNormal, species.TypeNone, 300)
	qr := chain([]int{10, 11}, []string{"Q", "R"}, species.TypeWater)
	s := newSpecies(12, "S", species.TypeFire, species.TypeNone, 300)

	for seed := int64(1); seed <= 30; seed++ {
		src := &fakeSource{
			areas: []*encounter.Area{
				newArea("Meadow", xy[0], p),
				newArea("Forest", xy[1]),
			},
			all: []*species.Species{qr[0], qr[1], s},
		}
		mustRandomize(t, src, seed, Settings{Mode: FamilyMapping{}})

		gotX := src.written[0].Encounters[0].Species
		gotP := src.written[0].Encounters[1].Species
		gotY := src.written[1].Encounters[0].Species
		if gotX != qr[0] || gotY != qr[1] {
			t.Fatalf("Seed %d: expected X->Q and Y->R, got X->%v Y->%v", seed, gotX, gotY)
		}
		if gotP != s {
			t.Fatalf("Seed %d: expected P->S, got %v", seed, gotP)
		}
	}
}

func TestFamilyMappingKeepsStageOffsets(t *testing.T) {
	bulb := chain([]int{1, 2, 3}, []string{"Bulb", "Ivy", "Venu"}, species.TypeGrass)
	worm := chain([]int{4, 5}, []string{"Worm", "Silk"}, species.TypeBug)

	var allowed []*species.Species
	allowed = append(allowed, chain([]int{10, 11, 12}, []string{"Char", "Charm", "Chary"}, species.TypeFire)...)
	allowed = append(allowed, chain([]int{13, 14, 15}, []string{"Squirt", "Wart", "Blast"}, species.TypeWater)...)
	allowed = append(allowed, chain([]int{16, 17}, []string{"Pid", "Geot"}, species.TypeFlying)...)
	allowed = append(allowed, chain([]int{18, 19}, []string{"Rat", "Raticate"}, species.TypeNormal)...)
	allowed = append(allowed, roster(30, 5, species.TypeRock)...)

	for seed := int64(1); seed <= 30; seed++ {
		src := &fakeSource{
			areas: []*encounter.Area{
				newArea("Route 1", bulb[0], worm[0]),
				newArea("Route 2", bulb[2], worm[1]),
				newArea("Route 3", bulb[1]),
			},
			all: allowed,
		}
		mustRandomize(t, src, seed, Settings{Mode: FamilyMapping{}, CatchEmAll: true})

		planned := map[*species.Species]*species.Species{}
		for i, area := range src.areas {
			for j, enc := range area.Encounters {
				planned[enc.Species] = src.written[i].Encounters[j].Species
			}
		}

		pairs := [][2]*species.Species{
			{bulb[0], bulb[1]}, {bulb[1], bulb[2]}, {bulb[0], bulb[2]}, {worm[0], worm[1]},
		}
		for _, pair := range pairs {
			from, to := planned[pair[0]], planned[pair[1]]
			want := pair[0].Relation(pair[1])
			if got := from.Relation(to); got != want {
				t.Fatalf("Seed %d: %v->%v has offset %d, expected %d", seed, from, to, got, want)
			}
			if !containsSpecies(from.Descendants(), to) {
				t.Fatalf("Seed %d: %v is not an evolution of %v", seed, to, from)
			}
		}
	}
}

func containsSpecies(list []*species.Species, s *species.Species) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func TestFamilyMappingFailsWithoutMatchingShape(t *testing.T) {
	xy := chain([]int{1, 2}, []string{"X", "Y"}, species.TypeNormal)
	src := &fakeSource{
		areas: []*encounter.Area{newArea("Route", xy[0], xy[1])},
		all:   roster(10, 5, species.TypeFire),
	}

	_, err := testRandomizer(src, 1).Randomize(Settings{Mode: FamilyMapping{}})
	if !errors.IsType(err, errors.ErrorTypeNoFamilyMatch) {
		t.Fatalf("Expected no_family_match, got %v", err)
	}
	if src.writes != 0 {
		t.Error("Expected no write back after a failed run")
	}
}

func TestSpreadThemes(t *testing.T) {
	xy := chain([]int{1, 2}, []string{"X", "Y"}, species.TypeNormal)
	lone := newSpecies(3, "Lone", species.TypeRock, species.TypeNone, 300)

	index := map[*species.Species]*areaInfo{
		xy[0]: {species: xy[0], votes: themeVote{species.TypeFire: 3}},
		xy[1]: {species: xy[1], votes: themeVote{species.TypeWater: 2}},
		lone:  {species: lone, votes: themeVote{}},
	}
	spreadThemes(species.NewPool(xy[0], xy[1], lone), index)

	for _, s := range xy {
		v := index[s].votes
		if v[species.TypeFire] != 3 || v[species.TypeWater] != 2 {
			t.Errorf("%v: expected merged family votes, got %v", s, v)
		}
	}
	if len(index[lone].votes) != 0 {
		t.Errorf("Unrelated species picked up votes: %v", index[lone].votes)
	}
	index[xy[0]].votes.add(species.TypeIce, 1)
	if index[xy[1]].votes[species.TypeIce] != 0 {
		t.Error("Family members must not share one vote map")
	}
}
