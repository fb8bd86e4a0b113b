package randomizer

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"encounters-server/internal/encounter"
	"encounters-server/internal/species"
)

type fakeSource struct {
	areas  []*encounter.Area
	all    []*species.Species
	bans   map[species.BanCategory]*species.Pool
	target bool

	written []*encounter.Area
	writes  int
}

func (f *fakeSource) EncounterAreas(useTimeVariant bool) []*encounter.Area {
	return f.areas
}

func (f *fakeSource) SetEncounterAreas(useTimeVariant bool, areas []*encounter.Area) {
	f.written = areas
	f.writes++
}

func (f *fakeSource) AllowedSpecies(filter species.Filter) *species.Pool {
	p := species.NewPool()
	for _, s := range f.all {
		if filter.Allows(s) {
			p.Add(s)
		}
	}
	return p
}

func (f *fakeSource) BannedSpecies(category species.BanCategory) *species.Pool {
	return f.bans[category]
}

func (f *fakeSource) IsTargetPlatform() bool {
	return f.target
}

func newSpecies(id int, name string, primary, secondary species.Type, power int) *species.Species {
	return &species.Species{ID: id, Name: name, Primary: primary, Secondary: secondary, Power: power}
}

// roster builds n species cycling through the given types, with ids from start.
func roster(start, n int, types ...species.Type) []*species.Species {
	out := make([]*species.Species, n)
	for i := range out {
		t := types[i%len(types)]
		out[i] = newSpecies(start+i, fmt.Sprintf("%s%d", t, start+i), t, species.TypeNone, 300+10*i)
	}
	return out
}

func newArea(name string, members ...*species.Species) *encounter.Area {
	a := &encounter.Area{DisplayName: name, Category: encounter.CategoryGrass}
	for _, s := range members {
		a.Encounters = append(a.Encounters, &encounter.Encounter{Species: s, Level: 10, MaxLevel: 14})
	}
	return a
}

func testRandomizer(src Source, seed int64) *Randomizer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(src, rand.New(rand.NewSource(seed)), logger)
}

func mustRandomize(t *testing.T, src *fakeSource, seed int64, settings Settings) *Result {
	t.Helper()
	writes := src.writes
	result, err := testRandomizer(src, seed).Randomize(settings)
	if err != nil {
		t.Fatalf("Randomize(%s) with seed %d: unexpected error: %v", settings.Mode.Name(), seed, err)
	}
	if src.writes != writes+1 {
		t.Fatalf("Expected one write back, got %d", src.writes-writes)
	}
	return result
}

func speciesIn(areas []*encounter.Area) map[*species.Species]bool {
	out := map[*species.Species]bool{}
	for _, a := range areas {
		for _, enc := range a.Encounters {
			out[enc.Species] = true
		}
	}
	return out
}
