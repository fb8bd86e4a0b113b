package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"encounters-server/internal/encounter"
	"encounters-server/internal/shared/database"
	"encounters-server/internal/species"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testCatalog has twelve base species cycling fire, water and grass, an
// alternate forme of species 1, one three-stage line (1 -> 4 -> 7), a wild
// ban on species 10 and a legendary species 12.
func testCatalog() *Catalog {
	c := &Catalog{Game: Game{ID: 1, Name: "Test Version"}}
	types := []species.Type{species.TypeFire, species.TypeWater, species.TypeGrass}
	for i := 1; i <= 12; i++ {
		c.Species = append(c.Species, SpeciesRecord{
			ID:      i,
			Name:    fmt.Sprintf("Mon%02d", i),
			Primary: types[(i-1)%3],
			Power:   250 + i*20,
		})
	}
	c.Species[11].Legendary = true
	c.Species = append(c.Species, SpeciesRecord{
		ID: 13, Name: "Mon01-Sky", Primary: species.TypeFire, Secondary: species.TypeFlying,
		Power: 480, BaseFormeID: 1, FormeNumber: 1,
		CosmeticFormes: 2, CosmeticFormeNumbers: []int{0, 3},
	})
	c.Evolutions = []EvolutionRecord{{From: 1, To: 4}, {From: 4, To: 7}}
	c.Bans = []BanRecord{{Category: species.BanWildEncounters, SpeciesID: 10}}
	c.Areas = []AreaRecord{
		{
			ID: 1, DisplayName: "Route 1 Grass", Category: encounter.CategoryGrass, MapIndex: 1, LocationTag: "Route 1",
			Encounters: []EncounterRecord{
				{Slot: 0, SpeciesID: 1, Level: 3, MaxLevel: 5},
				{Slot: 1, SpeciesID: 2, Level: 3, MaxLevel: 5},
				{Slot: 2, SpeciesID: 1, Level: 4, MaxLevel: 6},
			},
		},
		{
			ID: 2, DisplayName: "Route 1 Surf", Category: encounter.CategorySurf, MapIndex: 1, LocationTag: "Route 1",
			BannedSpeciesIDs: []int{3},
			Encounters: []EncounterRecord{
				{Slot: 0, SpeciesID: 2, Level: 10, MaxLevel: 20},
				{Slot: 1, SpeciesID: 5, Level: 10, MaxLevel: 20},
			},
		},
		{
			ID: 3, DisplayName: "Night Forest", Category: encounter.CategoryGrass, MapIndex: 2, TimeVariant: true,
			Encounters: []EncounterRecord{
				{Slot: 0, SpeciesID: 6, Level: 7, MaxLevel: 7},
			},
		},
	}
	return c
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "catalog.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(context.Background(), Migrations()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(newTestDB(t), testLogger)
	if err := repo.ImportCatalog(context.Background(), testCatalog()); err != nil {
		t.Fatalf("Failed to import catalog: %v", err)
	}
	return repo
}
