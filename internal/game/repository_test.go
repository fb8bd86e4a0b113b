package game

import (
	"context"
	"reflect"
	"testing"

	"encounters-server/internal/randomizer"
	"encounters-server/internal/shared/errors"
)

func TestImportAndLoadCatalog(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.LoadCatalog(context.Background(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := testCatalog()
	want.Game.SpeciesCount = 13
	want.Game.AreaCount = 3
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Loaded catalog differs from the imported one\n got: %+v\nwant: %+v", got, want)
	}
}

func TestGetGames(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	games, err := repo.GetAllGames(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(games) != 1 || games[0].Name != "Test Version" || games[0].AreaCount != 3 {
		t.Errorf("Unexpected games %+v", games)
	}

	if _, err := repo.GetGameByID(ctx, 42); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("Expected not_found, got %v", err)
	}
	if _, err := repo.LoadCatalog(ctx, 42); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("Expected not_found from LoadCatalog, got %v", err)
	}
}

func TestImportCatalogTwiceFails(t *testing.T) {
	repo := newTestRepository(t)
	if err := repo.ImportCatalog(context.Background(), testCatalog()); err == nil {
		t.Error("Expected a second import of the same game to fail")
	}
}

func TestSaveRun(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	c, _ := repo.LoadCatalog(ctx, 1)
	areas := c.Areas[:1]
	areas[0].Encounters[1].SpeciesID = 8
	areas[0].Encounters[1].Level = 9

	run := &Run{
		ID:       "run-1",
		GameID:   1,
		Seed:     42,
		Settings: randomizer.Settings{CatchEmAll: true, LevelModifier: 10},
		Result:   randomizer.Result{Mode: "area", AreasProcessed: 1, EncountersChanged: 1, DistinctSpecies: 2},
	}
	if err := repo.SaveRun(ctx, areas, run); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	reloaded, _ := repo.LoadCatalog(ctx, 1)
	if enc := reloaded.Areas[0].Encounters[1]; enc.SpeciesID != 8 || enc.Level != 9 {
		t.Errorf("Expected the saved encounter, got %+v", enc)
	}

	runs, err := repo.GetRuns(ctx, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != "run-1" || got.Seed != 42 || got.Mode != "area" || !got.Settings.CatchEmAll || got.Settings.LevelModifier != 10 {
		t.Errorf("Unexpected run %+v", got)
	}
}

func TestSaveRunRollsBack(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	c, _ := repo.LoadCatalog(ctx, 1)
	areas := c.Areas[:1]
	areas[0].Encounters[0].SpeciesID = 8
	areas[0].Encounters = append(areas[0].Encounters, EncounterRecord{Slot: 9, SpeciesID: 8, Level: 1, MaxLevel: 1})

	err := repo.SaveRun(ctx, areas, &Run{ID: "run-bad", GameID: 1, Result: randomizer.Result{Mode: "random"}})
	if err == nil {
		t.Fatal("Expected saving an unknown slot to fail")
	}

	reloaded, _ := repo.LoadCatalog(ctx, 1)
	if reloaded.Areas[0].Encounters[0].SpeciesID != 1 {
		t.Error("Expected the failed save to leave the table untouched")
	}
	if runs, _ := repo.GetRuns(ctx, 1); len(runs) != 0 {
		t.Errorf("Expected no recorded runs, got %d", len(runs))
	}
}

func TestFormeNumberLists(t *testing.T) {
	if got := formatInts([]int{0, 3, 12}); got != "0,3,12" {
		t.Errorf("Expected 0,3,12, got %q", got)
	}
	if got, err := parseInts("0, 3,12"); err != nil || !reflect.DeepEqual(got, []int{0, 3, 12}) {
		t.Errorf("Unexpected parse result %v, %v", got, err)
	}
	if got, _ := parseInts(""); got != nil {
		t.Errorf("Expected nil for an empty list, got %v", got)
	}
	if _, err := parseInts("1,x"); err == nil {
		t.Error("Expected a malformed list to be rejected")
	}
}
