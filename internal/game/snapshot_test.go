package game

import (
	"testing"

	"encounters-server/internal/encounter"
	"encounters-server/internal/species"
)

func mustSnapshot(t *testing.T, c *Catalog) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return snap
}

func TestNewSnapshotLinksCatalog(t *testing.T) {
	snap := mustSnapshot(t, testCatalog())

	first := snap.byID[1]
	if first.StagesAfter() != 2 || snap.byID[7].Stage() != 2 {
		t.Errorf("Expected the 1 -> 4 -> 7 line to be linked")
	}
	if alt := snap.byID[13]; alt.BaseForme != first || alt.IsBaseForme() {
		t.Errorf("Expected species 13 to be an alternate forme of species 1")
	}
	if !snap.BannedSpecies(species.BanWildEncounters).Contains(snap.byID[10]) {
		t.Error("Expected species 10 in the wild ban list")
	}
	if !snap.BannedSpecies(species.BanPlayerFormes).IsEmpty() {
		t.Error("Expected an unknown ban category to be empty")
	}
	if !snap.EncounterAreas(false)[1].IsBanned(snap.byID[3]) {
		t.Error("Expected the surf area to ban species 3")
	}
}

func TestNewSnapshotRejectsUnknownSpecies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Catalog)
	}{
		{"evolution", func(c *Catalog) { c.Evolutions = append(c.Evolutions, EvolutionRecord{From: 1, To: 99}) }},
		{"ban", func(c *Catalog) { c.Bans = append(c.Bans, BanRecord{Category: species.BanWildEncounters, SpeciesID: 99}) }},
		{"encounter", func(c *Catalog) { c.Areas[0].Encounters[0].SpeciesID = 99 }},
		{"area ban", func(c *Catalog) { c.Areas[0].BannedSpeciesIDs = []int{99} }},
		{"base forme", func(c *Catalog) { c.Species[12].BaseFormeID = 99 }},
		{"duplicate", func(c *Catalog) { c.Species = append(c.Species, c.Species[0]) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCatalog()
			tt.mutate(c)
			if _, err := NewSnapshot(c); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestSnapshotSource(t *testing.T) {
	snap := mustSnapshot(t, testCatalog())

	if got := len(snap.EncounterAreas(false)); got != 2 {
		t.Errorf("Expected 2 areas without time variants, got %d", got)
	}
	if got := len(snap.EncounterAreas(true)); got != 3 {
		t.Errorf("Expected 3 areas with time variants, got %d", got)
	}

	allowed := snap.AllowedSpecies(species.Filter{NoLegendaries: true})
	if allowed.Len() != 11 || allowed.Contains(snap.byID[12]) || allowed.Contains(snap.byID[13]) {
		t.Errorf("Expected legendaries and alternate formes filtered out, got %v", allowed.Slice())
	}
	if all := snap.AllowedSpecies(species.Filter{AllowAltFormes: true}); all.Len() != 13 {
		t.Errorf("Expected every species, got %d", all.Len())
	}
	if snap.IsTargetPlatform() {
		t.Error("Test catalog is not the target platform")
	}
}

func TestSetEncounterAreas(t *testing.T) {
	snap := mustSnapshot(t, testCatalog())
	replacement := snap.EncounterAreas(true)[0].Clone()
	replacement.Encounters[0].Species = snap.byID[9]
	night := snap.EncounterAreas(true)[2].Clone()
	night.Encounters[0].Species = snap.byID[9]

	snap.SetEncounterAreas(false, []*encounter.Area{replacement, night})

	if !snap.Changed() {
		t.Error("Expected the snapshot to be marked changed")
	}
	areas := snap.Areas(true)
	if areas[0].Encounters[0].SpeciesID != 9 || areas[0].Encounters[0].SpeciesName != "Mon09" {
		t.Errorf("Expected slot 0 of area 1 to be Mon09, got %+v", areas[0].Encounters[0])
	}
	if areas[2].Encounters[0].SpeciesID != 6 {
		t.Error("Time-variant areas must not be replaced when time variants are off")
	}
	if len(areas[1].BannedSpeciesIDs) != 1 || areas[1].BannedSpeciesIDs[0] != 3 {
		t.Errorf("Expected area bans in records, got %v", areas[1].BannedSpeciesIDs)
	}
}
