package game

import (
	"encounters-server/internal/encounter"
	"encounters-server/internal/randomizer"
	"encounters-server/internal/species"
)

type Game struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	TargetPlatform bool   `json:"target_platform"`
	SpeciesCount   int    `json:"species_count"`
	AreaCount      int    `json:"area_count"`
}

// Catalog is the flat, serializable form of one game's encounter data. It is
// what the repository loads and saves and what the catalog cache stores.
type Catalog struct {
	Game       Game              `json:"game"`
	Species    []SpeciesRecord   `json:"species"`
	Evolutions []EvolutionRecord `json:"evolutions"`
	Bans       []BanRecord       `json:"bans"`
	Areas      []AreaRecord      `json:"areas"`
}

type SpeciesRecord struct {
	ID                   int          `json:"id"`
	Name                 string       `json:"name"`
	Primary              species.Type `json:"primary_type"`
	Secondary            species.Type `json:"secondary_type,omitempty"`
	Power                int          `json:"power"`
	Legendary            bool         `json:"legendary,omitempty"`
	BaseFormeID          int          `json:"base_forme_id,omitempty"`
	FormeNumber          int          `json:"forme_number,omitempty"`
	CosmeticFormes       int          `json:"cosmetic_formes,omitempty"`
	CosmeticFormeNumbers []int        `json:"cosmetic_forme_numbers,omitempty"`
}

type EvolutionRecord struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type BanRecord struct {
	Category  species.BanCategory `json:"category"`
	SpeciesID int                 `json:"species_id"`
}

type AreaRecord struct {
	ID                   int                `json:"id"`
	DisplayName          string             `json:"display_name"`
	Category             encounter.Category `json:"category"`
	MapIndex             int                `json:"map_index"`
	LocationTag          string             `json:"location_tag,omitempty"`
	TimeVariant          bool               `json:"time_variant,omitempty"`
	ForceMultipleSpecies bool               `json:"force_multiple_species,omitempty"`
	BannedSpeciesIDs     []int              `json:"banned_species_ids,omitempty"`
	Encounters           []EncounterRecord  `json:"encounters"`
}

type EncounterRecord struct {
	Slot        int    `json:"slot"`
	SpeciesID   int    `json:"species_id"`
	SpeciesName string `json:"species_name,omitempty"`
	Forme       int    `json:"forme,omitempty"`
	Level       int    `json:"level"`
	MaxLevel    int    `json:"max_level"`
}

// RandomizeRequest is the body of a randomization call: the engine settings
// plus the mode name and an optional seed for reproducible runs.
type RandomizeRequest struct {
	randomizer.Settings
	Mode string `json:"mode"`
	Seed *int64 `json:"seed,omitempty"`
}

// Run records one successful randomization.
type Run struct {
	ID       string              `json:"id"`
	GameID   int                 `json:"game_id"`
	Seed     int64               `json:"seed"`
	Settings randomizer.Settings `json:"settings"`
	randomizer.Result
}
