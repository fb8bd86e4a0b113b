package randomizer

import (
	"strings"

	"encounters-server/internal/shared/errors"
)

// Mode selects how replacements are scoped. It is one of RandomMode,
// AreaMapping, LocationMapping, GameMapping or FamilyMapping.
type Mode interface {
	Name() string
	isMode()
}

// RandomMode replaces every encounter independently. On the target platform
// the per-map load balancer runs instead.
type RandomMode struct{}

// AreaMapping maps each species to one replacement within an area.
type AreaMapping struct{}

// LocationMapping maps each species to one replacement within all areas
// sharing a location tag.
type LocationMapping struct{}

// GameMapping maps each species to one replacement across the whole game.
type GameMapping struct{}

// FamilyMapping maps whole evolutionary families onto families of the same
// shape across the whole game.
type FamilyMapping struct{}

func (RandomMode) Name() string      { return "random" }
func (AreaMapping) Name() string     { return "area" }
func (LocationMapping) Name() string { return "location" }
func (GameMapping) Name() string     { return "game" }
func (FamilyMapping) Name() string   { return "family" }

func (RandomMode) isMode()      {}
func (AreaMapping) isMode()     {}
func (LocationMapping) isMode() {}
func (GameMapping) isMode()     {}
func (FamilyMapping) isMode()   {}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random", "":
		return RandomMode{}, nil
	case "area":
		return AreaMapping{}, nil
	case "location":
		return LocationMapping{}, nil
	case "game", "global":
		return GameMapping{}, nil
	case "family":
		return FamilyMapping{}, nil
	default:
		return nil, errors.Validationf("unknown randomization mode %q", name)
	}
}

// Settings is the full option bundle of a run.
type Settings struct {
	Mode Mode `json:"-"`

	// ThemedAreas rolls a random type theme for every area without one.
	ThemedAreas bool `json:"themed_areas"`
	// KeepPrimaryType replaces each species with one sharing its primary type.
	KeepPrimaryType bool `json:"keep_primary_type"`
	// KeepTypeThemes keeps the type an area's species already share.
	KeepTypeThemes bool `json:"keep_type_themes"`

	CatchEmAll          bool `json:"catch_em_all"`
	SimilarStrength     bool `json:"similar_strength"`
	BalanceShakingGrass bool `json:"balance_shaking_grass"`

	NoLegendaries         bool `json:"no_legendaries"`
	AllowAltFormes        bool `json:"allow_alt_formes"`
	BanIrregularAltFormes bool `json:"ban_irregular_alt_formes"`
	AbilitiesRandomized   bool `json:"abilities_randomized"`

	UseTimeBasedEncounters bool `json:"use_time_based_encounters"`
	// LevelModifier scales every encounter level by this percentage.
	LevelModifier int `json:"level_modifier"`
}

// Validate rejects settings no run can honor.
func (s Settings) Validate() error {
	if s.Mode == nil {
		return errors.ConfigurationConflictf("no randomization mode selected")
	}
	if s.ThemedAreas && s.KeepPrimaryType {
		return errors.ConfigurationConflictf("themed areas cannot be combined with keeping primary types")
	}
	if s.LevelModifier <= -100 {
		return errors.ConfigurationConflictf("level modifier %d%% would remove every level", s.LevelModifier)
	}
	return nil
}
