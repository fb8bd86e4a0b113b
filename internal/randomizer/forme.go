package randomizer

import (
	"math"

	"encounters-server/internal/encounter"
	"encounters-server/internal/species"
)

// assign places s in enc. Alternate formes are stored as their base forme
// plus a forme number; cosmetic variants are rolled on top.
func (e *engine) assign(enc *encounter.Encounter, s *species.Species) {
	enc.Species = s
	enc.Forme = 0

	if s.FormeNumber > 0 && s.BaseForme != nil {
		enc.Species = s.BaseForme
		enc.Forme = s.FormeNumber
	}
	if s.CosmeticFormes > 0 {
		enc.Forme += s.CosmeticFormeNumber(e.rng.Intn(s.CosmeticFormes))
	}
}

func applyLevelModifier(areas []*encounter.Area, modifier int) {
	if modifier == 0 {
		return
	}
	scale := func(level int) int {
		return min(100, int(math.Round(float64(level)*(1+float64(modifier)/100))))
	}
	for _, area := range areas {
		for _, enc := range area.Encounters {
			enc.Level = scale(enc.Level)
			enc.MaxLevel = scale(enc.MaxLevel)
		}
	}
}
