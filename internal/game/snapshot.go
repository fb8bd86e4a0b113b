package game

import (
	"fmt"

	"encounters-server/internal/encounter"
	"encounters-server/internal/species"
)

// Snapshot is an in-memory view of a catalog that the randomizer reads from
// and writes back to. It is not safe for concurrent use; every run builds
// its own.
type Snapshot struct {
	game    Game
	ordered []*species.Species
	byID    map[int]*species.Species
	bans    map[species.BanCategory]*species.Pool
	areas   []*encounter.Area
	changed bool
}

func NewSnapshot(c *Catalog) (*Snapshot, error) {
	s := &Snapshot{
		game: c.Game,
		byID: make(map[int]*species.Species, len(c.Species)),
		bans: make(map[species.BanCategory]*species.Pool),
	}

	for _, rec := range c.Species {
		if _, dup := s.byID[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate species id %d", rec.ID)
		}
		sp := &species.Species{
			ID:                   rec.ID,
			Name:                 rec.Name,
			Primary:              rec.Primary,
			Secondary:            rec.Secondary,
			Power:                rec.Power,
			Legendary:            rec.Legendary,
			FormeNumber:          rec.FormeNumber,
			CosmeticFormes:       rec.CosmeticFormes,
			CosmeticFormeNumbers: rec.CosmeticFormeNumbers,
		}
		s.ordered = append(s.ordered, sp)
		s.byID[rec.ID] = sp
	}

	for _, rec := range c.Species {
		if rec.BaseFormeID == 0 {
			continue
		}
		base, err := s.lookup(rec.BaseFormeID)
		if err != nil {
			return nil, fmt.Errorf("species %d: base forme: %w", rec.ID, err)
		}
		s.byID[rec.ID].BaseForme = base
	}

	for _, evo := range c.Evolutions {
		from, err := s.lookup(evo.From)
		if err != nil {
			return nil, fmt.Errorf("evolution %d->%d: %w", evo.From, evo.To, err)
		}
		to, err := s.lookup(evo.To)
		if err != nil {
			return nil, fmt.Errorf("evolution %d->%d: %w", evo.From, evo.To, err)
		}
		species.Link(from, to)
	}

	for _, ban := range c.Bans {
		sp, err := s.lookup(ban.SpeciesID)
		if err != nil {
			return nil, fmt.Errorf("%s ban: %w", ban.Category, err)
		}
		pool, ok := s.bans[ban.Category]
		if !ok {
			pool = species.NewPool()
			s.bans[ban.Category] = pool
		}
		pool.Add(sp)
	}

	for _, rec := range c.Areas {
		area, err := s.area(rec)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", rec.ID, err)
		}
		s.areas = append(s.areas, area)
	}

	return s, nil
}

func (s *Snapshot) lookup(id int) (*species.Species, error) {
	sp, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown species id %d", id)
	}
	return sp, nil
}

func (s *Snapshot) area(rec AreaRecord) (*encounter.Area, error) {
	area := &encounter.Area{
		ID:                   rec.ID,
		DisplayName:          rec.DisplayName,
		Category:             rec.Category,
		MapIndex:             rec.MapIndex,
		LocationTag:          rec.LocationTag,
		TimeVariant:          rec.TimeVariant,
		ForceMultipleSpecies: rec.ForceMultipleSpecies,
	}
	for _, id := range rec.BannedSpeciesIDs {
		sp, err := s.lookup(id)
		if err != nil {
			return nil, err
		}
		area.BanAll(species.NewPool(sp))
	}
	for _, enc := range rec.Encounters {
		sp, err := s.lookup(enc.SpeciesID)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", enc.Slot, err)
		}
		area.Encounters = append(area.Encounters, &encounter.Encounter{
			Species:  sp,
			Forme:    enc.Forme,
			Level:    enc.Level,
			MaxLevel: enc.MaxLevel,
		})
	}
	return area, nil
}

// EncounterAreas lists the areas in catalog order. Time-variant areas are
// only included when useTimeVariant is set.
func (s *Snapshot) EncounterAreas(useTimeVariant bool) []*encounter.Area {
	var out []*encounter.Area
	for _, area := range s.areas {
		if area.TimeVariant && !useTimeVariant {
			continue
		}
		out = append(out, area)
	}
	return out
}

// SetEncounterAreas replaces areas by ID. Areas the snapshot does not know
// are ignored.
func (s *Snapshot) SetEncounterAreas(useTimeVariant bool, areas []*encounter.Area) {
	index := make(map[int]int, len(s.areas))
	for i, area := range s.areas {
		index[area.ID] = i
	}
	for _, area := range areas {
		i, ok := index[area.ID]
		if !ok || (area.TimeVariant && !useTimeVariant) {
			continue
		}
		s.areas[i] = area
		s.changed = true
	}
}

func (s *Snapshot) AllowedSpecies(filter species.Filter) *species.Pool {
	allowed := species.NewPool()
	for _, sp := range s.ordered {
		if filter.Allows(sp) {
			allowed.Add(sp)
		}
	}
	return allowed
}

func (s *Snapshot) BannedSpecies(category species.BanCategory) *species.Pool {
	if pool, ok := s.bans[category]; ok {
		return pool.Copy()
	}
	return species.NewPool()
}

func (s *Snapshot) IsTargetPlatform() bool {
	return s.game.TargetPlatform
}

// Changed reports whether SetEncounterAreas replaced anything.
func (s *Snapshot) Changed() bool {
	return s.changed
}

// Areas converts the current encounter table back to records, with species
// names filled in.
func (s *Snapshot) Areas(useTimeVariant bool) []AreaRecord {
	areas := s.EncounterAreas(useTimeVariant)
	out := make([]AreaRecord, 0, len(areas))
	for _, area := range areas {
		rec := AreaRecord{
			ID:                   area.ID,
			DisplayName:          area.DisplayName,
			Category:             area.Category,
			MapIndex:             area.MapIndex,
			LocationTag:          area.LocationTag,
			TimeVariant:          area.TimeVariant,
			ForceMultipleSpecies: area.ForceMultipleSpecies,
			Encounters:           make([]EncounterRecord, len(area.Encounters)),
		}
		for _, sp := range area.Banned.Slice() {
			rec.BannedSpeciesIDs = append(rec.BannedSpeciesIDs, sp.ID)
		}
		for i, enc := range area.Encounters {
			rec.Encounters[i] = EncounterRecord{
				Slot:        i,
				SpeciesID:   enc.Species.ID,
				SpeciesName: enc.Species.Name,
				Forme:       enc.Forme,
				Level:       enc.Level,
				MaxLevel:    enc.MaxLevel,
			}
		}
		out = append(out, rec)
	}
	return out
}
