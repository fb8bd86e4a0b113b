package encounter

import (
	"encounters-server/internal/species"
)

// Category tags how an area's encounters are triggered.
type Category string

const (
	CategoryGrass    Category = "grass"
	CategorySurf     Category = "surf"
	CategoryFishing  Category = "fishing"
	CategoryInteract Category = "interact"
	CategoryAmbush   Category = "ambush"
	CategorySpecial  Category = "special"
	CategoryUnused   Category = "unused"
)

// UnusedLocationTag marks areas that exist in the data but are never reachable.
const UnusedLocationTag = "UNUSED"

// Encounter is one slot of an area's table.
type Encounter struct {
	Species  *species.Species
	Forme    int
	Level    int
	MaxLevel int
}

// AverageLevel is the midpoint of the encounter's level range.
func (e *Encounter) AverageLevel() int {
	max := e.MaxLevel
	if max < e.Level {
		max = e.Level
	}
	return (e.Level + max) / 2
}

// Area is an ordered group of encounters sharing metadata. Merged areas share
// *Encounter pointers with the areas they were built from.
type Area struct {
	ID                   int
	DisplayName          string
	Category             Category
	MapIndex             int
	LocationTag          string
	TimeVariant          bool
	ForceMultipleSpecies bool
	Banned               *species.Pool
	Encounters           []*Encounter
}

// SpeciesInArea returns the distinct species currently in the area, in slot order.
func (a *Area) SpeciesInArea() *species.Pool {
	p := species.NewPool()
	for _, e := range a.Encounters {
		p.Add(e.Species)
	}
	return p
}

// IsBanned reports whether s may not appear in this area.
func (a *Area) IsBanned(s *species.Species) bool {
	return a.Banned.Contains(s)
}

// BanAll adds every member of banned to the area's ban list.
func (a *Area) BanAll(banned *species.Pool) {
	if banned.IsEmpty() {
		return
	}
	if a.Banned == nil {
		a.Banned = species.NewPool()
	}
	for _, s := range banned.Slice() {
		a.Banned.Add(s)
	}
}

// Clone deep-copies the area and its encounters. Species are shared.
func (a *Area) Clone() *Area {
	out := *a
	out.Banned = a.Banned.Copy()
	out.Encounters = make([]*Encounter, len(a.Encounters))
	for i, e := range a.Encounters {
		enc := *e
		out.Encounters[i] = &enc
	}
	return &out
}

// CloneAll deep-copies a list of areas.
func CloneAll(areas []*Area) []*Area {
	out := make([]*Area, len(areas))
	for i, a := range areas {
		out[i] = a.Clone()
	}
	return out
}
