package species

// Species is one entry of the game's species table. Species values are shared
// by pointer across pools and encounters and are not mutated during a run.
type Species struct {
	ID        int
	Name      string
	Primary   Type
	Secondary Type
	Power     int
	Legendary bool

	// BaseForme is nil for base formes. Alternate formes point at the
	// species they are a variant of and carry a non-zero FormeNumber.
	BaseForme   *Species
	FormeNumber int

	CosmeticFormes       int
	CosmeticFormeNumbers []int

	EvolvesFrom []*Species
	EvolvesTo   []*Species
}

// Filter narrows the full species table to the ones a run may place.
type Filter struct {
	NoLegendaries  bool
	AllowAltFormes bool
}

// Allows reports whether s passes the filter.
func (f Filter) Allows(s *Species) bool {
	if f.NoLegendaries && s.Legendary {
		return false
	}
	if !f.AllowAltFormes && !s.IsBaseForme() {
		return false
	}
	return true
}

// BanCategory names one of the ban lists a catalog keeps.
type BanCategory string

const (
	BanWildEncounters         BanCategory = "wild"
	BanPlayerFormes           BanCategory = "player_formes"
	BanAbilityDependentFormes BanCategory = "ability_formes"
	BanIrregularFormes        BanCategory = "irregular_formes"
)

func (s *Species) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}

func (s *Species) HasType(t Type) bool {
	return t != TypeNone && (s.Primary == t || s.Secondary == t)
}

func (s *Species) HasSecondaryType() bool {
	return s.Secondary != TypeNone && s.Secondary != s.Primary
}

func (s *Species) IsBaseForme() bool {
	return s.BaseForme == nil
}

// Base returns the base forme of s, or s itself.
func (s *Species) Base() *Species {
	if s.BaseForme != nil {
		return s.BaseForme
	}
	return s
}

// CosmeticFormeNumber maps the i-th cosmetic variant to its forme number.
func (s *Species) CosmeticFormeNumber(i int) int {
	if i >= 0 && i < len(s.CosmeticFormeNumbers) {
		return s.CosmeticFormeNumbers[i]
	}
	return i
}

// Link records that from evolves into to.
func Link(from, to *Species) {
	for _, e := range from.EvolvesTo {
		if e == to {
			return
		}
	}
	from.EvolvesTo = append(from.EvolvesTo, to)
	to.EvolvesFrom = append(to.EvolvesFrom, from)
}
