package species

import (
	"math"

	"encounters-server/internal/shared/errors"
)

const (
	// similarPowerMinCandidates is how many species the power band should
	// hold before widening stops.
	similarPowerMinCandidates = 3
	// similarPowerMaxWidenings bounds how often the band is widened.
	similarPowerMaxWidenings = 2
)

// Rand is the subset of *math/rand.Rand that pool draws consume.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Pool is an insertion-ordered set of species.
//
// Type partitions returned by ByType are cached views that stay in lock-step
// with the pool: Add and Remove on the pool patch every cached partition.
// Partitions must not be mutated directly.
type Pool struct {
	members []*Species
	index   map[int]*Species
	byType  map[Type]*Pool
}

// NewPool builds a pool from the given species, dropping duplicates.
func NewPool(members ...*Species) *Pool {
	p := &Pool{index: make(map[int]*Species, len(members))}
	for _, s := range members {
		p.add(s)
	}
	return p
}

func (p *Pool) add(s *Species) bool {
	if s == nil {
		return false
	}
	if _, ok := p.index[s.ID]; ok {
		return false
	}
	p.members = append(p.members, s)
	p.index[s.ID] = s
	return true
}

// Add inserts s in place.
func (p *Pool) Add(s *Species) {
	if !p.add(s) {
		return
	}
	for t, part := range p.byType {
		if s.HasType(t) {
			part.Add(s)
		}
	}
}

// Remove deletes s in place, along with every cached partition holding it.
// It reports whether s was a member.
func (p *Pool) Remove(s *Species) bool {
	if p == nil || s == nil {
		return false
	}
	if _, ok := p.index[s.ID]; !ok {
		return false
	}
	delete(p.index, s.ID)
	for i, m := range p.members {
		if m.ID == s.ID {
			p.members = append(p.members[:i], p.members[i+1:]...)
			break
		}
	}
	for _, part := range p.byType {
		part.Remove(s)
	}
	return true
}

// RemoveAll deletes every member of other in place.
func (p *Pool) RemoveAll(other *Pool) {
	for _, s := range other.Slice() {
		p.Remove(s)
	}
}

func (p *Pool) Contains(s *Species) bool {
	if p == nil || s == nil {
		return false
	}
	_, ok := p.index[s.ID]
	return ok
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.members)
}

func (p *Pool) IsEmpty() bool {
	return p.Len() == 0
}

// Slice returns the members in insertion order. The slice is a copy.
func (p *Pool) Slice() []*Species {
	if p == nil {
		return nil
	}
	out := make([]*Species, len(p.members))
	copy(out, p.members)
	return out
}

// Copy returns an independent pool with the same members and no cached partitions.
func (p *Pool) Copy() *Pool {
	if p == nil {
		return NewPool()
	}
	return NewPool(p.members...)
}

// Filter returns the members for which keep returns true.
func (p *Pool) Filter(keep func(*Species) bool) *Pool {
	out := NewPool()
	if p == nil {
		return out
	}
	for _, s := range p.members {
		if keep(s) {
			out.add(s)
		}
	}
	return out
}

func (p *Pool) Union(other *Pool) *Pool {
	out := p.Copy()
	for _, s := range other.Slice() {
		out.add(s)
	}
	return out
}

func (p *Pool) Intersect(other *Pool) *Pool {
	return p.Filter(other.Contains)
}

func (p *Pool) Subtract(other *Pool) *Pool {
	if other.IsEmpty() {
		return p.Copy()
	}
	return p.Filter(func(s *Species) bool { return !other.Contains(s) })
}

// ByType returns the live partition of members having t as primary or
// secondary type. It is computed on first use and cached.
func (p *Pool) ByType(t Type) *Pool {
	if p.byType == nil {
		p.byType = make(map[Type]*Pool, len(AllTypes))
	}
	if part, ok := p.byType[t]; ok {
		return part
	}
	part := p.Filter(func(s *Species) bool { return s.HasType(t) })
	p.byType[t] = part
	return part
}

// FilterFamily returns the members belonging to the evolutionary family of s.
func (p *Pool) FilterFamily(s *Species, includeSplitBranches bool) *Pool {
	family := NewPool(s.Family(includeSplitBranches)...)
	return p.Filter(family.Contains)
}

// FilterEvolutionLinesAtLeast returns the members lying on an evolution line
// of at least length stages. Without allowGaps every stage of the line must be
// a member; with it, only the ends of the line must be.
func (p *Pool) FilterEvolutionLinesAtLeast(length int, allowGaps bool) *Pool {
	if length <= 1 {
		return p.Copy()
	}
	return p.Filter(func(s *Species) bool {
		if allowGaps {
			return p.spanWithGaps(s) >= length
		}
		return p.chainUp(s, map[*Species]bool{})+p.chainDown(s, map[*Species]bool{})+1 >= length
	})
}

func (p *Pool) chainUp(s *Species, visiting map[*Species]bool) int {
	if visiting[s] {
		return 0
	}
	visiting[s] = true
	defer delete(visiting, s)
	best := 0
	for _, prevo := range s.EvolvesFrom {
		if p.Contains(prevo) {
			if d := p.chainUp(prevo, visiting) + 1; d > best {
				best = d
			}
		}
	}
	return best
}

func (p *Pool) chainDown(s *Species, visiting map[*Species]bool) int {
	if visiting[s] {
		return 0
	}
	visiting[s] = true
	defer delete(visiting, s)
	best := 0
	for _, evo := range s.EvolvesTo {
		if p.Contains(evo) {
			if d := p.chainDown(evo, visiting) + 1; d > best {
				best = d
			}
		}
	}
	return best
}

func (p *Pool) spanWithGaps(s *Species) int {
	return p.StagesBefore(s) + p.StagesAfter(s) + 1
}

// StagesBefore returns how many stages separate s from its earliest ancestor
// in the pool. Stages missing from the pool still count.
func (p *Pool) StagesBefore(s *Species) int {
	stage := s.Stage()
	up := 0
	for _, a := range s.Ancestors() {
		if p.Contains(a) {
			if d := stage - a.Stage(); d > up {
				up = d
			}
		}
	}
	return up
}

// StagesAfter returns how many stages separate s from its latest descendant
// in the pool.
func (p *Pool) StagesAfter(s *Species) int {
	stage := s.Stage()
	down := 0
	for _, d := range s.Descendants() {
		if p.Contains(d) {
			if dist := d.Stage() - stage; dist > down {
				down = dist
			}
		}
	}
	return down
}

// FilterHasEvoStages returns the members with at least before pre-evolution
// stages and at least after evolution stages.
func (p *Pool) FilterHasEvoStages(before, after int) *Pool {
	return p.Filter(func(s *Species) bool {
		return s.StagesBefore() >= before && s.StagesAfter() >= after
	})
}

// SharedType returns a type every member has, or TypeNone. A running
// (primary, secondary) pair narrows member by member; when the primary is
// eliminated the secondary takes its place.
func (p *Pool) SharedType() Type {
	if p.IsEmpty() {
		return TypeNone
	}
	first := p.members[0]
	shared, other := first.Primary, first.Secondary
	if other == shared {
		other = TypeNone
	}
	for _, s := range p.members[1:] {
		if other != TypeNone && !s.HasType(other) {
			other = TypeNone
		}
		if !s.HasType(shared) {
			shared, other = other, TypeNone
		}
		if shared == TypeNone {
			return TypeNone
		}
	}
	return shared
}

// DrawUniform picks one member uniformly at random.
func (p *Pool) DrawUniform(rng Rand) (*Species, error) {
	if p.IsEmpty() {
		return nil, errors.EmptyPoolf("no species left to draw from")
	}
	return p.members[rng.Intn(len(p.members))], nil
}

// DrawSimilarToSpecies draws a member with power close to that of s.
func (p *Pool) DrawSimilarToSpecies(s *Species, rng Rand) (*Species, error) {
	return p.DrawSimilarPower(s.Power, rng)
}

// DrawSimilarPower draws a member whose power is close to target.
//
// Candidates come from a band of ±10% around target that widens by 5% per
// round until it holds enough species. Within the band each candidate is
// weighted by the inverse of its power distance, so near-ties are broken
// stochastically.
func (p *Pool) DrawSimilarPower(target int, rng Rand) (*Species, error) {
	if p.IsEmpty() {
		return nil, errors.EmptyPoolf("no species left to draw near power %d", target)
	}

	band := abs(target) / 10
	step := abs(target) / 20
	if step < 1 {
		step = 1
	}

	var picks []*Species
	for round := 0; ; round++ {
		picks = picks[:0]
		for _, s := range p.members {
			if abs(s.Power-target) <= band {
				picks = append(picks, s)
			}
		}
		if len(picks) >= similarPowerMinCandidates {
			break
		}
		if round >= similarPowerMaxWidenings {
			if len(picks) == 0 {
				picks = p.nearest(target)
			}
			break
		}
		band += step
	}

	total := 0.0
	weights := make([]float64, len(picks))
	for i, s := range picks {
		weights[i] = 1 / float64(1+abs(s.Power-target))
		total += weights[i]
	}
	roll := rng.Float64() * total
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return picks[i], nil
		}
	}
	return picks[len(picks)-1], nil
}

func (p *Pool) nearest(target int) []*Species {
	best := math.MaxInt
	var out []*Species
	for _, s := range p.members {
		d := abs(s.Power - target)
		switch {
		case d < best:
			best = d
			out = []*Species{s}
		case d == best:
			out = append(out, s)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
