package randomizer

import (
	"encounters-server/internal/species"
)

// catchEmAll tracks the species a run has not placed yet. Every type
// partition handed out by remaining.ByType stays live while species are
// taken; a refill swaps in a fresh pool, so callers holding an old partition
// see it empty and must recompute.
type catchEmAll struct {
	allowed   *species.Pool
	remaining *species.Pool
	// restricted is the family-restricted view used while planning one
	// length class of families.
	restricted *species.Pool
}

func newCatchEmAll(allowed *species.Pool) *catchEmAll {
	c := &catchEmAll{allowed: allowed}
	c.refill()
	return c
}

func (c *catchEmAll) refill() {
	c.remaining = c.allowed.Copy()
}

// take marks s as placed.
func (c *catchEmAll) take(s *species.Species) {
	c.remaining.Remove(s)
	c.restricted.Remove(s)
	if c.remaining.IsEmpty() {
		c.refill()
	}
}

func (c *catchEmAll) restrictToFamilies(length int, allowGaps bool) {
	c.restricted = c.remaining.FilterEvolutionLinesAtLeast(length, allowGaps)
}
