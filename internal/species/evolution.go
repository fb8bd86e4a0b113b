package species

// Stage is the number of evolution steps between s and the root of its
// family. Where several pre-evolutions exist, the longest chain wins.
func (s *Species) Stage() int {
	return s.stage(map[*Species]bool{})
}

func (s *Species) stage(visiting map[*Species]bool) int {
	if visiting[s] {
		return 0
	}
	visiting[s] = true
	defer delete(visiting, s)

	best := 0
	for _, prevo := range s.EvolvesFrom {
		if d := prevo.stage(visiting) + 1; d > best {
			best = d
		}
	}
	return best
}

// StagesBefore returns the length of the longest chain of pre-evolutions.
func (s *Species) StagesBefore() int {
	return s.Stage()
}

// StagesAfter returns the length of the longest chain of evolutions.
func (s *Species) StagesAfter() int {
	return s.stagesAfter(map[*Species]bool{})
}

func (s *Species) stagesAfter(visiting map[*Species]bool) int {
	if visiting[s] {
		return 0
	}
	visiting[s] = true
	defer delete(visiting, s)

	best := 0
	for _, evo := range s.EvolvesTo {
		if d := evo.stagesAfter(visiting) + 1; d > best {
			best = d
		}
	}
	return best
}

// Ancestors returns every species s evolves from, nearest first.
func (s *Species) Ancestors() []*Species {
	return walk(s, func(x *Species) []*Species { return x.EvolvesFrom })
}

// Descendants returns every species s evolves into, nearest first.
func (s *Species) Descendants() []*Species {
	return walk(s, func(x *Species) []*Species { return x.EvolvesTo })
}

func walk(start *Species, next func(*Species) []*Species) []*Species {
	seen := map[*Species]bool{start: true}
	var out []*Species
	queue := []*Species{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range next(cur) {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return out
}

// Family returns the evolutionary family of s, s first. With
// includeSplitBranches the whole connected family is returned; otherwise only
// the ancestors and descendants of s.
func (s *Species) Family(includeSplitBranches bool) []*Species {
	if !includeSplitBranches {
		out := []*Species{s}
		out = append(out, s.Ancestors()...)
		return append(out, s.Descendants()...)
	}
	out := []*Species{s}
	out = append(out, walk(s, func(x *Species) []*Species {
		n := make([]*Species, 0, len(x.EvolvesFrom)+len(x.EvolvesTo))
		n = append(n, x.EvolvesFrom...)
		return append(n, x.EvolvesTo...)
	})...)
	return out
}

// Relation is the stage offset of other relative to s: positive when other is
// a later stage, negative when earlier, zero for s itself or a sibling.
func (s *Species) Relation(other *Species) int {
	return other.Stage() - s.Stage()
}

// RelativesAtPosition returns the species exactly offset stages away from s
// along its own branch: descendants for a positive offset, ancestors for a
// negative one, and s itself for zero.
func (s *Species) RelativesAtPosition(offset int) []*Species {
	if offset == 0 {
		return []*Species{s}
	}
	next := func(x *Species) []*Species { return x.EvolvesTo }
	if offset < 0 {
		next = func(x *Species) []*Species { return x.EvolvesFrom }
		offset = -offset
	}

	level := []*Species{s}
	for step := 0; step < offset && len(level) > 0; step++ {
		seen := map[*Species]bool{}
		var following []*Species
		for _, cur := range level {
			for _, n := range next(cur) {
				if !seen[n] {
					seen[n] = true
					following = append(following, n)
				}
			}
		}
		level = following
	}
	return level
}
