package species

import "testing"

// buildDex wires a small evolution graph:
//
//	Bulb -> Ivy -> Venu
//	Eve -> Vapor, Eve -> Jolt
//	Worm -> Silk -> Butter, Worm -> Cocoon -> Moth
//	Lone
func buildDex() map[string]*Species {
	dex := map[string]*Species{}
	id := 0
	mk := func(name string, t Type) {
		id++
		dex[name] = newSpecies(id, name, t, TypeNone, 300+id*10)
	}
	for _, n := range []string{"Bulb", "Ivy", "Venu"} {
		mk(n, TypeGrass)
	}
	for _, n := range []string{"Eve", "Vapor", "Jolt"} {
		mk(n, TypeNormal)
	}
	for _, n := range []string{"Worm", "Silk", "Butter", "Cocoon", "Moth"} {
		mk(n, TypeBug)
	}
	mk("Lone", TypeRock)

	Link(dex["Bulb"], dex["Ivy"])
	Link(dex["Ivy"], dex["Venu"])
	Link(dex["Eve"], dex["Vapor"])
	Link(dex["Eve"], dex["Jolt"])
	Link(dex["Worm"], dex["Silk"])
	Link(dex["Silk"], dex["Butter"])
	Link(dex["Worm"], dex["Cocoon"])
	Link(dex["Cocoon"], dex["Moth"])
	return dex
}

func names(list []*Species) map[string]bool {
	out := map[string]bool{}
	for _, s := range list {
		out[s.Name] = true
	}
	return out
}

func TestStagesAndRelation(t *testing.T) {
	dex := buildDex()

	if got := dex["Venu"].Stage(); got != 2 {
		t.Errorf("Venu stage: expected 2, got %d", got)
	}
	if got := dex["Bulb"].StagesAfter(); got != 2 {
		t.Errorf("Bulb stages after: expected 2, got %d", got)
	}
	if got := dex["Bulb"].Relation(dex["Venu"]); got != 2 {
		t.Errorf("Bulb->Venu relation: expected 2, got %d", got)
	}
	if got := dex["Venu"].Relation(dex["Ivy"]); got != -1 {
		t.Errorf("Venu->Ivy relation: expected -1, got %d", got)
	}
	if got := dex["Vapor"].Relation(dex["Jolt"]); got != 0 {
		t.Errorf("Sibling relation: expected 0, got %d", got)
	}
}

func TestFamily(t *testing.T) {
	dex := buildDex()

	split := names(dex["Butter"].Family(true))
	for _, n := range []string{"Worm", "Silk", "Butter", "Cocoon", "Moth"} {
		if !split[n] {
			t.Errorf("Expected %s in the split family of Butter", n)
		}
	}

	branch := names(dex["Butter"].Family(false))
	if branch["Cocoon"] || branch["Moth"] {
		t.Errorf("Branch family must not include the other branch, got %v", branch)
	}
	if !branch["Worm"] || !branch["Silk"] || !branch["Butter"] {
		t.Errorf("Branch family missing members, got %v", branch)
	}

	if got := dex["Lone"].Family(true); len(got) != 1 || got[0] != dex["Lone"] {
		t.Errorf("Expected Lone to be its own family, got %v", got)
	}
}

func TestRelativesAtPosition(t *testing.T) {
	dex := buildDex()

	if got := names(dex["Worm"].RelativesAtPosition(2)); !got["Butter"] || !got["Moth"] || len(got) != 2 {
		t.Errorf("Worm +2: expected Butter and Moth, got %v", got)
	}
	if got := dex["Venu"].RelativesAtPosition(-2); len(got) != 1 || got[0] != dex["Bulb"] {
		t.Errorf("Venu -2: expected Bulb, got %v", got)
	}
	if got := dex["Lone"].RelativesAtPosition(1); len(got) != 0 {
		t.Errorf("Lone +1: expected nothing, got %v", got)
	}
	if got := dex["Ivy"].RelativesAtPosition(0); len(got) != 1 || got[0] != dex["Ivy"] {
		t.Errorf("Ivy 0: expected Ivy, got %v", got)
	}
}

func TestFilterEvolutionLinesAtLeast(t *testing.T) {
	dex := buildDex()
	all := NewPool(
		dex["Bulb"], dex["Ivy"], dex["Venu"],
		dex["Eve"], dex["Vapor"],
		dex["Lone"],
	)

	three := names(all.FilterEvolutionLinesAtLeast(3, false).Slice())
	if len(three) != 3 || !three["Bulb"] || !three["Venu"] {
		t.Errorf("Length 3: expected the Bulb line, got %v", three)
	}
	two := names(all.FilterEvolutionLinesAtLeast(2, false).Slice())
	if len(two) != 5 || two["Lone"] {
		t.Errorf("Length 2: expected everything but Lone, got %v", two)
	}
	if got := all.FilterEvolutionLinesAtLeast(1, false).Len(); got != all.Len() {
		t.Errorf("Length 1: expected every member, got %d", got)
	}

	gapped := NewPool(dex["Bulb"], dex["Venu"])
	if got := gapped.FilterEvolutionLinesAtLeast(3, false).Len(); got != 0 {
		t.Errorf("Gapped line must not count without gaps, got %d", got)
	}
	if got := gapped.FilterEvolutionLinesAtLeast(3, true).Len(); got != 2 {
		t.Errorf("Gapped line must count with gaps, got %d", got)
	}
}

func TestFilterFamilyAndEvoStages(t *testing.T) {
	dex := buildDex()
	p := NewPool(dex["Bulb"], dex["Venu"], dex["Eve"], dex["Lone"])

	fam := names(p.FilterFamily(dex["Ivy"], true).Slice())
	if len(fam) != 2 || !fam["Bulb"] || !fam["Venu"] {
		t.Errorf("Expected Bulb and Venu, got %v", fam)
	}

	stages := names(p.FilterHasEvoStages(0, 2).Slice())
	if len(stages) != 1 || !stages["Bulb"] {
		t.Errorf("Expected only Bulb to have two later stages, got %v", stages)
	}
}
