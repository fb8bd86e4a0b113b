package species

import (
	"math/rand"
	"testing"

	"encounters-server/internal/shared/errors"
)

func newSpecies(id int, name string, primary, secondary Type, power int) *Species {
	return &Species{ID: id, Name: name, Primary: primary, Secondary: secondary, Power: power}
}

func TestPoolDeduplicatesAndKeepsOrder(t *testing.T) {
	a := newSpecies(1, "A", TypeFire, TypeNone, 300)
	b := newSpecies(2, "B", TypeWater, TypeNone, 300)

	p := NewPool(b, a, b)
	if p.Len() != 2 {
		t.Fatalf("Expected 2 members, got %d", p.Len())
	}
	got := p.Slice()
	if got[0] != b || got[1] != a {
		t.Errorf("Expected insertion order [B A], got %v", got)
	}
}

func TestPoolRemovePatchesPartitions(t *testing.T) {
	a := newSpecies(1, "A", TypeFire, TypeFlying, 300)
	b := newSpecies(2, "B", TypeFire, TypeNone, 300)
	c := newSpecies(3, "C", TypeWater, TypeFlying, 300)

	p := NewPool(a, b, c)
	fire := p.ByType(TypeFire)
	flying := p.ByType(TypeFlying)
	if fire.Len() != 2 || flying.Len() != 2 {
		t.Fatalf("Expected 2 fire and 2 flying, got %d and %d", fire.Len(), flying.Len())
	}

	if !p.Remove(a) {
		t.Fatal("Expected A to be removed")
	}
	if fire.Contains(a) || flying.Contains(a) {
		t.Error("Removed species still present in a cached partition")
	}
	if fire.Len() != 1 || flying.Len() != 1 {
		t.Errorf("Expected partitions of size 1, got fire=%d flying=%d", fire.Len(), flying.Len())
	}
	if p.ByType(TypeFire) != fire {
		t.Error("Expected ByType to return the cached partition")
	}

	p.Add(a)
	if !fire.Contains(a) || !flying.Contains(a) {
		t.Error("Re-added species missing from cached partitions")
	}
	if p.ByType(TypeWater).Contains(a) {
		t.Error("Species added to a partition of a type it does not have")
	}
}

func TestPoolSetAlgebra(t *testing.T) {
	a := newSpecies(1, "A", TypeFire, TypeNone, 300)
	b := newSpecies(2, "B", TypeWater, TypeNone, 300)
	c := newSpecies(3, "C", TypeGrass, TypeNone, 300)

	left := NewPool(a, b)
	right := NewPool(b, c)

	if got := left.Union(right).Len(); got != 3 {
		t.Errorf("Union: expected 3, got %d", got)
	}
	if got := left.Intersect(right).Slice(); len(got) != 1 || got[0] != b {
		t.Errorf("Intersect: expected [B], got %v", got)
	}
	if got := left.Subtract(right).Slice(); len(got) != 1 || got[0] != a {
		t.Errorf("Subtract: expected [A], got %v", got)
	}
	if left.Len() != 2 || right.Len() != 2 {
		t.Error("Set operations must not mutate their operands")
	}

	var nilPool *Pool
	if nilPool.Len() != 0 || nilPool.Contains(a) {
		t.Error("Nil pool should behave as empty")
	}
	if got := left.Subtract(nil).Len(); got != 2 {
		t.Errorf("Subtract(nil): expected 2, got %d", got)
	}
}

func TestSharedType(t *testing.T) {
	tests := []struct {
		name    string
		members []*Species
		want    Type
	}{
		{"empty", nil, TypeNone},
		{"single dual type keeps primary", []*Species{
			newSpecies(1, "A", TypeBug, TypePoison, 300),
		}, TypeBug},
		{"primary shared", []*Species{
			newSpecies(1, "A", TypeFire, TypeNone, 300),
			newSpecies(2, "B", TypeFire, TypeFlying, 300),
		}, TypeFire},
		{"secondary promoted when primary eliminated", []*Species{
			newSpecies(1, "A", TypeBug, TypePoison, 300),
			newSpecies(2, "B", TypePoison, TypeNone, 300),
		}, TypePoison},
		{"nothing shared", []*Species{
			newSpecies(1, "A", TypeFire, TypeNone, 300),
			newSpecies(2, "B", TypeWater, TypeNone, 300),
		}, TypeNone},
		{"secondary dropped before promotion", []*Species{
			newSpecies(1, "A", TypeBug, TypePoison, 300),
			newSpecies(2, "B", TypeBug, TypeFlying, 300),
			newSpecies(3, "C", TypePoison, TypeNone, 300),
		}, TypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPool(tt.members...).SharedType(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDrawOnEmptyPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := NewPool()

	if _, err := p.DrawUniform(rng); !errors.IsType(err, errors.ErrorTypeEmptyPool) {
		t.Errorf("DrawUniform: expected empty_pool error, got %v", err)
	}
	if _, err := p.DrawSimilarPower(300, rng); !errors.IsType(err, errors.ErrorTypeEmptyPool) {
		t.Errorf("DrawSimilarPower: expected empty_pool error, got %v", err)
	}
}

func TestDrawSimilarPowerStaysNearTarget(t *testing.T) {
	weak := newSpecies(1, "Weak", TypeNormal, TypeNone, 200)
	mid1 := newSpecies(2, "Mid1", TypeNormal, TypeNone, 480)
	mid2 := newSpecies(3, "Mid2", TypeNormal, TypeNone, 500)
	mid3 := newSpecies(4, "Mid3", TypeNormal, TypeNone, 520)
	strong := newSpecies(5, "Strong", TypeNormal, TypeNone, 680)

	p := NewPool(weak, mid1, mid2, mid3, strong)
	rng := rand.New(rand.NewSource(7))
	seen := map[*Species]int{}
	for i := 0; i < 500; i++ {
		s, err := p.DrawSimilarPower(500, rng)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		seen[s]++
	}
	if seen[weak] != 0 || seen[strong] != 0 {
		t.Errorf("Draw left the power band: %v", seen)
	}
	if seen[mid2] <= seen[mid1] || seen[mid2] <= seen[mid3] {
		t.Errorf("Expected the exact match to be drawn most often, got %v", seen)
	}
	if seen[mid1] == 0 || seen[mid3] == 0 {
		t.Errorf("Expected near candidates to be drawn too, got %v", seen)
	}
}

func TestDrawSimilarPowerFallsBackToNearest(t *testing.T) {
	far := newSpecies(1, "Far", TypeNormal, TypeNone, 900)
	farther := newSpecies(2, "Farther", TypeNormal, TypeNone, 1000)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		s, err := NewPool(farther, far).DrawSimilarPower(300, rng)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if s != far {
			t.Fatalf("Expected nearest species %v, got %v", far, s)
		}
	}
}

func TestDrawIsReproducible(t *testing.T) {
	var members []*Species
	for i := 1; i <= 30; i++ {
		members = append(members, newSpecies(i, "S", TypeNormal, TypeNone, 250+i*10))
	}
	p := NewPool(members...)

	draw := func(seed int64) []int {
		rng := rand.New(rand.NewSource(seed))
		var ids []int
		for i := 0; i < 10; i++ {
			s, _ := p.DrawSimilarPower(400, rng)
			u, _ := p.DrawUniform(rng)
			ids = append(ids, s.ID, u.ID)
		}
		return ids
	}

	first, second := draw(99), draw(99)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Draw %d differs between runs with the same seed", i)
		}
	}
}
