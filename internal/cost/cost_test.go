package cost

import (
	"testing"

	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

func TestCostCompareLexicographic(t *testing.T) {
	cases := []struct {
		a, b Cost
		want Order
	}{
		{Cost{Size: 1}, Cost{Size: 2}, Less},
		{Cost{Size: 2}, Cost{Size: 1}, Greater},
		{Cost{Size: 1, Unknowns: 0}, Cost{Size: 1, Unknowns: 1}, Less},
		{Cost{Size: 1, Unknowns: 1, Fields: 2}, Cost{Size: 1, Unknowns: 1, Fields: 2}, Equal},
	}
	for _, c := range cases {
		if got := c.a.Compare(c.b); got != c.want {
			t.Errorf("%v.Compare(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSizeCostModelCountsHoles(t *testing.T) {
	m := SizeCostModel{}
	lit := &expr.Lit{Val: value.Int(1)}
	hole := &expr.Hole{Typ: types.Int{}}
	plain := m.Cost(lit)
	withHole := m.Cost(hole)
	if withHole.Unknowns != 1 {
		t.Fatalf("expected 1 unknown, got %d", withHole.Unknowns)
	}
	if plain.Unknowns != 0 {
		t.Fatalf("expected 0 unknowns on a literal, got %d", plain.Unknowns)
	}
}

func TestWeightedCostModelSurchargesFieldOps(t *testing.T) {
	m := WeightedCostModel{FieldWeight: 3}
	src := &expr.VarRef{V: expr.Var{Name: "b", Typ: types.Handle{Name: "B", Fields: map[string]types.Type{"id": types.Int{}}}}}
	get := expr.NewFieldGet(src, "id")
	c := m.Cost(get)
	if c.Fields != 3 {
		t.Fatalf("expected field weight 3, got %d", c.Fields)
	}
}

func TestMonotonicModelsReportMonotonic(t *testing.T) {
	if !(SizeCostModel{}).IsMonotonic() {
		t.Fatal("SizeCostModel should be monotonic")
	}
	if !(WeightedCostModel{}).IsMonotonic() {
		t.Fatal("WeightedCostModel should be monotonic")
	}
}
