package example

import (
	"testing"

	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

func TestCloneIsIndependentCopy(t *testing.T) {
	ex := Example{"x": value.Int(1)}
	clone := ex.Clone()
	clone["x"] = value.Int(2)
	if ex["x"] != value.Int(1) {
		t.Fatal("expected Clone to be independent of the original map")
	}
}

func TestWithExtendsWithoutMutatingOriginal(t *testing.T) {
	ex := Example{"x": value.Int(1)}
	ex2 := ex.With("y", value.Int(2))
	if _, ok := ex["y"]; ok {
		t.Fatal("expected With not to mutate the receiver")
	}
	if ex2["x"] != value.Int(1) || ex2["y"] != value.Int(2) {
		t.Fatalf("expected extended example to carry both bindings, got %v", ex2)
	}
}

func TestGetFallsBackToZeroValue(t *testing.T) {
	ex := Example{}
	v := expr.Var{Name: "x", Typ: types.Int{}}
	if got := Get(ex, v); got != value.Int(0) {
		t.Fatalf("expected zero-value fallback for unbound var, got %v", got)
	}
}

func TestSetAppendIsImmutable(t *testing.T) {
	s := Set{}
	s2 := s.Append(Example{"x": value.Int(1)})
	if len(s.Examples) != 0 {
		t.Fatal("expected Append not to mutate the receiver")
	}
	if len(s2.Examples) != 1 {
		t.Fatalf("expected appended set to have 1 example, got %d", len(s2.Examples))
	}
}

func TestExpandForBinderOnePerElement(t *testing.T) {
	ex := Example{"xs": value.Bag{Elem: types.Int{}, Elements: []value.Value{value.Int(1), value.Int(2), value.Int(1)}}}
	s := Set{Examples: []Example{ex}}
	b := expr.Var{Name: "b0", Typ: types.Int{}}
	expanded := ExpandForBinder(s, b)
	if len(expanded.Examples) != 2 {
		t.Fatalf("expected one derived example per distinct element (dedup'd), got %d", len(expanded.Examples))
	}
	for _, e := range expanded.Examples {
		if _, ok := e["b0"]; !ok {
			t.Fatal("expected every derived example to bind b0")
		}
	}
}

func TestExpandForBinderFallsBackWhenNoCollectionMatches(t *testing.T) {
	ex := Example{"n": value.Int(5)}
	s := Set{Examples: []Example{ex}}
	b := expr.Var{Name: "b0", Typ: types.Bool{}}
	expanded := ExpandForBinder(s, b)
	if len(expanded.Examples) != 1 {
		t.Fatalf("expected exactly one fallback example, got %d", len(expanded.Examples))
	}
	if expanded.Examples[0]["b0"] != value.Bool(false) {
		t.Fatalf("expected fallback to bind b0 to zero value, got %v", expanded.Examples[0]["b0"])
	}
}
