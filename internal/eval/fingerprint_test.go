package eval

import (
	"testing"

	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

func TestComputeFingerprintMatchesPerExampleEval(t *testing.T) {
	x := expr.Var{Name: "x", Typ: types.Int{}}
	e := &expr.BinaryOp{Op: "+", Left: &expr.VarRef{V: x}, Right: &expr.Lit{Val: value.Int(1)}}
	examples := example.Set{Examples: []example.Example{
		{"x": value.Int(1)},
		{"x": value.Int(5)},
	}}
	fp := Compute(e, examples)
	if len(fp.Values) != 2 || fp.Values[0] != value.Int(2) || fp.Values[1] != value.Int(6) {
		t.Fatalf("unexpected fingerprint values %v", fp.Values)
	}
}

func TestFingerprintEqualAndKey(t *testing.T) {
	a := Fingerprint{Type: "Int", Values: []value.Value{value.Int(1), value.Int(2)}}
	b := Fingerprint{Type: "Int", Values: []value.Value{value.Int(1), value.Int(2)}}
	c := Fingerprint{Type: "Int", Values: []value.Value{value.Int(1), value.Int(3)}}
	if !a.Equal(b) {
		t.Fatal("expected identical fingerprints to be Equal")
	}
	if a.Equal(c) {
		t.Fatal("expected differing fingerprints to be unequal")
	}
	if a.Key() != b.Key() {
		t.Fatal("expected identical fingerprints to produce the same Key")
	}
	if a.Key() == c.Key() {
		t.Fatal("expected differing fingerprints to produce different Keys")
	}
}

func TestComputeMaskedRestrictsToMaskedPositions(t *testing.T) {
	x := expr.Var{Name: "x", Typ: types.Int{}}
	e := &expr.VarRef{V: x}
	examples := example.Set{Examples: []example.Example{
		{"x": value.Int(1)},
		{"x": value.Int(2)},
		{"x": value.Int(3)},
	}}
	mask := []bool{true, false, true}
	fp := ComputeMasked(e, examples, mask)
	if len(fp.Values) != 2 || fp.Values[0] != value.Int(1) || fp.Values[1] != value.Int(3) {
		t.Fatalf("expected masked fingerprint [1,3], got %v", fp.Values)
	}
}

func TestMaskEvaluatesPathAssumptionsConjunctively(t *testing.T) {
	x := expr.Var{Name: "x", Typ: types.Bool{}}
	y := expr.Var{Name: "y", Typ: types.Bool{}}
	examples := example.Set{Examples: []example.Example{
		{"x": value.Bool(true), "y": value.Bool(true)},
		{"x": value.Bool(true), "y": value.Bool(false)},
		{"x": value.Bool(false), "y": value.Bool(true)},
	}}
	mask := Mask([]expr.Exp{&expr.VarRef{V: x}, &expr.VarRef{V: y}}, examples)
	want := []bool{true, false, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Fatalf("mask[%d]: got %v, want %v", i, mask[i], want[i])
		}
	}
}
