package verifier

import (
	"testing"

	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

func xVar() expr.Var { return expr.Var{Name: "x", Typ: types.Int{}} }

func TestValidTautology(t *testing.T) {
	o := New(DefaultConfig())
	x := xVar()
	phi := &expr.BinaryOp{Op: "==", Left: &expr.VarRef{V: x}, Right: &expr.VarRef{V: x}}
	valid, err := o.Valid(phi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid {
		t.Fatalf("x == x should be valid")
	}
}

func TestValidRejectsCounterExample(t *testing.T) {
	o := New(DefaultConfig())
	x := xVar()
	phi := &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: x}, Right: &expr.Lit{Val: value.Int(0)}}
	valid, err := o.Valid(phi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if valid {
		t.Fatalf("x > 0 should not be valid over a domain including non-positive ints")
	}
}

func TestSatisfiable(t *testing.T) {
	o := New(DefaultConfig())
	x := xVar()
	phi := &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: x}, Right: &expr.Lit{Val: value.Int(0)}}
	sat, err := o.Satisfiable(phi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sat {
		t.Fatalf("x > 0 should be satisfiable")
	}
}

func TestSatisfyReturnsWitness(t *testing.T) {
	o := New(DefaultConfig())
	x := xVar()
	phi := &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: x}, Right: &expr.Lit{Val: value.Int(0)}}
	ex, found, err := o.Satisfy(phi, []expr.Var{x})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatalf("expected a witness")
	}
	got, ok := ex["x"].(value.Int)
	if !ok || int64(got) <= 0 {
		t.Fatalf("witness does not satisfy x > 0: %v", ex["x"])
	}
}

func TestUnsatisfiableFormula(t *testing.T) {
	o := New(DefaultConfig())
	x := xVar()
	phi := &expr.BinaryOp{Op: "!=", Left: &expr.VarRef{V: x}, Right: &expr.VarRef{V: x}}
	sat, err := o.Satisfiable(phi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sat {
		t.Fatalf("x != x should never be satisfiable")
	}
}

func TestUnsupportedTypeIsUnknown(t *testing.T) {
	o := New(DefaultConfig())
	m := expr.Var{Name: "m", Typ: types.Map{Key: types.Int{}, Val: types.Int{}}}
	phi := &expr.BinaryOp{
		Op:    "==",
		Left:  &expr.MapGet{Source: &expr.VarRef{V: m}, Key: &expr.Lit{Val: value.Int(0)}},
		Right: &expr.Lit{Val: value.Int(0)},
	}
	_, err := o.Valid(phi)
	if err == nil {
		t.Fatalf("expected ErrUnknown for an unsupported Map domain")
	}
}
