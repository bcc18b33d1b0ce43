package eval

import (
	"testing"

	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

func intVar(name string) expr.Var { return expr.Var{Name: name, Typ: types.Int{}} }

func TestEvalArithmeticAndDivByZero(t *testing.T) {
	env := example.Example{}
	add := &expr.BinaryOp{Op: "+", Left: &expr.Lit{Val: value.Int(2)}, Right: &expr.Lit{Val: value.Int(3)}}
	if got := Eval(add, env); got != value.Int(5) {
		t.Fatalf("expected 2+3=5, got %v", got)
	}
	div := &expr.BinaryOp{Op: "/", Left: &expr.Lit{Val: value.Int(7)}, Right: &expr.Lit{Val: value.Int(0)}}
	if got := Eval(div, env); got != value.Int(0) {
		t.Fatalf("expected division by zero to evaluate to 0, got %v", got)
	}
}

func TestEvalVarRefFallsBackToZero(t *testing.T) {
	env := example.Example{}
	ref := &expr.VarRef{V: intVar("x")}
	if got := Eval(ref, env); got != value.Int(0) {
		t.Fatalf("expected unbound var to evaluate to zero value, got %v", got)
	}
}

func TestEvalFilterKeepsMatchingElements(t *testing.T) {
	env := example.Example{}
	xs := &expr.Lit{Val: value.Bag{Elem: types.Int{}, Elements: []value.Value{value.Int(1), value.Int(2), value.Int(3)}}}
	pred := &expr.Lambda{Param: intVar("b0"), Body: &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: intVar("b0")}, Right: &expr.Lit{Val: value.Int(1)}}}
	f := &expr.Filter{Source: xs, Pred: pred}
	got := Eval(f, env).(value.Bag)
	if len(got.Elements) != 2 {
		t.Fatalf("expected 2 elements > 1, got %d", len(got.Elements))
	}
}

func TestEvalAggregateSumLenThe(t *testing.T) {
	env := example.Example{}
	bag := &expr.Lit{Val: value.Bag{Elem: types.Int{}, Elements: []value.Value{value.Int(3), value.Int(4)}}}
	sum := &expr.Aggregate{Op: expr.AggSum, Source: bag}
	if got := Eval(sum, env); got != value.Int(7) {
		t.Fatalf("expected sum=7, got %v", got)
	}
	ln := &expr.Aggregate{Op: expr.AggLen, Source: bag}
	if got := Eval(ln, env); got != value.Int(2) {
		t.Fatalf("expected len=2, got %v", got)
	}

	single := &expr.Lit{Val: value.Bag{Elem: types.Int{}, Elements: []value.Value{value.Int(9)}}}
	the := &expr.Aggregate{Op: expr.AggThe, Source: single}
	if got := Eval(the, env); got != value.Int(9) {
		t.Fatalf("expected the singleton value 9, got %v", got)
	}
	// Non-singleton: the falls back to zero rather than panicking.
	notSingle := &expr.Aggregate{Op: expr.AggThe, Source: bag}
	if got := Eval(notSingle, env); got != value.Int(0) {
		t.Fatalf("expected the-of-non-singleton to fall back to zero, got %v", got)
	}
}

func TestEvalMapConstructAndMapGet(t *testing.T) {
	env := example.Example{}
	xs := &expr.Lit{Val: value.Bag{Elem: types.Int{}, Elements: []value.Value{value.Int(1), value.Int(2)}}}
	keyFn := &expr.Lambda{Param: intVar("b0"), Body: &expr.VarRef{V: intVar("b0")}}
	valFn := &expr.Lambda{Param: intVar("b0"), Body: &expr.BinaryOp{Op: "*", Left: &expr.VarRef{V: intVar("b0")}, Right: &expr.Lit{Val: value.Int(10)}}}
	mc := &expr.MapConstruct{Source: xs, KeyFn: keyFn, ValFn: valFn}
	m := Eval(mc, env).(value.Map)

	get := &expr.MapGet{Source: &expr.Lit{Val: m}, Key: &expr.Lit{Val: value.Int(2)}}
	if got := Eval(get, env); got != value.Int(20) {
		t.Fatalf("expected map[2]=20, got %v", got)
	}
	missing := &expr.MapGet{Source: &expr.Lit{Val: m}, Key: &expr.Lit{Val: value.Int(99)}}
	if got := Eval(missing, env); got != value.Int(0) {
		t.Fatalf("expected missing key to return zero value, got %v", got)
	}
}

func TestEvalFieldGetOnHandle(t *testing.T) {
	env := example.Example{}
	h := value.Handle{TypeName: "Account", ID: "1", Fields: map[string]value.Value{"balance": value.Int(42)}}
	fg := &expr.FieldGet{Source: &expr.Lit{Val: h}, Field: "balance", FieldType: types.Int{}}
	if got := Eval(fg, env); got != value.Int(42) {
		t.Fatalf("expected balance=42, got %v", got)
	}
}

func TestEvalHoleIsDefensiveZero(t *testing.T) {
	env := example.Example{}
	h := &expr.Hole{Typ: types.Int{}, ID: "h1"}
	if got := Eval(h, env); got != value.Int(0) {
		t.Fatalf("expected Hole to evaluate defensively to zero, got %v", got)
	}
}
