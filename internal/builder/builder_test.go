package builder

import (
	"errors"
	"testing"

	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/eval"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
	"github.com/cozysynth/cozy/internal/verifier"
)

func seedInts(c *cache.Cache, vals ...int64) {
	for _, n := range vals {
		e := &expr.Lit{Val: value.Int(n)}
		c.Add(cache.StatePool, e, eval.Fingerprint{Type: "Int", Values: []value.Value{value.Int(n)}})
	}
}

func TestGrammarBuildsBinaryOps(t *testing.T) {
	c := cache.New()
	seedInts(c, 1, 2)
	g := &Grammar{}
	out, err := g.Build(c, types.Int{}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected some Int-typed binary productions at size 3")
	}
	for _, e := range out {
		if _, ok := e.(*expr.BinaryOp); !ok {
			t.Fatalf("expected BinaryOp, got %T", e)
		}
	}
}

func TestCanonicalizeBindersRenamesParams(t *testing.T) {
	c := cache.New()
	base := stubBuilder{results: []expr.Exp{
		&expr.Lambda{
			Param: expr.Var{Name: "weird", Typ: types.Int{}},
			Body:  &expr.VarRef{V: expr.Var{Name: "weird", Typ: types.Int{}}},
		},
	}}
	wrapped := CanonicalizeBinders(base)
	out, err := wrapped.Build(c, types.Int{}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lam := out[0].(*expr.Lambda)
	if lam.Param.Name != "b0" {
		t.Fatalf("expected canonical name b0, got %s", lam.Param.Name)
	}
	ref := lam.Body.(*expr.VarRef)
	if ref.V.Name != "b0" {
		t.Fatalf("expected body to reference renamed param, got %s", ref.V.Name)
	}
}

func TestSemanticFilterRejectsNonCanonicalCommutative(t *testing.T) {
	o := verifier.New(verifier.DefaultConfig())
	c := cache.New()
	a := &expr.Lit{Val: value.Int(5)}
	b := &expr.Lit{Val: value.Int(1)}
	// 5 + 1: Compare(5,1) > 0 so this is non-canonical and should be
	// rejected, while 1 + 5 (Compare <= 0) should survive.
	base := stubBuilder{results: []expr.Exp{
		&expr.BinaryOp{Op: "+", Left: a, Right: b},
		&expr.BinaryOp{Op: "+", Left: b, Right: a},
	}}
	wrapped := SemanticFilter(o, nil)(base)
	out, err := wrapped.Build(c, types.Int{}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 canonical survivor, got %d", len(out))
	}
}

func TestEliminateIrrelevantVarsRejectsConstantLambda(t *testing.T) {
	o := verifier.New(verifier.DefaultConfig())
	c := cache.New()
	param := expr.Var{Name: "b0", Typ: types.Int{}}
	// b0 == b0 never depends on b0's actual value.
	irrelevant := &expr.Filter{
		Source: &expr.VarRef{V: expr.Var{Name: "xs", Typ: types.Bag{Elem: types.Int{}}}},
		Pred:   &expr.Lambda{Param: param, Body: &expr.BinaryOp{Op: "==", Left: &expr.VarRef{V: param}, Right: &expr.VarRef{V: param}}},
	}
	relevant := &expr.Filter{
		Source: &expr.VarRef{V: expr.Var{Name: "xs", Typ: types.Bag{Elem: types.Int{}}}},
		Pred:   &expr.Lambda{Param: param, Body: &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: param}, Right: &expr.Lit{Val: value.Int(0)}}},
	}
	base := stubBuilder{results: []expr.Exp{irrelevant, relevant}}
	wrapped := EliminateIrrelevantVars(o)(base)
	out, err := wrapped.Build(c, types.Bag{Elem: types.Int{}}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected the constant predicate to be eliminated, got %d survivors", len(out))
	}
	if out[0] != relevant {
		t.Fatalf("expected the relevant filter to survive")
	}
}

func TestSetUniqueOKIsFatalNotAReject(t *testing.T) {
	o := verifier.New(verifier.DefaultConfig())
	c := cache.New()
	x := expr.Var{Name: "x", Typ: types.Int{}}
	y := expr.Var{Name: "y", Typ: types.Int{}}
	// {x, y}: x and y range over overlapping bounded domains and are not
	// provably distinct, so a grammar rule that hands this to SemanticFilter
	// as a Set literal has violated the grammar's own uniqueness invariant —
	// this must surface as an error, not silently vanish from the output.
	notProvablyDistinct := &expr.Collection{
		Typ:   types.Set{Elem: types.Int{}},
		Elems: []expr.Exp{&expr.VarRef{V: x}, &expr.VarRef{V: y}},
	}
	base := stubBuilder{results: []expr.Exp{notProvablyDistinct}}
	wrapped := SemanticFilter(o, nil)(base)
	_, err := wrapped.Build(c, types.Set{Elem: types.Int{}}, 3)
	if err == nil {
		t.Fatalf("expected a fatal UniquenessViolation, got no error")
	}
	var uv *UniquenessViolation
	if !errors.As(err, &uv) {
		t.Fatalf("expected *UniquenessViolation, got %T: %v", err, err)
	}
}

func TestSemanticFilterTheSafeRespectsAssumptions(t *testing.T) {
	o := verifier.New(verifier.DefaultConfig())
	c := cache.New()
	xs := expr.Var{Name: "xs", Typ: types.Bag{Elem: types.Int{}}}
	theXs := &expr.Aggregate{Op: expr.AggThe, Source: &expr.VarRef{V: xs}}
	base := stubBuilder{results: []expr.Exp{theXs}}

	wrapped := SemanticFilter(o, nil)(base)
	out, err := wrapped.Build(c, types.Int{}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected `the(xs)` to be rejected with no assumption bounding xs's length, got %d survivors", len(out))
	}

	atMostOne := &expr.BinaryOp{
		Op:    "<=",
		Left:  &expr.Aggregate{Op: expr.AggLen, Source: &expr.VarRef{V: xs}},
		Right: &expr.Lit{Val: value.Int(1)},
	}
	wrappedWithAssumption := SemanticFilter(o, atMostOne)(base)
	out, err = wrappedWithAssumption.Build(c, types.Int{}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected `the(xs)` to survive once len(xs)<=1 is assumed, got %d survivors", len(out))
	}
}

type stubBuilder struct {
	results []expr.Exp
}

func (s stubBuilder) Build(c *cache.Cache, t types.Type, size int) ([]expr.Exp, error) {
	return s.results, nil
}
