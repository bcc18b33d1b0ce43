package learner

import (
	"testing"

	"github.com/cozysynth/cozy/internal/builder"
	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
	"github.com/cozysynth/cozy/internal/verifier"
)

// TestNextRewritesAProperSubExpressionNotJustTheWholeTarget reproduces
// spec.md's watched-sub-expression scenario: `not(not(x>0)) and y>0`'s
// double negation is a proper sub-expression of a larger Bool target, not
// the whole target itself. The only way Driver.Next can simplify it is by
// consulting watchTarget's per-fragment replacement contexts (watch.go),
// since the root target's own fingerprint (the conjunction) never matches
// the inner candidate `x>0` alone.
func TestNextRewritesAProperSubExpressionNotJustTheWholeTarget(t *testing.T) {
	o := verifier.New(verifier.DefaultConfig())
	x := expr.Var{Name: "x", Typ: types.Int{}}
	y := expr.Var{Name: "y", Typ: types.Int{}}

	xGt0 := &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: x}, Right: &expr.Lit{Val: value.Int(0)}}
	yGt0 := &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: y}, Right: &expr.Lit{Val: value.Int(0)}}
	doubleNeg := &expr.UnaryOp{Op: "not", Operand: &expr.UnaryOp{Op: "not", Operand: xGt0}}
	target := &expr.BinaryOp{Op: "and", Left: doubleNeg, Right: yGt0}

	seeds := []expr.Exp{
		&expr.VarRef{V: x},
		&expr.VarRef{V: y},
		&expr.Lit{Val: value.Int(0)},
	}
	examples := example.Set{Examples: []example.Example{
		{"x": value.Int(1), "y": value.Int(1)},
		{"x": value.Int(-1), "y": value.Int(-1)},
		{"x": value.Int(0), "y": value.Int(0)},
	}}

	g := &builder.Grammar{}
	chain := builder.Chain(g,
		builder.CanonicalizeBinders,
		builder.SemanticFilter(o, nil),
		builder.EliminateIrrelevantVars(o),
	)
	cfg := Config{CostModel: cost.SizeCostModel{}, CostCeiling: cost.Cost{Size: 8}}
	d := NewDriver(o, chain, cfg, target, seeds, examples, nil)

	improved, err := d.Next()
	if !improved {
		t.Fatalf("expected Driver.Next to simplify the double-negated sub-expression, got improved=false err=%v", err)
	}
	newTarget := d.Target()
	if expr.Size(newTarget) >= expr.Size(target) {
		t.Fatalf("expected a strictly smaller target, got size %d (was %d)", expr.Size(newTarget), expr.Size(target))
	}
	bo, ok := newTarget.(*expr.BinaryOp)
	if !ok || bo.Op != "and" {
		t.Fatalf("expected the rewrite to still be an `and` of two conjuncts, proving the sub-expression (not the whole target) was replaced, got %s", newTarget.String())
	}
}
