package synth

import (
	"testing"

	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

func TestDriverFindsFilterOverItsOwnBinder(t *testing.T) {
	xs := expr.Var{Name: "xs", Typ: types.Bag{Elem: types.Int{}}}
	// Target: filter(xs, \b0. b0 > 0 or b0 <= 0) — a predicate that always
	// holds, so the search should be able to simplify it toward `xs` itself
	// (any surviving same-type strictly-cheaper rewrite has passed the outer
	// CEGIS loop's oracle check).
	b0 := expr.Var{Name: "b0", Typ: types.Int{}}
	alwaysTrue := &expr.BinaryOp{
		Op:   "or",
		Left: &expr.BinaryOp{Op: ">", Left: &expr.VarRef{V: b0}, Right: &expr.Lit{Val: value.Int(0)}},
		Right: &expr.BinaryOp{Op: "<=", Left: &expr.VarRef{V: b0}, Right: &expr.Lit{Val: value.Int(0)}},
	}
	target := &expr.Filter{Source: &expr.VarRef{V: xs}, Pred: &expr.Lambda{Param: b0, Body: alwaysTrue}}

	examples := example.Set{Examples: []example.Example{
		{"xs": value.Bag{Elem: types.Int{}, Elements: []value.Value{value.Int(1), value.Int(-1)}}},
	}}

	cfg := DefaultConfig()
	cfg.CostCeiling.Size = 10
	job := NewJob(cfg, TargetSpec{Name: "t", Vars: []expr.Var{xs}, Exp: target}, examples)
	driver := job.Driver()

	if driver.Examples().Examples == nil {
		t.Fatal("expected Driver to retain the job's starting examples")
	}

	improved, err := driver.Next()
	if !improved {
		t.Fatalf("expected at least one strictly-cheaper rewrite of the always-true filter, got improved=false err=%v", err)
	}
	if expr.Size(driver.Target()) >= expr.Size(target) {
		t.Fatalf("expected a strictly smaller rewrite, got size %d (was %d)", expr.Size(driver.Target()), expr.Size(target))
	}
}

// TestRunRoundRobinSimplifiesEveryTarget exercises Job.Drivers/RunRoundRobin
// over two independent targets sharing one example set, each simplifiable
// by the standard "adding zero twice is adding it once" rewrite.
func TestRunRoundRobinSimplifiesEveryTarget(t *testing.T) {
	x := expr.Var{Name: "x", Typ: types.Int{}}
	y := expr.Var{Name: "y", Typ: types.Int{}}
	target1 := &expr.BinaryOp{
		Op:   "+",
		Left: &expr.BinaryOp{Op: "+", Left: &expr.VarRef{V: x}, Right: &expr.Lit{Val: value.Int(0)}},
		Right: &expr.Lit{Val: value.Int(0)},
	}
	target2 := &expr.BinaryOp{
		Op:   "+",
		Left: &expr.BinaryOp{Op: "+", Left: &expr.VarRef{V: y}, Right: &expr.Lit{Val: value.Int(0)}},
		Right: &expr.Lit{Val: value.Int(0)},
	}

	examples := example.Set{Examples: []example.Example{
		{"x": value.Int(3), "y": value.Int(-4)},
	}}

	cfg := DefaultConfig()
	cfg.CostCeiling.Size = 10
	targets := []TargetSpec{
		{Name: "t1", Vars: []expr.Var{x}, Exp: target1},
		{Name: "t2", Vars: []expr.Var{y}, Exp: target2},
	}
	job := NewMultiJob(cfg, targets, examples)
	drivers := job.Drivers()
	if len(drivers) != 2 {
		t.Fatalf("expected one Driver per target, got %d", len(drivers))
	}

	finals, err := RunRoundRobin(drivers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(finals) != 2 {
		t.Fatalf("expected one final expression per target, got %d", len(finals))
	}
	if expr.Size(finals[0]) >= expr.Size(target1) {
		t.Fatalf("expected target1 to shrink, got size %d (was %d)", expr.Size(finals[0]), expr.Size(target1))
	}
	if expr.Size(finals[1]) >= expr.Size(target2) {
		t.Fatalf("expected target2 to shrink, got size %d (was %d)", expr.Size(finals[1]), expr.Size(target2))
	}
}

// TestRunRoundRobinSharesCounterExamplesAcrossTargets isolates the
// onCounter wiring RunRoundRobin installs on every driver: a counter-example
// reported through one target's OnCounterExample must be folded into every
// *other* target's example set, but never re-added to its own originating
// driver. The cost ceiling is forced to zero so the Learner builds nothing
// beyond its size-1 seeds (target2's only rewrite, to the seed `x`, needs
// no search), keeping this test about the scheduler's wiring rather than
// the search itself.
func TestRunRoundRobinSharesCounterExamplesAcrossTargets(t *testing.T) {
	x := expr.Var{Name: "x", Typ: types.Int{}}
	target1 := &expr.VarRef{V: x}
	target2 := &expr.BinaryOp{Op: "+", Left: &expr.VarRef{V: x}, Right: &expr.Lit{Val: value.Int(0)}}

	examples := example.Set{Examples: []example.Example{{"x": value.Int(1)}}}

	cfg := DefaultConfig()
	cfg.CostCeiling.Size = 0
	targets := []TargetSpec{
		{Name: "t1", Vars: []expr.Var{x}, Exp: target1},
		{Name: "t2", Vars: []expr.Var{x}, Exp: target2},
	}
	job := NewMultiJob(cfg, targets, examples)
	drivers := job.Drivers()

	if _, err := RunRoundRobin(drivers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := len(drivers[1].Examples().Examples)
	drivers[0].OnCounterExample(example.Example{"x": value.Int(99)})
	after := len(drivers[1].Examples().Examples)
	if after != before+1 {
		t.Fatalf("expected target1's counter-example to be folded into target2's example set, got %d -> %d", before, after)
	}

	selfBefore := len(drivers[0].Examples().Examples)
	drivers[0].OnCounterExample(example.Example{"x": value.Int(100)})
	if len(drivers[0].Examples().Examples) != selfBefore {
		t.Fatalf("expected onCounter to not re-add the example to its own originating driver")
	}
}
