package synth

import (
	"github.com/cozysynth/cozy/internal/builder"
	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/learner"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
	"github.com/cozysynth/cozy/internal/verifier"
)

// nestedLambdaSource implements builder.LambdaSource by running a fresh,
// bounded instance of the search (the runtime pool of SPEC_FULL.md §4) over
// exactly the bound parameter, producing candidate lambda bodies for
// Filter/MapOp/FlatMap/MapConstruct. It is nested rather than recursive: the
// inner Grammar is built with no LambdaSource of its own, so a synthesized
// body can never itself contain a Filter/MapOp/FlatMap/MapConstruct — one
// level of lambda nesting covers every scenario SPEC_FULL.md describes, and
// unbounded nesting would make the outer enumeration's size accounting
// untrackable.
type nestedLambdaSource struct {
	oracle    verifier.Oracle
	costModel cost.Model
	// driver is set once the owning Driver is constructed, after this
	// source has already been wired into the builder chain — it is how
	// Lambdas sees the live, CEGIS-grown example set rather than a snapshot
	// frozen at job start.
	driver *learner.Driver
}

// Lambdas returns lambdas over the bound parameter whose bodies, built from
// that parameter and small literals, are typed resultType and have exactly
// bodySize == totalSize-1 nodes (the Lambda node itself accounts for the
// other 1). Only bodies the inner search emits as new or cheaper are
// returned: one body per fingerprint class, and never a size-1 seed, so a
// totalSize of 2 yields no lambdas.
func (ls *nestedLambdaSource) Lambdas(paramType, resultType types.Type, totalSize int) []*expr.Lambda {
	bodySize := totalSize - 1
	if bodySize < 1 || ls.driver == nil {
		return nil
	}
	binder := expr.Var{Name: "b0", Typ: paramType}
	seeds := []expr.Exp{
		&expr.VarRef{V: binder},
		&expr.Lit{Val: value.Int(0)},
		&expr.Lit{Val: value.Int(1)},
		&expr.Lit{Val: value.Bool(true)},
		&expr.Lit{Val: value.Bool(false)},
	}
	switch rt := resultType.(type) {
	case types.Bag:
		seeds = append(seeds, &expr.Empty{Typ: rt})
	case types.Set:
		seeds = append(seeds, &expr.Empty{Typ: rt})
	}

	g := &builder.Grammar{}
	chain := builder.Chain(g,
		builder.CanonicalizeBinders,
		builder.SemanticFilter(ls.oracle, nil),
		builder.EliminateIrrelevantVars(ls.oracle),
	)

	expanded := example.ExpandForBinder(ls.driver.Examples(), binder)
	inner := learner.New(learner.Config{
		CostModel:   ls.costModel,
		CostCeiling: cost.Cost{Size: bodySize},
	}, chain, expanded, seeds)

	var out []*expr.Lambda
	inner.Run(1, func(c learner.Candidate) {
		if c.Exp.Type().String() != resultType.String() || expr.Size(c.Exp) != bodySize {
			return
		}
		out = append(out, &expr.Lambda{Param: binder, Body: c.Exp})
	})
	return out
}
