package learner

import (
	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/eval"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
)

// watchedExpr is the quintuple of spec.md §3/§4.5: a sub-expression of the
// current target, the replacement-context that reinserts a same-typed
// candidate in its place, the sub-expression's own cost, its masked
// fingerprint, and the guard-mask of examples where its path-assumptions
// hold. The outer refinement loop watches these so that whenever the
// bottom-up enumerator produces something fingerprint-equal (on the masked
// positions) and strictly cheaper, it can immediately propose
// target.Replace(cheaper) as a new candidate target without waiting for
// the whole target to be re-derived from scratch.
type watchedExpr struct {
	Sub             expr.Exp
	Replace         func(newSub expr.Exp) expr.Exp
	Cost            cost.Cost
	Fingerprint     eval.Fingerprint
	Mask            []bool
	PathAssumptions []expr.Exp
}

// watchTarget builds the watch list for target: every fragment of target
// except bare lambdas, in EnumerateFragments order. Fragments are not
// filtered by their free variables; one that mentions a binder bound
// elsewhere in target is watched like any other.
func watchTarget(target expr.Exp, examples example.Set, model interface {
	Cost(expr.Exp) cost.Cost
}) []watchedExpr {
	frags := expr.EnumerateFragments(target)
	out := make([]watchedExpr, 0, len(frags))
	for _, f := range frags {
		if f.Sub.Kind() == expr.KindLambda {
			continue
		}
		mask := eval.Mask(f.PathAssumptions, examples)
		out = append(out, watchedExpr{
			Sub:             f.Sub,
			Replace:         f.Replace,
			Cost:            model.Cost(f.Sub),
			Fingerprint:     eval.ComputeMasked(f.Sub, examples, mask),
			Mask:            mask,
			PathAssumptions: f.PathAssumptions,
		})
	}
	return out
}
