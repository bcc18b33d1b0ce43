package builder

import (
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/verifier"
)

// EliminateIrrelevantVars wraps base to reject any Lambda whose bound
// parameter the oracle can prove does not affect the body's result —
// spec.md §4.4's "variable elimination": a filter predicate or map
// function that provably ignores its own argument is a wasted binder, and
// the search should never propose it (the constant-equivalent production
// with no Lambda at all will already be reachable through another path).
func EliminateIrrelevantVars(o verifier.Oracle) func(Builder) Builder {
	return func(base Builder) Builder {
		return &varElim{base: base, oracle: o}
	}
}

type varElim struct {
	base   Builder
	oracle verifier.Oracle
}

func (v *varElim) Build(c *cache.Cache, t types.Type, size int) ([]expr.Exp, error) {
	raw, err := v.base.Build(c, t, size)
	if err != nil {
		return nil, err
	}
	out := raw[:0:0]
	for _, e := range raw {
		if v.relevant(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (v *varElim) relevant(e expr.Exp) bool {
	lam := lambdaIn(e)
	if lam == nil {
		return true
	}
	if !expr.ContainsFreeVar(lam.Body, lam.Param.Name) {
		// Syntactically does not mention the binder at all — irrelevant
		// without needing the oracle.
		return false
	}
	// Syntactically mentions it, but may still be provably constant in it
	// (e.g. `b == b`): fresh(param') != param, body[param:=param'] == body.
	fresh := expr.Var{Name: lam.Param.Name + "$alt", Typ: lam.Param.Typ}
	substituted := expr.Subst(lam.Body, lam.Param, &expr.VarRef{V: fresh})
	eq := &expr.BinaryOp{Op: "==", Left: lam.Body, Right: substituted}
	valid, err := v.oracle.Valid(eq)
	if err != nil {
		return true // cannot decide: do not reject on an unproven claim
	}
	return !valid
}

func lambdaIn(e expr.Exp) *expr.Lambda {
	switch x := e.(type) {
	case *expr.Filter:
		return x.Pred
	case *expr.MapOp:
		return x.Fn
	case *expr.FlatMap:
		return x.Fn
	default:
		return nil
	}
}
