package builder

import (
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/verifier"
)

// CanElimVar reports whether v is a state variable the search never needs
// to mention directly — spec.md §4.4 item 3, ported from the original's
// can_elim_var. v is eliminable when swapping it for a fresh variable of
// the same type, consistently across both target and assumptions, can
// never change target's value:
//
//	valid(implies(assumptions AND assumptions[v:=v'], target == target[v:=v']))
//
// A provably-irrelevant state variable forces the search to express the
// target using only the other free variables and constants — seed
// scenario 6 of spec.md §8 (x+y with x eliminated forces `y + const`
// forms).
func CanElimVar(o verifier.Oracle, target, assumptions expr.Exp, v expr.Var) bool {
	fresh := expr.Var{Name: v.Name + "$elim", Typ: v.Typ}
	freshRef := &expr.VarRef{V: fresh}
	antecedent := expr.And(assumptions, expr.Subst(assumptions, v, freshRef))
	consequent := &expr.BinaryOp{Op: "==", Left: target, Right: expr.Subst(target, v, freshRef)}
	valid, err := o.Valid(expr.Implies(antecedent, consequent))
	if err != nil {
		return false // cannot decide: conservatively keep v legal
	}
	return valid
}

// IllegalVars computes, once per job, the full set of state-eliminable
// variables over free_vars(target) ∪ free_vars(assumptions) — the
// original's `illegal_vars` list, which EliminateStateVars then rejects any
// candidate for mentioning.
func IllegalVars(o verifier.Oracle, target, assumptions expr.Exp) []expr.Var {
	seen := map[string]bool{}
	var vars []expr.Var
	for _, v := range expr.FreeVars(target) {
		if !seen[v.Name] {
			seen[v.Name] = true
			vars = append(vars, v)
		}
	}
	if assumptions != nil {
		for _, v := range expr.FreeVars(assumptions) {
			if !seen[v.Name] {
				seen[v.Name] = true
				vars = append(vars, v)
			}
		}
	}
	var illegal []expr.Var
	for _, v := range vars {
		if CanElimVar(o, target, assumptions, v) {
			illegal = append(illegal, v)
		}
	}
	return illegal
}

// EliminateStateVars wraps base to reject any candidate whose free
// variables intersect illegalVars — the original's VarElimBuilder. This is
// a distinct mechanism from EliminateIrrelevantVars: that rejects a lambda
// that ignores its own bound parameter, while this rejects any candidate
// (lambda or not) that mentions a state variable already known to be
// irrelevant to the whole target.
func EliminateStateVars(illegalVars []expr.Var) func(Builder) Builder {
	illegal := make(map[string]bool, len(illegalVars))
	for _, v := range illegalVars {
		illegal[v.Name] = true
	}
	return func(base Builder) Builder {
		return &stateVarElim{base: base, illegal: illegal}
	}
}

type stateVarElim struct {
	base    Builder
	illegal map[string]bool
}

func (s *stateVarElim) Build(c *cache.Cache, t types.Type, size int) ([]expr.Exp, error) {
	raw, err := s.base.Build(c, t, size)
	if err != nil {
		return nil, err
	}
	if len(s.illegal) == 0 {
		return raw, nil
	}
	out := raw[:0:0]
	for _, e := range raw {
		mentionsIllegal := false
		for _, fv := range expr.FreeVars(e) {
			if s.illegal[fv.Name] {
				mentionsIllegal = true
				break
			}
		}
		if !mentionsIllegal {
			out = append(out, e)
		}
	}
	return out, nil
}
