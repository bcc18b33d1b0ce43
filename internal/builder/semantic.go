package builder

import (
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
	"github.com/cozysynth/cozy/internal/verifier"
)

func intLit(n int64) value.Value { return value.Int(n) }

// SemanticFilter wraps base with the four oracle-backed rejections of
// spec.md §4.4: commutative canonical form, set-uniqueness, `the`-safety,
// and "the filter must do something" — each conditioned on the caller's
// assumptions (spec.md §6) via implies(assumptions, phi)/satisfiable(AND(
// assumptions, phi)), matching the original's FixedBuilder. Every check but
// set-uniqueness is a conservative reject on oracle failure
// (verifier.ErrUnknown), consistent with spec.md §7 — when the oracle
// cannot decide, the candidate is dropped rather than risked. A proven
// uniqueness violation is not a reject: it is fatal (see setUniqueOK).
func SemanticFilter(o verifier.Oracle, assumptions expr.Exp) func(Builder) Builder {
	return func(base Builder) Builder {
		return &semanticFilter{base: base, oracle: o, assumptions: assumptions}
	}
}

type semanticFilter struct {
	base        Builder
	oracle      verifier.Oracle
	assumptions expr.Exp
}

func (s *semanticFilter) Build(c *cache.Cache, t types.Type, size int) ([]expr.Exp, error) {
	raw, err := s.base.Build(c, t, size)
	if err != nil {
		return nil, err
	}
	out := raw[:0:0]
	for _, e := range raw {
		if !s.commutativeCanonical(e) {
			continue
		}
		ok, uerr := s.setUniqueOK(e)
		if uerr != nil {
			return nil, uerr
		}
		if !ok {
			continue
		}
		if !s.theSafe(e) {
			continue
		}
		if !s.filterDoesSomething(e) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// commutativeCanonical rejects `a op b` for a commutative op when
// Compare(a, b) > 0 — the mirror-image `b op a` is the canonical form, and
// letting both through would double the search space for no semantic gain
// (spec.md §4.4/§9).
func (s *semanticFilter) commutativeCanonical(e expr.Exp) bool {
	bo, ok := e.(*expr.BinaryOp)
	if !ok || !bo.IsCommutative() {
		return true
	}
	return expr.Compare(bo.Left, bo.Right) <= 0
}

// setUniqueOK checks a Collection-of-Set literal's elements against
// spec.md §4.4 bullet 2 / §7 point 1: valid(implies(assumptions, unique(e))),
// decomposed pairwise since this module has no standalone "unique" node
// (unique(e) holds iff every pair of positions is provably distinct). A
// grammar rule should never hand setUniqueOK a Set literal it cannot prove
// unique — if it does, that is the same "insanity" the original raises an
// unguarded exception for, not a candidate to quietly drop.
func (s *semanticFilter) setUniqueOK(e expr.Exp) (bool, error) {
	coll, ok := e.(*expr.Collection)
	if !ok {
		return true, nil
	}
	if _, isSet := coll.Typ.(types.Set); !isSet {
		return true, nil
	}
	for i := 0; i < len(coll.Elems); i++ {
		for j := i + 1; j < len(coll.Elems); j++ {
			neq := &expr.BinaryOp{Op: "!=", Left: coll.Elems[i], Right: coll.Elems[j]}
			valid, err := s.oracle.Valid(expr.Implies(s.assumptions, neq))
			if err != nil {
				return false, nil // oracle could not decide: conservative reject
			}
			if !valid {
				return false, &UniquenessViolation{Exp: e}
			}
		}
	}
	return true, nil
}

// theSafe rejects an Aggregate{Op: AggThe, Source: src} unless the oracle
// can prove |src| <= 1 given assumptions — spec.md §4.4's "the" is only a
// legal production when single-valuedness is provable, not merely
// observed on the current example set.
func (s *semanticFilter) theSafe(e expr.Exp) bool {
	agg, ok := e.(*expr.Aggregate)
	if !ok || agg.Op != expr.AggThe {
		return true
	}
	lenLE1 := &expr.BinaryOp{
		Op:    "<=",
		Left:  &expr.Aggregate{Op: expr.AggLen, Source: agg.Source},
		Right: &expr.Lit{Val: intLit(1)},
	}
	valid, err := s.oracle.Valid(expr.Implies(s.assumptions, lenLE1))
	if err != nil {
		return false
	}
	return valid
}

// filterDoesSomething rejects filter(src, pred) unless the oracle can find
// some input, consistent with assumptions, where the filtered result
// actually differs from its source — satisfiable(AND(assumptions,
// filter != src)), matching the original's no-op-filter check exactly. A
// predicate that can never remove anything is a no-op wrapper, not a
// genuine rewrite, and letting it through would let the search rediscover
// `src` under a longer name forever.
func (s *semanticFilter) filterDoesSomething(e expr.Exp) bool {
	f, ok := e.(*expr.Filter)
	if !ok {
		return true
	}
	differs := &expr.BinaryOp{Op: "!=", Left: e, Right: f.Source}
	sat, err := s.oracle.Satisfiable(expr.And(s.assumptions, differs))
	if err != nil {
		return false
	}
	return sat
}
