package eval

import (
	"strings"

	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/value"
)

// Fingerprint is `(type(e), eval(e, ex_0), eval(e, ex_1), …)` (spec.md §3,
// GLOSSARY). Two expressions with equal fingerprints are treated as
// observationally equivalent on the current example set, pending
// confirmation by the verifier oracle.
type Fingerprint struct {
	Type   string // e.Type().String(); used instead of types.Type for map-key comparability
	Values []value.Value
}

// Key returns a canonical string suitable for use as a map key (the Seen
// table of internal/learner is keyed on exactly this).
func (fp Fingerprint) Key() string {
	var b strings.Builder
	b.WriteString(fp.Type)
	b.WriteByte('|')
	for _, v := range fp.Values {
		b.WriteString(v.String())
		b.WriteByte(';')
	}
	return b.String()
}

// Equal reports whether two fingerprints agree on every position.
func (fp Fingerprint) Equal(other Fingerprint) bool {
	if fp.Type != other.Type || len(fp.Values) != len(other.Values) {
		return false
	}
	for i := range fp.Values {
		if !fp.Values[i].Equal(other.Values[i]) {
			return false
		}
	}
	return true
}

// Compute evaluates e under every example in examples, in order, and
// packages the result as a Fingerprint. Callers are responsible for having
// already expanded examples for any binder free in e (internal/example's
// ExpandForBinder), per spec.md §4.2.
func Compute(e expr.Exp, examples example.Set) Fingerprint {
	vals := make([]value.Value, len(examples.Examples))
	for i, ex := range examples.Examples {
		vals[i] = Eval(e, ex)
	}
	return Fingerprint{Type: e.Type().String(), Values: vals}
}

// ComputeMasked is like Compute, but restricted to the example positions
// where mask[i] is true — used to compare a watched sub-expression against
// a candidate only on examples where the sub-expression's path-assumptions
// hold (spec.md §3 "guard-mask").
func ComputeMasked(e expr.Exp, examples example.Set, mask []bool) Fingerprint {
	var vals []value.Value
	for i, ex := range examples.Examples {
		if i < len(mask) && !mask[i] {
			continue
		}
		vals = append(vals, Eval(e, ex))
	}
	return Fingerprint{Type: e.Type().String(), Values: vals}
}

// Mask evaluates every path-assumption in assumptions against every example
// and ANDs them together per-example, producing the guard-mask of spec.md
// §3/§4.5. assumptions referencing a binder that the example set hasn't
// been expanded for read that binder as its zero value per Eval/mkval.
func Mask(assumptions []expr.Exp, examples example.Set) []bool {
	mask := make([]bool, len(examples.Examples))
	for i, ex := range examples.Examples {
		ok := true
		for _, a := range assumptions {
			if !bool(Eval(a, ex).(value.Bool)) {
				ok = false
				break
			}
		}
		mask[i] = ok
	}
	return mask
}
