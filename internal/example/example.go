// Package example implements the Example type (a concrete binding from
// variable name to value, used for fingerprinting) and the binder
// instantiation/expansion logic of spec.md §4.2.
package example

import (
	"sort"

	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

// Example is a total assignment from variable name to concrete value.
type Example map[string]value.Value

// Clone returns a shallow copy of ex (values are treated as immutable).
func (ex Example) Clone() Example {
	out := make(Example, len(ex))
	for k, v := range ex {
		out[k] = v
	}
	return out
}

// With returns a copy of ex extended with name bound to val.
func (ex Example) With(name string, val value.Value) Example {
	out := ex.Clone()
	out[name] = val
	return out
}

// Get returns the value bound to v.Name, or the zero value of v.Typ
// (spec.md §4.2's `mkval`) if ex has no binding for it — this is how the
// evaluator supplies a deterministic value for a binder that the caller's
// examples never bound.
func Get(ex Example, v expr.Var) value.Value {
	if val, ok := ex[v.Name]; ok {
		return val
	}
	return value.Zero(v.Typ)
}

// Set is an ordered collection of examples. Order matters only for
// determinism of Fingerprint tuples and diagnostic output, never for
// semantics.
type Set struct {
	Examples []Example
}

// Append returns a new Set with ex appended.
func (s Set) Append(ex Example) Set {
	out := Set{Examples: make([]Example, len(s.Examples), len(s.Examples)+1)}
	copy(out.Examples, s.Examples)
	out.Examples = append(out.Examples, ex)
	return out
}

// ExpandForBinder expands every example in s into one-or-more examples for
// binder b: for each example, and for every free state/parameter variable
// in that example whose value is a Bag/Set of b.Typ, emit one derived
// example per distinct element with b bound to that element. If no
// collection in the example yields any element of b.Typ, emit a single
// fallback example with b bound to value.Zero(b.Typ). Calling ExpandForBinder
// once per binder, left-to-right, is how the Learner multiplicatively
// expands the example set to fingerprint fragments that mention N binders
// (spec.md §4.2).
func ExpandForBinder(s Set, b expr.Var) Set {
	out := Set{Examples: make([]Example, 0, len(s.Examples))}
	for _, ex := range s.Examples {
		elems := collectElementsOfType(ex, b.Typ)
		if len(elems) == 0 {
			out.Examples = append(out.Examples, ex.With(b.Name, value.Zero(b.Typ)))
			continue
		}
		for _, elem := range elems {
			out.Examples = append(out.Examples, ex.With(b.Name, elem))
		}
	}
	return out
}

// collectElementsOfType returns every distinct (by Equal) element of type t
// found across every Bag/Set value bound in ex, in a deterministic order:
// variables by name, then each collection's element order.
func collectElementsOfType(ex Example, t types.Type) []value.Value {
	var out []value.Value
	seen := func(v value.Value) bool {
		for _, o := range out {
			if o.Equal(v) {
				return true
			}
		}
		return false
	}
	names := make([]string, 0, len(ex))
	for name := range ex {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := ex[name]
		var elems []value.Value
		switch coll := v.(type) {
		case value.Bag:
			if coll.Elem != nil && coll.Elem.Equal(t) {
				elems = coll.Elements
			}
		case value.Set:
			if coll.Elem != nil && coll.Elem.Equal(t) {
				elems = coll.Elements
			}
		}
		for _, e := range elems {
			if !seen(e) {
				out = append(out, e)
			}
		}
	}
	return out
}
