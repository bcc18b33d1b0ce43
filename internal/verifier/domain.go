package verifier

import (
	"fmt"

	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

// domainFor returns the finite set of concrete values the bounded oracle
// will consider for a variable of type t, or ErrUnknown if t has no
// representable bounded domain under cfg.
func (o *BoundedOracle) domainFor(t types.Type) ([]value.Value, error) {
	switch tt := t.(type) {
	case types.Int:
		return o.intDomain(), nil
	case types.Bool:
		return []value.Value{value.Bool(false), value.Bool(true)}, nil
	case types.Handle:
		return o.handleDomain(tt), nil
	case types.Bag:
		elems, err := o.domainFor(tt.Elem)
		if err != nil {
			return nil, err
		}
		return o.collectionDomain(tt.Elem, elems, false), nil
	case types.Set:
		elems, err := o.domainFor(tt.Elem)
		if err != nil {
			return nil, err
		}
		return o.collectionDomain(tt.Elem, elems, true), nil
	case types.Tuple:
		return o.tupleDomain(tt)
	default:
		return nil, fmt.Errorf("verifier: %w: unsupported type %s", ErrUnknown, t.String())
	}
}

func (o *BoundedOracle) intDomain() []value.Value {
	radius := o.cfg.IntRadius
	if radius == 0 {
		radius = 2
	}
	seen := map[int64]bool{}
	var out []value.Value
	add := func(n int64) {
		if !seen[n] {
			seen[n] = true
			out = append(out, value.Int(n))
		}
	}
	for n := -radius; n <= radius; n++ {
		add(n)
	}
	for _, n := range o.cfg.ExtraInts {
		add(n)
	}
	return out
}

func (o *BoundedOracle) handleDomain(t types.Handle) []value.Value {
	n := o.cfg.HandlePoolSize
	if n == 0 {
		n = 3
	}
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		fields := make(map[string]value.Value, len(t.Fields))
		for name, ft := range t.Fields {
			if _, ok := ft.(types.Int); ok {
				fields[name] = value.Int(i)
				continue
			}
			fields[name] = value.Zero(ft)
		}
		out[i] = value.Handle{
			TypeName: t.Name,
			ID:       fmt.Sprintf("%s#%d", t.Name, i),
			Fields:   fields,
		}
	}
	return out
}

// collectionDomain enumerates every subset of elemDomain up to
// cfg.MaxCollectionSize, as Bag or Set values of element type elemType.
func (o *BoundedOracle) collectionDomain(elemType types.Type, elemDomain []value.Value, asSet bool) []value.Value {
	maxSize := o.cfg.MaxCollectionSize
	if maxSize == 0 {
		maxSize = 2
	}
	if maxSize > len(elemDomain) {
		maxSize = len(elemDomain)
	}
	var out []value.Value
	var subsets [][]value.Value
	var build func(start int, cur []value.Value)
	build = func(start int, cur []value.Value) {
		if len(cur) > 0 {
			subsets = append(subsets, append([]value.Value(nil), cur...))
		}
		if len(cur) == maxSize {
			return
		}
		for i := start; i < len(elemDomain); i++ {
			build(i+1, append(cur, elemDomain[i]))
		}
	}
	build(0, nil)
	subsets = append(subsets, nil) // the empty collection
	for _, s := range subsets {
		if asSet {
			out = append(out, value.Set{Elem: elemType, Elements: s})
		} else {
			out = append(out, value.Bag{Elem: elemType, Elements: s})
		}
	}
	return out
}

// tupleDomain enumerates the cross product of each component's domain. Used
// sparingly: tuples only arise in practice with two or three small
// components (spec.md's worked scenarios never exceed that), so no extra
// cap beyond MaxAssignments is applied here.
func (o *BoundedOracle) tupleDomain(t types.Tuple) ([]value.Value, error) {
	perComponent := make([][]value.Value, len(t.Elems))
	for i, et := range t.Elems {
		d, err := o.domainFor(et)
		if err != nil {
			return nil, err
		}
		perComponent[i] = d
	}
	var out []value.Value
	var build func(idx int, cur []value.Value)
	build = func(idx int, cur []value.Value) {
		if idx == len(perComponent) {
			out = append(out, value.Tuple{Elems: append([]value.Value(nil), cur...)})
			return
		}
		for _, v := range perComponent[idx] {
			build(idx+1, append(cur, v))
		}
	}
	build(0, nil)
	return out, nil
}
