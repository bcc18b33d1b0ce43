// Package value holds the concrete, type-directed runtime representation
// that examples bind variables to and that the evaluator produces. Every
// Value corresponds to exactly one types.Type, mirroring the evaluator's
// Object hierarchy in the teacher language, but closed over cozy's
// synthesis grammar instead of an open dynamically-typed Object interface.
package value

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cozysynth/cozy/internal/types"
)

// Value is implemented by every concrete runtime value.
type Value interface {
	Type() types.Type
	String() string
	// Hash is a structural hash used for multiset/set membership and for
	// building fingerprint keys.
	Hash() uint64
	// Equal reports value equality (not identity).
	Equal(other Value) bool
}

// Int is a concrete integer value.
type Int int64

func (v Int) Type() types.Type { return types.Int{} }
func (v Int) String() string   { return fmt.Sprintf("%d", int64(v)) }
func (v Int) Hash() uint64     { return uint64(v) }
func (v Int) Equal(o Value) bool {
	other, ok := o.(Int)
	return ok && other == v
}

// Bool is a concrete boolean value.
type Bool bool

func (v Bool) Type() types.Type { return types.Bool{} }
func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}
func (v Bool) Hash() uint64 {
	if v {
		return 1
	}
	return 0
}
func (v Bool) Equal(o Value) bool {
	other, ok := o.(Bool)
	return ok && other == v
}

// Handle is an opaque entity reference. Two handles are equal iff their IDs
// and handle-type names match — Fields (the handle's associated record data,
// e.g. {id: 7}) travel with the handle but do not affect its identity.
type Handle struct {
	TypeName string
	ID       string
	Fields   map[string]Value
}

func (v Handle) Type() types.Type {
	var fieldTypes map[string]types.Type
	if len(v.Fields) > 0 {
		fieldTypes = make(map[string]types.Type, len(v.Fields))
		for name, val := range v.Fields {
			fieldTypes[name] = val.Type()
		}
	}
	return types.Handle{Name: v.TypeName, Fields: fieldTypes}
}
func (v Handle) String() string { return fmt.Sprintf("%s#%s", v.TypeName, v.ID) }
func (v Handle) Hash() uint64   { return fnv64(v.TypeName + "#" + v.ID) }
func (v Handle) Equal(o Value) bool {
	other, ok := o.(Handle)
	return ok && other.TypeName == v.TypeName && other.ID == v.ID
}

// Field returns the value bound to name in the handle's associated record,
// or false if the handle has no such field.
func (v Handle) Field(name string) (Value, bool) {
	val, ok := v.Fields[name]
	return val, ok
}

// Bag is an ordered multiset: order is insignificant for equality/hashing but
// retained for deterministic String() output.
type Bag struct {
	Elem     types.Type
	Elements []Value
}

func (v Bag) Type() types.Type { return types.Bag{Elem: v.Elem} }
func (v Bag) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "bag[" + strings.Join(parts, ", ") + "]"
}
func (v Bag) Hash() uint64 {
	var sum uint64
	for _, e := range v.Elements {
		sum += e.Hash() + 1 // commutative combine; +1 avoids zero-sum cancellation
	}
	return sum ^ uint64(len(v.Elements))
}
func (v Bag) Equal(o Value) bool {
	other, ok := o.(Bag)
	if !ok || len(other.Elements) != len(v.Elements) {
		return false
	}
	return multisetEqual(v.Elements, other.Elements)
}

// Set is a duplicate-free collection. Representation invariant (duplicate
// freedom) is enforced by whoever constructs it — the verifier's uniqueness
// check in internal/builder is what prevents ill-formed Set values from
// entering the system.
type Set struct {
	Elem     types.Type
	Elements []Value
}

func (v Set) Type() types.Type { return types.Set{Elem: v.Elem} }
func (v Set) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "set[" + strings.Join(parts, ", ") + "]"
}
func (v Set) Hash() uint64 {
	var sum uint64
	for _, e := range v.Elements {
		sum += e.Hash() + 1
	}
	return sum ^ (uint64(len(v.Elements)) << 1)
}
func (v Set) Equal(o Value) bool {
	other, ok := o.(Set)
	if !ok || len(other.Elements) != len(v.Elements) {
		return false
	}
	return multisetEqual(v.Elements, other.Elements)
}

// Contains reports whether x is a member of the set.
func (v Set) Contains(x Value) bool {
	for _, e := range v.Elements {
		if e.Equal(x) {
			return true
		}
	}
	return false
}

// Map is a total function K -> V; absent keys read as the zero value of V.
type Map struct {
	KeyType types.Type
	ValType types.Type
	Keys    []Value
	Vals    []Value
}

func (v Map) Type() types.Type { return types.Map{Key: v.KeyType, Val: v.ValType} }
func (v Map) String() string {
	parts := make([]string, len(v.Keys))
	for i := range v.Keys {
		parts[i] = fmt.Sprintf("%s => %s", v.Keys[i].String(), v.Vals[i].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v Map) Hash() uint64 {
	var sum uint64
	for i := range v.Keys {
		sum += (v.Keys[i].Hash() * 31) ^ v.Vals[i].Hash()
	}
	return sum
}
func (v Map) Equal(o Value) bool {
	other, ok := o.(Map)
	if !ok || len(other.Keys) != len(v.Keys) {
		return false
	}
	for i, k := range v.Keys {
		idx := other.indexOf(k)
		if idx < 0 || !other.Vals[idx].Equal(v.Vals[i]) {
			return false
		}
	}
	return true
}

func (v Map) indexOf(k Value) int {
	for i, key := range v.Keys {
		if key.Equal(k) {
			return i
		}
	}
	return -1
}

// Get returns the value bound to k, or dflt (the zero value of V) if absent.
func (v Map) Get(k Value, dflt Value) Value {
	if idx := v.indexOf(k); idx >= 0 {
		return v.Vals[idx]
	}
	return dflt
}

// Put returns a new Map with k bound to val, replacing any prior binding.
func (v Map) Put(k, val Value) Map {
	out := Map{KeyType: v.KeyType, ValType: v.ValType}
	out.Keys = append(out.Keys, v.Keys...)
	out.Vals = append(out.Vals, v.Vals...)
	if idx := out.indexOf(k); idx >= 0 {
		out.Vals[idx] = val
		return out
	}
	out.Keys = append(out.Keys, k)
	out.Vals = append(out.Vals, val)
	return out
}

// Tuple is a fixed-arity heterogeneous product value.
type Tuple struct {
	Elems []Value
}

func (v Tuple) Type() types.Type {
	ts := make([]types.Type, len(v.Elems))
	for i, e := range v.Elems {
		ts[i] = e.Type()
	}
	return types.Tuple{Elems: ts}
}
func (v Tuple) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (v Tuple) Hash() uint64 {
	var h uint64 = 17
	for _, e := range v.Elems {
		h = h*31 + e.Hash()
	}
	return h
}
func (v Tuple) Equal(o Value) bool {
	other, ok := o.(Tuple)
	if !ok || len(other.Elems) != len(v.Elems) {
		return false
	}
	for i := range v.Elems {
		if !v.Elems[i].Equal(other.Elems[i]) {
			return false
		}
	}
	return true
}

// Record is a named product value.
type Record struct {
	Name   string
	Fields map[string]Value
}

func (v Record) Type() types.Type {
	fieldTypes := make(map[string]types.Type, len(v.Fields))
	for name, val := range v.Fields {
		fieldTypes[name] = val.Type()
	}
	return types.Record{Name: v.Name, Fields: fieldTypes}
}
func (v Record) String() string {
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, v.Fields[name].String())
	}
	return fmt.Sprintf("%s{%s}", v.Name, strings.Join(parts, ", "))
}
func (v Record) Hash() uint64 {
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var h uint64 = 19
	for _, name := range names {
		h = h*31 + fnv64(name)
		h = h*31 + v.Fields[name].Hash()
	}
	return h
}
func (v Record) Equal(o Value) bool {
	other, ok := o.(Record)
	if !ok || other.Name != v.Name || len(other.Fields) != len(v.Fields) {
		return false
	}
	for name, val := range v.Fields {
		otherVal, ok := other.Fields[name]
		if !ok || !val.Equal(otherVal) {
			return false
		}
	}
	return true
}

func multisetEqual(a, b []Value) bool {
	used := make([]bool, len(b))
	for _, av := range a {
		found := false
		for j, bv := range b {
			if used[j] {
				continue
			}
			if av.Equal(bv) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func fnv64(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// Zero returns the canonical zero value for t (the `mkval` of spec.md §4.2):
// 0 for Int, false for Bool, the empty-ID handle for Handle, the empty
// bag/set/map for collections, a tuple/record of zero-valued fields for
// products.
func Zero(t types.Type) Value {
	switch typ := t.(type) {
	case types.Int:
		return Int(0)
	case types.Bool:
		return Bool(false)
	case types.Handle:
		var fields map[string]Value
		if len(typ.Fields) > 0 {
			fields = make(map[string]Value, len(typ.Fields))
			for name, ft := range typ.Fields {
				fields[name] = Zero(ft)
			}
		}
		return Handle{TypeName: typ.Name, ID: "", Fields: fields}
	case types.Bag:
		return Bag{Elem: typ.Elem}
	case types.Set:
		return Set{Elem: typ.Elem}
	case types.Map:
		return Map{KeyType: typ.Key, ValType: typ.Val}
	case types.Tuple:
		elems := make([]Value, len(typ.Elems))
		for i, et := range typ.Elems {
			elems[i] = Zero(et)
		}
		return Tuple{Elems: elems}
	case types.Record:
		fields := make(map[string]Value, len(typ.Fields))
		for name, ft := range typ.Fields {
			fields[name] = Zero(ft)
		}
		return Record{Name: typ.Name, Fields: fields}
	default:
		panic(fmt.Sprintf("value.Zero: unhandled type %T", t))
	}
}
