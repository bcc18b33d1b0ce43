// Package types defines the closed type lattice over which cozy expressions,
// values, and examples are built: integers, booleans, opaque handles, bags,
// sets, maps, tuples, and user-defined records. There is no inference and no
// type-variable unification — every Exp carries its type directly, and every
// type in the system is one of the constructors below.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every member of the closed lattice.
type Type interface {
	String() string
	// Tag returns the outer type constructor, used by the cache's
	// coarse-grained index (e.g. two distinct bag<T> types share a tag).
	Tag() Tag
	// Equal reports structural equality.
	Equal(other Type) bool
}

// Tag is the outer type constructor, independent of type arguments.
type Tag int

const (
	TagInt Tag = iota
	TagBool
	TagHandle
	TagBag
	TagSet
	TagMap
	TagTuple
	TagRecord
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "Int"
	case TagBool:
		return "Bool"
	case TagHandle:
		return "Handle"
	case TagBag:
		return "Bag"
	case TagSet:
		return "Set"
	case TagMap:
		return "Map"
	case TagTuple:
		return "Tuple"
	case TagRecord:
		return "Record"
	default:
		return "?"
	}
}

// Int is the type of integers.
type Int struct{}

func (Int) String() string   { return "Int" }
func (Int) Tag() Tag         { return TagInt }
func (Int) Equal(o Type) bool {
	_, ok := o.(Int)
	return ok
}

// Bool is the type of booleans.
type Bool struct{}

func (Bool) String() string  { return "Bool" }
func (Bool) Tag() Tag        { return TagBool }
func (Bool) Equal(o Type) bool {
	_, ok := o.(Bool)
	return ok
}

// Handle is an opaque entity reference, distinguished by name (e.g. "Account",
// "Order"). Handles are never constructed by expressions; they only flow
// through variables, bags, sets, and maps. Fields describes the handle's
// associated record schema (e.g. {id: Int}) so that field-get expressions
// like `b.id` can be type-checked without a general record-destructuring
// grammar.
type Handle struct {
	Name   string
	Fields map[string]Type
}

func (h Handle) String() string { return h.Name }
func (Handle) Tag() Tag         { return TagHandle }
func (h Handle) Equal(o Type) bool {
	other, ok := o.(Handle)
	if !ok || other.Name != h.Name || len(other.Fields) != len(h.Fields) {
		return false
	}
	for name, typ := range h.Fields {
		otherTyp, ok := other.Fields[name]
		if !ok || !typ.Equal(otherTyp) {
			return false
		}
	}
	return true
}

// Bag is a multiset of T.
type Bag struct {
	Elem Type
}

func (b Bag) String() string { return fmt.Sprintf("Bag<%s>", b.Elem.String()) }
func (Bag) Tag() Tag         { return TagBag }
func (b Bag) Equal(o Type) bool {
	other, ok := o.(Bag)
	return ok && b.Elem.Equal(other.Elem)
}

// Set is a duplicate-free collection of T.
type Set struct {
	Elem Type
}

func (s Set) String() string { return fmt.Sprintf("Set<%s>", s.Elem.String()) }
func (Set) Tag() Tag         { return TagSet }
func (s Set) Equal(o Type) bool {
	other, ok := o.(Set)
	return ok && s.Elem.Equal(other.Elem)
}

// Map is a total function from K to V (absent keys read as V's zero value).
type Map struct {
	Key Type
	Val Type
}

func (m Map) String() string {
	return fmt.Sprintf("Map<%s, %s>", m.Key.String(), m.Val.String())
}
func (Map) Tag() Tag { return TagMap }
func (m Map) Equal(o Type) bool {
	other, ok := o.(Map)
	return ok && m.Key.Equal(other.Key) && m.Val.Equal(other.Val)
}

// Tuple is a fixed-arity heterogeneous product.
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (Tuple) Tag() Tag { return TagTuple }
func (t Tuple) Equal(o Type) bool {
	other, ok := o.(Tuple)
	if !ok || len(other.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(other.Elems[i]) {
			return false
		}
	}
	return true
}

// Record is a named product with labeled fields, identified by Name so two
// records with the same fields but different names are distinct types.
type Record struct {
	Name   string
	Fields map[string]Type
}

func (r Record) String() string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, r.Fields[name].String())
	}
	return fmt.Sprintf("%s{%s}", r.Name, strings.Join(parts, ", "))
}
func (Record) Tag() Tag { return TagRecord }
func (r Record) Equal(o Type) bool {
	other, ok := o.(Record)
	if !ok || other.Name != r.Name || len(other.Fields) != len(r.Fields) {
		return false
	}
	for name, typ := range r.Fields {
		otherTyp, ok := other.Fields[name]
		if !ok || !typ.Equal(otherTyp) {
			return false
		}
	}
	return true
}

// FieldNames returns the record's field names in sorted order, for
// deterministic iteration.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsCollection reports whether t is a Bag or a Set.
func IsCollection(t Type) bool {
	switch t.(type) {
	case Bag, Set:
		return true
	default:
		return false
	}
}

// ElemType returns the element type of a Bag or Set, or nil otherwise.
func ElemType(t Type) Type {
	switch c := t.(type) {
	case Bag:
		return c.Elem
	case Set:
		return c.Elem
	default:
		return nil
	}
}
