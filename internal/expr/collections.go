package expr

import (
	"fmt"
	"strings"

	"github.com/cozysynth/cozy/internal/types"
)

// Empty is the empty-collection literal (empty-list constructor of spec.md
// §6), typed so that `empty<Bag<Int>>` and `empty<Set<Handle>>` are distinct
// nodes.
type Empty struct {
	Typ types.Type // Bag or Set
}

func (e *Empty) Kind() Kind        { return KindEmpty }
func (e *Empty) Type() types.Type  { return e.Typ }
func (e *Empty) Children() []Exp   { return nil }
func (e *Empty) Rebuild([]Exp) Exp { return e }
func (e *Empty) String() string    { return "empty<" + e.Typ.String() + ">" }

// Singleton builds a one-element bag from Elem.
type Singleton struct {
	Elem Exp
}

func (s *Singleton) Kind() Kind       { return KindSingleton }
func (s *Singleton) Type() types.Type { return types.Bag{Elem: s.Elem.Type()} }
func (s *Singleton) Children() []Exp  { return []Exp{s.Elem} }
func (s *Singleton) Rebuild(c []Exp) Exp {
	return &Singleton{Elem: c[0]}
}
func (s *Singleton) String() string { return "{" + s.Elem.String() + "}" }

// Collection builds a bag or a set from an explicit element list.
type Collection struct {
	Typ   types.Type // Bag{Elem} or Set{Elem}
	Elems []Exp
}

func (c *Collection) Kind() Kind       { return KindCollection }
func (c *Collection) Type() types.Type { return c.Typ }
func (c *Collection) Children() []Exp  { return c.Elems }
func (c *Collection) Rebuild(newC []Exp) Exp {
	return &Collection{Typ: c.Typ, Elems: newC}
}
func (c *Collection) String() string {
	parts := make([]string, len(c.Elems))
	for i, e := range c.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s[%s]", c.Typ.Tag().String(), strings.Join(parts, ", "))
}

// Filter keeps elements of Source for which Pred (a Lambda from the element
// type to Bool) holds.
type Filter struct {
	Source Exp
	Pred   *Lambda
}

func (f *Filter) Kind() Kind       { return KindFilter }
func (f *Filter) Type() types.Type { return f.Source.Type() }
func (f *Filter) Children() []Exp  { return []Exp{f.Source, f.Pred} }
func (f *Filter) Rebuild(c []Exp) Exp {
	return &Filter{Source: c[0], Pred: c[1].(*Lambda)}
}
func (f *Filter) String() string {
	return fmt.Sprintf("filter(%s, %s)", f.Source.String(), f.Pred.String())
}

// MapOp applies Fn to every element of Source, producing a collection of
// Fn's result type (named MapOp to avoid colliding with types.Map).
type MapOp struct {
	Source Exp
	Fn     *Lambda
}

func (m *MapOp) Kind() Kind { return KindMap }
func (m *MapOp) Type() types.Type {
	resultElem := m.Fn.Body.Type()
	switch m.Source.Type().(type) {
	case types.Set:
		return types.Bag{Elem: resultElem} // map over a set is not known to preserve uniqueness
	default:
		return types.Bag{Elem: resultElem}
	}
}
func (m *MapOp) Children() []Exp { return []Exp{m.Source, m.Fn} }
func (m *MapOp) Rebuild(c []Exp) Exp {
	return &MapOp{Source: c[0], Fn: c[1].(*Lambda)}
}
func (m *MapOp) String() string {
	return fmt.Sprintf("map(%s, %s)", m.Source.String(), m.Fn.String())
}

// FlatMap applies Fn (returning a collection) to every element of Source and
// concatenates the results.
type FlatMap struct {
	Source Exp
	Fn     *Lambda
}

func (fm *FlatMap) Kind() Kind { return KindFlatMap }
func (fm *FlatMap) Type() types.Type {
	return types.Bag{Elem: types.ElemType(fm.Fn.Body.Type())}
}
func (fm *FlatMap) Children() []Exp { return []Exp{fm.Source, fm.Fn} }
func (fm *FlatMap) Rebuild(c []Exp) Exp {
	return &FlatMap{Source: c[0], Fn: c[1].(*Lambda)}
}
func (fm *FlatMap) String() string {
	return fmt.Sprintf("flatMap(%s, %s)", fm.Source.String(), fm.Fn.String())
}

// Aggregate reduces a bag/set Source to a scalar or element: sum, len, the
// (the-one-element), min, max, any, empty; distinct instead yields a Set of
// the element type.
type Aggregate struct {
	Op     AggKind
	Source Exp
}

func (a *Aggregate) Kind() Kind { return KindAggregate }
func (a *Aggregate) Type() types.Type {
	switch a.Op {
	case AggSum, AggLen:
		return types.Int{}
	case AggAny, AggEmpty:
		return types.Bool{}
	case AggThe, AggMin, AggMax:
		return types.ElemType(a.Source.Type())
	case AggDistinct:
		return types.Set{Elem: types.ElemType(a.Source.Type())}
	default:
		panic("expr: unknown aggregate op")
	}
}
func (a *Aggregate) Children() []Exp { return []Exp{a.Source} }
func (a *Aggregate) Rebuild(c []Exp) Exp {
	return &Aggregate{Op: a.Op, Source: c[0]}
}
func (a *Aggregate) String() string {
	return fmt.Sprintf("%s(%s)", a.Op.String(), a.Source.String())
}
