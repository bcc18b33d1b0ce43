package expr

import (
	"fmt"
	"strings"

	"github.com/cozysynth/cozy/internal/types"
)

// MapGet looks up Key in Source (a Map-typed expression), returning the
// zero value of the map's value type when Key is absent.
type MapGet struct {
	Source Exp
	Key    Exp
}

func (g *MapGet) Kind() Kind { return KindMapGet }
func (g *MapGet) Type() types.Type {
	return g.Source.Type().(types.Map).Val
}
func (g *MapGet) Children() []Exp { return []Exp{g.Source, g.Key} }
func (g *MapGet) Rebuild(c []Exp) Exp {
	return &MapGet{Source: c[0], Key: c[1]}
}
func (g *MapGet) String() string {
	return fmt.Sprintf("%s[%s]", g.Source.String(), g.Key.String())
}

// MapConstruct builds a Map from Source (a bag/set) by keying each element
// with KeyFn and valuing it with ValFn — the representation the synthesizer
// reaches for when it replaces a linear filter with an indexed lookup
// (spec.md §8 seed scenario 3).
type MapConstruct struct {
	Source       Exp
	KeyFn, ValFn *Lambda
}

func (m *MapConstruct) Kind() Kind { return KindMapConstruct }
func (m *MapConstruct) Type() types.Type {
	return types.Map{Key: m.KeyFn.Body.Type(), Val: m.ValFn.Body.Type()}
}
func (m *MapConstruct) Children() []Exp { return []Exp{m.Source, m.KeyFn, m.ValFn} }
func (m *MapConstruct) Rebuild(c []Exp) Exp {
	return &MapConstruct{Source: c[0], KeyFn: c[1].(*Lambda), ValFn: c[2].(*Lambda)}
}
func (m *MapConstruct) String() string {
	return fmt.Sprintf("mapConstruct(%s, %s, %s)", m.Source.String(), m.KeyFn.String(), m.ValFn.String())
}

// TupleLit builds a fixed-arity tuple.
type TupleLit struct {
	Elems []Exp
}

func (t *TupleLit) Kind() Kind { return KindTuple }
func (t *TupleLit) Type() types.Type {
	ts := make([]types.Type, len(t.Elems))
	for i, e := range t.Elems {
		ts[i] = e.Type()
	}
	return types.Tuple{Elems: ts}
}
func (t *TupleLit) Children() []Exp { return t.Elems }
func (t *TupleLit) Rebuild(c []Exp) Exp {
	return &TupleLit{Elems: c}
}
func (t *TupleLit) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TupleGet projects element Index out of a tuple-typed Source.
type TupleGet struct {
	Source Exp
	Index  int
}

func (g *TupleGet) Kind() Kind { return KindTupleGet }
func (g *TupleGet) Type() types.Type {
	return g.Source.Type().(types.Tuple).Elems[g.Index]
}
func (g *TupleGet) Children() []Exp { return []Exp{g.Source} }
func (g *TupleGet) Rebuild(c []Exp) Exp {
	return &TupleGet{Source: c[0], Index: g.Index}
}
func (g *TupleGet) String() string {
	return fmt.Sprintf("%s.%d", g.Source.String(), g.Index)
}

// FieldGet projects a named field out of a Handle- or Record-typed Source
// (e.g. `b.id`). FieldType must be supplied by the constructor since it
// cannot always be recovered from Source's declared type alone (a Handle's
// Fields map may be nil when the handle's schema wasn't declared to the
// caller, e.g. in a test fixture) — when it can be recovered, NewFieldGet
// validates consistency.
type FieldGet struct {
	Source    Exp
	Field     string
	FieldType types.Type
}

func (g *FieldGet) Kind() Kind       { return KindFieldGet }
func (g *FieldGet) Type() types.Type { return g.FieldType }
func (g *FieldGet) Children() []Exp  { return []Exp{g.Source} }
func (g *FieldGet) Rebuild(c []Exp) Exp {
	return &FieldGet{Source: c[0], Field: g.Field, FieldType: g.FieldType}
}
func (g *FieldGet) String() string {
	return fmt.Sprintf("%s.%s", g.Source.String(), g.Field)
}

// NewFieldGet constructs a FieldGet, resolving FieldType from source's
// declared Handle/Record schema when available.
func NewFieldGet(source Exp, field string) *FieldGet {
	var ft types.Type
	switch t := source.Type().(type) {
	case types.Handle:
		ft = t.Fields[field]
	case types.Record:
		ft = t.Fields[field]
	}
	return &FieldGet{Source: source, Field: field, FieldType: ft}
}
