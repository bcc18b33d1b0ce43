package expr

import (
	"fmt"

	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

// Var names a free variable: a state/parameter variable supplied by the
// caller, or a binder drawn from the shared binder pool. The two are
// distinguished by which pool a name was drawn from (internal/example),
// not by any field here — matching spec.md §3's "two flavors distinguished
// by role, not by kind".
type Var struct {
	Name string
	Typ  types.Type
}

func (v Var) String() string { return v.Name }

// Lit is a literal concrete value.
type Lit struct {
	Val value.Value
}

func (l *Lit) Kind() Kind           { return KindLit }
func (l *Lit) Type() types.Type     { return l.Val.Type() }
func (l *Lit) Children() []Exp      { return nil }
func (l *Lit) Rebuild([]Exp) Exp    { return l }
func (l *Lit) String() string       { return l.Val.String() }

// VarRef references a free variable (state/parameter or binder).
type VarRef struct {
	V Var
}

func (r *VarRef) Kind() Kind        { return KindVar }
func (r *VarRef) Type() types.Type  { return r.V.Typ }
func (r *VarRef) Children() []Exp   { return nil }
func (r *VarRef) Rebuild([]Exp) Exp { return r }
func (r *VarRef) String() string    { return r.V.Name }

// Lambda is a one-argument function abstraction. Equality/canonicalization
// of lambdas is alpha-aware: see AlphaEquivalent and the binder-
// canonicalization builder adapter (internal/builder), which rewrites every
// lambda to use a pool-supplied binder so alpha-equivalent lambdas become
// structurally equal.
type Lambda struct {
	Param Var
	Body  Exp
}

func (l *Lambda) Kind() Kind       { return KindLambda }
func (l *Lambda) Type() types.Type { return funcType{Param: l.Param.Typ, Result: l.Body.Type()} }
func (l *Lambda) Children() []Exp  { return []Exp{l.Body} }
func (l *Lambda) Rebuild(c []Exp) Exp {
	return &Lambda{Param: l.Param, Body: c[0]}
}
func (l *Lambda) String() string {
	return fmt.Sprintf("(\\%s. %s)", l.Param.Name, l.Body.String())
}

// funcType is a pseudo-type assigned to Lambda nodes so Type() is total;
// lambdas never appear as a free-standing typed sub-expression the cache
// indexes on (they are always consumed immediately by Filter/Map/FlatMap/
// MapConstruct), so funcType need not participate in the closed lattice of
// internal/types.
type funcType struct {
	Param  types.Type
	Result types.Type
}

func (f funcType) String() string   { return fmt.Sprintf("(%s -> %s)", f.Param.String(), f.Result.String()) }
func (funcType) Tag() types.Tag     { return types.Tag(-1) }
func (f funcType) Equal(o types.Type) bool {
	other, ok := o.(funcType)
	return ok && f.Param.Equal(other.Param) && f.Result.Equal(other.Result)
}

// Hole denotes "unknown expression of this type", used by upstream passes
// (representation inference, incrementalization) to communicate sketchy
// candidates into the search. A Hole never appears in a final emission; the
// Learner treats it as an ordinary typed leaf for enumeration purposes.
type Hole struct {
	Typ types.Type
	ID  string
}

func (h *Hole) Kind() Kind        { return KindHole }
func (h *Hole) Type() types.Type  { return h.Typ }
func (h *Hole) Children() []Exp   { return nil }
func (h *Hole) Rebuild([]Exp) Exp { return h }
func (h *Hole) String() string    { return "??" + h.ID }
