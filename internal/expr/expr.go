// Package expr implements the Exp algebra of the synthesizer: an immutable,
// typed expression tree together with structural equality, a total order
// (for canonicalizing commutative operators), substitution, free-variable
// analysis, and fragment enumeration. Every node kind carries its own type
// annotation rather than requiring a side-table, mirroring the teacher
// language's Accept/Visitor-bearing AST nodes (internal/ast in funxy) but
// closed over the synthesis grammar of spec.md §3 instead of a
// general-purpose language's surface syntax.
package expr

import "github.com/cozysynth/cozy/internal/types"

// Kind identifies an Exp's node variety, mirroring the concrete Go type;
// this enum exists for fast dispatch in hot paths (cache tagging,
// commutative-op detection) that would otherwise need a type switch.
type Kind int

const (
	KindLit Kind = iota
	KindVar
	KindLambda
	KindUnaryOp
	KindBinaryOp
	KindEmpty
	KindSingleton
	KindCollection
	KindFilter
	KindMap
	KindFlatMap
	KindAggregate
	KindMapGet
	KindMapConstruct
	KindTuple
	KindTupleGet
	KindFieldGet
	KindHole
)

// Exp is the interface implemented by every expression node. Node is value
// typed: two expressions are "the same" exactly when Equal reports true, and
// expressions may be freely duplicated, shared, or rebuilt without regard to
// identity (§9 "Cyclic or shared expression references").
type Exp interface {
	Kind() Kind
	Type() types.Type
	// Children returns the node's direct sub-expressions, in a fixed,
	// deterministic order. Lambda's single child is its Body; the bound
	// Var is not itself a child.
	Children() []Exp
	// Rebuild returns a copy of this node with Children() replaced by
	// newChildren (same length and order as Children()). Used by the
	// generic rewrite helpers (Subst, fragment replacement, binder
	// canonicalization).
	Rebuild(newChildren []Exp) Exp
	String() string
}

// AggKind enumerates the aggregate operators available to Aggregate nodes.
type AggKind int

const (
	AggSum AggKind = iota
	AggLen
	AggThe
	AggMin
	AggMax
	AggAny
	AggEmpty // true iff the source bag/set is empty
	AggDistinct
)

func (k AggKind) String() string {
	switch k {
	case AggSum:
		return "sum"
	case AggLen:
		return "len"
	case AggThe:
		return "the"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggAny:
		return "any"
	case AggEmpty:
		return "empty"
	case AggDistinct:
		return "distinct"
	default:
		return "?"
	}
}
