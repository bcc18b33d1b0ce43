package expr

import "strings"

// Compare imposes a total order over expressions, used exclusively to
// canonicalize commutative binary operators (spec.md §4.4, §9): for any
// e1 ⊕ e2 with ⊕ commutative, the builder keeps only the permutation with
// Compare(e1, e2) <= 0. The order itself carries no semantic meaning beyond
// being total and deterministic.
func Compare(a, b Exp) int {
	if a.Kind() != b.Kind() {
		return int(a.Kind()) - int(b.Kind())
	}
	switch x := a.(type) {
	case *Lit:
		return strings.Compare(x.Val.String(), b.(*Lit).Val.String())
	case *VarRef:
		return strings.Compare(x.V.Name, b.(*VarRef).V.Name)
	case *Lambda:
		y := b.(*Lambda)
		if c := strings.Compare(x.Param.Name, y.Param.Name); c != 0 {
			return c
		}
		return Compare(x.Body, y.Body)
	case *UnaryOp:
		y := b.(*UnaryOp)
		if c := strings.Compare(x.Op, y.Op); c != 0 {
			return c
		}
		return Compare(x.Operand, y.Operand)
	case *BinaryOp:
		y := b.(*BinaryOp)
		if c := strings.Compare(x.Op, y.Op); c != 0 {
			return c
		}
		if c := Compare(x.Left, y.Left); c != 0 {
			return c
		}
		return Compare(x.Right, y.Right)
	case *Empty:
		y := b.(*Empty)
		return strings.Compare(x.Typ.String(), y.Typ.String())
	case *Singleton:
		return Compare(x.Elem, b.(*Singleton).Elem)
	case *Hole:
		return strings.Compare(x.ID, b.(*Hole).ID)
	case *Aggregate:
		y := b.(*Aggregate)
		if x.Op != y.Op {
			return int(x.Op) - int(y.Op)
		}
		return Compare(x.Source, y.Source)
	case *TupleGet:
		y := b.(*TupleGet)
		if x.Index != y.Index {
			return x.Index - y.Index
		}
		return Compare(x.Source, y.Source)
	case *FieldGet:
		y := b.(*FieldGet)
		if c := strings.Compare(x.Field, y.Field); c != 0 {
			return c
		}
		return Compare(x.Source, y.Source)
	default:
		return compareChildren(a, b)
	}
}

// compareChildren handles node kinds whose ordering is fully determined by
// their children list (Collection, Filter, MapOp, FlatMap, MapGet,
// MapConstruct, TupleLit): compare lengths, then lexicographically.
func compareChildren(a, b Exp) int {
	ac, bc := a.Children(), b.Children()
	if len(ac) != len(bc) {
		return len(ac) - len(bc)
	}
	for i := range ac {
		if c := Compare(ac[i], bc[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether a sorts strictly before b under Compare.
func Less(a, b Exp) bool { return Compare(a, b) < 0 }
