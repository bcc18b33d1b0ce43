package expr

import "github.com/cozysynth/cozy/internal/value"

// Equal reports structural equality: same node kind, same leaf payload, and
// recursively-equal children. Equal is alpha-*unaware* — use
// AlphaEquivalent for lambda-insensitive comparison, and rely on the
// builder's binder-canonicalization adapter to make Equal coincide with
// alpha-equivalence for any expression the Learner actually enumerates.
func Equal(a, b Exp) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Lit:
		y := b.(*Lit)
		return valuesEqual(x.Val, y.Val)
	case *VarRef:
		y := b.(*VarRef)
		return x.V.Name == y.V.Name && x.V.Typ.Equal(y.V.Typ)
	case *Lambda:
		y := b.(*Lambda)
		return x.Param.Name == y.Param.Name && x.Param.Typ.Equal(y.Param.Typ) && Equal(x.Body, y.Body)
	case *UnaryOp:
		y := b.(*UnaryOp)
		return x.Op == y.Op && Equal(x.Operand, y.Operand)
	case *BinaryOp:
		y := b.(*BinaryOp)
		return x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Empty:
		y := b.(*Empty)
		return x.Typ.Equal(y.Typ)
	case *Singleton:
		y := b.(*Singleton)
		return Equal(x.Elem, y.Elem)
	case *Collection:
		y := b.(*Collection)
		if !x.Typ.Equal(y.Typ) || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Filter:
		y := b.(*Filter)
		return Equal(x.Source, y.Source) && Equal(x.Pred, y.Pred)
	case *MapOp:
		y := b.(*MapOp)
		return Equal(x.Source, y.Source) && Equal(x.Fn, y.Fn)
	case *FlatMap:
		y := b.(*FlatMap)
		return Equal(x.Source, y.Source) && Equal(x.Fn, y.Fn)
	case *Aggregate:
		y := b.(*Aggregate)
		return x.Op == y.Op && Equal(x.Source, y.Source)
	case *MapGet:
		y := b.(*MapGet)
		return Equal(x.Source, y.Source) && Equal(x.Key, y.Key)
	case *MapConstruct:
		y := b.(*MapConstruct)
		return Equal(x.Source, y.Source) && Equal(x.KeyFn, y.KeyFn) && Equal(x.ValFn, y.ValFn)
	case *TupleLit:
		y := b.(*TupleLit)
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *TupleGet:
		y := b.(*TupleGet)
		return x.Index == y.Index && Equal(x.Source, y.Source)
	case *FieldGet:
		y := b.(*FieldGet)
		return x.Field == y.Field && Equal(x.Source, y.Source)
	case *Hole:
		y := b.(*Hole)
		return x.ID == y.ID && x.Typ.Equal(y.Typ)
	default:
		panic("expr.Equal: unhandled node kind")
	}
}

func valuesEqual(a, b value.Value) bool {
	return a.Equal(b)
}

// AlphaEquivalent reports equality up to consistent renaming of lambda
// parameters. It walks both trees in lockstep, extending a renaming
// environment at each Lambda.
func AlphaEquivalent(a, b Exp) bool {
	return alphaEq(a, b, map[string]string{})
}

func alphaEq(a, b Exp, ren map[string]string) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *VarRef:
		y := b.(*VarRef)
		if mapped, ok := ren[x.V.Name]; ok {
			return mapped == y.V.Name && x.V.Typ.Equal(y.V.Typ)
		}
		return x.V.Name == y.V.Name && x.V.Typ.Equal(y.V.Typ)
	case *Lambda:
		y := b.(*Lambda)
		if !x.Param.Typ.Equal(y.Param.Typ) {
			return false
		}
		next := make(map[string]string, len(ren)+1)
		for k, v := range ren {
			next[k] = v
		}
		next[x.Param.Name] = y.Param.Name
		return alphaEq(x.Body, y.Body, next)
	default:
		ac, bc := a.Children(), b.Children()
		if len(ac) != len(bc) {
			return false
		}
		if !leavesEqualIgnoringChildren(a, b) {
			return false
		}
		for i := range ac {
			if !alphaEq(ac[i], bc[i], ren) {
				return false
			}
		}
		return true
	}
}

// leavesEqualIgnoringChildren compares the non-child payload of two nodes of
// the same kind (operator strings, indices, field names, literal values) —
// used by alphaEq, which recurses into children itself under a renaming
// environment rather than delegating to Equal.
func leavesEqualIgnoringChildren(a, b Exp) bool {
	switch x := a.(type) {
	case *Lit:
		return valuesEqual(x.Val, b.(*Lit).Val)
	case *UnaryOp:
		return x.Op == b.(*UnaryOp).Op
	case *BinaryOp:
		return x.Op == b.(*BinaryOp).Op
	case *Empty:
		return x.Typ.Equal(b.(*Empty).Typ)
	case *Singleton:
		return true
	case *Collection:
		y := b.(*Collection)
		return x.Typ.Equal(y.Typ) && len(x.Elems) == len(y.Elems)
	case *Filter, *MapOp, *FlatMap:
		return true
	case *Aggregate:
		return x.Op == b.(*Aggregate).Op
	case *MapGet:
		return true
	case *MapConstruct:
		return true
	case *TupleLit:
		return len(x.Elems) == len(b.(*TupleLit).Elems)
	case *TupleGet:
		return x.Index == b.(*TupleGet).Index
	case *FieldGet:
		return x.Field == b.(*FieldGet).Field
	case *Hole:
		y := b.(*Hole)
		return x.ID == y.ID && x.Typ.Equal(y.Typ)
	default:
		return false
	}
}
