// Package eval implements the concrete interpreter over example
// environments (spec.md §4.2): a total function from (expression, example)
// to value that never diverges on well-typed expressions over finite
// bag/set values, and the fingerprint derivation used to classify
// candidates by observational equivalence.
package eval

import (
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
)

// Eval evaluates e under environment env. A binder free in e but unbound in
// env reads as value.Zero of its declared type (spec.md §4.2's `mkval`),
// rather than panicking — this is what lets Eval stay total.
func Eval(e expr.Exp, env example.Example) value.Value {
	switch x := e.(type) {
	case *expr.Lit:
		return x.Val
	case *expr.VarRef:
		return example.Get(env, x.V)
	case *expr.UnaryOp:
		v := Eval(x.Operand, env)
		switch x.Op {
		case "not":
			return value.Bool(!bool(v.(value.Bool)))
		case "-":
			return value.Int(-int64(v.(value.Int)))
		default:
			panic("eval: unknown unary op " + x.Op)
		}
	case *expr.BinaryOp:
		return evalBinary(x, env)
	case *expr.Empty:
		switch t := x.Typ.(type) {
		case types.Bag:
			return value.Bag{Elem: t.Elem}
		case types.Set:
			return value.Set{Elem: t.Elem}
		default:
			panic("eval: Empty of non-collection type")
		}
	case *expr.Singleton:
		elem := Eval(x.Elem, env)
		return value.Bag{Elem: elem.Type(), Elements: []value.Value{elem}}
	case *expr.Collection:
		elems := evalAll(x.Elems, env)
		switch t := x.Typ.(type) {
		case types.Set:
			return value.Set{Elem: t.Elem, Elements: dedupValues(elems)}
		default:
			bt := x.Typ.(types.Bag)
			return value.Bag{Elem: bt.Elem, Elements: elems}
		}
	case *expr.Filter:
		src := Eval(x.Source, env)
		var kept []value.Value
		for _, el := range elements(src) {
			if bool(applyLambda(x.Pred, el, env).(value.Bool)) {
				kept = append(kept, el)
			}
		}
		return rebuildLike(src, kept)
	case *expr.MapOp:
		src := Eval(x.Source, env)
		out := make([]value.Value, 0, len(elements(src)))
		for _, el := range elements(src) {
			out = append(out, applyLambda(x.Fn, el, env))
		}
		return value.Bag{Elem: x.Fn.Body.Type(), Elements: out}
	case *expr.FlatMap:
		src := Eval(x.Source, env)
		var out []value.Value
		for _, el := range elements(src) {
			out = append(out, elements(applyLambda(x.Fn, el, env))...)
		}
		return value.Bag{Elem: types.ElemType(x.Fn.Body.Type()), Elements: out}
	case *expr.Aggregate:
		return evalAggregate(x, env)
	case *expr.MapGet:
		m := Eval(x.Source, env).(value.Map)
		k := Eval(x.Key, env)
		return m.Get(k, value.Zero(m.ValType))
	case *expr.MapConstruct:
		src := Eval(x.Source, env)
		out := value.Map{KeyType: x.KeyFn.Body.Type(), ValType: x.ValFn.Body.Type()}
		for _, el := range elements(src) {
			k := applyLambda(x.KeyFn, el, env)
			v := applyLambda(x.ValFn, el, env)
			out = out.Put(k, v)
		}
		return out
	case *expr.TupleLit:
		return value.Tuple{Elems: evalAll(x.Elems, env)}
	case *expr.TupleGet:
		t := Eval(x.Source, env).(value.Tuple)
		return t.Elems[x.Index]
	case *expr.FieldGet:
		src := Eval(x.Source, env)
		switch v := src.(type) {
		case value.Handle:
			if f, ok := v.Field(x.Field); ok {
				return f
			}
		case value.Record:
			if f, ok := v.Fields[x.Field]; ok {
				return f
			}
		}
		return value.Zero(x.FieldType)
	case *expr.Hole:
		// A Hole should never survive into a final emission; evaluated
		// defensively as its type's zero value so a stray Hole cannot
		// crash the search.
		return value.Zero(x.Typ)
	case *expr.Lambda:
		panic("eval: Lambda evaluated outside of its consuming node (Filter/Map/FlatMap/MapConstruct)")
	default:
		panic("eval: unhandled expression node")
	}
}

func evalAll(es []expr.Exp, env example.Example) []value.Value {
	out := make([]value.Value, len(es))
	for i, e := range es {
		out[i] = Eval(e, env)
	}
	return out
}

func applyLambda(lam *expr.Lambda, arg value.Value, env example.Example) value.Value {
	return Eval(lam.Body, env.With(lam.Param.Name, arg))
}

func elements(v value.Value) []value.Value {
	switch c := v.(type) {
	case value.Bag:
		return c.Elements
	case value.Set:
		return c.Elements
	default:
		panic("eval: expected a bag or set value")
	}
}

func rebuildLike(src value.Value, kept []value.Value) value.Value {
	switch c := src.(type) {
	case value.Bag:
		return value.Bag{Elem: c.Elem, Elements: kept}
	case value.Set:
		return value.Set{Elem: c.Elem, Elements: kept}
	default:
		panic("eval: expected a bag or set value")
	}
}

func dedupValues(vs []value.Value) []value.Value {
	var out []value.Value
	for _, v := range vs {
		dup := false
		for _, o := range out {
			if o.Equal(v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func evalBinary(x *expr.BinaryOp, env example.Example) value.Value {
	if x.Op == "and" {
		if !bool(Eval(x.Left, env).(value.Bool)) {
			return value.Bool(false)
		}
		return Eval(x.Right, env)
	}
	if x.Op == "or" {
		if bool(Eval(x.Left, env).(value.Bool)) {
			return value.Bool(true)
		}
		return Eval(x.Right, env)
	}

	l := Eval(x.Left, env)
	r := Eval(x.Right, env)
	switch x.Op {
	case "==":
		return value.Bool(l.Equal(r))
	case "!=":
		return value.Bool(!l.Equal(r))
	case "+":
		return value.Int(int64(l.(value.Int)) + int64(r.(value.Int)))
	case "-":
		return value.Int(int64(l.(value.Int)) - int64(r.(value.Int)))
	case "*":
		return value.Int(int64(l.(value.Int)) * int64(r.(value.Int)))
	case "/":
		rv := int64(r.(value.Int))
		if rv == 0 {
			// spec.md §4.2: division by zero returns the type's zero
			// value rather than failing.
			return value.Int(0)
		}
		return value.Int(int64(l.(value.Int)) / rv)
	case "<":
		return value.Bool(int64(l.(value.Int)) < int64(r.(value.Int)))
	case "<=":
		return value.Bool(int64(l.(value.Int)) <= int64(r.(value.Int)))
	case ">":
		return value.Bool(int64(l.(value.Int)) > int64(r.(value.Int)))
	case ">=":
		return value.Bool(int64(l.(value.Int)) >= int64(r.(value.Int)))
	case "in":
		for _, el := range elements(r) {
			if el.Equal(l) {
				return value.Bool(true)
			}
		}
		return value.Bool(false)
	default:
		panic("eval: unknown binary op " + x.Op)
	}
}

func evalAggregate(x *expr.Aggregate, env example.Example) value.Value {
	src := Eval(x.Source, env)
	els := elements(src)
	switch x.Op {
	case expr.AggSum:
		var sum int64
		for _, e := range els {
			sum += int64(e.(value.Int))
		}
		return value.Int(sum)
	case expr.AggLen:
		return value.Int(len(els))
	case expr.AggThe:
		// the-one-element: spec.md §4.2 returns the zero value rather
		// than failing on the empty or non-singleton case; the builder
		// adapter chain (internal/builder) is what actually forbids
		// `the` from being proposed unless the grammar can prove
		// |xs| <= 1, so in practice this only fires during fingerprint
		// evaluation of a candidate that hasn't been filtered yet.
		if len(els) == 1 {
			return els[0]
		}
		return value.Zero(types.ElemType(x.Source.Type()))
	case expr.AggMin:
		if len(els) == 0 {
			return value.Zero(types.ElemType(x.Source.Type()))
		}
		min := int64(els[0].(value.Int))
		for _, e := range els[1:] {
			if v := int64(e.(value.Int)); v < min {
				min = v
			}
		}
		return value.Int(min)
	case expr.AggMax:
		if len(els) == 0 {
			return value.Zero(types.ElemType(x.Source.Type()))
		}
		max := int64(els[0].(value.Int))
		for _, e := range els[1:] {
			if v := int64(e.(value.Int)); v > max {
				max = v
			}
		}
		return value.Int(max)
	case expr.AggAny:
		return value.Bool(len(els) > 0)
	case expr.AggEmpty:
		return value.Bool(len(els) == 0)
	case expr.AggDistinct:
		return value.Set{Elem: types.ElemType(x.Source.Type()), Elements: dedupValues(els)}
	default:
		panic("eval: unknown aggregate op")
	}
}
