package builder

import (
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
)

// LambdaSource supplies candidate lambda bodies for Filter/MapOp/FlatMap
// productions. Lambda bodies are synthesized by a separate, nested instance
// of the search over the bound parameter, with its own cache —
// internal/synth's nestedLambdaSource runs that nested search and satisfies
// this interface, so Grammar itself stays free of search-loop concerns.
type LambdaSource interface {
	Lambdas(paramType, resultType types.Type, totalSize int) []*expr.Lambda
}

// Grammar is the base Builder: every production rule of spec.md §4.1,
// combining already-cached pieces into a candidate of exactly the
// requested (type, size). It never itself filters for usefulness — that
// is the adapter chain's job (semantic.go, vars.go).
type Grammar struct {
	Lambdas LambdaSource
	// Schemas maps a Handle/Record type name to its field schema, used by
	// FieldGet production to know which field names are legal for a given
	// source type.
	Schemas map[string]map[string]types.Type
}

func (g *Grammar) Build(c *cache.Cache, t types.Type, size int) ([]expr.Exp, error) {
	var out []expr.Exp
	out = append(out, g.buildUnary(c, t, size)...)
	out = append(out, g.buildBinary(c, t, size)...)
	out = append(out, g.buildAggregate(c, t, size)...)
	out = append(out, g.buildMapGet(c, t, size)...)
	out = append(out, g.buildTupleGet(c, t, size)...)
	out = append(out, g.buildFieldGet(c, t, size)...)
	out = append(out, g.buildFilter(c, t, size)...)
	out = append(out, g.buildMapOp(c, t, size)...)
	out = append(out, g.buildFlatMap(c, t, size)...)
	out = append(out, g.buildMapConstruct(c, t, size)...)
	return out, nil
}

// childSizes returns every (s1, s2) with s1+s2 == total, s1,s2 >= 1 — the
// standard bottom-up size-split for a two-child node.
func childSizes(total int) [][2]int {
	var out [][2]int
	for s1 := 1; s1 < total; s1++ {
		out = append(out, [2]int{s1, total - s1})
	}
	return out
}

func (g *Grammar) buildUnary(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 2 {
		return nil
	}
	var out []expr.Exp
	switch t.(type) {
	case types.Bool:
		for _, e := range c.FindAtSize(cache.StatePool, types.Bool{}, size-1) {
			out = append(out, &expr.UnaryOp{Op: "not", Operand: e.Exp})
		}
	case types.Int:
		for _, e := range c.FindAtSize(cache.StatePool, types.Int{}, size-1) {
			out = append(out, &expr.UnaryOp{Op: "-", Operand: e.Exp})
		}
	}
	return out
}

var arithOps = []string{"+", "-", "*", "/"}
var intCompareOps = []string{"<", "<=", ">", ">="}
var boolOps = []string{"and", "or"}

func (g *Grammar) buildBinary(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 3 {
		return nil
	}
	var out []expr.Exp
	splits := childSizes(size - 1)

	switch t.(type) {
	case types.Int:
		for _, sp := range splits {
			lefts := c.FindAtSize(cache.StatePool, types.Int{}, sp[0])
			rights := c.FindAtSize(cache.StatePool, types.Int{}, sp[1])
			for _, op := range arithOps {
				for _, l := range lefts {
					for _, r := range rights {
						out = append(out, &expr.BinaryOp{Op: op, Left: l.Exp, Right: r.Exp})
					}
				}
			}
		}
	case types.Bool:
		for _, sp := range splits {
			// and/or
			lefts := c.FindAtSize(cache.StatePool, types.Bool{}, sp[0])
			rights := c.FindAtSize(cache.StatePool, types.Bool{}, sp[1])
			for _, op := range boolOps {
				for _, l := range lefts {
					for _, r := range rights {
						out = append(out, &expr.BinaryOp{Op: op, Left: l.Exp, Right: r.Exp})
					}
				}
			}
			// int comparisons
			intLefts := c.FindAtSize(cache.StatePool, types.Int{}, sp[0])
			intRights := c.FindAtSize(cache.StatePool, types.Int{}, sp[1])
			for _, op := range intCompareOps {
				for _, l := range intLefts {
					for _, r := range intRights {
						out = append(out, &expr.BinaryOp{Op: op, Left: l.Exp, Right: r.Exp})
					}
				}
			}
			// == / != over every type present in the cache (both sides
			// the same exact type)
			for _, typName := range c.Types(cache.StatePool) {
				for _, sameSp := range splits {
					ents := c.FindAtSize(cache.StatePool, typeByName(c, typName), sameSp[0])
					otherEnts := c.FindAtSize(cache.StatePool, typeByName(c, typName), sameSp[1])
					for _, op := range []string{"==", "!="} {
						for _, l := range ents {
							for _, r := range otherEnts {
								out = append(out, &expr.BinaryOp{Op: op, Left: l.Exp, Right: r.Exp})
							}
						}
					}
				}
			}
		}
	}
	return out
}

// typeByName recovers a types.Type value from its String() form by
// scanning the cache for the first entry whose type prints as name.
func typeByName(c *cache.Cache, name string) types.Type {
	var found types.Type
	c.Iter(func(_ cache.Pool, e cache.Entry) {
		if found == nil && e.Exp.Type().String() == name {
			found = e.Exp.Type()
		}
	})
	return found
}

// collectionSources returns every cached Bag or Set of exactly size size —
// the cache's tag-level index (spec.md §4.1) answers this directly instead
// of linearly scanning every type string and filtering by IsCollection.
func collectionSources(c *cache.Cache, pool cache.Pool, size int) []cache.Entry {
	out := c.FindByTag(pool, types.TagBag, size)
	out = append(out, c.FindByTag(pool, types.TagSet, size)...)
	return out
}

var aggForResult = map[string][]expr.AggKind{
	"Int":  {expr.AggSum, expr.AggLen, expr.AggMin, expr.AggMax},
	"Bool": {expr.AggAny, expr.AggEmpty},
}

func (g *Grammar) buildAggregate(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 2 {
		return nil
	}
	kinds, ok := aggForResult[t.String()]
	if !ok {
		return nil
	}
	var out []expr.Exp
	c.Iter(func(pool cache.Pool, e cache.Entry) {
		if pool != cache.StatePool || e.Size != size-1 {
			return
		}
		if !types.IsCollection(e.Exp.Type()) {
			return
		}
		for _, k := range kinds {
			agg := &expr.Aggregate{Op: k, Source: e.Exp}
			if agg.Type().Equal(t) {
				out = append(out, agg)
			}
		}
	})
	return out
}

func (g *Grammar) buildMapGet(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 3 {
		return nil
	}
	var out []expr.Exp
	for _, sp := range childSizes(size - 1) {
		c.Iter(func(pool cache.Pool, e cache.Entry) {
			if pool != cache.StatePool || e.Size != sp[0] {
				return
			}
			mt, ok := e.Exp.Type().(types.Map)
			if !ok || !mt.Val.Equal(t) {
				return
			}
			for _, key := range c.FindAtSize(cache.StatePool, mt.Key, sp[1]) {
				out = append(out, &expr.MapGet{Source: e.Exp, Key: key.Exp})
			}
		})
	}
	return out
}

func (g *Grammar) buildTupleGet(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 2 {
		return nil
	}
	var out []expr.Exp
	c.Iter(func(pool cache.Pool, e cache.Entry) {
		if pool != cache.StatePool || e.Size != size-1 {
			return
		}
		tt, ok := e.Exp.Type().(types.Tuple)
		if !ok {
			return
		}
		for i, et := range tt.Elems {
			if et.Equal(t) {
				out = append(out, &expr.TupleGet{Source: e.Exp, Index: i})
			}
		}
	})
	return out
}

func (g *Grammar) buildFieldGet(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 2 {
		return nil
	}
	var out []expr.Exp
	c.Iter(func(pool cache.Pool, e cache.Entry) {
		if pool != cache.StatePool || e.Size != size-1 {
			return
		}
		var fields map[string]types.Type
		switch st := e.Exp.Type().(type) {
		case types.Handle:
			fields = st.Fields
		case types.Record:
			fields = st.Fields
		default:
			return
		}
		for name, ft := range fields {
			if ft.Equal(t) {
				out = append(out, expr.NewFieldGet(e.Exp, name))
			}
		}
	})
	return out
}

// buildFilter produces `filter(source, lambda)` candidates: source must be
// a Bag/Set already in the cache whose element type matches t's element
// type (t itself must be the same collection shape as source, spec.md
// §4.1's Filter signature `Collection<T> -> (T -> Bool) -> Collection<T>`).
func (g *Grammar) buildFilter(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 3 || g.Lambdas == nil {
		return nil
	}
	elemType := types.ElemType(t)
	if elemType == nil {
		return nil
	}
	var out []expr.Exp
	for _, sp := range childSizes(size - 1) {
		for _, src := range c.FindAtSize(cache.StatePool, t, sp[0]) {
			for _, lam := range g.Lambdas.Lambdas(elemType, types.Bool{}, sp[1]) {
				out = append(out, &expr.Filter{Source: src.Exp, Pred: lam})
			}
		}
	}
	return out
}

func (g *Grammar) buildMapOp(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 3 || g.Lambdas == nil {
		return nil
	}
	bagT, ok := t.(types.Bag)
	if !ok {
		return nil
	}
	var out []expr.Exp
	for _, sp := range childSizes(size - 1) {
		for _, src := range collectionSources(c, cache.StatePool, sp[0]) {
			srcElem := types.ElemType(src.Exp.Type())
			for _, lam := range g.Lambdas.Lambdas(srcElem, bagT.Elem, sp[1]) {
				out = append(out, &expr.MapOp{Source: src.Exp, Fn: lam})
			}
		}
	}
	return out
}

func (g *Grammar) buildFlatMap(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 3 || g.Lambdas == nil {
		return nil
	}
	bagT, ok := t.(types.Bag)
	if !ok {
		return nil
	}
	resultCollType := types.Bag{Elem: bagT.Elem}
	var out []expr.Exp
	for _, sp := range childSizes(size - 1) {
		for _, src := range collectionSources(c, cache.StatePool, sp[0]) {
			srcElem := types.ElemType(src.Exp.Type())
			for _, lam := range g.Lambdas.Lambdas(srcElem, resultCollType, sp[1]) {
				out = append(out, &expr.FlatMap{Source: src.Exp, Fn: lam})
			}
		}
	}
	return out
}

func (g *Grammar) buildMapConstruct(c *cache.Cache, t types.Type, size int) []expr.Exp {
	if size < 4 || g.Lambdas == nil {
		return nil
	}
	mt, ok := t.(types.Map)
	if !ok {
		return nil
	}
	var out []expr.Exp
	// split size-1 three ways: source, keyFn, valFn
	for s1 := 1; s1 <= size-3; s1++ {
		for s2 := 1; s2 <= size-1-s1-1; s2++ {
			s3 := size - 1 - s1 - s2
			if s3 < 1 {
				continue
			}
			for _, src := range collectionSources(c, cache.StatePool, s1) {
				srcElem := types.ElemType(src.Exp.Type())
				for _, keyFn := range g.Lambdas.Lambdas(srcElem, mt.Key, s2) {
					for _, valFn := range g.Lambdas.Lambdas(srcElem, mt.Val, s3) {
						out = append(out, &expr.MapConstruct{Source: src.Exp, KeyFn: keyFn, ValFn: valFn})
					}
				}
			}
		}
	}
	return out
}
