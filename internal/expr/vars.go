package expr

// FreeVars returns the set of free variables in e (state/parameter vars and
// any binder not bound by an enclosing Lambda within e), de-duplicated by
// name, in first-occurrence order.
func FreeVars(e Exp) []Var {
	var order []Var
	seen := map[string]bool{}
	var walk func(e Exp, bound map[string]bool)
	walk = func(e Exp, bound map[string]bool) {
		if e == nil {
			return
		}
		if ref, ok := e.(*VarRef); ok {
			if !bound[ref.V.Name] && !seen[ref.V.Name] {
				seen[ref.V.Name] = true
				order = append(order, ref.V)
			}
			return
		}
		if lam, ok := e.(*Lambda); ok {
			next := make(map[string]bool, len(bound)+1)
			for k := range bound {
				next[k] = true
			}
			next[lam.Param.Name] = true
			walk(lam.Body, next)
			return
		}
		for _, c := range e.Children() {
			walk(c, bound)
		}
	}
	walk(e, map[string]bool{})
	return order
}

// ContainsFreeVar reports whether name appears free anywhere in e.
func ContainsFreeVar(e Exp, name string) bool {
	for _, v := range FreeVars(e) {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Subst returns e with every free occurrence of v replaced by replacement.
// Lambdas whose parameter shadows v stop the substitution from descending
// further on that branch (ordinary lexical shadowing); since every Lambda
// the Learner ever builds binds a pool-supplied binder disjoint from any
// state/parameter variable name, capture cannot occur in practice.
func Subst(e Exp, v Var, replacement Exp) Exp {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *VarRef:
		if x.V.Name == v.Name {
			return replacement
		}
		return x
	case *Lambda:
		if x.Param.Name == v.Name {
			return x
		}
		return &Lambda{Param: x.Param, Body: Subst(x.Body, v, replacement)}
	default:
		children := e.Children()
		if len(children) == 0 {
			return e
		}
		newChildren := make([]Exp, len(children))
		changed := false
		for i, c := range children {
			nc := Subst(c, v, replacement)
			newChildren[i] = nc
			if nc != c {
				changed = true
			}
		}
		if !changed {
			return e
		}
		return e.Rebuild(newChildren)
	}
}

// AllExps returns every sub-expression of e, including e itself, in
// preorder (parent before children).
func AllExps(e Exp) []Exp {
	if e == nil {
		return nil
	}
	out := []Exp{e}
	for _, c := range e.Children() {
		out = append(out, AllExps(c)...)
	}
	return out
}

// Size returns the node count of e (used as the enumeration-budget "size"
// of spec.md §3/§4.5 — every sub-expression, including leaves, counts 1).
func Size(e Exp) int {
	if e == nil {
		return 0
	}
	n := 1
	for _, c := range e.Children() {
		n += Size(c)
	}
	return n
}
