package expr

// Fragment pairs a sub-expression of some root target with the conjunction
// of path-assumptions guarding it and a pure replacement-context function
// that reinserts any same-typed expression back into the whole target
// (spec.md §3 "Watched sub-expression", GLOSSARY "Fragment").
type Fragment struct {
	Sub             Exp
	PathAssumptions []Exp
	Replace         func(newSub Exp) Exp
}

// EnumerateFragments walks target and returns one Fragment per
// sub-expression (including target itself), with path-assumptions
// accumulated from short-circuiting and/or ancestors: the right operand of
// `a and b` is only evaluated when `a` holds, and the right operand of
// `a or b` only when `a` does not. Filter has no special path-assumption
// (the predicate is evaluated, at least notionally, against every element);
// the Learner is responsible for filtering the result by legal free
// variables and skipping bare lambdas, per spec.md §4.5.
func EnumerateFragments(target Exp) []Fragment {
	var frags []Fragment
	var walk func(cur Exp, assumptions []Exp, path []int)
	walk = func(cur Exp, assumptions []Exp, path []int) {
		capturedPath := append([]int(nil), path...)
		capturedAssumptions := append([]Exp(nil), assumptions...)
		frags = append(frags, Fragment{
			Sub:             cur,
			PathAssumptions: capturedAssumptions,
			Replace: func(newSub Exp) Exp {
				return replaceAt(target, capturedPath, newSub)
			},
		})
		children := cur.Children()
		for i, c := range children {
			childAssumptions := assumptions
			if b, ok := cur.(*BinaryOp); ok && i == 1 {
				switch b.Op {
				case "and":
					childAssumptions = append(append([]Exp(nil), assumptions...), b.Left)
				case "or":
					childAssumptions = append(append([]Exp(nil), assumptions...), &UnaryOp{Op: "not", Operand: b.Left})
				}
			}
			walk(c, childAssumptions, append(append([]int(nil), path...), i))
		}
	}
	walk(target, nil, nil)
	return frags
}

func replaceAt(root Exp, path []int, newSub Exp) Exp {
	if len(path) == 0 {
		return newSub
	}
	children := root.Children()
	newChildren := make([]Exp, len(children))
	copy(newChildren, children)
	newChildren[path[0]] = replaceAt(children[path[0]], path[1:], newSub)
	return root.Rebuild(newChildren)
}
