package expr

// Implies builds `not a or b`, the formula every oracle call in spec.md §6
// conditions on: "prove phi given assumptions" is `valid(implies(a, phi))`.
// A nil antecedent (no assumptions supplied) folds away to just b.
func Implies(a, b Exp) Exp {
	if a == nil {
		return b
	}
	return &BinaryOp{Op: "or", Left: &UnaryOp{Op: "not", Operand: a}, Right: b}
}

// And builds `a and b`, used to conjoin assumptions into a satisfiability
// or counter-example query. Either side may be nil (no assumptions); And
// folds a nil operand away rather than emitting a redundant `true and x`.
func And(a, b Exp) Exp {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &BinaryOp{Op: "and", Left: a, Right: b}
}
