package expr

import (
	"fmt"

	"github.com/cozysynth/cozy/internal/types"
)

// UnaryOp applies a single-operand operator: "-" (negate), "not".
type UnaryOp struct {
	Op      string
	Operand Exp
}

func (u *UnaryOp) Kind() Kind       { return KindUnaryOp }
func (u *UnaryOp) Children() []Exp  { return []Exp{u.Operand} }
func (u *UnaryOp) Rebuild(c []Exp) Exp {
	return &UnaryOp{Op: u.Op, Operand: c[0]}
}
func (u *UnaryOp) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Operand.String()) }
func (u *UnaryOp) Type() types.Type {
	switch u.Op {
	case "not":
		return types.Bool{}
	case "-":
		return types.Int{}
	default:
		panic("expr: unknown unary op " + u.Op)
	}
}

// CommutativeOps is the set of binary operators the builder adapter chain
// canonicalizes (spec.md §4.4): exactly one permutation of each commutative
// pair is ever kept once size > 1.
var CommutativeOps = map[string]bool{
	"==":  true,
	"and": true,
	"or":  true,
	"+":   true,
}

// BinaryOp applies a two-operand operator.
type BinaryOp struct {
	Op          string
	Left, Right Exp
}

func (b *BinaryOp) Kind() Kind      { return KindBinaryOp }
func (b *BinaryOp) Children() []Exp { return []Exp{b.Left, b.Right} }
func (b *BinaryOp) Rebuild(c []Exp) Exp {
	return &BinaryOp{Op: b.Op, Left: c[0], Right: c[1]}
}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// IsCommutative reports whether this node is a commutative binary op in the
// sense of spec.md §4.4's canonicalization filter.
func (b *BinaryOp) IsCommutative() bool { return CommutativeOps[b.Op] }

func (b *BinaryOp) Type() types.Type {
	switch b.Op {
	case "==", "!=", "<", "<=", ">", ">=", "and", "or", "in":
		return types.Bool{}
	case "+", "-", "*", "/":
		return types.Int{}
	default:
		panic("expr: unknown binary op " + b.Op)
	}
}
