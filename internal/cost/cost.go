// Package cost implements the ordered cost model of spec.md §4.4: costs are
// compared, not subtracted, and a CostModel may decline to order two costs
// at all (Incomparable) rather than fabricate an arbitrary tiebreak.
package cost

import "fmt"

// Order is the three-plus-one-way result of comparing two Costs.
type Order int

const (
	Less Order = iota
	Equal
	Greater
	Incomparable
)

func (o Order) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	case Incomparable:
		return "incomparable"
	default:
		return "unknown"
	}
}

// Cost is an ordered tuple, not a bare float: (Size, Unknowns, Fields).
// Size is the candidate's node count; Unknowns counts residual Holes (a
// fully-concrete expression always beats a partially-concrete one of the
// same size); Fields counts FieldGet/MapGet/indexing operations, which the
// learner's WeightedCostModel penalizes relative to pure structural size —
// ported from original_source/cozy/synthesis/core.py's Cost class.
type Cost struct {
	Size     int
	Unknowns int
	Fields   int
}

func (c Cost) String() string {
	return fmt.Sprintf("Cost(size=%d,unknowns=%d,fields=%d)", c.Size, c.Unknowns, c.Fields)
}

// Compare gives the lexicographic order (Size, then Unknowns, then Fields).
// This ordering is total — it never returns Incomparable — but CostModel.Compare
// may still return Incomparable for cost models that refuse to compare
// across qualitatively different shapes (spec.md §4.4 "Open question").
func (c Cost) Compare(other Cost) Order {
	if c.Size != other.Size {
		return cmpInt(c.Size, other.Size)
	}
	if c.Unknowns != other.Unknowns {
		return cmpInt(c.Unknowns, other.Unknowns)
	}
	if c.Fields != other.Fields {
		return cmpInt(c.Fields, other.Fields)
	}
	return Equal
}

func cmpInt(a, b int) Order {
	if a < b {
		return Less
	}
	if a > b {
		return Greater
	}
	return Equal
}

// Add combines two costs component-wise — used when a CostModel charges a
// fixed surcharge on top of a child's already-computed cost.
func (c Cost) Add(other Cost) Cost {
	return Cost{
		Size:     c.Size + other.Size,
		Unknowns: c.Unknowns + other.Unknowns,
		Fields:   c.Fields + other.Fields,
	}
}
