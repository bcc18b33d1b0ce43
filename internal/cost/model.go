package cost

import "github.com/cozysynth/cozy/internal/expr"

// Model assigns a Cost to an expression and orders pairs of Costs. A Model
// is monotonic (spec.md §4.5 "cost ceiling pruning") when replacing a
// sub-expression with a strictly cheaper one can never make the whole
// expression more expensive — the search loop's transitive-containment
// eviction sweep depends on this holding for whatever Model it is given.
type Model interface {
	Cost(e expr.Exp) Cost
	IsMonotonic() bool
	Compare(a, b Cost) Order
}

// SizeCostModel charges exactly one unit per node (via expr.Size) plus one
// unit per residual Hole, and orders purely by Cost.Compare. It is
// trivially monotonic: growing or shrinking a sub-expression's node count
// changes the whole tree's node count by exactly the same delta.
type SizeCostModel struct{}

func (SizeCostModel) Cost(e expr.Exp) Cost {
	size := expr.Size(e)
	unknowns := countHoles(e)
	return Cost{Size: size, Unknowns: unknowns}
}

func (SizeCostModel) IsMonotonic() bool { return true }

func (SizeCostModel) Compare(a, b Cost) Order { return a.Compare(b) }

// WeightedCostModel additionally surcharges FieldGet/MapGet/indexed
// operations by FieldWeight, modeling that a field or map lookup is more
// expensive at runtime than a bare structural node of the same count —
// ported from cozy/cost_model.py's per-operator weighting, generalized to
// the ordered Cost tuple instead of a weighted float sum so that the
// Unknowns component still dominates comparisons lexicographically.
type WeightedCostModel struct {
	FieldWeight int
}

func (m WeightedCostModel) Cost(e expr.Exp) Cost {
	size := expr.Size(e)
	unknowns := countHoles(e)
	fields := countFieldOps(e)
	return Cost{Size: size, Unknowns: unknowns, Fields: fields * max(1, m.FieldWeight)}
}

// IsMonotonic holds because every node contributes a non-negative,
// structurally-local amount to Size/Unknowns/Fields: shrinking any
// sub-expression's count of nodes, holes, or field ops can only shrink (or
// leave unchanged) the whole tree's corresponding component.
func (WeightedCostModel) IsMonotonic() bool { return true }

func (WeightedCostModel) Compare(a, b Cost) Order { return a.Compare(b) }

func countHoles(e expr.Exp) int {
	n := 0
	for _, sub := range expr.AllExps(e) {
		if sub.Kind() == expr.KindHole {
			n++
		}
	}
	return n
}

func countFieldOps(e expr.Exp) int {
	n := 0
	for _, sub := range expr.AllExps(e) {
		switch sub.Kind() {
		case expr.KindFieldGet, expr.KindMapGet, expr.KindTupleGet:
			n++
		}
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
