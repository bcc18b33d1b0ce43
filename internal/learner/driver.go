package learner

import (
	"errors"

	"github.com/cozysynth/cozy/internal/builder"
	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/eval"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/verifier"
)

// Driver implements the outer counter-example-guided refinement loop of
// spec.md §4.5's "Outer refinement loop": hold a current best target,
// repeatedly ask the Learner for something strictly cheaper and
// observationally equivalent on the current example set, confirm
// equivalence against the oracle over *all* inputs (not just the examples
// seen so far), and on a counter-example grow the example set and restart
// the inner Learner — since every cached fingerprint was computed against
// the smaller, now-stale example set.
type Driver struct {
	oracle   verifier.Oracle
	builders builder.Builder
	cfg      Config
	seeds    []expr.Exp

	target      expr.Exp
	targetC     cost.Cost
	examples    example.Set
	assumptions expr.Exp

	// OnCounterExample, if set, is called with every counter-example the
	// oracle produces while refuting a candidate equivalence — internal/synthsink
	// and internal/synthlog hook this to persist/report them.
	OnCounterExample func(example.Example)
}

// NewDriver starts a Driver with an initial target, seeds (the base
// grammar productions available at size 1), a starting example set —
// typically a handful of examples the caller already has on hand, grown on
// demand as counter-examples are discovered — and the caller's assumptions
// (spec.md §6, may be nil for "no assumptions"), conjoined into every
// equivalence and counter-example query this Driver issues.
func NewDriver(o verifier.Oracle, b builder.Builder, cfg Config, target expr.Exp, seeds []expr.Exp, examples example.Set, assumptions expr.Exp) *Driver {
	return &Driver{
		oracle:      o,
		builders:    b,
		cfg:         cfg,
		seeds:       seeds,
		target:      target,
		targetC:     cfg.CostModel.Cost(target),
		examples:    examples,
		assumptions: assumptions,
	}
}

// Target returns the current best-known expression.
func (d *Driver) Target() expr.Exp { return d.target }

// Examples returns the current, CEGIS-grown example set. A nested
// builder.LambdaSource reads this (via a late-bound reference to its owning
// Driver) so lambda-body synthesis never runs against a stale, smaller
// example set once a counter-example has grown it.
func (d *Driver) Examples() example.Set { return d.examples }

// AddExample folds an externally-discovered counter-example into this
// Driver's example set — used by internal/synth's multi-target round-robin
// scheduler to share one target's counter-example with every other
// target's Driver, so no target has to pay to rediscover it independently.
func (d *Driver) AddExample(ex example.Example) {
	d.examples = d.examples.Append(ex)
}

// Next runs one inner Learner to completion against the current example
// set and target, and returns the best strictly-improving, oracle-verified
// rewrite found (if any). improved is false (with err as
// *NoMoreImprovements) when the search exhausts the cost ceiling without
// finding anything that survives verification.
//
// Every candidate the Learner surfaces is checked against the target's
// watch list (watch.go): the list of every sub-expression of the current
// target, each paired with a replacement-context and the masked
// fingerprint it must match (spec.md §3/§4.5's "watched sub-expression").
// The target itself is always the first entry (EnumerateFragments includes
// the root), so whole-target replacement is just the degenerate case of
// this same mechanism, not a special path — a candidate whose type and
// masked fingerprint match some *proper* sub-expression's watch entry can
// be spliced into that sub-expression's position via its Replace function,
// which is what lets the search rewrite `|filter(xs, p)| > 0` into a form
// nested inside the `> 0` comparison (seed scenario 3) instead of only ever
// proposing same-typed replacements for the whole Bool-typed target.
func (d *Driver) Next() (improved bool, err error) {
	for {
		watch := watchTarget(d.target, d.examples, d.cfg.CostModel)

		// The seeds, plus every watched fragment whose free variables are all
		// free in the target, are cached at size 1 and matched against the
		// watch list directly: Run only emits what the builders produce.
		seeds := append([]expr.Exp(nil), d.seeds...)
		for _, w := range watch {
			closed := true
			for _, v := range expr.FreeVars(w.Sub) {
				closed = closed && expr.ContainsFreeVar(d.target, v.Name)
			}
			if closed {
				seeds = append(seeds, w.Sub)
			}
		}
		l := New(d.cfg, d.builders, d.examples, seeds)
		var bestTarget expr.Exp
		var bestCost cost.Cost
		haveBest := false
		consider := func(newTarget expr.Exp, c cost.Cost) {
			if haveBest && d.cfg.CostModel.Compare(c, bestCost) != cost.Less {
				return
			}
			bestTarget, bestCost, haveBest = newTarget, c, true
		}

		match := func(e expr.Exp, c cost.Cost) {
			for _, w := range watch {
				if e.Type().String() != w.Sub.Type().String() {
					continue
				}
				if d.cfg.CostModel.Compare(c, w.Cost) != cost.Less {
					continue
				}
				if !eval.ComputeMasked(e, d.examples, w.Mask).Equal(w.Fingerprint) {
					continue
				}
				newTarget := w.Replace(e)
				consider(newTarget, d.cfg.CostModel.Cost(newTarget))
			}
		}
		for _, s := range seeds {
			match(s, d.cfg.CostModel.Cost(s))
		}

		runErr := l.Run(1, func(c Candidate) {
			if c.Class != ClassNew && c.Class != ClassBetter {
				return
			}
			match(c.Exp, c.Cost)
		})

		var noMore *NoMoreImprovements
		if runErr != nil && !errors.As(runErr, &noMore) {
			// StopSignal, GrammarInconsistencyError, or a fatal
			// builder.UniquenessViolation: all are terminal and must not be
			// masked just because some candidate was already emitted (and
			// possibly assigned to bestTarget) earlier this same round.
			return false, runErr
		}

		if !haveBest {
			return false, runErr
		}

		equiv := &expr.BinaryOp{Op: "==", Left: d.target, Right: bestTarget}
		valid, verr := d.oracle.Valid(expr.Implies(d.assumptions, equiv))
		if verr != nil {
			// Oracle failure: conservative reject of this candidate
			// (spec.md §7). Treat as no improvement this round rather than
			// propagating the oracle's internal error to the caller.
			return false, &NoMoreImprovements{ExhaustedAtSize: 0}
		}
		if valid {
			d.target = bestTarget
			d.targetC = bestCost
			return true, nil
		}

		// Counter-example: find a concrete input where target != bestTarget
		// and fold it into the example set, then restart the inner search
		// — its cached fingerprints were computed against a now-stale
		// example set and cannot be trusted (spec.md §4.5). The
		// counter-example search itself is conditioned on assumptions too
		// (spec.md §6): a witness outside the assumed input space is not a
		// real refutation.
		neq := &expr.BinaryOp{Op: "!=", Left: d.target, Right: bestTarget}
		vars := expr.FreeVars(d.target)
		witness, found, serr := d.oracle.Satisfy(expr.And(d.assumptions, neq), vars)
		if serr != nil || !found {
			// Could not find or could not decide a counter-example despite
			// the equivalence check failing: treat conservatively as "no
			// improvement" rather than loop forever.
			return false, &NoMoreImprovements{ExhaustedAtSize: 0}
		}
		d.examples = d.examples.Append(witness)
		if d.OnCounterExample != nil {
			d.OnCounterExample(witness)
		}
	}
}

// Run drives Next to completion, returning the final target once
// NoMoreImprovements is reached. Any other error (StopSignal,
// GrammarInconsistencyError) is returned immediately.
func (d *Driver) Run() (expr.Exp, error) {
	for {
		improved, err := d.Next()
		if improved {
			continue
		}
		if err == nil {
			return d.target, nil
		}
		var noMore *NoMoreImprovements
		if errors.As(err, &noMore) {
			return d.target, nil
		}
		return d.target, err
	}
}
