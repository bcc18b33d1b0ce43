package builder

import "github.com/cozysynth/cozy/internal/expr"

// UniquenessViolation is fatal: the grammar produced a Set-typed candidate
// whose element expressions the oracle could not prove pairwise distinct
// (under the caller's assumptions), which can only mean a Set-producing
// grammar rule built something it had no business building — matching the
// original's unguarded `raise Exception("insanity: values of ... are not
// distinct")` (original_source/cozy/synthesis/core.py). internal/learner
// does not try to recover from this; it propagates straight out of Run.
type UniquenessViolation struct {
	Exp expr.Exp
}

func (e *UniquenessViolation) Error() string {
	return "builder: insanity: values of " + e.Exp.String() + " are not provably distinct"
}
