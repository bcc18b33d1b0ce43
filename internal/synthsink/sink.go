// Package synthsink implements spec.md §9's `testcase_sink: optional
// writer` configuration knob: a place to durably record accepted
// rewrites and the counter-examples discovered while verifying them, so a
// later run (or a human) can inspect what the search actually tried.
package synthsink

import (
	"time"

	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
)

// Sink receives synthesis events. Implementations must tolerate being
// called from a single goroutine only (the Driver's own), matching the
// rest of this module's single-writer concurrency model (spec.md §5).
type Sink interface {
	RecordRewrite(jobID string, from, to expr.Exp, fromCost, toCost cost.Cost, at time.Time) error
	RecordCounterExample(jobID string, ex example.Example, at time.Time) error
	Close() error
}

// NopSink discards every event — the default when no testcase_sink is
// configured.
type NopSink struct{}

func (NopSink) RecordRewrite(string, expr.Exp, expr.Exp, cost.Cost, cost.Cost, time.Time) error {
	return nil
}
func (NopSink) RecordCounterExample(string, example.Example, time.Time) error { return nil }
func (NopSink) Close() error                                                 { return nil }
