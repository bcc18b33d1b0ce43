// Package synthlog implements the progress/diagnostics reporting surface
// of a synthesis run — size-iteration progress, cache growth, evictions,
// rewrites, and discovered counter-examples — routed through a plain
// io.Writer rather than a logging framework, the same way the teacher
// routes all program output through an injected writer instead of a
// structured-logging library.
package synthlog

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/expr"
)

// Logger writes human-readable progress lines to Out. A nil Out is valid
// and makes every method a no-op, so callers that don't want logging never
// need to special-case it.
type Logger struct {
	Out   io.Writer
	start time.Time
}

// New returns a Logger writing to out, with its elapsed-time clock started
// now.
func New(out io.Writer) *Logger {
	return &Logger{Out: out, start: time.Now()}
}

func (l *Logger) printf(format string, args ...any) {
	if l == nil || l.Out == nil {
		return
	}
	fmt.Fprintf(l.Out, "[%s] "+format+"\n", append([]any{time.Since(l.start).Round(time.Millisecond)}, args...)...)
}

// SizeStarted reports that the enumerator has begun producing candidates
// of the given size, and how large the cache is so far.
func (l *Logger) SizeStarted(size, cacheLen int) {
	l.printf("size %d: cache holds %s expressions", size, humanize.Comma(int64(cacheLen)))
}

// Candidate reports one newly-kept candidate and its cost.
func (l *Logger) Candidate(e expr.Exp, class string, c cost.Cost) {
	l.printf("%s candidate (%s): %s", class, c, e.String())
}

// Evicted reports a batch eviction triggered by a cheaper replacement.
func (l *Logger) Evicted(n int, reason string) {
	if n == 0 {
		return
	}
	l.printf("evicted %s candidates (%s)", humanize.Comma(int64(n)), reason)
}

// Rewrite reports that the driver accepted a strictly-cheaper, verified
// target replacement.
func (l *Logger) Rewrite(from, to expr.Exp, fromCost, toCost cost.Cost) {
	l.printf("rewrote target: %s (%s) -> %s (%s)", from.String(), fromCost, to.String(), toCost)
}

// CounterExample reports a counter-example the oracle produced during
// outer-loop refinement, and the resulting example-set size.
func (l *Logger) CounterExample(exampleCount int) {
	l.printf("counter-example found; example set now has %s examples", humanize.Comma(int64(exampleCount)))
}

// Done reports the terminal condition of a synthesis run.
func (l *Logger) Done(reason string) {
	l.printf("search finished: %s (elapsed %s)", reason, humanize.Time(l.start))
}
