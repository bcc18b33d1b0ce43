// Package learner implements the core bottom-up search loop of spec.md
// §4.5: enumerate candidates in non-decreasing size order, classify each
// by fingerprint against the seen table (new / duplicate / better /
// worse; an equally-cheap equivalent counts as a duplicate), and surface
// whichever is strictly cheaper than the current target — plus the outer counter-example-guided refinement loop
// (Driver) that drives the Learner against the verifier oracle.
package learner

import (
	"github.com/cozysynth/cozy/internal/builder"
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/eval"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
)

// Classification is how a freshly-built candidate relates to what the
// Learner has already seen, per spec.md §4.5.
type Classification int

const (
	// ClassNew: no prior expression shares this fingerprint.
	ClassNew Classification = iota
	// ClassDuplicate: an equally-cheap expression with this fingerprint is
	// already cached; the new one is discarded outright.
	ClassDuplicate
	// ClassWorse: a strictly cheaper expression with this fingerprint is
	// already cached; the new one is discarded outright.
	ClassWorse
	// ClassBetter: the new expression is strictly cheaper than the
	// previously-seen representative of this fingerprint; it replaces it
	// (and, under hyper-aggressive eviction, evicts every cached
	// expression that transitively contains the old representative).
	ClassBetter
)

// StopFunc is the synchronous stop callback of spec.md §5: called once per
// enumerated size tier; returning true halts the search with StopSignal.
type StopFunc func(size int) bool

// Config bounds one Learner run.
type Config struct {
	CostModel           cost.Model
	CostCeiling         cost.Cost
	HyperAggressiveEvict bool
	Stop                StopFunc
}

// Learner owns one (pool-scoped) bottom-up search: its cache, seen table,
// and builder chain. A Driver (driver.go) wraps one Learner per outer
// refinement iteration, discarding and rebuilding it whenever the example
// set grows (spec.md §4.5 "Target update" resets the Learner's cache —
// stale fingerprints computed against the old, smaller example set can no
// longer be trusted).
type Learner struct {
	cfg       Config
	cache     *cache.Cache
	seen      *seenTable
	builders  builder.Builder
	examples  example.Set
	starting  map[string][]expr.Exp // not populated: New inserts the seeds straight into the cache
}

// New constructs a Learner over examples, seeding its cache at size 1 from
// seeds (typically: every free variable of the target, plus small integer
// and boolean literals — spec.md §4.1's base grammar productions).
func New(cfg Config, b builder.Builder, examples example.Set, seeds []expr.Exp) *Learner {
	l := &Learner{
		cfg:      cfg,
		cache:    cache.New(),
		seen:     newSeenTable(),
		builders: b,
		examples: examples,
	}
	for _, s := range seeds {
		l.insert(cache.StatePool, s)
	}
	return l
}

// Cache exposes the underlying expression cache (read-only use expected).
func (l *Learner) Cache() *cache.Cache { return l.cache }

// insert fingerprints e, classifies it, and applies the corresponding
// cache/seen mutation. It returns the classification and, for ClassNew and
// ClassBetter, true — those are the cases worth reporting to a watcher.
func (l *Learner) insert(pool cache.Pool, e expr.Exp) (Classification, bool) {
	fp := eval.Compute(e, l.examples)
	c := l.cfg.CostModel.Cost(e)
	prior, ok := l.seen.lookup(pool, fp)
	if !ok {
		l.cache.Add(pool, e, fp)
		l.seen.put(pool, fp, seenEntry{Exp: e, Cost: c, Pool: pool})
		return ClassNew, true
	}
	switch l.cfg.CostModel.Compare(c, prior.Cost) {
	case cost.Less:
		l.evictClass(pool, e.Type(), fp)
		l.cache.Add(pool, e, fp)
		l.seen.put(pool, fp, seenEntry{Exp: e, Cost: c, Pool: pool})
		return ClassBetter, true
	case cost.Equal:
		return ClassDuplicate, false
	default:
		return ClassWorse, false
	}
}

// evictClass removes the prior representative of fp (and, under
// hyper-aggressive eviction, every cached expression that transitively
// contains it as a sub-expression) from both the cache and the seen table
// together — the fix spec.md §9's open question calls for: a stale seen
// entry must never outlive its cache entry.
func (l *Learner) evictClass(pool cache.Pool, t types.Type, fp eval.Fingerprint) {
	prior, ok := l.seen.lookup(pool, fp)
	if !ok {
		return
	}
	l.cache.Evict(pool, t, fp)
	l.seen.remove(pool, fp)
	if !l.cfg.HyperAggressiveEvict {
		return
	}
	var toRemove []cache.Entry
	l.cache.Iter(func(p cache.Pool, entry cache.Entry) {
		if p != pool {
			return
		}
		if entry.Exp == prior.Exp {
			return
		}
		if expr.Size(entry.Exp) <= expr.Size(prior.Exp) {
			return
		}
		for _, sub := range expr.AllExps(entry.Exp) {
			if expr.Equal(sub, prior.Exp) {
				toRemove = append(toRemove, entry)
				break
			}
		}
	})
	for _, entry := range toRemove {
		entryFP := eval.Compute(entry.Exp, l.examples)
		l.cache.Evict(pool, entry.Exp.Type(), entryFP)
		l.seen.remove(pool, entryFP)
	}
}

// Candidate is one newly-surfaced expression from a Run, annotated with
// its classification and cost.
type Candidate struct {
	Exp   expr.Exp
	Class Classification
	Cost  cost.Cost
}

// Run enumerates candidates of every type present in the seeded cache, in
// non-decreasing size order starting at minSize, up to the configured cost
// ceiling, calling emit for every ClassNew/ClassBetter candidate produced.
// It returns *StopSignal if the stop callback fired, or *NoMoreImprovements
// if the ceiling was exhausted with nothing left to try — both are
// returned as errors so callers use Go's normal errors.As dispatch, but
// NoMoreImprovements is a terminal condition, not a failure (see errors.go).
func (l *Learner) Run(minSize int, emit func(Candidate)) error {
	size := minSize
	for {
		if l.cfg.Stop != nil && l.cfg.Stop(size) {
			return &StopSignal{AtSize: size}
		}
		produced := false
		for _, typName := range l.cache.Types(cache.StatePool) {
			t := representativeType(l.cache, typName)
			if t == nil {
				continue
			}
			cands, berr := l.builders.Build(l.cache, t, size)
			if berr != nil {
				return berr
			}
			for _, cand := range cands {
				if cand.Type().String() != t.String() {
					return &GrammarInconsistencyError{Want: t.String(), Got: cand.Type().String()}
				}
				produced = true
				class, worthReporting := l.insert(cache.StatePool, cand)
				if worthReporting {
					emit(Candidate{Exp: cand, Class: class, Cost: l.cfg.CostModel.Cost(cand)})
				}
			}
		}
		ceilingCost := l.cfg.CostCeiling
		if l.cfg.CostModel.Compare(cost.Cost{Size: size}, ceilingCost) == cost.Greater {
			return &NoMoreImprovements{ExhaustedAtSize: size}
		}
		if !produced && size > minSize+1 {
			// Nothing was built at this size (and the search is past
			// minSize+1): the grammar has no further productions to try
			// below the ceiling.
			return &NoMoreImprovements{ExhaustedAtSize: size}
		}
		size++
	}
}

func representativeType(c *cache.Cache, typName string) types.Type {
	var found types.Type
	c.Iter(func(_ cache.Pool, e cache.Entry) {
		if found == nil && e.Exp.Type().String() == typName {
			found = e.Exp.Type()
		}
	})
	return found
}
