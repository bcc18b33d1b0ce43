package learner

import (
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/eval"
	"github.com/cozysynth/cozy/internal/expr"
)

// seenEntry records, for one fingerprint, the cheapest expression observed
// so far and its cost — the Seen table of spec.md §4.5, kept coherent with
// the Cache at all times (every insertion/eviction touches both together).
type seenEntry struct {
	Exp  expr.Exp
	Cost cost.Cost
	Pool cache.Pool
}

// seenTable maps a fingerprint key to its cheapest known representative.
type seenTable struct {
	entries map[string]seenEntry
}

func newSeenTable() *seenTable {
	return &seenTable{entries: make(map[string]seenEntry)}
}

func seenKey(pool cache.Pool, fp eval.Fingerprint) string {
	return pool.String() + "#" + fp.Key()
}

func (s *seenTable) lookup(pool cache.Pool, fp eval.Fingerprint) (seenEntry, bool) {
	e, ok := s.entries[seenKey(pool, fp)]
	return e, ok
}

func (s *seenTable) put(pool cache.Pool, fp eval.Fingerprint, e seenEntry) {
	s.entries[seenKey(pool, fp)] = e
}

func (s *seenTable) remove(pool cache.Pool, fp eval.Fingerprint) {
	delete(s.entries, seenKey(pool, fp))
}

func (s *seenTable) len() int { return len(s.entries) }
