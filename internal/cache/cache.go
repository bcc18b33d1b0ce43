// Package cache implements the expression cache of spec.md §4.4/§9: a
// three-level index — pool, then exact type, then size — holding every
// kept candidate in insertion order within its leaf bucket. The seen table
// used to classify new candidates by fingerprint lives in internal/learner.
package cache

import (
	"sort"

	"math/rand"

	"github.com/cozysynth/cozy/internal/eval"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
)

// Pool distinguishes expressions built only from state/input variables
// (reusable across the whole search) from expressions that additionally
// mention a currently-bound binder (only reusable while that binder is in
// scope) — ported from original_source/cozy/pools.py's STATE_POOL /
// RUNTIME_POOL distinction, folded into SPEC_FULL.md §4's cache design.
type Pool int

const (
	// StatePool holds expressions over only the target's free state
	// variables — eligible for reuse at any point in the search.
	StatePool Pool = iota
	// RuntimePool holds expressions that also mention a bound lambda
	// parameter — eligible for reuse only while building the body of a
	// Filter/Map/FlatMap with a matching parameter in scope.
	RuntimePool
)

func (p Pool) String() string {
	if p == RuntimePool {
		return "runtime"
	}
	return "state"
}

// Entry is one cached candidate, annotated with the size it was kept under
// (expr.Size(Exp) at insertion time — may differ from a later recomputation
// if Exp is ever mutated, which the cache never does).
type Entry struct {
	Exp         expr.Exp
	Size        int
	Fingerprint eval.Fingerprint
}

// Cache is the three-level index: pool -> type key -> size -> ordered
// entries. It is not safe for concurrent use by multiple goroutines without
// external locking (spec.md §5: the learner drives one cache from a single
// goroutine; internal/synth is what may run several independent Drivers,
// each with its own Cache).
type Cache struct {
	buckets map[bucketKey][]Entry
	count   int
}

type bucketKey struct {
	pool Pool
	typ  string
	size int
	// tag is the bucket's outer type constructor (types.Type.Tag()),
	// cached alongside the exact type string so FindByTag can answer a
	// "any collection of size k regardless of element type" query without
	// re-deriving a types.Type from a type string (spec.md §4.1).
	tag types.Tag
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{buckets: make(map[bucketKey][]Entry)}
}

// Add inserts e (of the given pool) into the cache, appending to its
// (pool, type, size) bucket in insertion order.
func (c *Cache) Add(pool Pool, e expr.Exp, fp eval.Fingerprint) {
	key := bucketKey{pool: pool, typ: e.Type().String(), size: expr.Size(e), tag: e.Type().Tag()}
	c.buckets[key] = append(c.buckets[key], Entry{Exp: e, Size: key.size, Fingerprint: fp})
	c.count++
}

// Evict removes every entry in (pool, t) whose fingerprint equals fp —
// used whenever a strictly cheaper equivalent has been found (and, in
// hyper-aggressive-eviction mode, spec.md §4.5, for every cached expression
// containing the dominated one), so dominated candidates do not keep occupying cache slots or getting
// re-proposed as watched sub-expressions.
func (c *Cache) Evict(pool Pool, t types.Type, fp eval.Fingerprint) int {
	evicted := 0
	typ := t.String()
	for key, entries := range c.buckets {
		if key.pool != pool || key.typ != typ {
			continue
		}
		kept := entries[:0:0]
		for _, entry := range entries {
			if entry.Fingerprint.Equal(fp) {
				evicted++
				continue
			}
			kept = append(kept, entry)
		}
		if len(kept) == 0 {
			delete(c.buckets, key)
		} else {
			c.buckets[key] = kept
		}
	}
	c.count -= evicted
	return evicted
}

// Find returns every cached entry of the given pool and exact type, across
// all sizes, in (size, insertion) order — this is what the learner scans
// when looking for an existing candidate with a matching fingerprint.
func (c *Cache) Find(pool Pool, t types.Type) []Entry {
	typ := t.String()
	var sizes []int
	for key := range c.buckets {
		if key.pool == pool && key.typ == typ {
			sizes = append(sizes, key.size)
		}
	}
	sort.Ints(sizes)
	var out []Entry
	for _, size := range sizes {
		out = append(out, c.buckets[bucketKey{pool: pool, typ: typ, size: size, tag: t.Tag()}]...)
	}
	return out
}

// FindAtSize returns the entries at an exact (pool, type, size) bucket —
// the bottom-up enumerator's primary access pattern, since it builds every
// candidate of a given size before moving to size+1.
func (c *Cache) FindAtSize(pool Pool, t types.Type, size int) []Entry {
	return append([]Entry(nil), c.buckets[bucketKey{pool: pool, typ: t.String(), size: size, tag: t.Tag()}]...)
}

// FindByTag returns every entry of the given pool, size, and outer type
// constructor (tag) regardless of the type's arguments — e.g. FindByTag(p,
// TagBag, k) returns every cached Bag<T> of size k for every T seen so far.
// This answers spec.md §4.1's "any collection of size k" query directly,
// without the linear Types()+IsCollection scan the builder previously had
// to fall back to.
func (c *Cache) FindByTag(pool Pool, tag types.Tag, size int) []Entry {
	var out []Entry
	for key, entries := range c.buckets {
		if key.pool == pool && key.size == size && key.tag == tag {
			out = append(out, entries...)
		}
	}
	return out
}

// Types returns every distinct type string present in pool, in
// lexicographic order, for the enumerator's "which type do I combine next"
// scan.
func (c *Cache) Types(pool Pool) []string {
	seen := map[string]bool{}
	for key := range c.buckets {
		if key.pool == pool {
			seen[key.typ] = true
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Iter calls visit for every entry in the cache, in no particular
// cross-bucket order (bucket iteration order follows Go's map order, which
// is intentionally randomized — callers needing determinism should sort
// their own copy).
func (c *Cache) Iter(visit func(Pool, Entry)) {
	for key, entries := range c.buckets {
		for _, e := range entries {
			visit(key.pool, e)
		}
	}
}

// RandomSample returns up to n entries from pool drawn uniformly without
// replacement, using rng — the teacher's preference for stdlib math/rand
// over any sampling library carries over directly (SPEC_FULL.md's ambient
// stack notes).
func (c *Cache) RandomSample(pool Pool, n int, rng *rand.Rand) []Entry {
	var all []Entry
	c.Iter(func(p Pool, e Entry) {
		if p == pool {
			all = append(all, e)
		}
	})
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// Len returns the total number of entries across all pools and buckets.
func (c *Cache) Len() int { return c.count }
