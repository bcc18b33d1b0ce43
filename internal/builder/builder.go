// Package builder implements the enumerator's grammar-production and
// adapter-chain layer of spec.md §4.4: a Builder proposes candidates of a
// given type and size from smaller already-cached pieces, and the adapter
// chain wraps a base Builder with successive filtering passes that reject
// syntactically-legal-but-semantically-useless productions before they
// ever reach the fingerprint/seen-table machinery.
package builder

import (
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
)

// Builder proposes every expression of type t and exact size size that can
// be built by combining entries already present in c. Proposals need not
// be deduplicated or filtered — that is the adapter chain's job. A non-nil
// error is always fatal (see UniquenessViolation): unlike an oracle.ErrUnknown,
// which every adapter treats as a conservative per-candidate reject, an
// error returned from Build aborts the whole search, mirroring the
// original's unguarded `raise Exception` for a disproven grammar invariant.
type Builder interface {
	Build(c *cache.Cache, t types.Type, size int) ([]expr.Exp, error)
}

// Chain composes base with zero or more adapters, each wrapping the
// previous stage's output. Adapters run in the order given, so a cheap
// syntactic pass (e.g. CanonicalizeBinders, which renames binders) should
// precede an oracle-backed rejection
// (SemanticFilter, EliminateIrrelevantVars) — mirroring the teacher's
// compiler-pass chaining, where cheap syntactic passes run before
// semantic ones.
func Chain(base Builder, adapters ...func(Builder) Builder) Builder {
	b := base
	for _, adapt := range adapters {
		b = adapt(b)
	}
	return b
}
