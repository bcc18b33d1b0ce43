package builder

import (
	"github.com/cozysynth/cozy/internal/cache"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/types"
)

// CanonicalizeBinders wraps base so that every produced Lambda's parameter
// is renamed to a canonical per-depth name ("b0", "b1", …) — spec.md §4.4's
// "binder canonicalization": two candidates that differ only in their bound
// variable's name must fingerprint identically and must not be proposed as
// distinct candidates.
func CanonicalizeBinders(base Builder) Builder {
	return &canonicalizer{base: base}
}

type canonicalizer struct {
	base Builder
}

func (c *canonicalizer) Build(ch *cache.Cache, t types.Type, size int) ([]expr.Exp, error) {
	raw, err := c.base.Build(ch, t, size)
	if err != nil {
		return nil, err
	}
	out := make([]expr.Exp, len(raw))
	for i, e := range raw {
		out[i] = canonicalize(e, 0)
	}
	return out, nil
}

// canonicalize walks e, renaming every Lambda parameter it finds to the
// depth-indexed canonical name and substituting that name through the
// Lambda's body. depth is the lambda-nesting depth already seen on this
// path, so independently-nested lambdas within one expression still get
// distinct canonical names ("b0", "b1", …) rather than colliding.
func canonicalize(e expr.Exp, depth int) expr.Exp {
	if lam, ok := e.(*expr.Lambda); ok {
		name := binderName(depth)
		newParam := expr.Var{Name: name, Typ: lam.Param.Typ}
		renamedBody := expr.Subst(lam.Body, lam.Param, &expr.VarRef{V: newParam})
		return &expr.Lambda{Param: newParam, Body: canonicalize(renamedBody, depth+1)}
	}
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	newChildren := make([]expr.Exp, len(children))
	for i, ch := range children {
		newChildren[i] = canonicalize(ch, depth)
	}
	return e.Rebuild(newChildren)
}

func binderName(depth int) string {
	names := []string{"b0", "b1", "b2", "b3", "b4", "b5"}
	if depth < len(names) {
		return names[depth]
	}
	// Beyond the pooled depth, fall back to a generated name; no grammar
	// production in this module nests lambdas this deep.
	out := "b"
	for i := 0; i <= depth; i++ {
		out += "_"
	}
	return out
}
