// Package replace implements RHS instantiation under a binding (spec
// component C4), including the variadic flattening/splicing that keeps the
// AC invariant trivial at the data level: a substituted value that is a
// Variadic of its parent's kind is spliced into the parent rather than
// nested. Splicing is one level deep: the spliced children are inserted
// as they are, so a same-kind Variadic already nested inside the
// substituted value stays nested.
//
// Grounded on the teacher's core/replace.go SubstituteBindings /
// needsSequenceSplicing: the teacher already splices a bound sequence's
// elements into a parent list sharing the same head. This generalizes that
// same splice rule from "same head symbol" to "same VariadicKind", and adds
// the empty-variadic removal spec §4.4 requires.
package replace

import (
	"github.com/client9/acrewrite/expr"
	"github.com/client9/acrewrite/match"
)

// Replace instantiates r under bindings b, returning the result and true
// on success. It fails (returns false) if any variable in r is unbound.
func Replace(r expr.Expr, b match.Bindings) (expr.Expr, bool) {
	switch e := r.(type) {
	case expr.Variable:
		v, ok := b[e.Id]
		return v, ok

	case expr.Integer, expr.Constant:
		return e, true

	case expr.Unary:
		arg, ok := Replace(e.Arg, b)
		if !ok {
			return nil, false
		}
		return expr.NewUnary(e.Kind, arg), true

	case expr.Variadic:
		children := make([]expr.Expr, 0, e.Terms.Len())
		for _, c := range e.Terms.Slice() {
			rc, ok := Replace(c, b)
			if !ok {
				return nil, false
			}
			children = appendFlattened(children, rc, e.Kind)
		}
		return expr.NewVariadic(e.Kind, children...), true

	default:
		return e, true
	}
}

// appendFlattened appends a freshly-replaced child to children, applying
// the two flattening rules: an empty variadic of any kind is dropped, and a
// variadic of the same kind as its new parent is spliced in place.
func appendFlattened(children []expr.Expr, rc expr.Expr, parentKind expr.VariadicKind) []expr.Expr {
	if expr.IsEmptyVariadic(rc) {
		return children
	}
	if vc, ok := rc.(expr.Variadic); ok && vc.Kind == parentKind {
		return append(children, vc.Terms.Slice()...)
	}
	return append(children, rc)
}
