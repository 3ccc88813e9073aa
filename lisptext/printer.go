package lisptext

import "github.com/client9/acrewrite/expr"

// Print renders e in the Lisp-style surface syntax: parenthesised prefix
// notation with single-space separation. Every Expr already maintains this
// invariant in its own String() method (multiset iteration order makes it
// deterministic), so printing is the identity map over that method;
// Print exists as the named inverse of Parse for callers that want the
// parse/print pairing spelled out explicitly.
func Print(e expr.Expr) string {
	return e.String()
}
