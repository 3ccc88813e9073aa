// Package match implements the AC pattern matcher (spec component C3): an
// iterative worklist of match obligations with recursive backtracking over
// the unordered (AC) part of variadic matching.
//
// Grounded on the teacher's pattern_matching.go / core/match.go: the
// binding map shape (PatternBindings), and the "clone bindings, try, keep
// or discard" backtracking discipline used by
// matchSequencePatternWithBindings. The teacher's matcher is positional
// (sequential sequence patterns); this one generalizes the same discipline
// to the AC case the spec requires: unordered subset enumeration over a
// multiset of terms rather than a left-to-right scan.
package match

import (
	"github.com/client9/acrewrite/expr"
)

// Bindings maps pattern variables to the expressions they captured.
type Bindings map[expr.VarId]expr.Expr

func (b Bindings) clone() Bindings {
	nb := make(Bindings, len(b))
	for k, v := range b {
		nb[k] = v
	}
	return nb
}

// obligation is one item of the matcher's worklist.
type obligation interface{ isObligation() }

// single requires e to match pattern p.
type single struct {
	e, p expr.Expr
}

func (single) isObligation() {}

// multiple requires the elements of terms to collectively match the
// elements of pats, both unordered, inside a variadic of the given kind.
type multiple struct {
	terms []expr.Expr
	pats  []expr.Expr
	kind  expr.VariadicKind
}

func (multiple) isObligation() {}

// Match attempts to match e against pattern p, returning the resulting
// binding on success.
func Match(e, p expr.Expr) (Bindings, bool) {
	return attempt([]obligation{single{e: e, p: p}}, Bindings{})
}

// TestMatch reports only whether e matches p, discarding bindings.
func TestMatch(e, p expr.Expr) bool {
	_, ok := Match(e, p)
	return ok
}

// attempt pops one obligation from the end of stack and reduces it. Every
// reduction strictly decreases a well-founded measure (tree size of the
// front Single, or len(pats) for Multiple), so this always terminates.
func attempt(stack []obligation, b Bindings) (Bindings, bool) {
	if len(stack) == 0 {
		return b, true
	}
	top := stack[len(stack)-1]
	rest := stack[:len(stack)-1]

	switch o := top.(type) {
	case single:
		return attemptSingle(o.e, o.p, rest, b)
	case multiple:
		return attemptMultiple(o, rest, b)
	}
	return nil, false
}

func attemptSingle(e, p expr.Expr, rest []obligation, b Bindings) (Bindings, bool) {
	// Single(e, Variable v): bind or check consistency.
	if v, ok := p.(expr.Variable); ok {
		if existing, found := b[v.Id]; found {
			if !existing.Equal(e) {
				return nil, false
			}
			return attempt(rest, b)
		}
		nb := b.clone()
		nb[v.Id] = e
		return attempt(rest, nb)
	}

	// Single(Variable, concrete): an unresolved value can't match a literal
	// pattern shape.
	if _, ok := e.(expr.Variable); ok {
		return nil, false
	}

	switch pp := p.(type) {
	case expr.Unary:
		eu, ok := e.(expr.Unary)
		if !ok || !pp.Kind.Equal(eu.Kind) {
			return nil, false
		}
		next := push(rest, single{e: eu.Arg, p: pp.Arg})
		return attempt(next, b)

	case expr.Variadic:
		ev, ok := e.(expr.Variadic)
		if !ok || pp.Kind != ev.Kind {
			return nil, false
		}
		next := push(rest, multiple{terms: ev.Terms.Slice(), pats: pp.Terms.Slice(), kind: pp.Kind})
		return attempt(next, b)

	default:
		// Integer, Constant, or any other literal shape: structural equality.
		if p.Equal(e) {
			return attempt(rest, b)
		}
		return nil, false
	}
}

func attemptMultiple(m multiple, rest []obligation, b Bindings) (Bindings, bool) {
	if len(m.pats) == 0 {
		if len(m.terms) == 0 {
			return attempt(rest, b)
		}
		return nil, false // terms left over that nothing will consume
	}
	if len(m.terms) == 0 {
		return nil, false // a pattern element left with nothing to consume
	}

	p := m.pats[0]
	restPats := m.pats[1:]
	n := len(m.terms)

	if v, ok := p.(expr.Variable); ok {
		// Pattern variable: enumerate all 2^n subsets, bitmask ascending.
		for mask := 0; mask < (1 << uint(n)); mask++ {
			idx := maskIndices(mask, n)
			candidate := subsetExpr(m.terms, idx, m.kind)
			remaining := removeIndices(m.terms, idx)
			next := push(rest,
				multiple{terms: remaining, pats: restPats, kind: m.kind},
				single{e: candidate, p: v},
			)
			if res, ok := attempt(next, b); ok {
				return res, true
			}
		}
		return nil, false
	}

	// Concrete pattern element: only singleton subsets are candidates.
	for i := 0; i < n; i++ {
		remaining := removeIndices(m.terms, []int{i})
		next := push(rest,
			multiple{terms: remaining, pats: restPats, kind: m.kind},
			single{e: m.terms[i], p: p},
		)
		if res, ok := attempt(next, b); ok {
			return res, true
		}
	}
	return nil, false
}

// push appends obligations to the end of a copy of stack, so sibling
// backtracking attempts never observe each other's mutations.
func push(stack []obligation, obs ...obligation) []obligation {
	next := make([]obligation, len(stack), len(stack)+len(obs))
	copy(next, stack)
	return append(next, obs...)
}

// maskIndices returns the positions whose bit is set in mask, ascending.
func maskIndices(mask, n int) []int {
	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if mask&(1<<uint(i)) != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// subsetExpr builds the expression assigned to a pattern variable that
// captures the given positions of terms: the lone element if |S|=1, else a
// Variadic of the enclosing kind (including the empty Variadic if S is
// empty).
func subsetExpr(terms []expr.Expr, idx []int, kind expr.VariadicKind) expr.Expr {
	if len(idx) == 1 {
		return terms[idx[0]]
	}
	children := make([]expr.Expr, len(idx))
	for i, j := range idx {
		children[i] = terms[j]
	}
	return expr.NewVariadic(kind, children...)
}

// removeIndices returns terms with the given positions removed, preserving
// the relative order of what remains (multiset difference by position).
func removeIndices(terms []expr.Expr, idx []int) []expr.Expr {
	skip := make(map[int]bool, len(idx))
	for _, i := range idx {
		skip[i] = true
	}
	out := make([]expr.Expr, 0, len(terms)-len(idx))
	for i, t := range terms {
		if !skip[i] {
			out = append(out, t)
		}
	}
	return out
}
