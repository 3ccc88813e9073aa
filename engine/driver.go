package engine

import (
	"errors"

	"github.com/client9/acrewrite/expr"
)

// MaxSaturationPasses bounds apply_ruleset against rulesets that oscillate
// forever without the root ever reaching a fixed point. The spec leaves
// this undefined behaviour; we cap it rather than hang, without changing
// the result for any ruleset that actually terminates.
const MaxSaturationPasses = 100000

// ErrSaturationDidNotConverge is returned by ApplyRuleset when a ruleset
// fails to reach a fixed point within MaxSaturationPasses passes.
var ErrSaturationDidNotConverge = errors.New("engine: ruleset did not converge within pass limit")

// TransformFunc maps one expression to another, returning the same value
// (by Equal) when it has nothing to do at that position.
type TransformFunc func(expr.Expr) expr.Expr

// TransformRecursive applies f repeatedly at every position until no
// position changes, per the schedule:
//  1. For a variadic, recursively transform each child, rebuild.
//  2. For a unary, recursively transform the argument, rebuild.
//  3. Apply f to the resulting root.
//  4. If the result differs from the pre-iteration expression, repeat
//     from (1); otherwise return.
// Literals and variables pass through to step 3 directly.
func TransformRecursive(e expr.Expr, f TransformFunc) expr.Expr {
	for {
		rebuilt := rebuildChildren(e, f)
		next := f(rebuilt)
		if next.Equal(e) {
			return next
		}
		e = next
	}
}

// rebuildChildren performs one pass of steps (1)-(2): recursively
// transforming children without yet applying f to the root.
func rebuildChildren(e expr.Expr, f TransformFunc) expr.Expr {
	switch ex := e.(type) {
	case expr.Unary:
		arg := TransformRecursive(ex.Arg, f)
		return expr.NewUnary(ex.Kind, arg)

	case expr.Variadic:
		terms := ex.Terms.Slice()
		children := make([]expr.Expr, len(terms))
		for i, t := range terms {
			children[i] = TransformRecursive(t, f)
		}
		return expr.NewVariadic(ex.Kind, children...)

	default:
		return e
	}
}

// applyRuleAsTransform adapts a single Rule into the TransformFunc shape
// apply_ruleset needs: match-or-leave-unchanged at one position.
func applyRuleAsTransform(r Rule) TransformFunc {
	return func(e expr.Expr) expr.Expr {
		if out, ok := ApplyRule(e, r); ok {
			return out
		}
		return e
	}
}

// ApplyRuleset saturates e under rules: repeatedly, for each rule in
// order, run TransformRecursive(e, applyRule(rule)); stop when a full pass
// through all rules produces no change at the root. Rule.Kind plays no
// part here: every rule applies Pattern -> Replacement forward only.
func ApplyRuleset(e expr.Expr, rules []Rule) (expr.Expr, error) {
	return saturate(e, rules, MaxSaturationPasses)
}

// saturate is ApplyRuleset with an explicit pass cap, factored out so
// tests can exercise the non-convergence path without running a full
// MaxSaturationPasses loop. Rule.Kind is not inspected here: every rule,
// Replacement or Equality, is applied Pattern -> Replacement exactly once
// per occurrence, matching the reference saturator.
func saturate(e expr.Expr, rules []Rule, maxPasses int) (expr.Expr, error) {
	for pass := 0; pass < maxPasses; pass++ {
		before := e
		for _, r := range rules {
			e = TransformRecursive(e, applyRuleAsTransform(r))
		}
		if e.Equal(before) {
			return e, nil
		}
	}
	return e, ErrSaturationDidNotConverge
}
