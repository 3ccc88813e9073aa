// Package engine implements the rule & driver component (spec C5) and the
// identity-search component (spec C6).
//
// Grounded on the teacher's engine/evaluator.go for the evaluate-to-a-
// fixed-point driver shape, and attributes.go for the enum-plus-name-table
// pattern reused here for RuleKind.
package engine

import (
	"github.com/client9/acrewrite/expr"
	"github.com/client9/acrewrite/match"
	"github.com/client9/acrewrite/replace"
)

// RuleKind distinguishes a directional rewrite from a bidirectional
// identity usable by identity search in either direction.
type RuleKind int

const (
	Replacement RuleKind = iota
	Equality
)

// ruleKindNames mirrors the teacher's AttributeNames lookup table.
var ruleKindNames = map[RuleKind]string{
	Replacement: "Replacement",
	Equality:    "Equality",
}

func (k RuleKind) String() string {
	if name, ok := ruleKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Rule bundles a pattern, its replacement, and the kind governing how
// identity search is allowed to use it. Kind is inert to ApplyRule and
// ApplyRuleset: both apply Pattern -> Replacement exactly once, forward
// only, regardless of Kind. Only auto's identity search distinguishes
// Equality rules, by seeding its exploration graph from both sides of the
// equality instead of applying the rule as a rewrite.
type Rule struct {
	Name        string
	Pattern     expr.Expr
	Replacement expr.Expr
	Kind        RuleKind
}

// ApplyRule attempts to match e against r.Pattern; on success it
// instantiates r.Replacement under the resulting binding. On match failure,
// or if the replacement reports an unbound variable, it returns e unchanged
// and ok=false — the caller decides whether an unchanged value is fine.
func ApplyRule(e expr.Expr, r Rule) (result expr.Expr, ok bool) {
	b, matched := match.Match(e, r.Pattern)
	if !matched {
		return e, false
	}
	out, replaced := replace.Replace(r.Replacement, b)
	if !replaced {
		return e, false
	}
	return out, true
}
