package engine

import (
	"testing"

	"github.com/client9/acrewrite/expr"
)

func TestApplyRuleIdentityRewrite(t *testing.T) {
	// apply_rule(e, {pattern=x, replacement=x, Replacement}) == e for all e.
	x := expr.NewVariable("x")
	rule := Rule{Name: "id", Pattern: x, Replacement: x, Kind: Replacement}

	e := expr.NewVariadic(expr.Addition, expr.NewInteger(1), expr.NewInteger(2))
	got, ok := ApplyRule(e, rule)
	if !ok {
		t.Fatalf("expected identity rule to match anything")
	}
	if !got.Equal(e) {
		t.Fatalf("got %s, want %s", got, e)
	}
}

func TestApplyRuleNoMatchReturnsUnchanged(t *testing.T) {
	rule := Rule{
		Name:        "only-threes",
		Pattern:     expr.NewInteger(3),
		Replacement: expr.NewInteger(4),
		Kind:        Replacement,
	}
	e := expr.NewInteger(5)
	got, ok := ApplyRule(e, rule)
	if ok {
		t.Fatalf("expected no match")
	}
	if !got.Equal(e) {
		t.Fatalf("expected unchanged value on failure, got %s", got)
	}
}

func TestTransformRecursiveFlattensNestedMultiplicationBottomUp(t *testing.T) {
	// (* 1 (* 2 (* 3))) under rule (* a (* b)) => (* a b), applied
	// recursively, reaches (* 1 2 3). See spec's worked flattening scenario.
	a := expr.NewVariable("a")
	b := expr.NewVariable("b")
	pattern := expr.NewVariadic(expr.Multiplication, a, expr.NewVariadic(expr.Multiplication, b))
	replacement := expr.NewVariadic(expr.Multiplication, a, b)
	rule := Rule{Name: "unwrap", Pattern: pattern, Replacement: replacement, Kind: Replacement}

	e := expr.NewVariadic(expr.Multiplication, expr.NewInteger(1),
		expr.NewVariadic(expr.Multiplication, expr.NewInteger(2),
			expr.NewVariadic(expr.Multiplication, expr.NewInteger(3))))

	got := TransformRecursive(e, applyRuleAsTransform(rule))
	want := expr.NewVariadic(expr.Multiplication, expr.NewInteger(1), expr.NewInteger(2), expr.NewInteger(3))
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestApplyRulesetSaturatesToFixedPoint(t *testing.T) {
	// (+ 0 (+ 0 x)) under (=> (+ 0 a) a) saturates to x.
	a := expr.NewVariable("a")
	rule := Rule{
		Name:        "drop-zero",
		Pattern:     expr.NewVariadic(expr.Addition, expr.NewInteger(0), a),
		Replacement: a,
		Kind:        Replacement,
	}

	x := expr.NewVariable("x")
	e := expr.NewVariadic(expr.Addition, expr.NewInteger(0),
		expr.NewVariadic(expr.Addition, expr.NewInteger(0), x))

	got, err := ApplyRuleset(e, []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(x) {
		t.Fatalf("got %s, want %s", got, x)
	}

	again, err := ApplyRuleset(got, []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Equal(got) {
		t.Fatalf("saturation is not idempotent: %s != %s", again, got)
	}
}

func TestApplyRulesetTreatsEqualityAsForwardOnly(t *testing.T) {
	// An Equality rule is still applied Pattern -> Replacement only, exactly
	// like a Replacement rule: Kind is inert to the saturator. Only auto's
	// identity search reads both directions of an Equality rule.
	a := expr.NewInteger(0)
	b := expr.NewInteger(1)
	rule := Rule{Name: "zero-is-one", Pattern: a, Replacement: b, Kind: Equality}

	got, err := ApplyRuleset(a, []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(b) {
		t.Fatalf("forward direction: got %s, want %s", got, b)
	}

	unchanged, err := ApplyRuleset(b, []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !unchanged.Equal(b) {
		t.Fatalf("reverse direction must not apply: got %s, want %s", unchanged, b)
	}
}

func TestApplyRulesetStallsOnPingPongRules(t *testing.T) {
	// a => b, b => a: within one pass, rule 1 runs to ITS OWN fixed point
	// (A becomes B and stays there, since ruleAB no longer matches B),
	// then rule 2 runs to its fixed point (B becomes A). The net effect
	// of one full pass is the identity, so the saturator stalls and
	// returns without error, matching the documented caveat for this
	// kind of ping-pong ruleset.
	a := expr.NewConstant("A")
	bC := expr.NewConstant("B")
	flip1 := Rule{Name: "a-to-b", Pattern: a, Replacement: bC, Kind: Replacement}
	flip2 := Rule{Name: "b-to-a", Pattern: bC, Replacement: a, Kind: Replacement}

	got, err := ApplyRuleset(a, []Rule{flip1, flip2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(a) {
		t.Fatalf("got %s, want %s (ping-pong rules net to no change per pass)", got, a)
	}
}

func TestSaturateReportsNonConvergenceWhenPassLimitExhausted(t *testing.T) {
	// With zero passes available, saturate can never observe a fixed
	// point and must report ErrSaturationDidNotConverge rather than
	// silently returning the untouched input as if it had converged.
	rule := Rule{
		Name:        "drop-zero",
		Pattern:     expr.NewVariadic(expr.Addition, expr.NewInteger(0), expr.NewVariable("a")),
		Replacement: expr.NewVariable("a"),
		Kind:        Replacement,
	}
	_, err := saturate(expr.NewInteger(5), []Rule{rule}, 0)
	if err != ErrSaturationDidNotConverge {
		t.Fatalf("expected non-convergence error, got %v", err)
	}
}
