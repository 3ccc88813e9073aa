package match

import (
	"testing"

	"github.com/client9/acrewrite/expr"
)

func TestBasicRuleCapturesSingleton(t *testing.T) {
	// (+ 1 2) vs pattern (+ 1 a) -> a = 2
	e := expr.NewVariadic(expr.Addition, expr.NewInteger(1), expr.NewInteger(2))
	a := expr.NewVariable("a")
	p := expr.NewVariadic(expr.Addition, expr.NewInteger(1), a)

	b, ok := Match(e, p)
	if !ok {
		t.Fatalf("expected match to succeed")
	}
	got, found := b[a.Id]
	if !found {
		t.Fatalf("expected binding for a")
	}
	if !got.Equal(expr.NewInteger(2)) {
		t.Fatalf("expected a = 2, got %s", got)
	}
}

func TestVariableCapturesMultiElementRemainder(t *testing.T) {
	// (+ 1 2 3 4 (* v7 v8)) vs (+ 1 a) -> a = (+ 2 3 4 (* v7 v8))
	v7 := expr.NewVariable("v7")
	v8 := expr.NewVariable("v8")
	inner := expr.NewVariadic(expr.Multiplication, v7, v8)
	e := expr.NewVariadic(expr.Addition,
		expr.NewInteger(1), expr.NewInteger(2), expr.NewInteger(3), expr.NewInteger(4), inner)

	a := expr.NewVariable("a")
	p := expr.NewVariadic(expr.Addition, expr.NewInteger(1), a)

	b, ok := Match(e, p)
	if !ok {
		t.Fatalf("expected match to succeed")
	}
	want := expr.NewVariadic(expr.Addition, expr.NewInteger(2), expr.NewInteger(3), expr.NewInteger(4), inner)
	got := b[a.Id]
	if !got.Equal(want) {
		t.Fatalf("a = %s, want %s", got, want)
	}
}

func TestPatternFailureAgainstMismatchedShape(t *testing.T) {
	// pattern func2(/(-var0)) vs (+ 3 1) fails
	p := expr.NewUnary(expr.NamedKind("func2"),
		expr.NewUnary(expr.ReciprocalKind(), expr.NewUnary(expr.NegationKind(), expr.NewVariable("var0"))))
	e := expr.NewVariadic(expr.Addition, expr.NewInteger(3), expr.NewInteger(1))

	if _, ok := Match(e, p); ok {
		t.Fatalf("expected match to fail")
	}
}

func TestConsistentRepeatedVariable(t *testing.T) {
	a := expr.NewVariable("a")
	p := expr.NewVariadic(expr.Addition, a, a)

	ok3 := expr.NewVariadic(expr.Addition, expr.NewInteger(3), expr.NewInteger(3))
	if _, ok := Match(ok3, p); !ok {
		t.Fatalf("expected (+ 3 3) to match (+ a a)")
	}

	bad := expr.NewVariadic(expr.Addition, expr.NewInteger(3), expr.NewInteger(4))
	if _, ok := Match(bad, p); ok {
		t.Fatalf("expected (+ 3 4) to NOT match (+ a a)")
	}
}

func TestMatchSoundness(t *testing.T) {
	// If match(e, p) = b, then substituting b into p reproduces an
	// expression equal to e. Verified directly here for a representative
	// case; replace package's own tests cover the general property.
	a := expr.NewVariable("a")
	p := expr.NewVariadic(expr.Addition, expr.NewInteger(1), a)
	e := expr.NewVariadic(expr.Addition, expr.NewInteger(1), expr.NewInteger(2), expr.NewInteger(3))

	b, ok := Match(e, p)
	if !ok {
		t.Fatalf("expected match")
	}
	// Substitute a into p, splicing a captured Addition into the parent
	// the way the replacer does.
	children := []expr.Expr{expr.NewInteger(1)}
	if v, isAdd := expr.AsVariadic(b[a.Id], expr.Addition); isAdd {
		children = append(children, v.Terms.Slice()...)
	} else {
		children = append(children, b[a.Id])
	}
	rebuilt := expr.NewVariadic(expr.Addition, children...)
	if !rebuilt.Equal(e) {
		t.Fatalf("rebuilt %s != original %s", rebuilt, e)
	}
}

func TestEmptyVariadicMatchesNullCapture(t *testing.T) {
	a := expr.NewVariable("a")
	p := expr.NewVariadic(expr.Addition, expr.NewInteger(1), a)
	e := expr.NewVariadic(expr.Addition, expr.NewInteger(1))

	b, ok := Match(e, p)
	if !ok {
		t.Fatalf("expected match")
	}
	if !expr.IsEmptyVariadic(b[a.Id]) {
		t.Fatalf("expected a to capture the empty variadic, got %s", b[a.Id])
	}
}

func TestUnaryKindMismatchFails(t *testing.T) {
	p := expr.NewUnary(expr.NegationKind(), expr.NewVariable("x"))
	e := expr.NewUnary(expr.ReciprocalKind(), expr.NewInteger(5))
	if _, ok := Match(e, p); ok {
		t.Fatalf("expected mismatched unary kinds to fail")
	}
}
