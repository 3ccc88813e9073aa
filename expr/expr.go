// Package expr implements the expression algebra (spec component C2): a
// tagged sum of Variable and Concrete (Literal/Unary/Variadic) expressions,
// with AC-aware structural equality, a total order, and hashing consistent
// with equality.
//
// Grounded on the teacher's core.Expr interface
// (String/InputForm/Head/Equal/Length/IsAtom), generalized here to the
// spec's smaller, AC-specific algebra; variadic children are held in a
// multiset.MultiSet rather than a positional slice so that AC equality is
// structural rather than incidental.
package expr

import (
	"fmt"
	"hash/fnv"

	"github.com/client9/acrewrite/multiset"
)

// Expr is the sealed expression sum type. The unexported sealExpr method
// restricts implementations to this package, the same closed-interface
// shape the teacher's core.Expr interface relies on.
type Expr interface {
	String() string
	Equal(other Expr) bool
	Less(other Expr) bool
	Hash() uint64

	sealExpr()
	rank() int
}

// variant discriminants, used by Less for the "lexicographic over the
// variant discriminant, then componentwise" total order required by spec §3.
const (
	rankVariable = iota
	rankInteger
	rankConstant
	rankUnary
	rankVariadic
)

// --- Variable ---------------------------------------------------------

// Variable is a named capture slot in a pattern, or a free symbol in a
// concrete expression.
type Variable struct {
	Id VarId
}

func NewVariable(name string) Variable { return Variable{Id: NewIdent(name)} }

func (v Variable) sealExpr()  {}
func (v Variable) rank() int  { return rankVariable }
func (v Variable) String() string { return v.Id.String() }

func (v Variable) Equal(other Expr) bool {
	o, ok := other.(Variable)
	return ok && v.Id.Equal(o.Id)
}

func (v Variable) Less(other Expr) bool {
	if v.rank() != other.rank() {
		return v.rank() < other.rank()
	}
	return v.Id.Less(other.(Variable).Id)
}

func (v Variable) Hash() uint64 {
	return mix(uint64(rankVariable), strHash(v.Id.String()))
}

// --- Integer ------------------------------------------------------------

// Integer is a 32-bit signed literal.
type Integer int32

func NewInteger(n int32) Integer { return Integer(n) }

func (n Integer) sealExpr()  {}
func (n Integer) rank() int  { return rankInteger }
func (n Integer) String() string { return fmt.Sprintf("%d", int32(n)) }

func (n Integer) Equal(other Expr) bool {
	o, ok := other.(Integer)
	return ok && n == o
}

func (n Integer) Less(other Expr) bool {
	if n.rank() != other.rank() {
		return n.rank() < other.rank()
	}
	return n < other.(Integer)
}

func (n Integer) Hash() uint64 {
	return mix(uint64(rankInteger), uint64(uint32(int32(n))))
}

// --- Constant -------------------------------------------------------------

// Constant is an opaque all-uppercase atom (e.g. PI), distinguished from a
// Variable purely by the surface syntax's lexical case convention.
type Constant struct {
	Id Ident
}

func NewConstant(name string) Constant { return Constant{Id: NewIdent(name)} }

func (c Constant) sealExpr()  {}
func (c Constant) rank() int  { return rankConstant }
func (c Constant) String() string { return c.Id.String() }

func (c Constant) Equal(other Expr) bool {
	o, ok := other.(Constant)
	return ok && c.Id.Equal(o.Id)
}

func (c Constant) Less(other Expr) bool {
	if c.rank() != other.rank() {
		return c.rank() < other.rank()
	}
	return c.Id.Less(other.(Constant).Id)
}

func (c Constant) Hash() uint64 {
	return mix(uint64(rankConstant), strHash(c.Id.String()))
}

// --- Unary ----------------------------------------------------------------

// UnaryTag distinguishes the three unary operator forms.
type UnaryTag int

const (
	Negation UnaryTag = iota
	Reciprocal
	Named
)

// UnaryKind is Negation, Reciprocal, or a Named(FuncId) function application.
// Func is only meaningful when Tag == Named.
type UnaryKind struct {
	Tag  UnaryTag
	Func FuncId
}

func NegationKind() UnaryKind   { return UnaryKind{Tag: Negation} }
func ReciprocalKind() UnaryKind { return UnaryKind{Tag: Reciprocal} }
func NamedKind(name string) UnaryKind {
	return UnaryKind{Tag: Named, Func: NewIdent(name)}
}

func (k UnaryKind) Equal(o UnaryKind) bool {
	if k.Tag != o.Tag {
		return false
	}
	if k.Tag == Named {
		return k.Func.Equal(o.Func)
	}
	return true
}

func (k UnaryKind) Less(o UnaryKind) bool {
	if k.Tag != o.Tag {
		return k.Tag < o.Tag
	}
	if k.Tag == Named {
		return k.Func.Less(o.Func)
	}
	return false
}

func (k UnaryKind) String() string {
	switch k.Tag {
	case Negation:
		return "-"
	case Reciprocal:
		return "/"
	case Named:
		return k.Func.String()
	}
	return "?"
}

// Unary is a one-argument operator node.
type Unary struct {
	Kind UnaryKind
	Arg  Expr
}

func NewUnary(kind UnaryKind, arg Expr) Unary { return Unary{Kind: kind, Arg: arg} }

func (u Unary) sealExpr() {}
func (u Unary) rank() int { return rankUnary }

func (u Unary) String() string {
	if u.Kind.Tag == Named {
		return fmt.Sprintf("(%s %s)", u.Kind.Func.String(), u.Arg.String())
	}
	return fmt.Sprintf("(%s %s)", u.Kind.String(), u.Arg.String())
}

func (u Unary) Equal(other Expr) bool {
	o, ok := other.(Unary)
	return ok && u.Kind.Equal(o.Kind) && u.Arg.Equal(o.Arg)
}

func (u Unary) Less(other Expr) bool {
	if u.rank() != other.rank() {
		return u.rank() < other.rank()
	}
	o := other.(Unary)
	if !u.Kind.Equal(o.Kind) {
		return u.Kind.Less(o.Kind)
	}
	return u.Arg.Less(o.Arg)
}

func (u Unary) Hash() uint64 {
	h := mix(uint64(rankUnary), uint64(u.Kind.Tag))
	if u.Kind.Tag == Named {
		h = mix(h, strHash(u.Kind.Func.String()))
	}
	return mix(h, u.Arg.Hash())
}

// --- Variadic ---------------------------------------------------------------

// VariadicKind distinguishes the two AC operators.
type VariadicKind int

const (
	Addition VariadicKind = iota
	Multiplication
)

func (k VariadicKind) String() string {
	if k == Addition {
		return "+"
	}
	return "*"
}

// Variadic is an n-ary AC operator node; its children are a multiset so
// that `(+ a b) == (+ b a)` and `(+ a a b) != (+ a b)` hold structurally.
type Variadic struct {
	Kind  VariadicKind
	Terms multiset.MultiSet[Expr]
}

// NewVariadic builds a Variadic node from a finite sequence of children.
func NewVariadic(kind VariadicKind, children ...Expr) Variadic {
	return Variadic{Kind: kind, Terms: multiset.New(exprLess, exprEqual, children...)}
}

// NewVariadicFromSet builds a Variadic node directly from an existing
// multiset (used by the replacer when splicing).
func NewVariadicFromSet(kind VariadicKind, terms multiset.MultiSet[Expr]) Variadic {
	return Variadic{Kind: kind, Terms: terms}
}

func (v Variadic) sealExpr() {}
func (v Variadic) rank() int { return rankVariadic }

func (v Variadic) String() string {
	parts := v.Terms.Slice()
	s := "(" + v.Kind.String()
	for _, p := range parts {
		s += " " + p.String()
	}
	return s + ")"
}

func (v Variadic) Equal(other Expr) bool {
	o, ok := other.(Variadic)
	return ok && v.Kind == o.Kind && v.Terms.Equal(o.Terms)
}

func (v Variadic) Less(other Expr) bool {
	if v.rank() != other.rank() {
		return v.rank() < other.rank()
	}
	o := other.(Variadic)
	if v.Kind != o.Kind {
		return v.Kind < o.Kind
	}
	return v.Terms.Less(o.Terms)
}

func (v Variadic) Hash() uint64 {
	h := mix(uint64(rankVariadic), uint64(v.Kind))
	for _, t := range v.Terms.Slice() {
		// Terms are iterated in the multiset's total order, so this is
		// deterministic and consistent with AC equality.
		h = mix(h, t.Hash())
	}
	return h
}

// --- comparator glue for multiset.MultiSet[Expr] ---------------------------

func exprLess(a, b Expr) bool  { return a.Less(b) }
func exprEqual(a, b Expr) bool { return a.Equal(b) }

// --- hashing helpers --------------------------------------------------------

func mix(h, x uint64) uint64 {
	h ^= x
	h *= 1099511628211
	return h
}

func strHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
