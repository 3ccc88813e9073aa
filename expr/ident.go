package expr

import "unique"

// Ident is an opaque, interned identifier. VarId and FuncId are both Ident:
// distinct identifiers are distinct entities, and equal strings intern to
// the same handle, giving O(1) equality and hashing.
//
// Grounded on core/symbol/symbol.go's SymbolExpr unique.Handle[string] in
// the teacher repo.
type Ident unique.Handle[string]

// VarId names a pattern variable / free symbol.
type VarId = Ident

// FuncId names a unary function application, e.g. "sin".
type FuncId = Ident

// NewIdent interns s and returns its handle.
func NewIdent(s string) Ident {
	return Ident(unique.Make(s))
}

// String returns the original identifier text.
func (id Ident) String() string {
	return unique.Handle[string](id).Value()
}

// Equal reports whether id and other name the same identifier.
func (id Ident) Equal(other Ident) bool {
	return id == other
}

// Less provides a total, string-valued order over identifiers.
func (id Ident) Less(other Ident) bool {
	if id == other {
		return false
	}
	return id.String() < other.String()
}
