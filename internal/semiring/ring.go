// Package semiring implements component C: weighted-sum (affine) and
// product representations over the four semirings the builder normalizes
// arithmetic and bitvector expressions into.
package semiring

// Key identifies a term by its stable identity for use as a sum/product
// map key. The term package's Term.ID satisfies this; semiring stays
// independent of the term package to avoid an import cycle (the builder
// wires them together).
type Key = uint64

// Ring supplies the coefficient arithmetic a weighted sum needs. Coefficients
// are carried as `any` so the same Sum implementation serves Int, Real,
// BV-arith, and BV-xor alike.
type Ring interface {
	Add(a, b any) any
	Neg(a any) any
	Mul(a, b any) any
	IsZero(a any) bool
	Zero() any
	One() any
	Eq(a, b any) bool
}

// CountRing describes how a Product composes repeated occurrences of the
// same term. For Int/Real/BV-arith occurrence counts add; for BV-xor they
// are taken modulo 2 (x ∧ x = x, so an even count cancels to absent).
type CountRing interface {
	// CombineCounts composes two positive occurrence counts for the same
	// term, returning the new count (0 means the entry should be removed).
	CombineCounts(a, b int) int
}
