// Package theory implements component F: a classifier mapping each term
// to the fragment of the logic it belongs to, used to compute a problem's
// feature bitset (component H) without ever touching SMT-LIB syntax.
package theory

import (
	"symexpr/internal/semiring"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// Theory is the closed family of logic fragments a term can belong to.
type Theory int

const (
	Bool Theory = iota
	LinArith
	NonlinArith
	ComputableArith
	BV
	FP
	Array
	String
	Struct
	Quantifier
	Fn
)

func (t Theory) String() string {
	switch t {
	case Bool:
		return "Bool"
	case LinArith:
		return "LinArith"
	case NonlinArith:
		return "NonlinArith"
	case ComputableArith:
		return "ComputableArith"
	case BV:
		return "BV"
	case FP:
		return "FP"
	case Array:
		return "Array"
	case String:
		return "String"
	case Struct:
		return "Struct"
	case Quantifier:
		return "Quantifier"
	case Fn:
		return "Fn"
	default:
		return "?"
	}
}

// productIsNonlinear reports whether a Product node multiplies more than
// one distinct variable, or raises a single variable to a power above 1 —
// either way the monomial is nonlinear.
func productIsNonlinear(p *semiring.Product) bool {
	keys := p.Keys()
	if len(keys) > 1 {
		return true
	}
	if len(keys) == 1 {
		n, _ := p.Exponent(keys[0])
		return n > 1
	}
	return false
}

// sumIsNonlinear reports whether any of a Sum's variable slots is itself a
// Product node classified as nonlinear (§4.F: "semiring sums with
// non-constant factors in product positions").
func sumIsNonlinear(n *term.Node) bool {
	for _, c := range n.Children() {
		if c.Op() == term.OpProduct {
			if p, ok := c.Payload().(*semiring.Product); ok && productIsNonlinear(p) {
				return true
			}
		}
	}
	return false
}

// literalDivisor reports whether n's second child is a ground scalar —
// div/mod by a literal keeps the constraint linear (§4.F).
func literalDivisor(n *term.Node) bool {
	y := n.Children()[1]
	if y.Op() != term.OpSum {
		return false
	}
	s, ok := y.Payload().(*semiring.Sum)
	if !ok {
		return false
	}
	_, isConst := s.AsConstant()
	return isConst
}

// Classify returns the theory fragment a single node belongs to. It does
// not recurse; Classify every node reached by term.Walk and union the
// results to classify a whole problem (see package features).
func Classify(n *term.Node) Theory {
	switch n.Op() {
	case term.OpSum:
		if sumIsNonlinear(n) {
			return arithTheoryFor(n, NonlinArith)
		}
		return arithTheoryFor(n, LinArith)
	case term.OpProduct:
		p, _ := n.Payload().(*semiring.Product)
		if p != nil && productIsNonlinear(p) {
			return arithTheoryFor(n, NonlinArith)
		}
		return arithTheoryFor(n, LinArith)
	case term.OpIntDiv, term.OpIntMod, term.OpRealDiv:
		if literalDivisor(n) {
			return LinArith
		}
		return NonlinArith
	case term.OpIntLe, term.OpRealLe, term.OpRealIsInt, term.OpIntToReal, term.OpRealToInt:
		return LinArith
	case term.OpBvULt, term.OpBvSLt, term.OpBvTestBit, term.OpBvConcat, term.OpBvExtract,
		term.OpBvNot, term.OpBvAnd, term.OpBvOr, term.OpBvUdiv, term.OpBvUrem, term.OpBvSdiv,
		term.OpBvSrem, term.OpBvShl, term.OpBvLshr, term.OpBvAshr, term.OpBvRotl, term.OpBvRotr,
		term.OpBvZext, term.OpBvSext, term.OpBvPopcount, term.OpBvClz, term.OpBvCtz, term.OpBvFill,
		term.OpBvToNat, term.OpIntToBv:
		return BV
	case term.OpFloatSqrt, term.OpFloatDiv, term.OpFloatRem, term.OpFloatFma:
		return ComputableArith
	case term.OpFloatAdd, term.OpFloatSub, term.OpFloatMul, term.OpFloatNeg, term.OpFloatAbs,
		term.OpFloatMin, term.OpFloatMax, term.OpFloatLe, term.OpFloatLt, term.OpFloatIsNaN,
		term.OpFloatCast:
		return FP
	case term.OpStrConcat, term.OpStrLen, term.OpStrContains, term.OpStrIndexOf,
		term.OpStrPrefixOf, term.OpStrSuffixOf, term.OpStrSubstr:
		return String
	case term.OpArrConst, term.OpArrSelect, term.OpArrUpdate, term.OpArrMap, term.OpArrCopy,
		term.OpArrSet, term.OpArrRangeEq:
		return Array
	case term.OpStructCtor, term.OpStructField:
		return Struct
	case term.OpForall, term.OpExists:
		return Quantifier
	case term.OpApply:
		return Fn
	default:
		return Bool
	}
}

// arithTheoryFor reclassifies a linear/nonlinear Sum or Product node by its
// ring: a BV-backed sum is a BV-theory fact regardless of linearity
// (bitvector arithmetic is always decided within BV, never LinArith).
func arithTheoryFor(n *term.Node, fallback Theory) Theory {
	switch n.Sort().Kind() {
	case sortreg.BV:
		return BV
	default:
		return fallback
	}
}
