package builder

import (
	"fmt"

	"symexpr/internal/abstract"
	"symexpr/internal/sortreg"
	"symexpr/internal/symerr"
	"symexpr/internal/term"
)

// Eq dispatches equality on sort per §4.E.2: Bool goes through Iff;
// Struct ANDs field equalities; two String literals fold by value; every
// other case (numeric, BV, Float, String, Array) folds when the
// abstract-value CheckEq decides and otherwise wraps as an OpEq node.
// Float literals are not folded, since the Float domain is always Top.
func (b *Builder) Eq(x, y *term.Node) *term.Node {
	if x == y {
		return b.trueT
	}
	if !sortreg.Equal(x.Sort(), y.Sort()) {
		panic(symerr.Newf(symerr.TypeMismatch, "eq: sort mismatch %s vs %s", x.Sort(), y.Sort()))
	}
	switch x.Sort().Kind() {
	case sortreg.Bool:
		return b.Iff(x, y)
	case sortreg.Struct:
		fields := x.Sort().Fields()
		conj := make([]*term.Node, len(fields))
		for i := range fields {
			conj[i] = b.Eq(b.StructField(x, i), b.StructField(y, i))
		}
		return b.And(conj...)
	default:
		if xs, ok := strLitOf(x); ok {
			if ys, ok2 := strLitOf(y); ok2 {
				return b.BoolLit(xs == ys)
			}
		}
		t := x.AbstractValue().CheckEq(y.AbstractValue())
		if t == abstract.True {
			return b.trueT
		}
		if t == abstract.False {
			return b.falseT
		}
		key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
		return b.intern(term.OpEq, b.Sorts.Bool(), []*term.Node{x, y}, nil, key, abstract.TopBool())
	}
}
