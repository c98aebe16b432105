package builder

import (
	"fmt"
	"math/big"

	"symexpr/internal/abstract"
	"symexpr/internal/term"
)

// floatLitPayload marks a childless OpFloatAdd node as a ground float
// literal (mirroring strLitPayload for strings and the childless-OpSum
// convention for Integer/Real literals).
type floatLitPayload struct{ v *big.Float }

func floatLitOf(x *term.Node) (*big.Float, bool) {
	if x.Op() != term.OpFloatAdd {
		return nil, false
	}
	p, ok := x.Payload().(floatLitPayload)
	if !ok {
		return nil, false
	}
	return p.v, true
}

// FloatLiteral exposes floatLitOf for package concrete's projection, since
// the literal-marker payload type is otherwise private to this package.
func FloatLiteral(x *term.Node) (*big.Float, bool) { return floatLitOf(x) }

// FloatLit interns a ground floating-point literal as a childless node;
// the abstract value is always Top (§3: Float has no tracked domain), so
// only exact concrete folding (never interval reasoning) benefits from
// constant children at all.
func (b *Builder) FloatLit(eb, sb uint32, v *big.Float) *term.Node {
	sort := b.Sorts.Float(eb, sb)
	prec := sb
	rounded := new(big.Float).SetPrec(uint(prec)).Set(v)
	key := fmt.Sprintf("lit:%s", rounded.Text('g', -1))
	return b.intern(term.OpFloatAdd, sort, nil, floatLitPayload{rounded}, key, abstract.TopFloat())
}

func (b *Builder) floatBinary(op term.Op, x, y *term.Node, fold func(a, b *big.Float, prec uint) *big.Float) *term.Node {
	if xv, ok := floatLitOf(x); ok {
		if yv, ok2 := floatLitOf(y); ok2 {
			r := fold(xv, yv, uint(x.Sort().FloatSig()))
			return b.FloatLit(x.Sort().FloatExp(), x.Sort().FloatSig(), r)
		}
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(op, x.Sort(), []*term.Node{x, y}, nil, key, abstract.TopFloat())
}

func (b *Builder) FloatAdd(x, y *term.Node) *term.Node {
	return b.floatBinary(term.OpFloatAdd, x, y, func(a, bb *big.Float, p uint) *big.Float {
		return new(big.Float).SetPrec(p).Add(a, bb)
	})
}

func (b *Builder) FloatSub(x, y *term.Node) *term.Node {
	return b.floatBinary(term.OpFloatSub, x, y, func(a, bb *big.Float, p uint) *big.Float {
		return new(big.Float).SetPrec(p).Sub(a, bb)
	})
}

func (b *Builder) FloatMul(x, y *term.Node) *term.Node {
	return b.floatBinary(term.OpFloatMul, x, y, func(a, bb *big.Float, p uint) *big.Float {
		return new(big.Float).SetPrec(p).Mul(a, bb)
	})
}

func (b *Builder) FloatDiv(x, y *term.Node) *term.Node {
	if xv, ok := floatLitOf(x); ok {
		if yv, ok2 := floatLitOf(y); ok2 && yv.Sign() != 0 {
			r := new(big.Float).SetPrec(uint(x.Sort().FloatSig())).Quo(xv, yv)
			return b.FloatLit(x.Sort().FloatExp(), x.Sort().FloatSig(), r)
		}
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpFloatDiv, x.Sort(), []*term.Node{x, y}, nil, key, abstract.TopFloat())
}

func (b *Builder) FloatNeg(x *term.Node) *term.Node {
	if xv, ok := floatLitOf(x); ok {
		r := new(big.Float).SetPrec(uint(x.Sort().FloatSig())).Neg(xv)
		return b.FloatLit(x.Sort().FloatExp(), x.Sort().FloatSig(), r)
	}
	if x.Op() == term.OpFloatNeg {
		return x.Children()[0]
	}
	return b.intern(term.OpFloatNeg, x.Sort(), []*term.Node{x}, nil, "", abstract.TopFloat())
}

func (b *Builder) FloatAbs(x *term.Node) *term.Node {
	if xv, ok := floatLitOf(x); ok {
		r := new(big.Float).SetPrec(uint(x.Sort().FloatSig())).Abs(xv)
		return b.FloatLit(x.Sort().FloatExp(), x.Sort().FloatSig(), r)
	}
	return b.intern(term.OpFloatAbs, x.Sort(), []*term.Node{x}, nil, "", abstract.TopFloat())
}

func (b *Builder) FloatSqrt(x *term.Node) *term.Node {
	if xv, ok := floatLitOf(x); ok && xv.Sign() >= 0 {
		r := new(big.Float).SetPrec(uint(x.Sort().FloatSig())).Sqrt(xv)
		return b.FloatLit(x.Sort().FloatExp(), x.Sort().FloatSig(), r)
	}
	return b.intern(term.OpFloatSqrt, x.Sort(), []*term.Node{x}, nil, "", abstract.TopFloat())
}

func (b *Builder) FloatRem(x, y *term.Node) *term.Node {
	return b.intern(term.OpFloatRem, x.Sort(), []*term.Node{x, y}, nil, fmt.Sprintf("%d,%d", x.ID(), y.ID()), abstract.TopFloat())
}

func (b *Builder) FloatFma(x, y, z *term.Node) *term.Node {
	key := fmt.Sprintf("%d,%d,%d", x.ID(), y.ID(), z.ID())
	return b.intern(term.OpFloatFma, x.Sort(), []*term.Node{x, y, z}, nil, key, abstract.TopFloat())
}

func (b *Builder) FloatMin(x, y *term.Node) *term.Node {
	return b.intern(term.OpFloatMin, x.Sort(), []*term.Node{x, y}, nil, fmt.Sprintf("%d,%d", x.ID(), y.ID()), abstract.TopFloat())
}

func (b *Builder) FloatMax(x, y *term.Node) *term.Node {
	return b.intern(term.OpFloatMax, x.Sort(), []*term.Node{x, y}, nil, fmt.Sprintf("%d,%d", x.ID(), y.ID()), abstract.TopFloat())
}

func (b *Builder) FloatLe(x, y *term.Node) *term.Node {
	if xv, ok := floatLitOf(x); ok {
		if yv, ok2 := floatLitOf(y); ok2 {
			return b.BoolLit(xv.Cmp(yv) <= 0)
		}
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpFloatLe, b.Sorts.Bool(), []*term.Node{x, y}, nil, key, abstract.TopBool())
}

func (b *Builder) FloatLt(x, y *term.Node) *term.Node {
	if xv, ok := floatLitOf(x); ok {
		if yv, ok2 := floatLitOf(y); ok2 {
			return b.BoolLit(xv.Cmp(yv) < 0)
		}
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpFloatLt, b.Sorts.Bool(), []*term.Node{x, y}, nil, key, abstract.TopBool())
}

// FloatIsNaN always folds to false on a ground literal: math/big.Float has
// no NaN representation, so every constant this engine can construct is a
// real number.
func (b *Builder) FloatIsNaN(x *term.Node) *term.Node {
	if _, ok := floatLitOf(x); ok {
		return b.falseT
	}
	return b.intern(term.OpFloatIsNaN, b.Sorts.Bool(), []*term.Node{x}, nil, "", abstract.TopBool())
}

// FloatCast reinterprets x at a different exponent/significand width,
// folding when x is ground.
func (b *Builder) FloatCast(x *term.Node, eb, sb uint32) *term.Node {
	if xv, ok := floatLitOf(x); ok {
		return b.FloatLit(eb, sb, xv)
	}
	sort := b.Sorts.Float(eb, sb)
	return b.intern(term.OpFloatCast, sort, []*term.Node{x}, term.FloatCastPayload{Eb: eb, Sb: sb}, "", abstract.TopFloat())
}
