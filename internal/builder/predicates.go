package builder

import (
	"fmt"
	"math/big"

	"symexpr/internal/abstract"
	"symexpr/internal/term"
)

// IntLe builds the integer <= predicate: constant-fold when both sides are
// ground, otherwise consult the abstract-value overlap test, otherwise
// wrap.
func (b *Builder) IntLe(x, y *term.Node) *term.Node {
	if xk, ok := b.intScalarOf(x); ok {
		if yk, ok2 := b.intScalarOf(y); ok2 {
			return b.BoolLit(xk.Cmp(yk) <= 0)
		}
	}
	xr := x.AbstractValue().(abstract.IntRange)
	yr := y.AbstractValue().(abstract.IntRange)
	if xr.Hi != nil && yr.Lo != nil && xr.Hi.Cmp(yr.Lo) <= 0 {
		return b.trueT
	}
	if xr.Lo != nil && yr.Hi != nil && xr.Lo.Cmp(yr.Hi) > 0 {
		return b.falseT
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpIntLe, b.Sorts.Bool(), []*term.Node{x, y}, nil, key, abstract.TopBool())
}

func (b *Builder) RealLe(x, y *term.Node) *term.Node {
	if xk, ok := b.realScalarOf(x); ok {
		if yk, ok2 := b.realScalarOf(y); ok2 {
			return b.BoolLit(xk.Cmp(yk) <= 0)
		}
	}
	xr := x.AbstractValue().(abstract.RealRange)
	yr := y.AbstractValue().(abstract.RealRange)
	if xr.Hi != nil && yr.Lo != nil && xr.Hi.Cmp(yr.Lo) <= 0 {
		return b.trueT
	}
	if xr.Lo != nil && yr.Hi != nil && xr.Lo.Cmp(yr.Hi) > 0 {
		return b.falseT
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpRealLe, b.Sorts.Bool(), []*term.Node{x, y}, nil, key, abstract.TopBool())
}

// RealIsInt wraps real.isInt, folding when the abstract IsInteger flag is
// resolved.
func (b *Builder) RealIsInt(x *term.Node) *term.Node {
	rr := x.AbstractValue().(abstract.RealRange)
	if rr.IsInteger == abstract.True {
		return b.trueT
	}
	if rr.IsInteger == abstract.False {
		return b.falseT
	}
	if v, ok := rr.AsSingleton(); ok {
		return b.BoolLit(v.IsInt())
	}
	return b.intern(term.OpRealIsInt, b.Sorts.Bool(), []*term.Node{x}, nil, "", abstract.TopBool())
}

// BvULt and BvSLt use the arithmetic-domain interval test first (§4.E.5);
// on Unknown they wrap.
func (b *Builder) BvULt(x, y *term.Node) *term.Node {
	if xv, ok := x.AbstractValue().(abstract.BVDomain).AsConst(); ok {
		if yv, ok2 := y.AbstractValue().(abstract.BVDomain).AsConst(); ok2 {
			return b.BoolLit(xv.Cmp(yv) < 0)
		}
	}
	xd := x.AbstractValue().(abstract.BVDomain)
	yd := y.AbstractValue().(abstract.BVDomain)
	if xd.AHi.Cmp(yd.ALo) < 0 {
		return b.trueT
	}
	if xd.ALo.Cmp(yd.AHi) >= 0 {
		return b.falseT
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpBvULt, b.Sorts.Bool(), []*term.Node{x, y}, nil, key, abstract.TopBool())
}

func bvToSigned(v *big.Int, width uint32) *big.Int {
	r := new(big.Int).Set(v)
	if r.Bit(int(width)-1) == 1 {
		shift := new(big.Int).Lsh(big.NewInt(1), uint(width))
		r.Sub(r, shift)
	}
	return r
}

func (b *Builder) BvSLt(x, y *term.Node) *term.Node {
	w := x.Sort().Width()
	if xv, ok := x.AbstractValue().(abstract.BVDomain).AsConst(); ok {
		if yv, ok2 := y.AbstractValue().(abstract.BVDomain).AsConst(); ok2 {
			return b.BoolLit(bvToSigned(xv, w).Cmp(bvToSigned(yv, w)) < 0)
		}
	}
	xd := x.AbstractValue().(abstract.BVDomain)
	yd := y.AbstractValue().(abstract.BVDomain)
	half := new(big.Int).Lsh(big.NewInt(1), uint(w-1))
	inOneHalf := func(d abstract.BVDomain) bool { return (d.ALo.Cmp(half) < 0) == (d.AHi.Cmp(half) < 0) }
	if inOneHalf(xd) && inOneHalf(yd) {
		if bvToSigned(xd.AHi, w).Cmp(bvToSigned(yd.ALo, w)) < 0 {
			return b.trueT
		}
		if bvToSigned(xd.ALo, w).Cmp(bvToSigned(yd.AHi, w)) >= 0 {
			return b.falseT
		}
	}
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpBvSLt, b.Sorts.Bool(), []*term.Node{x, y}, nil, key, abstract.TopBool())
}

// BvTestBit wraps bv.testBit(x, i), folding when x is concrete.
func (b *Builder) BvTestBit(x *term.Node, i int) *term.Node {
	if xv, ok := x.AbstractValue().(abstract.BVDomain).AsConst(); ok {
		return b.BoolLit(xv.Bit(i) == 1)
	}
	key := fmt.Sprintf("%d:%d", x.ID(), i)
	return b.intern(term.OpBvTestBit, b.Sorts.Bool(), []*term.Node{x}, i, key, abstract.TopBool())
}
