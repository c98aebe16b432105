package builder

import (
	"fmt"
	"math/big"

	"symexpr/internal/abstract"
	"symexpr/internal/semiring"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// sumChildren resolves a Sum's variable keys back to term.Node pointers,
// in the sum's deterministic sorted-key order.
func (b *Builder) sumChildren(s *semiring.Sum) []*term.Node {
	keys := s.Keys()
	out := make([]*term.Node, len(keys))
	for i, k := range keys {
		n, ok := b.byID[term.ID(k)]
		if !ok {
			panic("symexpr: dangling term identity in sum")
		}
		out[i] = n
	}
	return out
}

func (b *Builder) prodChildren(p *semiring.Product) []*term.Node {
	keys := p.Keys()
	out := make([]*term.Node, len(keys))
	for i, k := range keys {
		n, ok := b.byID[term.ID(k)]
		if !ok {
			panic("symexpr: dangling term identity in product")
		}
		out[i] = n
	}
	return out
}

func sumPayloadKey(offset any, s *semiring.Sum, children []*term.Node) string {
	out := fmt.Sprintf("%v", offset)
	for _, c := range children {
		v, _ := s.Coeff(semiring.Key(c.ID()))
		out += fmt.Sprintf(";%d:%v", c.ID(), v)
	}
	return out
}

func prodPayloadKey(p *semiring.Product, children []*term.Node) string {
	out := ""
	for _, c := range children {
		n, _ := p.Exponent(semiring.Key(c.ID()))
		out += fmt.Sprintf(";%d:%d", c.ID(), n)
	}
	return out
}

// intAbstractOfSum folds the sum's abstract value over IntRange
// arithmetic: offset plus each coefficient*childRange contribution.
func (b *Builder) intAbstractOfSum(s *semiring.Sum, children []*term.Node) abstract.Value {
	offset := s.Offset.(*big.Int)
	acc := abstract.SingletonInt(offset)
	for _, c := range children {
		coeff, _ := s.Coeff(semiring.Key(c.ID()))
		cr := abstract.SingletonInt(coeff.(*big.Int))
		term := cr.Mul(c.AbstractValue().(abstract.IntRange))
		acc = acc.Add(term)
	}
	return acc
}

func (b *Builder) realAbstractOfSum(s *semiring.Sum, children []*term.Node) abstract.Value {
	offset := s.Offset.(*big.Rat)
	acc := abstract.SingletonReal(offset)
	for _, c := range children {
		coeff, _ := s.Coeff(semiring.Key(c.ID()))
		cr := abstract.SingletonReal(coeff.(*big.Rat))
		term := cr.Mul(c.AbstractValue().(abstract.RealRange))
		acc = acc.Add(term)
	}
	return acc
}

// intTerm wraps an integer Sum into a term, collapsing to a bare constant
// or bare variable when the sum canonicalizes to one (§4.C recognizers).
func (b *Builder) intTerm(s *semiring.Sum) *term.Node {
	if k, ok := s.AsConstant(); ok {
		return b.intern(term.OpSum, b.Sorts.Integer(), nil, s, sumPayloadKey(k, s, nil), abstract.SingletonInt(k.(*big.Int)))
	}
	if x, ok := s.AsVar(); ok {
		return b.byID[term.ID(x)]
	}
	children := b.sumChildren(s)
	abs := b.intAbstractOfSum(s, children)
	return b.intern(term.OpSum, b.Sorts.Integer(), children, s, sumPayloadKey(s.Offset, s, children), abs)
}

func (b *Builder) realTerm(s *semiring.Sum) *term.Node {
	if k, ok := s.AsConstant(); ok {
		return b.intern(term.OpSum, b.Sorts.Real(), nil, s, sumPayloadKey(k, s, nil), abstract.SingletonReal(k.(*big.Rat)))
	}
	if x, ok := s.AsVar(); ok {
		return b.byID[term.ID(x)]
	}
	children := b.sumChildren(s)
	abs := b.realAbstractOfSum(s, children)
	return b.intern(term.OpSum, b.Sorts.Real(), children, s, sumPayloadKey(s.Offset, s, children), abs)
}

// --- Public arithmetic constructors (§4.E.4) ---

func (b *Builder) IntLit(v *big.Int) *term.Node {
	return b.intTerm(semiring.FromConst(semiring.IntRing{}, new(big.Int).Set(v)))
}

func (b *Builder) RealLit(v *big.Rat) *term.Node {
	return b.realTerm(semiring.FromConst(semiring.RealRing{}, new(big.Rat).Set(v)))
}

// asIntSum lifts any integer-sorted term into a *semiring.Sum: itself if
// already a Sum node, or "1*x+0" otherwise.
func (b *Builder) asIntSum(x *term.Node) *semiring.Sum {
	if x.Op() == term.OpSum && x.Sort().Kind() == sortreg.Integer {
		return x.Payload().(*semiring.Sum)
	}
	return semiring.FromVar(semiring.IntRing{}, semiring.Key(x.ID()))
}

func (b *Builder) asRealSum(x *term.Node) *semiring.Sum {
	if x.Op() == term.OpSum && x.Sort().Kind() == sortreg.Real {
		return x.Payload().(*semiring.Sum)
	}
	return semiring.FromVar(semiring.RealRing{}, semiring.Key(x.ID()))
}

func (b *Builder) IntNeg(x *term.Node) *term.Node {
	return b.intTerm(semiring.Scale(big.NewInt(-1), b.asIntSum(x)))
}

func (b *Builder) IntAdd(x, y *term.Node) *term.Node {
	return b.intTerm(semiring.Add(b.asIntSum(x), b.asIntSum(y)))
}

func (b *Builder) IntSub(x, y *term.Node) *term.Node { return b.IntAdd(x, b.IntNeg(y)) }

func (b *Builder) RealNeg(x *term.Node) *term.Node {
	return b.realTerm(semiring.Scale(big.NewRat(-1, 1), b.asRealSum(x)))
}

func (b *Builder) RealAdd(x, y *term.Node) *term.Node {
	return b.realTerm(semiring.Add(b.asRealSum(x), b.asRealSum(y)))
}

func (b *Builder) RealSub(x, y *term.Node) *term.Node { return b.RealAdd(x, b.RealNeg(y)) }

// intScalarOf returns (k, true) iff x is a ground integer constant.
func (b *Builder) intScalarOf(x *term.Node) (*big.Int, bool) {
	if x.Op() != term.OpSum {
		return nil, false
	}
	s := x.Payload().(*semiring.Sum)
	if k, ok := s.AsConstant(); ok {
		return k.(*big.Int), true
	}
	return nil, false
}

func (b *Builder) realScalarOf(x *term.Node) (*big.Rat, bool) {
	if x.Op() != term.OpSum {
		return nil, false
	}
	s := x.Payload().(*semiring.Sum)
	if k, ok := s.AsConstant(); ok {
		return k.(*big.Rat), true
	}
	return nil, false
}

// IntMul implements §4.E.4's mul: scale when a side is a constant scalar,
// otherwise build a monomial Product node and wrap it in a Sum.
func (b *Builder) IntMul(x, y *term.Node) *term.Node {
	if k, ok := b.intScalarOf(x); ok {
		return b.intTerm(semiring.Scale(k, b.asIntSum(y)))
	}
	if k, ok := b.intScalarOf(y); ok {
		return b.intTerm(semiring.Scale(k, b.asIntSum(x)))
	}
	prod := semiring.Mul(b.asIntProduct(x), b.asIntProduct(y))
	m := b.intProductTerm(prod)
	return b.intTerm(semiring.FromVar(semiring.IntRing{}, semiring.Key(m.ID())))
}

func (b *Builder) asIntProduct(x *term.Node) *semiring.Product {
	if x.Op() == term.OpProduct && x.Sort().Kind() == sortreg.Integer {
		return x.Payload().(*semiring.Product)
	}
	return semiring.VarProduct(semiring.IntRing{}, semiring.Key(x.ID()))
}

func (b *Builder) intProductTerm(p *semiring.Product) *term.Node {
	if p.IsNull() {
		return b.IntLit(big.NewInt(1))
	}
	if len(p.Keys()) == 1 {
		k := p.Keys()[0]
		if n, _ := p.Exponent(k); n == 1 {
			return b.byID[term.ID(k)]
		}
	}
	children := b.prodChildren(p)
	acc := abstract.SingletonInt(big.NewInt(1))
	for _, c := range children {
		n, _ := p.Exponent(semiring.Key(c.ID()))
		base := c.AbstractValue().(abstract.IntRange)
		for i := 0; i < n; i++ {
			acc = acc.Mul(base)
		}
	}
	return b.intern(term.OpProduct, b.Sorts.Integer(), children, p, prodPayloadKey(p, children), acc)
}

func (b *Builder) RealMul(x, y *term.Node) *term.Node {
	if k, ok := b.realScalarOf(x); ok {
		return b.realTerm(semiring.Scale(k, b.asRealSum(y)))
	}
	if k, ok := b.realScalarOf(y); ok {
		return b.realTerm(semiring.Scale(k, b.asRealSum(x)))
	}
	prod := semiring.Mul(b.asRealProduct(x), b.asRealProduct(y))
	m := b.realProductTerm(prod)
	return b.realTerm(semiring.FromVar(semiring.RealRing{}, semiring.Key(m.ID())))
}

func (b *Builder) asRealProduct(x *term.Node) *semiring.Product {
	if x.Op() == term.OpProduct && x.Sort().Kind() == sortreg.Real {
		return x.Payload().(*semiring.Product)
	}
	return semiring.VarProduct(semiring.RealRing{}, semiring.Key(x.ID()))
}

func (b *Builder) realProductTerm(p *semiring.Product) *term.Node {
	if p.IsNull() {
		return b.RealLit(big.NewRat(1, 1))
	}
	if len(p.Keys()) == 1 {
		k := p.Keys()[0]
		if n, _ := p.Exponent(k); n == 1 {
			return b.byID[term.ID(k)]
		}
	}
	children := b.prodChildren(p)
	acc := abstract.SingletonReal(big.NewRat(1, 1))
	for _, c := range children {
		n, _ := p.Exponent(semiring.Key(c.ID()))
		base := c.AbstractValue().(abstract.RealRange)
		for i := 0; i < n; i++ {
			acc = acc.Mul(base)
		}
	}
	return b.intern(term.OpProduct, b.Sorts.Real(), children, p, prodPayloadKey(p, children), acc)
}

// IntDiv and IntMod constant-fold with SMT-LIB semantics (0 <= mod < |y|,
// y*(x div y)+(x mod y) = x); otherwise they wrap (§4.E.4, §7: division by
// zero does not abort, it returns an unspecified but sort-correct value).
func (b *Builder) IntDiv(x, y *term.Node) *term.Node {
	if xk, xok := b.intScalarOf(x); xok {
		if yk, yok := b.intScalarOf(y); yok && yk.Sign() != 0 {
			q, _ := abstract.EuclidDivMod(xk, yk)
			return b.IntLit(q)
		}
	}
	xr := x.AbstractValue().(abstract.IntRange)
	yr := y.AbstractValue().(abstract.IntRange)
	abs := xr.Div(yr)
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpIntDiv, b.Sorts.Integer(), []*term.Node{x, y}, nil, key, abs)
}

func (b *Builder) IntMod(x, y *term.Node) *term.Node {
	if xk, xok := b.intScalarOf(x); xok {
		if yk, yok := b.intScalarOf(y); yok && yk.Sign() != 0 {
			_, m := abstract.EuclidDivMod(xk, yk)
			return b.IntLit(m)
		}
	}
	xr := x.AbstractValue().(abstract.IntRange)
	yr := y.AbstractValue().(abstract.IntRange)
	abs := xr.Mod(yr)
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpIntMod, b.Sorts.Integer(), []*term.Node{x, y}, nil, key, abs)
}

// RealDiv constant-folds exact rational division; division by a constant
// scalar is a Scale, otherwise it wraps.
func (b *Builder) RealDiv(x, y *term.Node) *term.Node {
	if yk, yok := b.realScalarOf(y); yok && yk.Sign() != 0 {
		inv := new(big.Rat).Inv(yk)
		return b.realTerm(semiring.Scale(inv, b.asRealSum(x)))
	}
	abs := abstract.TopReal()
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpRealDiv, b.Sorts.Real(), []*term.Node{x, y}, nil, key, abs)
}

// IntMin, IntMax, RealMin, RealMax are defined via Ite per §4.E.4.
func (b *Builder) IntMin(x, y *term.Node) *term.Node { return b.Ite(b.IntLe(x, y), x, y) }
func (b *Builder) IntMax(x, y *term.Node) *term.Node { return b.Ite(b.IntLe(x, y), y, x) }
func (b *Builder) RealMin(x, y *term.Node) *term.Node { return b.Ite(b.RealLe(x, y), x, y) }
func (b *Builder) RealMax(x, y *term.Node) *term.Node { return b.Ite(b.RealLe(x, y), y, x) }
