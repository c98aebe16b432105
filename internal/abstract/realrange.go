package abstract

import (
	"fmt"
	"math/big"
)

// RealRange is the Real abstract domain: a rational interval plus a
// tristate flag tracking whether the value is known to be integral.
type RealRange struct {
	Lo, Hi    *big.Rat // nil means unbounded on that side
	IsInteger Tristate
}

func TopReal() RealRange { return RealRange{IsInteger: Unknown} }

func SingletonReal(v *big.Rat) RealRange {
	c := new(big.Rat).Set(v)
	return RealRange{Lo: c, Hi: new(big.Rat).Set(c), IsInteger: TristateOf(v.IsInt())}
}

func RangeReal(lo, hi *big.Rat) RealRange {
	var l, h *big.Rat
	if lo != nil {
		l = new(big.Rat).Set(lo)
	}
	if hi != nil {
		h = new(big.Rat).Set(hi)
	}
	isInt := Unknown
	if l != nil && h != nil && l.Cmp(h) == 0 {
		isInt = TristateOf(l.IsInt())
	}
	return RealRange{Lo: l, Hi: h, IsInteger: isInt}
}

func minRat(a, b *big.Rat) *big.Rat {
	if a == nil || b == nil {
		return nil
	}
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func maxRat(a, b *big.Rat) *big.Rat {
	if a == nil || b == nil {
		return nil
	}
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func (r RealRange) IsTop() bool { return r.Lo == nil && r.Hi == nil && r.IsInteger == Unknown }

func (r RealRange) AsSingleton() (*big.Rat, bool) {
	if r.Lo != nil && r.Hi != nil && r.Lo.Cmp(r.Hi) == 0 {
		return r.Lo, true
	}
	return nil, false
}

func (r RealRange) Join(other Value) Value {
	o, ok := other.(RealRange)
	if !ok {
		return TopReal()
	}
	return RealRange{Lo: minRat(r.Lo, o.Lo), Hi: maxRat(r.Hi, o.Hi), IsInteger: r.IsInteger.Join(o.IsInteger)}
}

func (r RealRange) Overlap(o RealRange) bool {
	if r.Hi != nil && o.Lo != nil && r.Hi.Cmp(o.Lo) < 0 {
		return false
	}
	if o.Hi != nil && r.Lo != nil && o.Hi.Cmp(r.Lo) < 0 {
		return false
	}
	return true
}

func (r RealRange) CheckEq(other Value) Tristate {
	o, ok := other.(RealRange)
	if !ok {
		return Unknown
	}
	if sv, ok := r.AsSingleton(); ok {
		if ov, ok2 := o.AsSingleton(); ok2 {
			return TristateOf(sv.Cmp(ov) == 0)
		}
	}
	if !r.Overlap(o) {
		return False
	}
	return Unknown
}

func (r RealRange) String() string {
	lo, hi := "-∞", "∞"
	if r.Lo != nil {
		lo = r.Lo.RatString()
	}
	if r.Hi != nil {
		hi = r.Hi.RatString()
	}
	return fmt.Sprintf("[%s,%s]/int=%s", lo, hi, r.IsInteger)
}

func (r RealRange) Add(o RealRange) RealRange {
	var lo, hi *big.Rat
	if r.Lo != nil && o.Lo != nil {
		lo = new(big.Rat).Add(r.Lo, o.Lo)
	}
	if r.Hi != nil && o.Hi != nil {
		hi = new(big.Rat).Add(r.Hi, o.Hi)
	}
	isInt := Unknown
	if r.IsInteger == True && o.IsInteger == True {
		isInt = True
	}
	return RealRange{Lo: lo, Hi: hi, IsInteger: isInt}
}

func (r RealRange) Neg() RealRange {
	var lo, hi *big.Rat
	if r.Hi != nil {
		lo = new(big.Rat).Neg(r.Hi)
	}
	if r.Lo != nil {
		hi = new(big.Rat).Neg(r.Lo)
	}
	return RealRange{Lo: lo, Hi: hi, IsInteger: r.IsInteger}
}

func (r RealRange) Sub(o RealRange) RealRange { return r.Add(o.Neg()) }

func (r RealRange) Mul(o RealRange) RealRange {
	if r.Lo == nil || r.Hi == nil || o.Lo == nil || o.Hi == nil {
		return TopReal()
	}
	corners := []*big.Rat{
		new(big.Rat).Mul(r.Lo, o.Lo),
		new(big.Rat).Mul(r.Lo, o.Hi),
		new(big.Rat).Mul(r.Hi, o.Lo),
		new(big.Rat).Mul(r.Hi, o.Hi),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c.Cmp(lo) < 0 {
			lo = c
		}
		if c.Cmp(hi) > 0 {
			hi = c
		}
	}
	isInt := Unknown
	if r.IsInteger == True && o.IsInteger == True {
		isInt = True
	}
	return RealRange{Lo: lo, Hi: hi, IsInteger: isInt}
}
