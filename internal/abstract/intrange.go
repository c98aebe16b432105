package abstract

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
)

// IntRange is the Integer abstract domain: one of {x}, [lo,hi], [lo,∞),
// (−∞,hi], (−∞,∞). A nil bound means unbounded on that side.
type IntRange struct {
	Lo *big.Int
	Hi *big.Int
}

func TopInt() IntRange { return IntRange{} }

func SingletonInt(v *big.Int) IntRange {
	c := new(big.Int).Set(v)
	return IntRange{Lo: c, Hi: new(big.Int).Set(c)}
}

func RangeInt(lo, hi *big.Int) IntRange {
	var l, h *big.Int
	if lo != nil {
		l = new(big.Int).Set(lo)
	}
	if hi != nil {
		h = new(big.Int).Set(hi)
	}
	return IntRange{Lo: l, Hi: h}
}

func (r IntRange) IsTop() bool { return r.Lo == nil && r.Hi == nil }

func (r IntRange) AsSingleton() (*big.Int, bool) {
	if r.Lo != nil && r.Hi != nil && r.Lo.Cmp(r.Hi) == 0 {
		return r.Lo, true
	}
	return nil, false
}

func minBig(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func maxBig(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func (r IntRange) Join(other Value) Value {
	o, ok := other.(IntRange)
	if !ok {
		return TopInt()
	}
	return IntRange{Lo: minBig(r.Lo, o.Lo), Hi: maxBig(r.Hi, o.Hi)}
}

// Overlap reports whether the two ranges can possibly share a value.
func (r IntRange) Overlap(o IntRange) bool {
	if r.Hi != nil && o.Lo != nil && r.Hi.Cmp(o.Lo) < 0 {
		return false
	}
	if o.Hi != nil && r.Lo != nil && o.Hi.Cmp(r.Lo) < 0 {
		return false
	}
	return true
}

func (r IntRange) CheckEq(other Value) Tristate {
	o, ok := other.(IntRange)
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

func (r IntRange) String() string {
	lo := "-∞"
	hi := "∞"
	if r.Lo != nil {
		lo = humanize.BigComma(r.Lo)
	}
	if r.Hi != nil {
		hi = humanize.BigComma(r.Hi)
	}
	return fmt.Sprintf("[%s,%s]", lo, hi)
}

// Add computes the interval sum per standard interval arithmetic.
func (r IntRange) Add(o IntRange) IntRange {
	var lo, hi *big.Int
	if r.Lo != nil && o.Lo != nil {
		lo = new(big.Int).Add(r.Lo, o.Lo)
	}
	if r.Hi != nil && o.Hi != nil {
		hi = new(big.Int).Add(r.Hi, o.Hi)
	}
	return IntRange{Lo: lo, Hi: hi}
}

func (r IntRange) Neg() IntRange {
	var lo, hi *big.Int
	if r.Hi != nil {
		lo = new(big.Int).Neg(r.Hi)
	}
	if r.Lo != nil {
		hi = new(big.Int).Neg(r.Lo)
	}
	return IntRange{Lo: lo, Hi: hi}
}

func (r IntRange) Sub(o IntRange) IntRange { return r.Add(o.Neg()) }

// Mul is a best-effort interval multiplication: exact when both sides are
// bounded, Top otherwise (soundness does not require tightness, §1).
func (r IntRange) Mul(o IntRange) IntRange {
	if r.Lo == nil || r.Hi == nil || o.Lo == nil || o.Hi == nil {
		return TopInt()
	}
	corners := []*big.Int{
		new(big.Int).Mul(r.Lo, o.Lo),
		new(big.Int).Mul(r.Lo, o.Hi),
		new(big.Int).Mul(r.Hi, o.Lo),
		new(big.Int).Mul(r.Hi, o.Hi),
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
	return IntRange{Lo: lo, Hi: hi}
}

// floorDiv implements SMT-LIB's Euclidean-leaning div: for y != 0,
// 0 <= (x mod y) < |y| and y*(x div y) + (x mod y) = x.
func floorDiv(x, y *big.Int) *big.Int {
	// big.Int.DivMod already implements Euclidean division: 0 <= m < |y|.
	q, m := new(big.Int), new(big.Int)
	q.DivMod(x, y, m)
	return q
}

func euclidMod(x, y *big.Int) *big.Int {
	m := new(big.Int)
	new(big.Int).DivMod(x, y, m)
	return m
}

// Div computes SMT-LIB integer division over the ranges. When the divisor's
// range is strictly positive the closed-form in §4.B is used; otherwise the
// divisor may straddle or touch zero and the result is unbounded.
func (r IntRange) Div(o IntRange) IntRange {
	if o.Lo == nil || o.Hi == nil || o.Lo.Sign() <= 0 {
		return TopInt()
	}
	if r.Lo == nil || r.Hi == nil {
		return TopInt()
	}
	candidates := []*big.Int{
		floorDiv(r.Lo, o.Lo),
		floorDiv(r.Lo, o.Hi),
		floorDiv(r.Hi, o.Lo),
		floorDiv(r.Hi, o.Hi),
	}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		if c.Cmp(lo) < 0 {
			lo = c
		}
		if c.Cmp(hi) > 0 {
			hi = c
		}
	}
	return IntRange{Lo: lo, Hi: hi}
}

// Mod bounds the result to [0, |divisor|-1] when the divisor's absolute
// value range excludes zero.
func (r IntRange) Mod(o IntRange) IntRange {
	absLo, absHi := o.Lo, o.Hi
	if absLo != nil && absLo.Sign() < 0 && absHi != nil && absHi.Sign() < 0 {
		absLo, absHi = new(big.Int).Neg(absHi), new(big.Int).Neg(absLo)
	}
	if absLo == nil || absLo.Sign() <= 0 {
		return TopInt()
	}
	maxAbs := absHi
	if maxAbs == nil {
		return IntRange{Lo: big.NewInt(0), Hi: nil}
	}
	return IntRange{Lo: big.NewInt(0), Hi: new(big.Int).Sub(maxAbs, big.NewInt(1))}
}

// EuclidDivMod performs the concrete SMT-LIB division/modulus used for
// constant folding.
func EuclidDivMod(x, y *big.Int) (q, m *big.Int) {
	return floorDiv(x, y), euclidMod(x, y)
}
