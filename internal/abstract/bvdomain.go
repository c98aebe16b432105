package abstract

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
)

// BVDomain is the BV(w) abstract domain: a bitwise refinement (per bit,
// known-0/known-1/unknown) carried alongside an arithmetic interval modulo
// 2^w. Operators use whichever view is tighter for a given query.
type BVDomain struct {
	Width uint32

	// KnownZero has a 1 bit wherever the bit is known to be 0.
	// KnownOne has a 1 bit wherever the bit is known to be 1.
	// A bit absent from both is unknown; a bit can never be in both.
	KnownZero *big.Int
	KnownOne  *big.Int

	// ALo, AHi bound the unsigned value modulo 2^w.
	ALo, AHi *big.Int
}

func mask(width uint32) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

func TopBV(width uint32) BVDomain {
	return BVDomain{
		Width:     width,
		KnownZero: big.NewInt(0),
		KnownOne:  big.NewInt(0),
		ALo:       big.NewInt(0),
		AHi:       new(big.Int).Set(mask(width)),
	}
}

// ConstBV returns the singleton domain for a concrete value (reduced mod
// 2^w).
func ConstBV(width uint32, v *big.Int) BVDomain {
	reduced := new(big.Int).And(v, mask(width))
	notV := new(big.Int).AndNot(mask(width), reduced)
	return BVDomain{
		Width:     width,
		KnownZero: notV,
		KnownOne:  new(big.Int).Set(reduced),
		ALo:       new(big.Int).Set(reduced),
		AHi:       new(big.Int).Set(reduced),
	}
}

func (d BVDomain) IsTop() bool {
	return d.KnownZero.Sign() == 0 && d.KnownOne.Sign() == 0 &&
		d.ALo.Sign() == 0 && d.AHi.Cmp(mask(d.Width)) == 0
}

func (d BVDomain) AsConst() (*big.Int, bool) {
	if d.ALo != nil && d.AHi != nil && d.ALo.Cmp(d.AHi) == 0 {
		return d.ALo, true
	}
	full := new(big.Int).Or(d.KnownZero, d.KnownOne)
	if full.Cmp(mask(d.Width)) == 0 {
		return new(big.Int).Set(d.KnownOne), true
	}
	return nil, false
}

func (d BVDomain) Join(other Value) Value {
	o, ok := other.(BVDomain)
	if !ok || o.Width != d.Width {
		return TopBV(d.Width)
	}
	return BVDomain{
		Width:     d.Width,
		KnownZero: new(big.Int).And(d.KnownZero, o.KnownZero),
		KnownOne:  new(big.Int).And(d.KnownOne, o.KnownOne),
		ALo:       minBig(d.ALo, o.ALo),
		AHi:       maxBig(d.AHi, o.AHi),
	}
}

func (d BVDomain) Overlap(o BVDomain) bool {
	// Bitwise-incompatible positions (one says 0, the other says 1) rule
	// out any overlap outright.
	conflict := new(big.Int).And(d.KnownOne, o.KnownZero)
	conflict.Or(conflict, new(big.Int).And(d.KnownZero, o.KnownOne))
	if conflict.Sign() != 0 {
		return false
	}
	if d.AHi.Cmp(o.ALo) < 0 || o.AHi.Cmp(d.ALo) < 0 {
		return false
	}
	return true
}

func (d BVDomain) CheckEq(other Value) Tristate {
	o, ok := other.(BVDomain)
	if !ok || o.Width != d.Width {
		return Unknown
	}
	if cv, ok := d.AsConst(); ok {
		if ov, ok2 := o.AsConst(); ok2 {
			return TristateOf(cv.Cmp(ov) == 0)
		}
	}
	if !d.Overlap(o) {
		return False
	}
	return Unknown
}

func (d BVDomain) String() string {
	return fmt.Sprintf("bv%d[%s,%s]", d.Width, humanize.BigComma(d.ALo), humanize.BigComma(d.AHi))
}

func (d BVDomain) reduce(v *big.Int) *big.Int {
	return new(big.Int).And(v, mask(d.Width))
}

func (d BVDomain) And(o BVDomain) BVDomain {
	kz := new(big.Int).Or(d.KnownZero, o.KnownZero)
	ko := new(big.Int).And(d.KnownOne, o.KnownOne)
	r := TopBV(d.Width)
	r.KnownZero, r.KnownOne = kz, ko
	r.ALo, r.AHi = big.NewInt(0), new(big.Int).Set(mask(d.Width))
	if c, ok := r.bitwiseConst(); ok {
		r.ALo, r.AHi = c, new(big.Int).Set(c)
	}
	return r
}

func (d BVDomain) bitwiseConst() (*big.Int, bool) {
	full := new(big.Int).Or(d.KnownZero, d.KnownOne)
	if full.Cmp(mask(d.Width)) == 0 {
		return new(big.Int).Set(d.KnownOne), true
	}
	return nil, false
}

func (d BVDomain) Or(o BVDomain) BVDomain {
	kz := new(big.Int).And(d.KnownZero, o.KnownZero)
	ko := new(big.Int).Or(d.KnownOne, o.KnownOne)
	r := TopBV(d.Width)
	r.KnownZero, r.KnownOne = kz, ko
	if c, ok := r.bitwiseConst(); ok {
		r.ALo, r.AHi = c, new(big.Int).Set(c)
	}
	return r
}

func (d BVDomain) Xor(o BVDomain) BVDomain {
	// Bits known on both sides combine to a known bit (parity); otherwise
	// unknown.
	bothKnownZero := new(big.Int).Or(
		new(big.Int).And(d.KnownZero, o.KnownZero),
		new(big.Int).And(d.KnownOne, o.KnownOne),
	)
	bothKnownOne := new(big.Int).Or(
		new(big.Int).And(d.KnownZero, o.KnownOne),
		new(big.Int).And(d.KnownOne, o.KnownZero),
	)
	r := TopBV(d.Width)
	r.KnownZero, r.KnownOne = bothKnownZero, bothKnownOne
	if c, ok := r.bitwiseConst(); ok {
		r.ALo, r.AHi = c, new(big.Int).Set(c)
	}
	return r
}

func (d BVDomain) Not() BVDomain {
	r := TopBV(d.Width)
	r.KnownZero, r.KnownOne = new(big.Int).Set(d.KnownOne), new(big.Int).Set(d.KnownZero)
	if cv, ok := d.AsConst(); ok {
		c := d.reduce(new(big.Int).Xor(cv, mask(d.Width)))
		r.ALo, r.AHi = c, new(big.Int).Set(c)
	}
	return r
}

// Add folds bitvector addition when both operands are constants and
// returns Top otherwise; neither the arithmetic interval nor the bitwise
// view is propagated (sound but not tight, acceptable per §1's
// best-effort optimality note).
func (d BVDomain) Add(o BVDomain) BVDomain {
	if cv, ok := d.AsConst(); ok {
		if ov, ok2 := o.AsConst(); ok2 {
			return ConstBV(d.Width, d.reduce(new(big.Int).Add(cv, ov)))
		}
	}
	return TopBV(d.Width)
}

func (d BVDomain) Neg() BVDomain {
	if cv, ok := d.AsConst(); ok {
		return ConstBV(d.Width, d.reduce(new(big.Int).Neg(cv)))
	}
	return TopBV(d.Width)
}

func (d BVDomain) Sub(o BVDomain) BVDomain { return d.Add(o.Neg()) }

func (d BVDomain) Mul(o BVDomain) BVDomain {
	if cv, ok := d.AsConst(); ok {
		if ov, ok2 := o.AsConst(); ok2 {
			return ConstBV(d.Width, d.reduce(new(big.Int).Mul(cv, ov)))
		}
	}
	return TopBV(d.Width)
}
