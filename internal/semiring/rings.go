package semiring

import "math/big"

// IntRing is the unbounded mathematical integer semiring.
type IntRing struct{}

func (IntRing) Add(a, b any) any { return new(big.Int).Add(a.(*big.Int), b.(*big.Int)) }
func (IntRing) Neg(a any) any    { return new(big.Int).Neg(a.(*big.Int)) }
func (IntRing) Mul(a, b any) any { return new(big.Int).Mul(a.(*big.Int), b.(*big.Int)) }
func (IntRing) IsZero(a any) bool { return a.(*big.Int).Sign() == 0 }
func (IntRing) Zero() any        { return big.NewInt(0) }
func (IntRing) One() any         { return big.NewInt(1) }
func (IntRing) Eq(a, b any) bool { return a.(*big.Int).Cmp(b.(*big.Int)) == 0 }
func (IntRing) CombineCounts(a, b int) int { return a + b }

// RealRing is the rational-number semiring.
type RealRing struct{}

func (RealRing) Add(a, b any) any { return new(big.Rat).Add(a.(*big.Rat), b.(*big.Rat)) }
func (RealRing) Neg(a any) any    { return new(big.Rat).Neg(a.(*big.Rat)) }
func (RealRing) Mul(a, b any) any { return new(big.Rat).Mul(a.(*big.Rat), b.(*big.Rat)) }
func (RealRing) IsZero(a any) bool { return a.(*big.Rat).Sign() == 0 }
func (RealRing) Zero() any        { return big.NewRat(0, 1) }
func (RealRing) One() any         { return big.NewRat(1, 1) }
func (RealRing) Eq(a, b any) bool { return a.(*big.Rat).Cmp(b.(*big.Rat)) == 0 }
func (RealRing) CombineCounts(a, b int) int { return a + b }

// BVArithRing is bitvector arithmetic modulo 2^w.
type BVArithRing struct{ Width uint32 }

func (r BVArithRing) mod(v *big.Int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(r.Width))
	out := new(big.Int).Mod(v, m)
	return out
}
func (r BVArithRing) Add(a, b any) any { return r.mod(new(big.Int).Add(a.(*big.Int), b.(*big.Int))) }
func (r BVArithRing) Neg(a any) any    { return r.mod(new(big.Int).Neg(a.(*big.Int))) }
func (r BVArithRing) Mul(a, b any) any { return r.mod(new(big.Int).Mul(a.(*big.Int), b.(*big.Int))) }
func (r BVArithRing) IsZero(a any) bool { return a.(*big.Int).Sign() == 0 }
func (r BVArithRing) Zero() any        { return big.NewInt(0) }
func (r BVArithRing) One() any         { return big.NewInt(1) }
func (r BVArithRing) Eq(a, b any) bool { return a.(*big.Int).Cmp(b.(*big.Int)) == 0 }
func (r BVArithRing) CombineCounts(a, b int) int { return a + b }

// BVXorRing is the bitvector xor semiring: "multiplication" is bitwise AND
// and coefficients are bitmasks.
type BVXorRing struct{ Width uint32 }

func (r BVXorRing) mask() *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(r.Width))
	return m.Sub(m, big.NewInt(1))
}
func (r BVXorRing) Add(a, b any) any { return new(big.Int).Xor(a.(*big.Int), b.(*big.Int)) }
func (r BVXorRing) Neg(a any) any    { return a } // x is its own additive inverse under xor
func (r BVXorRing) Mul(a, b any) any { return new(big.Int).And(a.(*big.Int), b.(*big.Int)) }
func (r BVXorRing) IsZero(a any) bool { return a.(*big.Int).Sign() == 0 }
func (r BVXorRing) Zero() any        { return big.NewInt(0) }
func (r BVXorRing) One() any         { return new(big.Int).Set(r.mask()) }
func (r BVXorRing) Eq(a, b any) bool { return a.(*big.Int).Cmp(b.(*big.Int)) == 0 }

// CombineCounts implements the mod-2 occurrence rule for xor "products"
// (really bitwise AND): an even number of appearances cancels to absent.
func (r BVXorRing) CombineCounts(a, b int) int { return (a + b) % 2 }
