package semiring

import "sort"

// Sum is the weighted-sum (affine) representation Σ cᵢ·xᵢ + k, stored as
// an ordered map from term identity to coefficient plus a scalar offset.
// The canonicalization invariant holds at every method boundary: no zero
// coefficient is ever stored.
type Sum struct {
	Ring   Ring
	coeffs map[Key]any
	Offset any
}

// Zero returns the empty sum (just the additive identity offset).
func Zero(r Ring) *Sum {
	return &Sum{Ring: r, coeffs: map[Key]any{}, Offset: r.Zero()}
}

// FromConst returns the constant sum `k`.
func FromConst(r Ring, k any) *Sum {
	return &Sum{Ring: r, coeffs: map[Key]any{}, Offset: k}
}

// FromVar returns the sum `1·x`.
func FromVar(r Ring, x Key) *Sum {
	return &Sum{Ring: r, coeffs: map[Key]any{x: r.One()}, Offset: r.Zero()}
}

// FromWeightedVar returns the sum `c·x`, dropping the entry if c is zero.
func FromWeightedVar(r Ring, c any, x Key) *Sum {
	s := Zero(r)
	if !r.IsZero(c) {
		s.coeffs[x] = c
	}
	return s
}

// Clone returns an independent copy.
func (s *Sum) Clone() *Sum {
	out := &Sum{Ring: s.Ring, coeffs: make(map[Key]any, len(s.coeffs)), Offset: s.Offset}
	for k, v := range s.coeffs {
		out.coeffs[k] = v
	}
	return out
}

// Keys returns the sum's term keys in a deterministic (sorted) order.
func (s *Sum) Keys() []Key {
	ks := make([]Key, 0, len(s.coeffs))
	for k := range s.coeffs {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

func (s *Sum) Coeff(k Key) (any, bool) {
	v, ok := s.coeffs[k]
	return v, ok
}

func (s *Sum) Len() int { return len(s.coeffs) }

// set stores v at k, removing the entry instead if v is zero (the
// canonicalization invariant).
func (s *Sum) set(k Key, v any) {
	if s.Ring.IsZero(v) {
		delete(s.coeffs, k)
		return
	}
	s.coeffs[k] = v
}

// Add merges two sums: on a colliding key the coefficients are summed, and
// any entry that becomes zero is removed.
func Add(a, b *Sum) *Sum {
	out := a.Clone()
	out.Offset = out.Ring.Add(out.Offset, b.Offset)
	for _, k := range b.Keys() {
		bv, _ := b.Coeff(k)
		if av, ok := out.Coeff(k); ok {
			out.set(k, out.Ring.Add(av, bv))
		} else {
			out.set(k, bv)
		}
	}
	return out
}

// Scale multiplies every coefficient and the offset by c. Scale(0, Σ) is
// the zero sum.
func Scale(c any, s *Sum) *Sum {
	r := s.Ring
	if r.IsZero(c) {
		return Zero(r)
	}
	out := Zero(r)
	out.Offset = r.Mul(c, s.Offset)
	for _, k := range s.Keys() {
		v, _ := s.Coeff(k)
		out.set(k, r.Mul(c, v))
	}
	return out
}

// AddConst returns s + k.
func AddConst(s *Sum, k any) *Sum {
	out := s.Clone()
	out.Offset = out.Ring.Add(out.Offset, k)
	return out
}

// AsConstant returns (offset, true) iff the sum has no variable terms.
func (s *Sum) AsConstant() (any, bool) {
	if len(s.coeffs) == 0 {
		return s.Offset, true
	}
	return nil, false
}

// AsVar returns (x, true) iff the sum is exactly one entry with coefficient
// one and a zero offset.
func (s *Sum) AsVar() (Key, bool) {
	if len(s.coeffs) != 1 || !s.Ring.IsZero(s.Offset) {
		return 0, false
	}
	for k, v := range s.coeffs {
		if !s.Ring.Eq(v, s.Ring.One()) {
			return 0, false
		}
		return k, true
	}
	return 0, false
}

// AsWeightedVar returns (c, x, true) iff the sum is one entry with a zero
// offset.
func (s *Sum) AsWeightedVar() (any, Key, bool) {
	if len(s.coeffs) != 1 || !s.Ring.IsZero(s.Offset) {
		return nil, 0, false
	}
	for k, v := range s.coeffs {
		return v, k, true
	}
	return nil, 0, false
}

// AsAffineVar returns (c, x, k, true) iff the sum has exactly one entry.
func (s *Sum) AsAffineVar() (any, Key, any, bool) {
	if len(s.coeffs) != 1 {
		return nil, 0, nil, false
	}
	for k, v := range s.coeffs {
		return v, k, s.Offset, true
	}
	return nil, 0, nil, false
}

// IsZero reports whether the sum is the additive identity (no terms, zero
// offset).
func (s *Sum) IsZero() bool {
	return len(s.coeffs) == 0 && s.Ring.IsZero(s.Offset)
}

// Equal reports structural equality: same keys, equal coefficients, equal
// offset. Reordering entries never changes this (the map has no order).
func Equal(a, b *Sum) bool {
	if len(a.coeffs) != len(b.coeffs) || !a.Ring.Eq(a.Offset, b.Offset) {
		return false
	}
	for k, v := range a.coeffs {
		bv, ok := b.coeffs[k]
		if !ok || !a.Ring.Eq(v, bv) {
			return false
		}
	}
	return true
}

// ExtractCommon returns (z, x', y') with x = z + x', y = z + y', where z
// holds exactly the term/coefficient pairs present in both sums with equal
// coefficient (plus the common offset, when equal). Used to preserve
// sharing across ITE branches.
func ExtractCommon(x, y *Sum) (z, xp, yp *Sum) {
	r := x.Ring
	z = Zero(r)
	xp = x.Clone()
	yp = y.Clone()
	for _, k := range x.Keys() {
		xv, _ := x.Coeff(k)
		if yv, ok := y.Coeff(k); ok && r.Eq(xv, yv) {
			z.set(k, xv)
			delete(xp.coeffs, k)
			delete(yp.coeffs, k)
		}
	}
	if r.Eq(x.Offset, y.Offset) {
		z.Offset = x.Offset
		xp.Offset = r.Zero()
		yp.Offset = r.Zero()
	}
	return z, xp, yp
}

// ReduceMod reduces an integer sum's coefficients and offset modulo k,
// dropping any coefficient that becomes zero. The caller supplies the
// reduction function since only IntRing coefficients are meaningfully
// reduced this way.
func ReduceMod(s *Sum, reduce func(any) any) *Sum {
	out := Zero(s.Ring)
	out.Offset = reduce(s.Offset)
	for _, k := range s.Keys() {
		v, _ := s.Coeff(k)
		out.set(k, reduce(v))
	}
	return out
}

// Eval folds the sum with caller-supplied add/mul/const operations. For a
// non-zero offset the accumulator seeds with constFn(k); otherwise it
// seeds with mulFn of the first entry (in sorted-key order for
// determinism).
func Eval[T any](s *Sum, addFn func(T, T) T, mulFn func(any, Key) T, constFn func(any) T) T {
	keys := s.Keys()
	var acc T
	started := false
	if !s.Ring.IsZero(s.Offset) {
		acc = constFn(s.Offset)
		started = true
	}
	for _, k := range keys {
		v, _ := s.Coeff(k)
		term := mulFn(v, k)
		if !started {
			acc = term
			started = true
			continue
		}
		acc = addFn(acc, term)
	}
	if !started {
		acc = constFn(s.Ring.Zero())
	}
	return acc
}
