package semiring

import "sort"

// Product is Π xᵢ^nᵢ, stored as an ordered map from term identity to
// positive occurrence count. Count composition is delegated to a
// CountRing: addition for Int/Real/BV-arith, mod-2 for BV-xor.
type Product struct {
	Count  CountRing
	counts map[Key]int
}

func NullProduct(r CountRing) *Product {
	return &Product{Count: r, counts: map[Key]int{}}
}

func VarProduct(r CountRing, x Key) *Product {
	return &Product{Count: r, counts: map[Key]int{x: 1}}
}

func (p *Product) Clone() *Product {
	out := &Product{Count: p.Count, counts: make(map[Key]int, len(p.counts))}
	for k, v := range p.counts {
		out.counts[k] = v
	}
	return out
}

func (p *Product) Keys() []Key {
	ks := make([]Key, 0, len(p.counts))
	for k := range p.counts {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

func (p *Product) Exponent(k Key) (int, bool) {
	v, ok := p.counts[k]
	return v, ok
}

func (p *Product) Len() int { return len(p.counts) }

// IsNull reports whether the product is the empty (identity) product.
func (p *Product) IsNull() bool { return len(p.counts) == 0 }

// Mul merges two products, composing colliding counts via the CountRing
// and dropping any entry whose composed count is zero.
func Mul(a, b *Product) *Product {
	out := a.Clone()
	for k, bn := range b.counts {
		if an, ok := out.counts[k]; ok {
			n := out.Count.CombineCounts(an, bn)
			if n == 0 {
				delete(out.counts, k)
			} else {
				out.counts[k] = n
			}
		} else {
			out.counts[k] = bn
		}
	}
	return out
}

func ProductEqual(a, b *Product) bool {
	if len(a.counts) != len(b.counts) {
		return false
	}
	for k, v := range a.counts {
		if bv, ok := b.counts[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// EvalProduct folds the product with a caller-supplied combine operation over
// (term, exponent) pairs, in sorted-key order for determinism.
func EvalProduct[T any](p *Product, combine func(acc T, k Key, exp int) T, identity T) T {
	acc := identity
	for _, k := range p.Keys() {
		n := p.counts[k]
		acc = combine(acc, k, n)
	}
	return acc
}
