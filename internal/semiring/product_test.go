package semiring

import "testing"

func TestProductMulAddsExponents(t *testing.T) {
	r := IntRing{}
	x := Key(1)
	a := VarProduct(r, x)
	b := VarProduct(r, x)
	p := Mul(a, b)
	n, ok := p.Exponent(x)
	if !ok || n != 2 {
		t.Fatalf("x * x exponent = (%d,%v), want (2,true)", n, ok)
	}
}

func TestProductEqualIgnoresOrder(t *testing.T) {
	r := IntRing{}
	a := Mul(VarProduct(r, Key(1)), VarProduct(r, Key(2)))
	b := Mul(VarProduct(r, Key(2)), VarProduct(r, Key(1)))
	if !ProductEqual(a, b) {
		t.Fatal("products built in different order must compare equal")
	}
}

func TestProductIsNull(t *testing.T) {
	r := IntRing{}
	if !NullProduct(r).IsNull() {
		t.Fatal("NullProduct must report IsNull()")
	}
	if VarProduct(r, Key(1)).IsNull() {
		t.Fatal("a single-variable product must not be IsNull()")
	}
}

func TestBVXorProductCancelsAtEvenCount(t *testing.T) {
	r := BVXorRing{Width: 8}
	x := Key(1)
	p := VarProduct(r, x)
	p = Mul(p, VarProduct(r, x)) // x AND x, count goes 1+1=2 -> 0 mod 2 -> dropped
	if !p.IsNull() {
		t.Fatal("BVXorRing product of x with itself twice must cancel (mod-2 count)")
	}
}

func TestEvalProduct(t *testing.T) {
	r := IntRing{}
	p := Mul(VarProduct(r, Key(1)), VarProduct(r, Key(2)))
	sumExp := EvalProduct(p, func(acc int, k Key, exp int) int { return acc + exp }, 0)
	if sumExp != 2 {
		t.Fatalf("sum of exponents = %d, want 2", sumExp)
	}
}
