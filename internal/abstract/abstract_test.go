package abstract

import (
	"math/big"
	"testing"
)

func big_(n int64) *big.Int { return big.NewInt(n) }

func TestTristateAndOrNot(t *testing.T) {
	if got := True.And(False); got != False {
		t.Errorf("True.And(False) = %v, want False", got)
	}
	if got := True.And(Unknown); got != Unknown {
		t.Errorf("True.And(Unknown) = %v, want Unknown", got)
	}
	if got := False.Or(Unknown); got != Unknown {
		t.Errorf("False.Or(Unknown) = %v, want Unknown", got)
	}
	if got := True.Not(); got != False {
		t.Errorf("True.Not() = %v, want False", got)
	}
	if got := Unknown.Not(); got != Unknown {
		t.Errorf("Unknown.Not() = %v, want Unknown", got)
	}
}

func TestTristateCheckEq(t *testing.T) {
	if got := True.CheckEq(True); got != True {
		t.Errorf("True.CheckEq(True) = %v, want True", got)
	}
	if got := True.CheckEq(False); got != False {
		t.Errorf("True.CheckEq(False) = %v, want False", got)
	}
	if got := Unknown.CheckEq(True); got != Unknown {
		t.Errorf("Unknown.CheckEq(True) = %v, want Unknown", got)
	}
}

func TestBoolValueJoin(t *testing.T) {
	a := SingletonBool(true)
	b := SingletonBool(false)
	j := a.Join(b).(BoolValue)
	if j.T != Unknown {
		t.Errorf("Join(true,false) = %v, want Unknown", j.T)
	}
	if !TopBool().IsTop() {
		t.Error("TopBool() must report IsTop()")
	}
}

func TestIntRangeSingletonAndJoin(t *testing.T) {
	a := SingletonInt(big_(3))
	b := SingletonInt(big_(3))
	if eq := a.CheckEq(b); eq != True {
		t.Errorf("CheckEq(3,3) = %v, want True", eq)
	}
	c := SingletonInt(big_(5))
	if eq := a.CheckEq(c); eq != False {
		t.Errorf("CheckEq(3,5) = %v, want False", eq)
	}
	joined := a.Join(c).(IntRange)
	if joined.Lo.Cmp(big_(3)) != 0 || joined.Hi.Cmp(big_(5)) != 0 {
		t.Errorf("Join(3,5) = %v, want [3,5]", joined)
	}
	if !TopInt().IsTop() {
		t.Error("TopInt() must report IsTop()")
	}
}

func TestIntRangeOverlapAndEq(t *testing.T) {
	r1 := RangeInt(big_(0), big_(5))
	r2 := RangeInt(big_(10), big_(20))
	if r1.Overlap(r2) {
		t.Error("[0,5] and [10,20] must not overlap")
	}
	if eq := r1.CheckEq(r2); eq != False {
		t.Errorf("CheckEq of disjoint ranges = %v, want False", eq)
	}
	r3 := RangeInt(big_(4), big_(12))
	if !r1.Overlap(r3) {
		t.Error("[0,5] and [4,12] must overlap")
	}
	if eq := r1.CheckEq(r3); eq != Unknown {
		t.Errorf("CheckEq of overlapping non-singleton ranges = %v, want Unknown", eq)
	}
}

func TestIntRangeArith(t *testing.T) {
	r1 := RangeInt(big_(1), big_(3))
	r2 := RangeInt(big_(10), big_(20))
	sum := r1.Add(r2)
	if sum.Lo.Cmp(big_(11)) != 0 || sum.Hi.Cmp(big_(23)) != 0 {
		t.Errorf("[1,3]+[10,20] = %v, want [11,23]", sum)
	}
	prod := r1.Mul(r2)
	if prod.Lo.Cmp(big_(10)) != 0 || prod.Hi.Cmp(big_(60)) != 0 {
		t.Errorf("[1,3]*[10,20] = %v, want [10,60]", prod)
	}
	// unbounded operand forces Top, per §1's soundness-not-tightness note.
	if !r1.Mul(TopInt()).IsTop() {
		t.Error("[1,3]*Top must be Top")
	}
}

func TestIntRangeEuclidDivMod(t *testing.T) {
	cases := []struct{ x, y, q, m int64 }{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -3, 1},
		{-7, -2, 4, 1},
	}
	for _, c := range cases {
		q, m := EuclidDivMod(big_(c.x), big_(c.y))
		if q.Cmp(big_(c.q)) != 0 || m.Cmp(big_(c.m)) != 0 {
			t.Errorf("EuclidDivMod(%d,%d) = (%v,%v), want (%d,%d)", c.x, c.y, q, m, c.q, c.m)
		}
		if m.Sign() < 0 {
			t.Errorf("EuclidDivMod(%d,%d) modulus %v is negative", c.x, c.y, m)
		}
	}
}

func TestRealRangeSingletonJoin(t *testing.T) {
	a := SingletonReal(big.NewRat(1, 2))
	b := SingletonReal(big.NewRat(1, 2))
	if eq := a.CheckEq(b); eq != True {
		t.Errorf("CheckEq(1/2,1/2) = %v, want True", eq)
	}
	c := SingletonReal(big.NewRat(3, 4))
	joined := a.Join(c).(RealRange)
	if joined.Lo.Cmp(big.NewRat(1, 2)) != 0 || joined.Hi.Cmp(big.NewRat(3, 4)) != 0 {
		t.Errorf("Join(1/2,3/4) = %v, want [1/2,3/4]", joined)
	}
}

func TestRealRangeArith(t *testing.T) {
	r1 := RangeReal(big.NewRat(1, 1), big.NewRat(2, 1))
	r2 := RangeReal(big.NewRat(3, 1), big.NewRat(4, 1))
	sum := r1.Add(r2)
	if sum.Lo.Cmp(big.NewRat(4, 1)) != 0 || sum.Hi.Cmp(big.NewRat(6, 1)) != 0 {
		t.Errorf("[1,2]+[3,4] = %v, want [4,6]", sum)
	}
}

func TestBVDomainConstAndTop(t *testing.T) {
	c := ConstBV(8, big_(5))
	v, ok := c.AsConst()
	if !ok || v.Cmp(big_(5)) != 0 {
		t.Errorf("ConstBV(8,5).AsConst() = (%v,%v), want (5,true)", v, ok)
	}
	if c.IsTop() {
		t.Error("ConstBV must not report IsTop()")
	}
	if !TopBV(8).IsTop() {
		t.Error("TopBV(8) must report IsTop()")
	}
}

func TestBVDomainBitwise(t *testing.T) {
	a := ConstBV(8, big_(0b1100))
	b := ConstBV(8, big_(0b1010))
	and := a.And(b)
	if v, ok := and.AsConst(); !ok || v.Cmp(big_(0b1000)) != 0 {
		t.Errorf("0b1100 & 0b1010 = %v, want 0b1000", v)
	}
	or := a.Or(b)
	if v, ok := or.AsConst(); !ok || v.Cmp(big_(0b1110)) != 0 {
		t.Errorf("0b1100 | 0b1010 = %v, want 0b1110", v)
	}
	xor := a.Xor(b)
	if v, ok := xor.AsConst(); !ok || v.Cmp(big_(0b0110)) != 0 {
		t.Errorf("0b1100 ^ 0b1010 = %v, want 0b0110", v)
	}
}

func TestBVDomainArith(t *testing.T) {
	w := uint32(4) // mod 16
	a := ConstBV(w, big_(15))
	b := ConstBV(w, big_(2))
	sum := a.Add(b)
	if v, ok := sum.AsConst(); !ok || v.Cmp(big_(1)) != 0 {
		t.Errorf("15+2 mod 16 = %v, want 1", v)
	}
}

func TestBVDomainCheckEqAndOverlap(t *testing.T) {
	a := ConstBV(8, big_(5))
	b := ConstBV(8, big_(5))
	if eq := a.CheckEq(b); eq != True {
		t.Errorf("CheckEq(5,5) = %v, want True", eq)
	}
	c := ConstBV(8, big_(9))
	if eq := a.CheckEq(c); eq != False {
		t.Errorf("CheckEq(5,9) = %v, want False", eq)
	}
}

func TestStructValueJoinAndEq(t *testing.T) {
	s1 := StructValue{Fields: []Value{SingletonInt(big_(1)), SingletonBool(true)}}
	s2 := StructValue{Fields: []Value{SingletonInt(big_(1)), SingletonBool(true)}}
	if eq := s1.CheckEq(s2); eq != True {
		t.Errorf("CheckEq of identical structs = %v, want True", eq)
	}
	s3 := StructValue{Fields: []Value{SingletonInt(big_(2)), SingletonBool(true)}}
	if eq := s1.CheckEq(s3); eq != False {
		t.Errorf("CheckEq of differing structs = %v, want False", eq)
	}
	if s1.IsTop() {
		t.Error("a struct of singletons must not be Top")
	}
}

func TestArrayValueJoin(t *testing.T) {
	a := ArrayValue{Elem: SingletonInt(big_(1))}
	b := ArrayValue{Elem: SingletonInt(big_(2))}
	j := a.Join(b).(ArrayValue)
	elem, ok := j.Elem.(IntRange)
	if !ok || elem.Lo.Cmp(big_(1)) != 0 || elem.Hi.Cmp(big_(2)) != 0 {
		t.Errorf("joining singleton elems 1 and 2 should give their hull [1,2], got %v", j.Elem)
	}
}

func TestFloatValueAlwaysTop(t *testing.T) {
	f := TopFloat()
	if !f.IsTop() {
		t.Error("FloatValue must always report IsTop()")
	}
	if eq := f.CheckEq(f); eq != Unknown {
		t.Errorf("FloatValue.CheckEq = %v, want Unknown", eq)
	}
}

func TestLengthRangeConcatAndSubstring(t *testing.T) {
	l1 := SingletonLength(3)
	l2 := SingletonLength(4)
	c := Concat(l1, l2)
	if v, ok := c.AsSingleton(); !ok || v.Cmp(big_(7)) != 0 {
		t.Errorf("Concat(3,4) = %v, want 7", v)
	}
	sub := Substring(TopLength(), big_(0), big_(5))
	if sub.Lo.Cmp(big_(0)) != 0 || sub.Hi.Cmp(big_(5)) != 0 {
		t.Errorf("Substring(Top,0,5) = %v, want [0,5]", sub)
	}
}
