package builder

import (
	"math/big"
	"testing"

	"symexpr/internal/term"
)

func i(n int64) *big.Int { return big.NewInt(n) }

// --- Bool / Ite ---

func TestNotDoubleNegationAndConstFold(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.Bool(), "x")
	if got := b.Not(b.Not(x)); got != x {
		t.Error("Not(Not(x)) must collapse back to x")
	}
	if b.Not(b.True()) != b.False() {
		t.Error("Not(true) must be false")
	}
}

func TestAndFlattensDedupsAndShortCircuits(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.Bool(), "x")
	y := b.FreshConst(b.Sorts.Bool(), "y")

	if b.And(x, b.False(), y) != b.False() {
		t.Error("And with a false operand must collapse to false")
	}
	if b.And(x, b.True()) != x {
		t.Error("And(x, true) must collapse to x")
	}
	if got := b.And(x, x, x); got != x {
		t.Error("And must dedup identical operands down to the bare term")
	}
	if b.And(x, b.Not(x)) != b.False() {
		t.Error("And(x, not x) must be false")
	}
	nested := b.And(b.And(x, y), x)
	flatTwo := b.And(x, y)
	if nested != flatTwo {
		t.Error("And must flatten nested conjunctions before deduping")
	}
}

func TestIteCollapsesOnConstantCondition(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	y := b.FreshConst(b.Sorts.Integer(), "y")
	if b.Ite(b.True(), x, y) != x {
		t.Error("Ite(true, x, y) must be x")
	}
	if b.Ite(b.False(), x, y) != y {
		t.Error("Ite(false, x, y) must be y")
	}
	if got := b.Ite(b.FreshConst(b.Sorts.Bool(), "c"), x, x); got != x {
		t.Error("Ite(c, x, x) must collapse to x regardless of condition")
	}
}

func TestIteIntSumSharesCommonPart(t *testing.T) {
	b := New()
	c := b.FreshConst(b.Sorts.Bool(), "c")
	x := b.FreshConst(b.Sorts.Integer(), "x")
	y := b.FreshConst(b.Sorts.Integer(), "y")
	z := b.FreshConst(b.Sorts.Integer(), "z")

	thenBranch := b.IntAdd(x, y) // x + y
	elseBranch := b.IntAdd(x, z) // x + z
	result := b.Ite(c, thenBranch, elseBranch)

	// Expect x + ite(c, y, z): verify via concrete substitution-free check
	// that the result is a Sum whose children include x.
	if result.Op() != term.OpSum {
		t.Fatalf("Ite over two sums sharing a term should still fold through Sum, got op %v", result.Op())
	}
	hasX := false
	for _, ch := range result.Children() {
		if ch == x {
			hasX = true
		}
	}
	if !hasX {
		t.Errorf("expected x among the result's children, got %v", result.Children())
	}
}

// --- Integer / Real arithmetic ---

func TestIntLitFoldsArithmetic(t *testing.T) {
	b := New()
	x := b.IntLit(i(3))
	y := b.IntLit(i(4))
	sum := b.IntAdd(x, y)
	if k, ok := b.intScalarOf(sum); !ok || k.Cmp(i(7)) != 0 {
		t.Fatalf("IntAdd(3,4) = %v, want constant 7", k)
	}
	prod := b.IntMul(b.IntLit(i(5)), b.IntLit(i(6)))
	if k, ok := b.intScalarOf(prod); !ok || k.Cmp(i(30)) != 0 {
		t.Fatalf("IntMul(5,6) = %v, want constant 30", k)
	}
}

func TestIntAddCommutesToSameTerm(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	y := b.FreshConst(b.Sorts.Integer(), "y")
	if b.IntAdd(x, y) != b.IntAdd(y, x) {
		t.Error("x+y and y+x must intern to the same node")
	}
}

func TestIntSubSelfIsZero(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	diff := b.IntSub(x, x)
	k, ok := b.intScalarOf(diff)
	if !ok || k.Sign() != 0 {
		t.Fatalf("x - x = %v, want constant 0", k)
	}
}

func TestIntDivModEuclidean(t *testing.T) {
	b := New()
	q := b.IntDiv(b.IntLit(i(-7)), b.IntLit(i(2)))
	m := b.IntMod(b.IntLit(i(-7)), b.IntLit(i(2)))
	qv, _ := b.intScalarOf(q)
	mv, _ := b.intScalarOf(m)
	if qv.Cmp(i(-4)) != 0 || mv.Cmp(i(1)) != 0 {
		t.Fatalf("-7 div/mod 2 = (%v,%v), want (-4,1)", qv, mv)
	}
}

func TestRealAddFolds(t *testing.T) {
	b := New()
	sum := b.RealAdd(b.RealLit(big.NewRat(1, 2)), b.RealLit(big.NewRat(1, 2)))
	k, ok := b.realScalarOf(sum)
	if !ok || k.Cmp(big.NewRat(1, 1)) != 0 {
		t.Fatalf("1/2 + 1/2 = %v, want 1", k)
	}
}

// --- Equality & predicates ---

func TestEqReflexiveAndConstFold(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	if b.Eq(x, x) != b.True() {
		t.Error("Eq(x,x) must fold to true")
	}
	if b.Eq(b.IntLit(i(3)), b.IntLit(i(4))) != b.False() {
		t.Error("Eq(3,4) must fold to false")
	}
}

func TestEqOnBoolIsIff(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.Bool(), "x")
	y := b.FreshConst(b.Sorts.Bool(), "y")
	if b.Eq(x, y) != b.Iff(x, y) {
		t.Error("Eq on Bool sort must be represented identically to Iff(x,y)")
	}
}

func TestEqOnStructIsFieldwiseAnd(t *testing.T) {
	b := New()
	st := b.Sorts.Struct(b.Sorts.Integer(), b.Sorts.Bool())
	x := b.FreshConst(st, "x")
	y := b.FreshConst(st, "y")
	got := b.Eq(x, y)
	want := b.And(b.Eq(b.StructField(x, 0), b.StructField(y, 0)), b.Eq(b.StructField(x, 1), b.StructField(y, 1)))
	if got != want {
		t.Error("Eq on Struct sort must equal the conjunction of field equalities")
	}
}

func TestIntLeConstFoldAndIntervalShortCircuit(t *testing.T) {
	b := New()
	if b.IntLe(b.IntLit(i(3)), b.IntLit(i(5))) != b.True() {
		t.Error("IntLe(3,5) must fold to true")
	}
	if b.IntLe(b.IntLit(i(5)), b.IntLit(i(3))) != b.False() {
		t.Error("IntLe(5,3) must fold to false")
	}
	lo := b.FreshBoundedInt("lo", i(10), i(20))
	hi := b.FreshBoundedInt("hi", i(30), i(40))
	if b.IntLe(lo, hi) != b.True() {
		t.Error("IntLe must short-circuit true when [10,20] <= [30,40] is guaranteed by the intervals")
	}
}

func TestBvULtConstFold(t *testing.T) {
	b := New()
	x := b.BvLit(8, i(3))
	y := b.BvLit(8, i(5))
	if b.BvULt(x, y) != b.True() {
		t.Error("BvULt(3,5) must fold to true")
	}
	if b.BvULt(y, x) != b.False() {
		t.Error("BvULt(5,3) must fold to false")
	}
}

func TestBvSLtSignedConstFold(t *testing.T) {
	b := New()
	negOne := b.BvLit(8, i(0xFF)) // -1 signed
	zero := b.BvLit(8, i(0))
	if b.BvSLt(negOne, zero) != b.True() {
		t.Error("BvSLt(-1,0) must fold to true under signed interpretation")
	}
	if b.BvULt(negOne, zero) != b.False() {
		t.Error("BvULt(0xFF,0) must fold to false under unsigned interpretation")
	}
}

func TestBvTestBit(t *testing.T) {
	b := New()
	x := b.BvLit(8, i(0b0010))
	if b.BvTestBit(x, 1) != b.True() {
		t.Error("bit 1 of 0b0010 must be set")
	}
	if b.BvTestBit(x, 0) != b.False() {
		t.Error("bit 0 of 0b0010 must be clear")
	}
}

func TestRealIsInt(t *testing.T) {
	b := New()
	if b.RealIsInt(b.RealLit(big.NewRat(4, 1))) != b.True() {
		t.Error("RealIsInt(4) must fold to true")
	}
	if b.RealIsInt(b.RealLit(big.NewRat(1, 2))) != b.False() {
		t.Error("RealIsInt(1/2) must fold to false")
	}
}

// --- Bitvectors ---

func TestBvAddWrapsAndXorSelfCancels(t *testing.T) {
	b := New()
	sum := b.BvAdd(b.BvLit(4, i(15)), b.BvLit(4, i(2)))
	v, ok := b.bvArithScalarOf(sum)
	if !ok || v.Cmp(i(1)) != 0 {
		t.Fatalf("15+2 mod 16 = %v, want 1", v)
	}
	x := b.FreshConst(b.Sorts.BV(8), "x")
	if got := b.BvXor(x, x); got != b.BvLit(8, i(0)) {
		t.Error("x xor x must fold to the zero bitvector")
	}
}

func TestBvAndOrIdentities(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.BV(8), "x")
	zero := b.BvLit(8, i(0))
	allOnes := b.BvLit(8, i(0xFF))
	if b.BvAnd(x, zero) != zero {
		t.Error("x & 0 must be 0")
	}
	if b.BvAnd(x, allOnes) != x {
		t.Error("x & 0xFF must be x")
	}
	if b.BvOr(x, allOnes) != allOnes {
		t.Error("x | 0xFF must be 0xFF")
	}
	if b.BvOr(x, zero) != x {
		t.Error("x | 0 must be x")
	}
}

func TestBvNotDoubleNegation(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.BV(8), "x")
	if got := b.BvNot(b.BvNot(x)); got != x {
		t.Error("BvNot(BvNot(x)) must collapse to x")
	}
}

func TestBvConcatExtractRoundTrip(t *testing.T) {
	b := New()
	hi := b.BvLit(4, i(0b1010))
	lo := b.BvLit(4, i(0b0101))
	cat := b.BvConcat(hi, lo)
	v, ok := b.bvArithScalarOf(cat)
	if !ok || v.Cmp(i(0b10100101)) != 0 {
		t.Fatalf("concat(1010,0101) = %v, want 0b10100101", v)
	}
	back := b.BvExtract(cat, 7, 4)
	if backV, ok := b.bvArithScalarOf(back); !ok || backV.Cmp(i(0b1010)) != 0 {
		t.Fatalf("extract[7:4] of concat = %v, want 0b1010", backV)
	}
}

func TestBvShiftConstFold(t *testing.T) {
	b := New()
	x := b.BvLit(8, i(0b00000001))
	amt := b.BvLit(8, i(3))
	shl := b.BvShl(x, amt)
	v, ok := b.bvArithScalarOf(shl)
	if !ok || v.Cmp(i(0b00001000)) != 0 {
		t.Fatalf("1 << 3 = %v, want 8", v)
	}
}

func TestBvZextSextWidth(t *testing.T) {
	b := New()
	x := b.FreshConst(b.Sorts.BV(4), "x")
	z := b.BvZext(x, 4)
	if z.Sort().Width() != 8 {
		t.Fatalf("BvZext(x,4) width = %d, want 8", z.Sort().Width())
	}
	s := b.BvSext(x, 4)
	if s.Sort().Width() != 8 {
		t.Fatalf("BvSext(x,4) width = %d, want 8", s.Sort().Width())
	}
}

func TestBvPopcountClzCtz(t *testing.T) {
	b := New()
	x := b.BvLit(8, i(0b00110000))
	if v, ok := b.bvArithScalarOf(b.BvPopcount(x)); !ok || v.Cmp(i(2)) != 0 {
		t.Fatalf("popcount(0b00110000) = %v, want 2", v)
	}
	if v, ok := b.bvArithScalarOf(b.BvClz(x)); !ok || v.Cmp(i(2)) != 0 {
		t.Fatalf("clz(0b00110000) = %v, want 2", v)
	}
	if v, ok := b.bvArithScalarOf(b.BvCtz(x)); !ok || v.Cmp(i(4)) != 0 {
		t.Fatalf("ctz(0b00110000) = %v, want 4", v)
	}
}

// --- Float ---

func TestFloatArithFoldsOnLiterals(t *testing.T) {
	b := New()
	x := b.FloatLit(8, 24, big.NewFloat(1.5))
	y := b.FloatLit(8, 24, big.NewFloat(2.5))
	sum := b.FloatAdd(x, y)
	v, ok := FloatLiteral(sum)
	if !ok {
		t.Fatal("FloatAdd of two literals must fold to a literal")
	}
	got, _ := v.Float64()
	if got != 4.0 {
		t.Fatalf("1.5+2.5 = %v, want 4", got)
	}
}

func TestFloatIsNaNNeverTrueOnLiteral(t *testing.T) {
	b := New()
	x := b.FloatLit(8, 24, big.NewFloat(1.0))
	if b.FloatIsNaN(x) != b.False() {
		t.Error("math/big.Float literals can never be NaN, so FloatIsNaN must fold to false")
	}
}

// --- Strings ---

func TestStrConcatFoldsAndLen(t *testing.T) {
	b := New()
	x := b.StrLit(0, "foo")
	y := b.StrLit(0, "bar")
	cat := b.StrConcat(x, y)
	s, ok := StringLiteral(cat)
	if !ok || s != "foobar" {
		t.Fatalf("str.concat(foo,bar) = %q, want foobar", s)
	}
	ln := b.StrLen(cat)
	k, ok := b.intScalarOf(ln)
	if !ok || k.Cmp(i(6)) != 0 {
		t.Fatalf("str.len(foobar) = %v, want 6", k)
	}
}

func TestStrContainsPrefixSuffix(t *testing.T) {
	b := New()
	s := b.StrLit(0, "hello world")
	if b.StrContains(s, b.StrLit(0, "wor")) != b.True() {
		t.Error("hello world contains wor")
	}
	if b.StrPrefixOf(b.StrLit(0, "hello"), s) != b.True() {
		t.Error("hello is a prefix of hello world")
	}
	if b.StrSuffixOf(b.StrLit(0, "world"), s) != b.True() {
		t.Error("world is a suffix of hello world")
	}
}

// --- Struct ---

func TestStructFieldSelectAndReconstruct(t *testing.T) {
	b := New()
	st := b.Sorts.Struct(b.Sorts.Integer(), b.Sorts.Bool())
	x3 := b.IntLit(i(3))
	tru := b.True()
	s := b.StructCtor(st, x3, tru)
	if b.StructField(s, 0) != x3 {
		t.Error("field(struct(3,true),0) must be 3")
	}
	if b.StructField(s, 1) != tru {
		t.Error("field(struct(3,true),1) must be true")
	}

	base := b.FreshConst(st, "base")
	rebuilt := b.StructCtor(st, b.StructField(base, 0), b.StructField(base, 1))
	if rebuilt != base {
		t.Error("struct(field(x,0),field(x,1)) must collapse back to x")
	}
}

// --- Arrays ---

func TestArrSelectOverConstArray(t *testing.T) {
	b := New()
	idxSort := b.Sorts.Integer()
	elemSort := b.Sorts.Integer()
	arrSort := b.Sorts.Array(elemSort, idxSort)
	def := b.IntLit(i(7))
	arr := b.ArrConst(arrSort, def)
	idx := b.FreshConst(idxSort, "i")
	if b.ArrSelect(arr, idx) != def {
		t.Error("select on a constant array must always be its default value")
	}
}

func TestArrSelectUpdateSameIndex(t *testing.T) {
	b := New()
	idxSort := b.Sorts.Integer()
	arrSort := b.Sorts.Array(idxSort, idxSort)
	a := b.FreshConst(arrSort, "a")
	i0 := b.FreshConst(idxSort, "i")
	v := b.IntLit(i(42))
	updated := b.ArrUpdate(a, v, i0)
	if b.ArrSelect(updated, i0) != v {
		t.Error("select(update(a,i,v),i) must collapse to v")
	}
}

func TestArrSelectUpdateDistinctLiteralIndex(t *testing.T) {
	b := New()
	idxSort := b.Sorts.Integer()
	arrSort := b.Sorts.Array(idxSort, idxSort)
	a := b.FreshConst(arrSort, "a")
	i1 := b.IntLit(i(1))
	i2 := b.IntLit(i(2))
	v := b.IntLit(i(99))
	updated := b.ArrUpdate(a, v, i1)
	if got := b.ArrSelect(updated, i2); got != b.ArrSelect(a, i2) {
		t.Error("select(update(a,1,v),2) must skip the unrelated update to select(a,2)")
	}
}

// --- Quantifiers / fresh vars / conversions ---

func TestForallVacuousWhenBodyIgnoresVar(t *testing.T) {
	b := New()
	boundX := b.FreshBoundConst(b.Sorts.Integer(), "x")
	body := b.True()
	if got := b.Forall([]*term.Node{boundX}, body); got != body {
		t.Error("Forall over an unreferenced variable must fold to the body itself")
	}
}

func TestForallNonVacuousWraps(t *testing.T) {
	b := New()
	boundX := b.FreshBoundConst(b.Sorts.Integer(), "x")
	body := b.IntLe(boundX, b.IntLit(i(10)))
	q := b.Forall([]*term.Node{boundX}, body)
	if q.Op() != term.OpForall {
		t.Fatalf("Forall referencing its bound var must wrap as OpForall, got %v", q.Op())
	}
}

func TestFreshBoundedIntRejectsInvertedRange(t *testing.T) {
	b := New()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("FreshBoundedInt(lo > hi) must panic with an InvalidRange error")
		}
	}()
	b.FreshBoundedInt("bad", i(10), i(1))
}

func TestIntToRealAndRealToIntRoundTrip(t *testing.T) {
	b := New()
	x := b.IntLit(i(5))
	r := b.IntToReal(x)
	k, ok := b.realScalarOf(r)
	if !ok || k.Cmp(big.NewRat(5, 1)) != 0 {
		t.Fatalf("IntToReal(5) = %v, want 5", k)
	}
	back := b.RealToInt(r)
	ik, ok := b.intScalarOf(back)
	if !ok || ik.Cmp(i(5)) != 0 {
		t.Fatalf("RealToInt(IntToReal(5)) = %v, want 5", ik)
	}
}

func TestIntToBvReducesModWidth(t *testing.T) {
	b := New()
	x := b.IntLit(i(257)) // 257 mod 256 = 1
	bv := b.IntToBv(x, 8)
	v, ok := b.bvArithScalarOf(bv)
	if !ok || v.Cmp(i(1)) != 0 {
		t.Fatalf("IntToBv(257,8) = %v, want 1", v)
	}
}

func TestDefineFnApplyWhenConcreteInlinesOnGroundArgs(t *testing.T) {
	b := New()
	p := b.FreshBoundConst(b.Sorts.Integer(), "p")
	body := b.IntAdd(p, b.IntLit(i(1)))
	b.DefineFn("inc", []*term.Node{p}, body, PolicyWhenConcrete)

	applied := b.Apply("inc", b.IntLit(i(4)))
	k, ok := b.intScalarOf(applied)
	if !ok || k.Cmp(i(5)) != 0 {
		t.Fatalf("inc(4) under PolicyWhenConcrete = %v, want constant 5", k)
	}

	sym := b.FreshConst(b.Sorts.Integer(), "sym")
	opaque := b.Apply("inc", sym)
	if opaque.Op() != term.OpApply {
		t.Error("inc(sym) with a non-ground argument must stay an opaque OpApply node")
	}
}

func TestDefineFnApplyNeverStaysOpaque(t *testing.T) {
	b := New()
	p := b.FreshBoundConst(b.Sorts.Integer(), "p")
	body := b.IntAdd(p, b.IntLit(i(1)))
	b.DefineFn("inc2", []*term.Node{p}, body, PolicyNever)

	applied := b.Apply("inc2", b.IntLit(i(4)))
	if applied.Op() != term.OpApply {
		t.Error("PolicyNever must never inline, even with ground arguments")
	}
}
