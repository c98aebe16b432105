package theory

import (
	"math/big"
	"testing"

	"symexpr/internal/builder"
	"symexpr/internal/term"
)

func TestClassifyLinearArith(t *testing.T) {
	b := builder.New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	sum := b.IntAdd(x, b.IntLit(big.NewInt(1)))
	if got := Classify(sum); got != LinArith {
		t.Errorf("Classify(x+1) = %v, want LinArith", got)
	}
}

func TestClassifyNonlinearArith(t *testing.T) {
	b := builder.New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	y := b.FreshConst(b.Sorts.Integer(), "y")
	prod := b.IntMul(x, y)
	if got := Classify(prod); got != NonlinArith {
		t.Errorf("Classify(x*y) = %v, want NonlinArith", got)
	}
}

func TestClassifyBvArithStaysBV(t *testing.T) {
	b := builder.New()
	x := b.FreshConst(b.Sorts.BV(8), "x")
	sum := b.BvAdd(x, b.BvLit(8, big.NewInt(1)))
	if got := Classify(sum); got != BV {
		t.Errorf("Classify(bv x+1) = %v, want BV (never LinArith)", got)
	}
}

func TestClassifyPredicatesArraysStructsFn(t *testing.T) {
	b := builder.New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	if got := Classify(b.IntLe(x, b.IntLit(big.NewInt(5)))); got != LinArith {
		t.Errorf("Classify(x<=5) = %v, want LinArith", got)
	}

	arrSort := b.Sorts.Array(b.Sorts.Integer(), b.Sorts.Integer())
	arr := b.ArrConst(arrSort, b.IntLit(big.NewInt(0)))
	if got := Classify(arr); got != Array {
		t.Errorf("Classify(const array) = %v, want Array", got)
	}

	st := b.Sorts.Struct(b.Sorts.Integer())
	sv := b.StructCtor(st, b.IntLit(big.NewInt(1)))
	if got := Classify(sv); got != Struct {
		t.Errorf("Classify(struct ctor) = %v, want Struct", got)
	}

	p := b.FreshBoundConst(b.Sorts.Integer(), "p")
	b.DefineFn("f", []*term.Node{p}, b.IntAdd(p, b.IntLit(big.NewInt(1))), builder.PolicyNever)
	app := b.Apply("f", b.IntLit(big.NewInt(2)))
	if got := Classify(app); got != Fn {
		t.Errorf("Classify(opaque apply) = %v, want Fn", got)
	}
}
