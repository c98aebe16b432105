package features

import (
	"math/big"
	"testing"

	"symexpr/internal/builder"
	"symexpr/internal/term"
)

func TestOfUnionsDistinctTheories(t *testing.T) {
	b := builder.New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	linear := b.IntLe(x, b.IntLit(big.NewInt(5)))

	bvx := b.FreshConst(b.Sorts.BV(8), "y")
	bvTerm := b.BvAdd(bvx, b.BvLit(8, big.NewInt(1)))

	set := Of([]*term.Node{linear, bvTerm})
	if !set.Contains(LinArith) {
		t.Error("feature set must contain LinArith")
	}
	if !set.Contains(BV) {
		t.Error("feature set must contain BV")
	}
	if set.Contains(Array) {
		t.Error("feature set must not contain Array when no array term is reachable")
	}
}

func TestOfSharedSubtermCountsOnce(t *testing.T) {
	b := builder.New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	shared := b.IntAdd(x, b.IntLit(big.NewInt(1)))
	a := b.IntLe(shared, b.IntLit(big.NewInt(10)))
	c := b.IntLe(shared, b.IntLit(big.NewInt(20)))

	set := Of([]*term.Node{a, c})
	if !set.Contains(LinArith) {
		t.Error("expected LinArith in the combined feature set")
	}
}

func TestSetString(t *testing.T) {
	var empty Set
	if empty.String() != "{}" {
		t.Errorf("empty Set.String() = %q, want {}", empty.String())
	}
	s := Union(Bool, BV)
	if s.String() == "{}" {
		t.Error("non-empty Set must not print as {}")
	}
}
