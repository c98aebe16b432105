package xprint

import (
	"math/big"
	"strings"
	"testing"

	"symexpr/internal/builder"
	"symexpr/internal/term"
)

func TestSprintLiteralsAndVars(t *testing.T) {
	b := builder.New()
	if got := Sprint(b.True()); got != "true" {
		t.Errorf("Sprint(true) = %q, want true", got)
	}
	x := b.FreshConst(b.Sorts.Integer(), "x")
	if got := Sprint(x); got != "x" {
		t.Errorf("Sprint(freshvar x) = %q, want x", got)
	}
}

func TestSprintSumFormatting(t *testing.T) {
	b := builder.New()
	x := b.FreshConst(b.Sorts.Integer(), "x")
	sum := b.IntAdd(b.IntMul(b.IntLit(big.NewInt(3)), x), b.IntLit(big.NewInt(1)))
	out := Sprint(sum)
	if !strings.HasPrefix(out, "(+") {
		t.Errorf("Sprint(3x+1) = %q, want a leading (+ ...)", out)
	}
	if !strings.Contains(out, "x") {
		t.Errorf("Sprint(3x+1) = %q, must mention the variable", out)
	}
}

func TestSprintIteAndNot(t *testing.T) {
	b := builder.New()
	c := b.FreshConst(b.Sorts.Bool(), "c")
	x := b.FreshConst(b.Sorts.Integer(), "x")
	y := b.FreshConst(b.Sorts.Integer(), "y")
	ite := b.Ite(c, x, y)
	out := Sprint(ite)
	if !strings.HasPrefix(out, "(ite ") {
		t.Errorf("Sprint(ite c x y) = %q, want leading (ite ", out)
	}

	notC := b.Not(c)
	if got := Sprint(notC); got != "(not c)" {
		t.Errorf("Sprint(not c) = %q, want (not c)", got)
	}
}

func TestSprintStringLiteral(t *testing.T) {
	b := builder.New()
	s := b.StrLit(0, "hi")
	if got := Sprint(s); got != `"hi"` {
		t.Errorf("Sprint(strlit hi) = %q, want %q", got, `"hi"`)
	}
}

func TestSprintQuantifier(t *testing.T) {
	b := builder.New()
	bx := b.FreshBoundConst(b.Sorts.Integer(), "x")
	body := b.IntLe(bx, b.IntLit(big.NewInt(10)))
	q := b.Forall([]*term.Node{bx}, body)
	out := Sprint(q)
	if !strings.HasPrefix(out, "(forall (x:") {
		t.Errorf("Sprint(forall x, body) = %q, want a leading (forall (x: ...", out)
	}
}

func TestSprintStructAndField(t *testing.T) {
	b := builder.New()
	st := b.Sorts.Struct(b.Sorts.Integer(), b.Sorts.Bool())
	s := b.StructCtor(st, b.IntLit(big.NewInt(1)), b.True())
	out := Sprint(s)
	if !strings.HasPrefix(out, "(struct") {
		t.Errorf("Sprint(struct ctor) = %q, want leading (struct", out)
	}
}

func TestPrinterIsReusable(t *testing.T) {
	b := builder.New()
	p := NewPrinter()
	first := p.Print(b.True())
	second := p.Print(b.False())
	if first == second {
		t.Fatal("reusing a Printer must not leak prior output into the next Print call")
	}
	if second != "false" {
		t.Errorf("second Print() = %q, want false", second)
	}
}
