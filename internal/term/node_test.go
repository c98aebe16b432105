package term_test

import (
	"testing"

	"symexpr/internal/abstract"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

func leaf(id term.ID, s *sortreg.Sort) *term.Node {
	return term.New(id, s, term.OpVar, nil, &term.VarInfo{Name: "x"}, abstract.TopInt())
}

func TestHashKeyCommutativeIgnoresOrder(t *testing.T) {
	r := sortreg.NewRegistry()
	boolSort := r.Bool()
	a := leaf(1, r.Integer())
	b := leaf(2, r.Integer())

	k1 := term.HashKey(term.OpAnd, boolSort, []*term.Node{a, b}, "")
	k2 := term.HashKey(term.OpAnd, boolSort, []*term.Node{b, a}, "")
	if k1 != k2 {
		t.Fatalf("HashKey for commutative op differs by child order: %q vs %q", k1, k2)
	}
}

func TestHashKeyNonCommutativeRespectsOrder(t *testing.T) {
	r := sortreg.NewRegistry()
	bv := r.BV(8)
	a := leaf(1, bv)
	b := leaf(2, bv)

	k1 := term.HashKey(term.OpBvConcat, bv, []*term.Node{a, b}, "")
	k2 := term.HashKey(term.OpBvConcat, bv, []*term.Node{b, a}, "")
	if k1 == k2 {
		t.Fatal("HashKey for a non-commutative op must be order-sensitive")
	}
}

func TestHashKeyDistinguishesSortAndPayload(t *testing.T) {
	r := sortreg.NewRegistry()
	k1 := term.HashKey(term.OpSum, r.Integer(), nil, "5")
	k2 := term.HashKey(term.OpSum, r.Real(), nil, "5")
	if k1 == k2 {
		t.Fatal("HashKey must distinguish sorts")
	}
	k3 := term.HashKey(term.OpSum, r.Integer(), nil, "6")
	if k1 == k3 {
		t.Fatal("HashKey must distinguish payload strings")
	}
}

func TestWalkVisitsEachNodeOnce(t *testing.T) {
	r := sortreg.NewRegistry()
	shared := leaf(1, r.Integer())
	parent := term.New(2, r.Integer(), term.OpSum, []*term.Node{shared}, nil, abstract.TopInt())
	root := term.New(3, r.Integer(), term.OpSum, []*term.Node{shared, parent}, nil, abstract.TopInt())

	visits := map[term.ID]int{}
	var order []term.ID
	term.Walk([]*term.Node{root}, func(n *term.Node) {
		visits[n.ID()]++
		order = append(order, n.ID())
	})

	for id, n := range visits {
		if n != 1 {
			t.Errorf("node %d visited %d times, want exactly once (DAG-safe)", id, n)
		}
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 distinct nodes visited, got %d: %v", len(order), order)
	}
	// Post-order: shared (a leaf, and parent's only child) must precede
	// both parent and root.
	pos := map[term.ID]int{}
	for i, id := range order {
		pos[id] = i
	}
	if pos[root.ID()] != len(order)-1 {
		t.Error("root must be visited last in a post-order walk")
	}
	if pos[shared.ID()] > pos[parent.ID()] {
		t.Error("a child must be visited before its parent")
	}
}

func TestWithMetaPreservesIdentityFields(t *testing.T) {
	r := sortreg.NewRegistry()
	n := leaf(1, r.Integer())
	annotated := n.WithMeta(&term.Meta{Loc: "demo.symexpr:1"})
	if annotated.ID() != n.ID() || annotated.Sort() != n.Sort() || annotated.Op() != n.Op() {
		t.Fatal("WithMeta must preserve id/sort/op of the original node")
	}
	if annotated.Meta().Loc != "demo.symexpr:1" {
		t.Errorf("Meta().Loc = %q, want %q", annotated.Meta().Loc, "demo.symexpr:1")
	}
	if n.Meta() != nil {
		t.Fatal("WithMeta must not mutate the original node's Meta")
	}
}
