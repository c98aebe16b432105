package builder

import (
	"symexpr/internal/abstract"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// Not implements §4.E.1: constant-fold, double-negation elimination,
// otherwise wrap.
func (b *Builder) Not(x *term.Node) *term.Node {
	if b.isTrue(x) {
		return b.falseT
	}
	if b.isFalse(x) {
		return b.trueT
	}
	if x.Op() == term.OpNot {
		return x.Children()[0]
	}
	abs := x.AbstractValue().(abstract.BoolValue).T.Not()
	return b.intern(term.OpNot, b.Sorts.Bool(), []*term.Node{x}, nil, "", abstract.BoolValue{T: abs})
}

// And implements the n-ary conjunction of §4.E.1: flatten nested ANDs,
// drop true, short-circuit to false, deduplicate by identity, and return
// false if a term and its negation are both present.
func (b *Builder) And(xs ...*term.Node) *term.Node {
	flat := make([]*term.Node, 0, len(xs))
	var flatten func(n *term.Node)
	flatten = func(n *term.Node) {
		if n.Op() == term.OpAnd {
			for _, c := range n.Children() {
				flatten(c)
			}
			return
		}
		flat = append(flat, n)
	}
	for _, x := range xs {
		flatten(x)
	}

	seen := make(map[term.ID]bool, len(flat))
	dedup := make([]*term.Node, 0, len(flat))
	for _, x := range flat {
		if b.isFalse(x) {
			return b.falseT
		}
		if b.isTrue(x) {
			continue
		}
		if seen[x.ID()] {
			continue
		}
		seen[x.ID()] = true
		dedup = append(dedup, x)
	}

	for _, x := range dedup {
		neg := b.Not(x)
		if seen[neg.ID()] {
			return b.falseT
		}
	}

	switch len(dedup) {
	case 0:
		return b.trueT
	case 1:
		return dedup[0]
	}

	res := abstract.True
	for _, x := range dedup {
		res = res.And(x.AbstractValue().(abstract.BoolValue).T)
	}
	return b.intern(term.OpAnd, b.Sorts.Bool(), dedup, nil, "", abstract.BoolValue{T: res})
}

// Or, Xor, Implies, and Eq-on-Bool (Iff) are all defined via And/Not per
// §4.E.1.
func (b *Builder) Or(xs ...*term.Node) *term.Node {
	negs := make([]*term.Node, len(xs))
	for i, x := range xs {
		negs[i] = b.Not(x)
	}
	return b.Not(b.And(negs...))
}

func (b *Builder) Implies(x, y *term.Node) *term.Node {
	return b.Or(b.Not(x), y)
}

func (b *Builder) Iff(x, y *term.Node) *term.Node {
	return b.And(b.Or(b.Not(x), y), b.Or(x, b.Not(y)))
}

func (b *Builder) Xor(x, y *term.Node) *term.Node {
	return b.Not(b.Iff(x, y))
}

// Ite is the general if-then-else constructor dispatching across §4.E.1
// (Bool sort) and §4.E.3 (every other sort).
func (b *Builder) Ite(c, t, e *term.Node) *term.Node {
	if b.isTrue(c) {
		return t
	}
	if b.isFalse(c) {
		return e
	}
	if t == e {
		return t
	}

	if t.Sort().Kind() == sortreg.Bool {
		if b.isTrue(t) {
			return b.Or(c, e)
		}
		if b.isFalse(t) {
			return b.And(b.Not(c), e)
		}
		if b.isTrue(e) {
			return b.Or(b.Not(c), t)
		}
		if b.isFalse(e) {
			return b.And(c, t)
		}
		abs := t.AbstractValue().(abstract.BoolValue).T.Join(e.AbstractValue().(abstract.BoolValue).T)
		return b.intern(term.OpIte, b.Sorts.Bool(), []*term.Node{c, t, e}, nil, "", abstract.BoolValue{T: abs})
	}

	return b.iteNonBool(c, t, e)
}
