package builder

import (
	"fmt"

	"symexpr/internal/abstract"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// constArrayPayload marks a childless OpArrConst node as the constant
// array whose every cell is def.
type constArrayPayload struct{ def *term.Node }

// ArrConst builds the constant array over sort (every index maps to def).
func (b *Builder) ArrConst(sort *sortreg.Sort, def *term.Node) *term.Node {
	key := fmt.Sprintf("const:%d", def.ID())
	return b.intern(term.OpArrConst, sort, nil, constArrayPayload{def}, key, abstract.ArrayValue{Elem: def.AbstractValue()})
}

func asConstArray(x *term.Node) (*term.Node, bool) {
	if x.Op() != term.OpArrConst {
		return nil, false
	}
	p, ok := x.Payload().(constArrayPayload)
	if !ok {
		return nil, false
	}
	return p.def, true
}

// ArrayConstDefault exposes asConstArray for package concrete's projection.
func ArrayConstDefault(x *term.Node) (*term.Node, bool) { return asConstArray(x) }

// ArrSelect implements select(update(a,i,v),j): when i and j are
// syntactically identical it collapses to v; when they are distinct
// literal indices across all index positions it collapses to
// select(a,j); on a constant array it collapses to the default
// unconditionally. Otherwise it wraps (§4.E.6).
func (b *Builder) ArrSelect(a *term.Node, idx ...*term.Node) *term.Node {
	if def, ok := asConstArray(a); ok {
		return def
	}
	if a.Op() == term.OpArrUpdate {
		up := a.Payload().(arrUpdatePayload)
		if sameIndices(up.idx, idx) {
			return up.val
		}
		if allDistinctLiteral(up.idx, idx) {
			return b.ArrSelect(a.Children()[0], idx...)
		}
	}
	elemSort := a.Sort().Elem()
	abs := a.AbstractValue().(abstract.ArrayValue).Elem
	children := append([]*term.Node{a}, idx...)
	key := arrIndexKey(a, idx)
	return b.intern(term.OpArrSelect, elemSort, children, nil, key, abs)
}

func arrIndexKey(a *term.Node, idx []*term.Node) string {
	out := fmt.Sprintf("%d", a.ID())
	for _, i := range idx {
		out += fmt.Sprintf(",%d", i.ID())
	}
	return out
}

func sameIndices(a, b []*term.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// allDistinctLiteral reports whether the index tuples a and b have the same
// length and every position that is not the identical term has abstract
// values that CheckEq proves distinct (so select can skip past an
// unrelated update).
func allDistinctLiteral(a, b []*term.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		eq := a[i].AbstractValue().CheckEq(b[i].AbstractValue())
		if eq != abstract.False {
			return false
		}
	}
	return true
}

// arrUpdatePayload carries the update's index tuple and stored value; the
// children slice duplicates them in order [a, idx..., val] so interning
// and Walk still see every subterm.
type arrUpdatePayload struct {
	idx []*term.Node
	val *term.Node
}

// ArrUpdate implements store(a, idx..., v), collapsing
// update(update(a,i,v1),i,v2) = update(a,i,v2) when the index tuple is
// syntactically identical.
func (b *Builder) ArrUpdate(a *term.Node, val *term.Node, idx ...*term.Node) *term.Node {
	if def, ok := asConstArray(a); ok && def.AbstractValue().CheckEq(val.AbstractValue()) == abstract.True {
		return a
	}
	base := a
	if a.Op() == term.OpArrUpdate {
		up := a.Payload().(arrUpdatePayload)
		if sameIndices(up.idx, idx) {
			base = a.Children()[0]
		}
	}
	children := append([]*term.Node{base}, idx...)
	children = append(children, val)
	key := arrIndexKey(base, idx) + fmt.Sprintf("=%d", val.ID())
	abs := abstract.ArrayValue{Elem: base.AbstractValue().(abstract.ArrayValue).Elem.Join(val.AbstractValue())}
	return b.intern(term.OpArrUpdate, a.Sort(), children, arrUpdatePayload{idx: idx, val: val}, key, abs)
}

// ArrMap lifts a unary element-level operation pointwise across the array;
// the abstract value conservatively joins to Top since the operation is
// named only, not replayed on the element abstract value.
func (b *Builder) ArrMap(opName string, a *term.Node, resultElemSort *sortreg.Sort) *term.Node {
	sort := b.Sorts.Array(resultElemSort, a.Sort().Index()...)
	key := opName + ":" + fmt.Sprintf("%d", a.ID())
	return b.intern(term.OpArrMap, sort, []*term.Node{a}, opName, key, abstract.ArrayValue{Elem: topOf(resultElemSort)})
}

func topOf(s *sortreg.Sort) abstract.Value {
	switch s.Kind() {
	case sortreg.Bool:
		return abstract.TopBool()
	case sortreg.Integer:
		return abstract.TopInt()
	case sortreg.Real:
		return abstract.TopReal()
	case sortreg.BV:
		return abstract.TopBV(s.Width())
	case sortreg.Float:
		return abstract.TopFloat()
	case sortreg.String:
		return abstract.TopLength()
	case sortreg.Struct:
		fields := s.Fields()
		vals := make([]abstract.Value, len(fields))
		for i, f := range fields {
			vals[i] = topOf(f)
		}
		return abstract.StructValue{Fields: vals}
	case sortreg.Array:
		return abstract.ArrayValue{Elem: topOf(s.Elem())}
	default:
		return abstract.TopInt()
	}
}

// ArrCopy, ArrSet, and ArrRangeEq are treated as opaque primitives per
// §4.E.6: no algebraic collapsing rule is specified for them. ArrRangeEq
// has Top abstraction; ArrCopy's element domain is the join of dst's and
// src's, and ArrSet's is the join of a's element domain with val's.
func (b *Builder) ArrCopy(dst, src *term.Node) *term.Node {
	key := fmt.Sprintf("%d,%d", dst.ID(), src.ID())
	return b.intern(term.OpArrCopy, dst.Sort(), []*term.Node{dst, src}, nil, key, dst.AbstractValue().Join(src.AbstractValue()))
}

func (b *Builder) ArrSet(a, val *term.Node, lo, hi *term.Node) *term.Node {
	key := fmt.Sprintf("%d,%d,%d,%d", a.ID(), val.ID(), lo.ID(), hi.ID())
	abs := abstract.ArrayValue{Elem: a.AbstractValue().(abstract.ArrayValue).Elem.Join(val.AbstractValue())}
	return b.intern(term.OpArrSet, a.Sort(), []*term.Node{a, val, lo, hi}, nil, key, abs)
}

func (b *Builder) ArrRangeEq(a, c *term.Node, lo, hi *term.Node) *term.Node {
	key := fmt.Sprintf("%d,%d,%d,%d", a.ID(), c.ID(), lo.ID(), hi.ID())
	return b.intern(term.OpArrRangeEq, b.Sorts.Bool(), []*term.Node{a, c, lo, hi}, nil, key, abstract.TopBool())
}
