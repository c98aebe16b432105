package term

import (
	"fmt"
	"sort"
	"strings"

	"symexpr/internal/abstract"
	"symexpr/internal/sortreg"
)

// ID is a term's stable identifier, allocated from a monotonically
// increasing per-builder counter.
type ID uint64

// Meta carries optional, non-semantic metadata (§3): a program location and
// an annotation identifier assigned by the builder's Annotate.
type Meta struct {
	Loc          string
	AnnotationID string
}

// Node is an immutable, interned term. Two structurally equal nodes are
// always the same *Node (pointer identity implies semantic equality, but
// not vice versa, §3).
type Node struct {
	id       ID
	sort     *sortreg.Sort
	op       Op
	children []*Node
	payload  any
	abs      abstract.Value
	meta     *Meta
}

// New constructs an (uninterned) node; only the builder's intern() should
// call this, immediately after which the returned pointer must be treated
// as immutable.
func New(id ID, sort *sortreg.Sort, op Op, children []*Node, payload any, abs abstract.Value) *Node {
	return &Node{id: id, sort: sort, op: op, children: children, payload: payload, abs: abs}
}

func (n *Node) ID() ID                     { return n.id }
func (n *Node) Sort() *sortreg.Sort        { return n.sort }
func (n *Node) Op() Op                     { return n.op }
func (n *Node) Payload() any               { return n.payload }
func (n *Node) AbstractValue() abstract.Value { return n.abs }
func (n *Node) Meta() *Meta                { return n.meta }

// Children returns the logical children projection (§9): for Sum/Product
// nodes this is the distinct variable subterms in sorted-identity order,
// not the coefficients; traversal strategies are built externally on top
// of this.
func (n *Node) Children() []*Node { return n.children }

// WithMeta returns a shallow copy of n carrying the given metadata. Used
// only at construction time by the builder (annotation, source location).
func (n *Node) WithMeta(m *Meta) *Node {
	cp := *n
	cp.meta = m
	return &cp
}

// HashKey computes the canonical structural-interning key for a candidate
// node. Children are sorted by ID first when commutative, giving an
// incremental, reordering-insensitive hash for unordered collections (and
// products) as required by §4.D.
func HashKey(op Op, s *sortreg.Sort, children []*Node, payload string) string {
	ids := make([]ID, len(children))
	for i, c := range children {
		ids[i] = c.id
	}
	if op.Commutative() {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|", op, s.String())
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	b.WriteByte('|')
	b.WriteString(payload)
	return b.String()
}

// Walk performs a memoized post-order traversal, invoking visit exactly
// once per distinct node reachable from roots (DAG-safe).
func Walk(roots []*Node, visit func(*Node)) {
	seen := make(map[ID]bool)
	var rec func(n *Node)
	rec = func(n *Node) {
		if n == nil || seen[n.id] {
			return
		}
		seen[n.id] = true
		for _, c := range n.children {
			rec(c)
		}
		visit(n)
	}
	for _, r := range roots {
		rec(r)
	}
}
