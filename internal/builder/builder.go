// Package builder implements component E: the top-level constructors for
// every operation, performing constant folding, abstract-value-driven
// normalization, structural rewrites, and interning (component D).
package builder

import (
	"fmt"

	"github.com/google/uuid"

	"symexpr/internal/abstract"
	"symexpr/internal/config"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// Listener is invoked synchronously on selected builder events (interning
// of a new node and fresh-term construction) and must not call back into the Builder
// (§5: "must not call back into the builder").
type Listener func(evt Event)

// Event is the payload delivered to a solver-event Listener.
type Event struct {
	Kind string // "intern" | "fresh"
	Term *term.Node
}

// Builder owns the interning table, the identifier counter, the sort
// registry, the configuration store, and an optional listener. A Builder
// is not safe for concurrent mutation from multiple goroutines (§5);
// multiple Builders share no state.
type Builder struct {
	Sorts *sortreg.Registry

	nextID term.ID
	table  map[string]*term.Node
	byID   map[term.ID]*term.Node

	cfg      config.Getter
	listener Listener

	fnDefs map[string]*FnDef

	trueT, falseT *term.Node
}

// Option configures a new Builder.
type Option func(*Builder)

func WithConfig(c config.Getter) Option { return func(b *Builder) { b.cfg = c } }
func WithListener(l Listener) Option    { return func(b *Builder) { b.listener = l } }

// New constructs a fresh Builder with its own sort registry, interning
// table, and identifier counter starting at zero. Construction is
// deterministic: the same sequence of calls on a fresh Builder always
// produces identical identifiers and identical terms (§5).
func New(opts ...Option) *Builder {
	b := &Builder{
		Sorts:  sortreg.NewRegistry(),
		table:  make(map[string]*term.Node),
		byID:   make(map[term.ID]*term.Node),
		cfg:    config.Empty,
		fnDefs: make(map[string]*FnDef),
	}
	for _, o := range opts {
		o(b)
	}
	b.trueT = b.intern(term.OpTrue, b.Sorts.Bool(), nil, nil, "", abstract.SingletonBool(true))
	b.falseT = b.intern(term.OpFalse, b.Sorts.Bool(), nil, nil, "", abstract.SingletonBool(false))
	return b
}

// Lookup returns the term with the given identifier, if still referenced
// by this builder's table.
func (b *Builder) Lookup(id term.ID) (*term.Node, bool) {
	n, ok := b.byID[id]
	return n, ok
}

// GetOption proxies to the injected configuration store (§6).
func (b *Builder) GetOption(key string) (string, bool) { return b.cfg.GetOption(key) }

// intern is the sole path through which observable terms are constructed
// (§4.D invariant): it computes the structural key, returns the existing
// node on a hit, and otherwise allocates the next identifier.
func (b *Builder) intern(op term.Op, s *sortreg.Sort, children []*term.Node, payload any, payloadKey string, abs abstract.Value) *term.Node {
	key := term.HashKey(op, s, children, payloadKey)
	if existing, ok := b.table[key]; ok {
		return existing
	}
	b.nextID++
	if b.nextID == 0 {
		panic("symexpr: term identifier counter overflowed")
	}
	n := term.New(b.nextID, s, op, children, payload, abs)
	b.table[key] = n
	b.byID[n.ID()] = n
	if b.listener != nil {
		b.listener(Event{Kind: "intern", Term: n})
	}
	return n
}

// freshLeaf mints a term under a unique table key ("fresh|<id>") so it
// never collides with a structurally-intern-able node; used for fresh
// variables whose identity is defined by their creation site, not their
// shape.
func (b *Builder) freshLeaf(op term.Op, s *sortreg.Sort, payload any, abs abstract.Value) *term.Node {
	b.nextID++
	n := term.New(b.nextID, s, op, nil, payload, abs)
	b.table[fmt.Sprintf("fresh|%d", n.ID())] = n
	b.byID[n.ID()] = n
	if b.listener != nil {
		b.listener(Event{Kind: "fresh", Term: n})
	}
	return n
}

func newAnnotationID() string { return uuid.NewString() }

// True and False are the interned boolean constants.
func (b *Builder) True() *term.Node  { return b.trueT }
func (b *Builder) False() *term.Node { return b.falseT }

func (b *Builder) isTrue(n *term.Node) bool  { return n == b.trueT }
func (b *Builder) isFalse(n *term.Node) bool { return n == b.falseT }
func (b *Builder) isBoolConst(n *term.Node) bool { return n == b.trueT || n == b.falseT }

// BoolLit returns the interned constant for the given Go bool.
func (b *Builder) BoolLit(v bool) *term.Node {
	if v {
		return b.trueT
	}
	return b.falseT
}
