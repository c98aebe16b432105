package abstract

// Value is the common interface every per-sort abstract domain implements.
// Every interned term's Value is a sound over-approximation of its
// denotation (§3 invariant); operators only ever refine a domain, never
// shrink it below the true semantic set.
type Value interface {
	// Join returns the least upper bound of the receiver and other. Used
	// when fusing ITE branches.
	Join(other Value) Value
	// CheckEq reports whether the receiver and other can be shown equal,
	// distinct, or neither.
	CheckEq(other Value) Tristate
	// IsTop reports whether the domain carries no information at all.
	IsTop() bool
	String() string
}
