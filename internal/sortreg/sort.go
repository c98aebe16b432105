// Package sortreg implements component A: compile-time-known descriptors
// for every base sort and its parameters.
package sortreg

import (
	"fmt"
	"strings"
)

// Kind is the closed family of base sort shapes.
type Kind uint8

const (
	Bool Kind = iota
	Integer
	Real
	BV
	Float
	String
	Struct
	Array
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case Integer:
		return "Integer"
	case Real:
		return "Real"
	case BV:
		return "BV"
	case Float:
		return "Float"
	case String:
		return "String"
	case Struct:
		return "Struct"
	case Array:
		return "Array"
	default:
		return "?"
	}
}

// Encoding is the string-sort index family si ∈ {Char8, Char16, Unicode}.
type Encoding uint8

const (
	Char8 Encoding = iota
	Char16
	Unicode
)

func (e Encoding) String() string {
	switch e {
	case Char8:
		return "Char8"
	case Char16:
		return "Char16"
	case Unicode:
		return "Unicode"
	default:
		return "?"
	}
}

// Sort is a first-class, inspectable attribute of every term. Two sorts are
// equal only when structurally identical; the Registry interns instances so
// that Sort pointer identity implies structural equality.
type Sort struct {
	kind Kind

	width uint32 // BV(w)

	eb, sb uint32 // Float(eb, sb)

	enc Encoding // String(si)

	fields []*Sort // Struct(t1,...,tn)

	index []*Sort // Array(i1,...,ik -> t)
	elem  *Sort
}

func (s *Sort) Kind() Kind { return s.kind }
func (s *Sort) Width() uint32 {
	if s.kind != BV {
		return 0
	}
	return s.width
}
func (s *Sort) FloatExp() uint32 {
	if s.kind != Float {
		return 0
	}
	return s.eb
}
func (s *Sort) FloatSig() uint32 {
	if s.kind != Float {
		return 0
	}
	return s.sb
}
func (s *Sort) StringEncoding() Encoding { return s.enc }
func (s *Sort) Fields() []*Sort          { return s.fields }
func (s *Sort) Index() []*Sort           { return s.index }
func (s *Sort) Elem() *Sort              { return s.elem }

// key returns a canonical string encoding used by the Registry's interning
// table; it is never exposed outside this package.
func (s *Sort) key() string {
	var b strings.Builder
	switch s.kind {
	case BV:
		fmt.Fprintf(&b, "BV(%d)", s.width)
	case Float:
		fmt.Fprintf(&b, "Float(%d,%d)", s.eb, s.sb)
	case String:
		fmt.Fprintf(&b, "String(%s)", s.enc)
	case Struct:
		b.WriteString("Struct(")
		for i, f := range s.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.key())
		}
		b.WriteByte(')')
	case Array:
		b.WriteString("Array(")
		for i, ix := range s.index {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(ix.key())
		}
		b.WriteString("->")
		b.WriteString(s.elem.key())
		b.WriteByte(')')
	default:
		b.WriteString(s.kind.String())
	}
	return b.String()
}

func (s *Sort) String() string { return s.key() }

// Equal reports whether two sorts are structurally identical. Interned
// sorts from the same Registry can also be compared with ==.
func Equal(a, b *Sort) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.key() == b.key()
}

// Registry interns Sort values so that structural equality collapses to
// pointer equality, mirroring the Term interning table of component D.
// Each Builder owns an independent Registry; two builders never share Sort
// pointers.
type Registry struct {
	table map[string]*Sort
}

func NewRegistry() *Registry {
	return &Registry{table: make(map[string]*Sort)}
}

func (r *Registry) intern(s *Sort) *Sort {
	k := s.key()
	if existing, ok := r.table[k]; ok {
		return existing
	}
	r.table[k] = s
	return s
}

func (r *Registry) Bool() *Sort    { return r.intern(&Sort{kind: Bool}) }
func (r *Registry) Integer() *Sort { return r.intern(&Sort{kind: Integer}) }
func (r *Registry) Real() *Sort    { return r.intern(&Sort{kind: Real}) }

// BV returns the bitvector sort of the given width. Width must be >= 1.
func (r *Registry) BV(width uint32) *Sort {
	if width < 1 {
		panic("sortreg: BV width must be >= 1")
	}
	return r.intern(&Sort{kind: BV, width: width})
}

// Float returns the floating-point sort with the given exponent and
// significand widths. Both must be >= 2.
func (r *Registry) Float(eb, sb uint32) *Sort {
	if eb < 2 || sb < 2 {
		panic("sortreg: Float widths must be >= 2")
	}
	return r.intern(&Sort{kind: Float, eb: eb, sb: sb})
}

func (r *Registry) String(enc Encoding) *Sort {
	return r.intern(&Sort{kind: String, enc: enc})
}

func (r *Registry) Struct(fields ...*Sort) *Sort {
	cp := append([]*Sort(nil), fields...)
	return r.intern(&Sort{kind: Struct, fields: cp})
}

// Array returns the sort of arrays mapping the given (non-empty) index
// sorts to the element sort.
func (r *Registry) Array(elem *Sort, index ...*Sort) *Sort {
	if len(index) < 1 {
		panic("sortreg: Array needs at least one index sort")
	}
	cp := append([]*Sort(nil), index...)
	return r.intern(&Sort{kind: Array, index: cp, elem: elem})
}
