package builder

import (
	"fmt"

	"symexpr/internal/abstract"
	"symexpr/internal/sortreg"
	"symexpr/internal/symerr"
	"symexpr/internal/term"
)

// StructCtor builds a struct value from its field terms, collapsing the
// field-selector-reconstruction identity struct(field(x,0),...,field(x,n))=x
// when every field is a selector off the same base.
func (b *Builder) StructCtor(sort *sortreg.Sort, fields ...*term.Node) *term.Node {
	if sort.Kind() != sortreg.Struct {
		panic(symerr.Newf(symerr.TypeMismatch, "structCtor: sort %s is not a struct", sort))
	}
	expect := sort.Fields()
	if len(fields) != len(expect) {
		panic(symerr.Newf(symerr.InvalidRange, "structCtor: expected %d fields, got %d", len(expect), len(fields)))
	}
	if base, ok := sameStructBase(fields); ok {
		return base
	}
	vals := make([]abstract.Value, len(fields))
	key := ""
	for i, f := range fields {
		vals[i] = f.AbstractValue()
		key += fmt.Sprintf("%d,", f.ID())
	}
	return b.intern(term.OpStructCtor, sort, fields, nil, key, abstract.StructValue{Fields: vals})
}

// sameStructBase detects struct(field(x,0), field(x,1), ..., field(x,n-1))
// and returns x, collapsing the reconstruction to the original term.
func sameStructBase(fields []*term.Node) (*term.Node, bool) {
	if len(fields) == 0 {
		return nil, false
	}
	first := fields[0]
	if first.Op() != term.OpStructField || first.Payload().(int) != 0 {
		return nil, false
	}
	base := first.Children()[0]
	for i, f := range fields {
		if f.Op() != term.OpStructField || f.Payload().(int) != i {
			return nil, false
		}
		if f.Children()[0] != base {
			return nil, false
		}
	}
	return base, true
}

// StructField implements field selection, collapsing immediately when x is
// a struct constructor (field(struct(f0,...,fn), i) = fi).
func (b *Builder) StructField(x *term.Node, i int) *term.Node {
	if x.Sort().Kind() != sortreg.Struct {
		panic(symerr.Newf(symerr.TypeMismatch, "structField: sort %s is not a struct", x.Sort()))
	}
	if i < 0 || i >= len(x.Sort().Fields()) {
		panic(symerr.Newf(symerr.InvalidRange, "structField: index %d out of range for %s", i, x.Sort()))
	}
	if x.Op() == term.OpStructCtor {
		return x.Children()[i]
	}
	sv := x.AbstractValue().(abstract.StructValue)
	abs := sv.Fields[i]
	fieldSort := x.Sort().Fields()[i]
	key := fmt.Sprintf("%d:%d", x.ID(), i)
	return b.intern(term.OpStructField, fieldSort, []*term.Node{x}, i, key, abs)
}
