// Package concrete implements component G: projecting a fully-ground term
// to a plain Go value, and lifting a plain Go value back into a term —
// the engine's only bridge to concrete data, deliberately independent of
// any solver model format.
package concrete

import (
	"math/big"

	"symexpr/internal/abstract"
	"symexpr/internal/builder"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// Value is a tagged union mirroring the sort family: exactly one field is
// meaningful, selected by Sort.Kind().
type Value struct {
	Sort *sortreg.Sort

	B   bool
	I   *big.Int // Integer and BV (reduced mod 2^w for BV)
	R   *big.Rat // Real
	F   *big.Float
	Str string
	Fields []Value // Struct
	// ArrDefault is the array's constant default cell value; this package
	// only round-trips constant arrays (§9: arrays built purely from
	// ArrConst are the only ones with a total concrete projection).
	ArrDefault *Value
}

// Concrete projects term n to a plain value, succeeding only when n's
// abstract value is fully resolved (a singleton/const) or n is a literal
// leaf/constant-array/struct-of-concrete-fields.
func Concrete(n *term.Node) (Value, bool) {
	switch n.Sort().Kind() {
	case sortreg.Bool:
		bv, ok := n.AbstractValue().(abstract.BoolValue)
		if !ok || bv.T == abstract.Unknown {
			return Value{}, false
		}
		return Value{Sort: n.Sort(), B: bv.T == abstract.True}, true
	case sortreg.Integer:
		ir, ok := n.AbstractValue().(abstract.IntRange)
		if !ok {
			return Value{}, false
		}
		v, ok := ir.AsSingleton()
		if !ok {
			return Value{}, false
		}
		return Value{Sort: n.Sort(), I: v}, true
	case sortreg.Real:
		rr, ok := n.AbstractValue().(abstract.RealRange)
		if !ok {
			return Value{}, false
		}
		v, ok := rr.AsSingleton()
		if !ok {
			return Value{}, false
		}
		return Value{Sort: n.Sort(), R: v}, true
	case sortreg.BV:
		bd, ok := n.AbstractValue().(abstract.BVDomain)
		if !ok {
			return Value{}, false
		}
		v, ok := bd.AsConst()
		if !ok {
			return Value{}, false
		}
		return Value{Sort: n.Sort(), I: v}, true
	case sortreg.Float:
		// Float has no tracked abstract domain (§3): only a literal leaf
		// (builder.FloatLit) carries a concrete value, so the projection
		// must fall back to inspecting the node shape directly.
		v, ok := builder.FloatLiteral(n)
		if !ok {
			return Value{}, false
		}
		return Value{Sort: n.Sort(), F: v}, true
	case sortreg.String:
		s, ok := builder.StringLiteral(n)
		if !ok {
			return Value{}, false
		}
		return Value{Sort: n.Sort(), Str: s}, true
	case sortreg.Struct:
		if n.Op() != term.OpStructCtor {
			return Value{}, false
		}
		fields := make([]Value, len(n.Children()))
		for i, c := range n.Children() {
			fv, ok := Concrete(c)
			if !ok {
				return Value{}, false
			}
			fields[i] = fv
		}
		return Value{Sort: n.Sort(), Fields: fields}, true
	case sortreg.Array:
		def, ok := builder.ArrayConstDefault(n)
		if !ok {
			return Value{}, false
		}
		dv, ok := Concrete(def)
		if !ok {
			return Value{}, false
		}
		return Value{Sort: n.Sort(), ArrDefault: &dv}, true
	default:
		return Value{}, false
	}
}

// FromConcrete lifts a plain value back into a term via the supplied
// builder, which performs its usual interning and constant folding.
func FromConcrete(b *builder.Builder, v Value) *term.Node {
	switch v.Sort.Kind() {
	case sortreg.Bool:
		return b.BoolLit(v.B)
	case sortreg.Integer:
		return b.IntLit(v.I)
	case sortreg.Real:
		return b.RealLit(v.R)
	case sortreg.BV:
		return b.BvLit(v.Sort.Width(), v.I)
	case sortreg.Float:
		return b.FloatLit(v.Sort.FloatExp(), v.Sort.FloatSig(), v.F)
	case sortreg.String:
		return b.StrLit(v.Sort.StringEncoding(), v.Str)
	case sortreg.Struct:
		fields := make([]*term.Node, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = FromConcrete(b, f)
		}
		return b.StructCtor(v.Sort, fields...)
	case sortreg.Array:
		def := FromConcrete(b, *v.ArrDefault)
		return b.ArrConst(v.Sort, def)
	default:
		panic("concrete: unsupported sort kind")
	}
}
