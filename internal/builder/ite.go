package builder

import (
	"fmt"

	"symexpr/internal/semiring"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// iteNonBool implements §4.E.3 for every sort other than Bool (handled in
// bool.go): identity-arm collapse was already checked by the caller, so
// this only needs sum/product fusion, struct field push-down, and the
// generic wrap fallback.
func (b *Builder) iteNonBool(c, t, e *term.Node) *term.Node {
	switch t.Sort().Kind() {
	case sortreg.Integer:
		if z, xp, yp, ok := b.extractCommonInt(t, e); ok {
			return b.IntAdd(z, b.Ite(c, xp, yp))
		}
	case sortreg.Real:
		if z, xp, yp, ok := b.extractCommonReal(t, e); ok {
			return b.RealAdd(z, b.Ite(c, xp, yp))
		}
	case sortreg.BV:
		if z, xp, yp, ok := b.extractCommonBv(t, e); ok {
			return b.BvAdd(z, b.Ite(c, xp, yp))
		}
	case sortreg.Struct:
		if t.Op() == term.OpStructCtor && e.Op() == term.OpStructCtor {
			tc, ec := t.Children(), e.Children()
			fields := make([]*term.Node, len(tc))
			for i := range tc {
				fields[i] = b.Ite(c, tc[i], ec[i])
			}
			return b.StructCtor(t.Sort(), fields...)
		}
	}
	abs := t.AbstractValue().Join(e.AbstractValue())
	return b.intern(term.OpIte, t.Sort(), []*term.Node{c, t, e}, nil, itePayload(c, t, e), abs)
}

func itePayload(c, t, e *term.Node) string {
	return fmt.Sprintf("%d,%d,%d", c.ID(), t.ID(), e.ID())
}

func (b *Builder) extractCommonInt(t, e *term.Node) (z, xp, yp *term.Node, ok bool) {
	if t.Op() != term.OpSum || e.Op() != term.OpSum {
		return nil, nil, nil, false
	}
	zs, xs, ys := semiring.ExtractCommon(t.Payload().(*semiring.Sum), e.Payload().(*semiring.Sum))
	if zs.IsZero() {
		return nil, nil, nil, false
	}
	return b.intTerm(zs), b.intTerm(xs), b.intTerm(ys), true
}

func (b *Builder) extractCommonReal(t, e *term.Node) (z, xp, yp *term.Node, ok bool) {
	if t.Op() != term.OpSum || e.Op() != term.OpSum {
		return nil, nil, nil, false
	}
	zs, xs, ys := semiring.ExtractCommon(t.Payload().(*semiring.Sum), e.Payload().(*semiring.Sum))
	if zs.IsZero() {
		return nil, nil, nil, false
	}
	return b.realTerm(zs), b.realTerm(xs), b.realTerm(ys), true
}
