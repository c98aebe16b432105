package builder

import (
	"fmt"
	"math/big"
	"strings"

	"symexpr/internal/abstract"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// strLitPayload marks a zero-children OpStrConcat node as a ground string
// literal; non-literal concat nodes carry a nil payload instead.
type strLitPayload string

func strLitOf(x *term.Node) (string, bool) {
	if x.Op() != term.OpStrConcat {
		return "", false
	}
	s, ok := x.Payload().(strLitPayload)
	return string(s), ok
}

// StringLiteral exposes strLitOf for package concrete's projection.
func StringLiteral(x *term.Node) (string, bool) { return strLitOf(x) }

// StrLit interns a ground string literal, represented as a childless
// OpStrConcat node (mirroring how IntLit is a childless OpSum node).
func (b *Builder) StrLit(enc sortreg.Encoding, v string) *term.Node {
	sort := b.Sorts.String(enc)
	abs := abstract.SingletonLength(int64(len(v)))
	key := "lit:" + v
	return b.intern(term.OpStrConcat, sort, nil, strLitPayload(v), key, abs)
}

// StrConcat folds two ground literals, otherwise wraps and propagates the
// length interval via abstract.Concat.
func (b *Builder) StrConcat(x, y *term.Node) *term.Node {
	if xs, ok := strLitOf(x); ok {
		if ys, ok2 := strLitOf(y); ok2 {
			return b.StrLit(x.Sort().StringEncoding(), xs+ys)
		}
	}
	lr := x.AbstractValue().(abstract.LengthRange)
	rr := y.AbstractValue().(abstract.LengthRange)
	abs := abstract.Concat(lr, rr)
	key := fmt.Sprintf("%d,%d", x.ID(), y.ID())
	return b.intern(term.OpStrConcat, x.Sort(), []*term.Node{x, y}, nil, key, abs)
}

func (b *Builder) StrLen(x *term.Node) *term.Node {
	if s, ok := strLitOf(x); ok {
		return b.IntLit(big.NewInt(int64(len(s))))
	}
	lr := x.AbstractValue().(abstract.LengthRange)
	return b.intern(term.OpStrLen, b.Sorts.Integer(), []*term.Node{x}, nil, "", lr.IntRange)
}

func (b *Builder) StrContains(s, t *term.Node) *term.Node {
	if sv, ok := strLitOf(s); ok {
		if tv, ok2 := strLitOf(t); ok2 {
			return b.BoolLit(strings.Contains(sv, tv))
		}
	}
	key := fmt.Sprintf("%d,%d", s.ID(), t.ID())
	return b.intern(term.OpStrContains, b.Sorts.Bool(), []*term.Node{s, t}, nil, key, abstract.TopBool())
}

// StrIndexOf returns the first index of t in s at or after start, or -1,
// per SMT-LIB str.indexof.
func (b *Builder) StrIndexOf(s, t, start *term.Node) *term.Node {
	sv, sok := strLitOf(s)
	tv, tok := strLitOf(t)
	if sok && tok {
		if k, ok := b.intScalarOf(start); ok {
			off := int(k.Int64())
			if off < 0 || off > len(sv) {
				return b.IntLit(big.NewInt(-1))
			}
			idx := strings.Index(sv[off:], tv)
			if idx < 0 {
				return b.IntLit(big.NewInt(-1))
			}
			return b.IntLit(big.NewInt(int64(idx + off)))
		}
	}
	key := fmt.Sprintf("%d,%d,%d", s.ID(), t.ID(), start.ID())
	return b.intern(term.OpStrIndexOf, b.Sorts.Integer(), []*term.Node{s, t, start}, nil, key, abstract.TopInt())
}

func (b *Builder) StrPrefixOf(s, t *term.Node) *term.Node {
	if sv, ok := strLitOf(s); ok {
		if tv, ok2 := strLitOf(t); ok2 {
			return b.BoolLit(strings.HasPrefix(tv, sv))
		}
	}
	key := fmt.Sprintf("%d,%d", s.ID(), t.ID())
	return b.intern(term.OpStrPrefixOf, b.Sorts.Bool(), []*term.Node{s, t}, nil, key, abstract.TopBool())
}

func (b *Builder) StrSuffixOf(s, t *term.Node) *term.Node {
	if sv, ok := strLitOf(s); ok {
		if tv, ok2 := strLitOf(t); ok2 {
			return b.BoolLit(strings.HasSuffix(tv, sv))
		}
	}
	key := fmt.Sprintf("%d,%d", s.ID(), t.ID())
	return b.intern(term.OpStrSuffixOf, b.Sorts.Bool(), []*term.Node{s, t}, nil, key, abstract.TopBool())
}

// StrSubstr folds when s, off, and n are all ground; otherwise propagates
// the length interval via abstract.Substring (§4.B), bounding a
// non-constant n by its abstract upper bound or by s's length bound.
func (b *Builder) StrSubstr(s, off, n *term.Node) *term.Node {
	sv, sok := strLitOf(s)
	ok1, ok2 := false, false
	var offK, nK *big.Int
	if sok {
		offK, ok1 = b.intScalarOf(off)
		nK, ok2 = b.intScalarOf(n)
	}
	if sok && ok1 && ok2 {
		start := clamp(int(offK.Int64()), 0, len(sv))
		end := clamp(start+int(nK.Int64()), start, len(sv))
		return b.StrLit(s.Sort().StringEncoding(), sv[start:end])
	}
	lr := s.AbstractValue().(abstract.LengthRange)
	var offBig *big.Int = big.NewInt(0)
	if k, ok := b.intScalarOf(off); ok {
		offBig = k
	}
	nBig := lr.Hi
	if k, ok := b.intScalarOf(n); ok {
		nBig = k
	} else if nr, ok := n.AbstractValue().(abstract.IntRange); ok && nr.Hi != nil && (nBig == nil || nr.Hi.Cmp(nBig) < 0) {
		nBig = nr.Hi
	}
	abs := abstract.TopLength()
	if nBig != nil {
		abs = abstract.Substring(lr, offBig, nBig)
	}
	key := fmt.Sprintf("%d,%d,%d", s.ID(), off.ID(), n.ID())
	return b.intern(term.OpStrSubstr, s.Sort(), []*term.Node{s, off, n}, nil, key, abs)
}
