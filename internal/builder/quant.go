package builder

import (
	"fmt"
	"math/big"

	"symexpr/internal/abstract"
	"symexpr/internal/semiring"
	"symexpr/internal/sortreg"
	"symexpr/internal/symerr"
	"symexpr/internal/term"
)

// UnfoldPolicy governs when Apply inlines a defined function's body
// (§4.E.8): Never leaves every application opaque, Always inlines
// unconditionally, WhenConcrete inlines only once every argument is
// ground (so the inlined body can fold all the way to a literal).
type UnfoldPolicy int

const (
	PolicyNever UnfoldPolicy = iota
	PolicyAlways
	PolicyWhenConcrete
)

// FnDef is a registered function symbol: its parameter variables (bound
// leaves created via FreshBoundConst), its body built in terms
// of them, and the policy controlling Apply's unfolding.
type FnDef struct {
	Name       string
	Params     []*term.Node
	ResultSort *sortreg.Sort
	Body       *term.Node
	Policy     UnfoldPolicy
}

// DefineFn registers a function symbol. Redefining an existing name
// replaces it; callers are responsible for not doing this once terms
// referencing the old definition have been built under Always/WhenConcrete
// policies.
func (b *Builder) DefineFn(name string, params []*term.Node, body *term.Node, policy UnfoldPolicy) *FnDef {
	fn := &FnDef{Name: name, Params: params, ResultSort: body.Sort(), Body: body, Policy: policy}
	b.fnDefs[name] = fn
	return fn
}

func isGround(n *term.Node) bool {
	switch v := n.AbstractValue().(type) {
	case abstract.BoolValue:
		return v.T != abstract.Unknown
	case abstract.IntRange:
		_, ok := v.AsSingleton()
		return ok
	case abstract.RealRange:
		_, ok := v.AsSingleton()
		return ok
	case abstract.BVDomain:
		_, ok := v.AsConst()
		return ok
	default:
		if _, ok := strLitOf(n); ok {
			return true
		}
		if _, ok := floatLitOf(n); ok {
			return true
		}
		if n.Op() == term.OpStructCtor {
			for _, c := range n.Children() {
				if !isGround(c) {
					return false
				}
			}
			return true
		}
		if def, ok := asConstArray(n); ok {
			return isGround(def)
		}
		return false
	}
}

// Apply builds an application of the named function. Per the registered
// UnfoldPolicy it either returns an opaque OpApply node or inlines the
// body with arguments substituted for parameters.
func (b *Builder) Apply(name string, args ...*term.Node) *term.Node {
	fn, ok := b.fnDefs[name]
	if !ok {
		panic(symerr.Newf(symerr.TypeMismatch, "apply: undefined function %q", name))
	}
	if len(args) != len(fn.Params) {
		panic(symerr.Newf(symerr.InvalidRange, "apply: %q expects %d args, got %d", name, len(fn.Params), len(args)))
	}
	unfold := fn.Policy == PolicyAlways
	if fn.Policy == PolicyWhenConcrete {
		unfold = true
		for _, a := range args {
			if !isGround(a) {
				unfold = false
				break
			}
		}
	}
	if unfold {
		subst := make(map[term.ID]*term.Node, len(fn.Params))
		for i, p := range fn.Params {
			subst[p.ID()] = args[i]
		}
		return b.substitute(fn.Body, subst)
	}
	children := append([]*term.Node{}, args...)
	key := name
	for _, a := range args {
		key += fmt.Sprintf(",%d", a.ID())
	}
	return b.intern(term.OpApply, fn.ResultSort, children, name, key, topOf(fn.ResultSort))
}

// substitute performs capture-free substitution of leaves named in subst,
// rebuilding every ancestor via the same public constructors used to build
// it originally so folding and abstract-value recomputation stay sound.
func (b *Builder) substitute(n *term.Node, subst map[term.ID]*term.Node) *term.Node {
	if repl, ok := subst[n.ID()]; ok {
		return repl
	}
	if len(n.Children()) == 0 && n.Op() != term.OpSum && n.Op() != term.OpProduct {
		return n
	}
	switch n.Op() {
	case term.OpSum:
		return b.substituteSum(n, subst)
	case term.OpProduct:
		return b.substituteProduct(n, subst)
	case term.OpNot:
		return b.Not(b.substitute(n.Children()[0], subst))
	case term.OpAnd:
		cs := make([]*term.Node, len(n.Children()))
		for i, c := range n.Children() {
			cs[i] = b.substitute(c, subst)
		}
		return b.And(cs...)
	case term.OpIte:
		c := n.Children()
		return b.Ite(b.substitute(c[0], subst), b.substitute(c[1], subst), b.substitute(c[2], subst))
	case term.OpEq:
		c := n.Children()
		return b.Eq(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpIntLe:
		c := n.Children()
		return b.IntLe(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpRealLe:
		c := n.Children()
		return b.RealLe(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvULt:
		c := n.Children()
		return b.BvULt(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvSLt:
		c := n.Children()
		return b.BvSLt(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpRealIsInt:
		return b.RealIsInt(b.substitute(n.Children()[0], subst))
	case term.OpBvTestBit:
		return b.BvTestBit(b.substitute(n.Children()[0], subst), n.Payload().(int))
	case term.OpIntDiv:
		c := n.Children()
		return b.IntDiv(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpIntMod:
		c := n.Children()
		return b.IntMod(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpRealDiv:
		c := n.Children()
		return b.RealDiv(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvConcat:
		c := n.Children()
		return b.BvConcat(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvExtract:
		p := n.Payload().(term.BvExtractPayload)
		return b.BvExtract(b.substitute(n.Children()[0], subst), p.Hi, p.Lo)
	case term.OpBvNot:
		return b.BvNot(b.substitute(n.Children()[0], subst))
	case term.OpBvAnd:
		c := n.Children()
		return b.BvAnd(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvOr:
		c := n.Children()
		return b.BvOr(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvUdiv:
		c := n.Children()
		return b.BvUdiv(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvUrem:
		c := n.Children()
		return b.BvUrem(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvSdiv:
		c := n.Children()
		return b.BvSdiv(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvSrem:
		c := n.Children()
		return b.BvSrem(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvShl:
		c := n.Children()
		return b.BvShl(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvLshr:
		c := n.Children()
		return b.BvLshr(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvAshr:
		c := n.Children()
		return b.BvAshr(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvRotl:
		c := n.Children()
		return b.BvRotl(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvRotr:
		c := n.Children()
		return b.BvRotr(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpBvZext:
		return b.BvZext(b.substitute(n.Children()[0], subst), n.Payload().(int))
	case term.OpBvSext:
		return b.BvSext(b.substitute(n.Children()[0], subst), n.Payload().(int))
	case term.OpBvPopcount:
		return b.BvPopcount(b.substitute(n.Children()[0], subst))
	case term.OpBvClz:
		return b.BvClz(b.substitute(n.Children()[0], subst))
	case term.OpBvCtz:
		return b.BvCtz(b.substitute(n.Children()[0], subst))
	case term.OpFloatAdd:
		c := n.Children()
		return b.FloatAdd(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatSub:
		c := n.Children()
		return b.FloatSub(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatMul:
		c := n.Children()
		return b.FloatMul(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatDiv:
		c := n.Children()
		return b.FloatDiv(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatNeg:
		return b.FloatNeg(b.substitute(n.Children()[0], subst))
	case term.OpFloatAbs:
		return b.FloatAbs(b.substitute(n.Children()[0], subst))
	case term.OpFloatSqrt:
		return b.FloatSqrt(b.substitute(n.Children()[0], subst))
	case term.OpFloatRem:
		c := n.Children()
		return b.FloatRem(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatFma:
		c := n.Children()
		return b.FloatFma(b.substitute(c[0], subst), b.substitute(c[1], subst), b.substitute(c[2], subst))
	case term.OpFloatMin:
		c := n.Children()
		return b.FloatMin(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatMax:
		c := n.Children()
		return b.FloatMax(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatLe:
		c := n.Children()
		return b.FloatLe(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatLt:
		c := n.Children()
		return b.FloatLt(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpFloatIsNaN:
		return b.FloatIsNaN(b.substitute(n.Children()[0], subst))
	case term.OpFloatCast:
		p := n.Payload().(term.FloatCastPayload)
		return b.FloatCast(b.substitute(n.Children()[0], subst), p.Eb, p.Sb)
	case term.OpStrConcat:
		c := n.Children()
		if len(c) == 0 {
			return n
		}
		return b.StrConcat(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpStrLen:
		return b.StrLen(b.substitute(n.Children()[0], subst))
	case term.OpStrContains:
		c := n.Children()
		return b.StrContains(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpStrIndexOf:
		c := n.Children()
		return b.StrIndexOf(b.substitute(c[0], subst), b.substitute(c[1], subst), b.substitute(c[2], subst))
	case term.OpStrPrefixOf:
		c := n.Children()
		return b.StrPrefixOf(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpStrSuffixOf:
		c := n.Children()
		return b.StrSuffixOf(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpStrSubstr:
		c := n.Children()
		return b.StrSubstr(b.substitute(c[0], subst), b.substitute(c[1], subst), b.substitute(c[2], subst))
	case term.OpArrConst:
		p := n.Payload().(constArrayPayload)
		return b.ArrConst(n.Sort(), b.substitute(p.def, subst))
	case term.OpArrSelect:
		c := n.Children()
		idx := make([]*term.Node, len(c)-1)
		for i, x := range c[1:] {
			idx[i] = b.substitute(x, subst)
		}
		return b.ArrSelect(b.substitute(c[0], subst), idx...)
	case term.OpArrUpdate:
		p := n.Payload().(arrUpdatePayload)
		idx := make([]*term.Node, len(p.idx))
		for i, x := range p.idx {
			idx[i] = b.substitute(x, subst)
		}
		return b.ArrUpdate(b.substitute(n.Children()[0], subst), b.substitute(p.val, subst), idx...)
	case term.OpArrCopy:
		c := n.Children()
		return b.ArrCopy(b.substitute(c[0], subst), b.substitute(c[1], subst))
	case term.OpArrSet:
		c := n.Children()
		return b.ArrSet(b.substitute(c[0], subst), b.substitute(c[1], subst), b.substitute(c[2], subst), b.substitute(c[3], subst))
	case term.OpArrRangeEq:
		c := n.Children()
		return b.ArrRangeEq(b.substitute(c[0], subst), b.substitute(c[1], subst), b.substitute(c[2], subst), b.substitute(c[3], subst))
	case term.OpArrMap:
		return b.ArrMap(n.Payload().(string), b.substitute(n.Children()[0], subst), n.Sort().Elem())
	case term.OpStructCtor:
		c := n.Children()
		fields := make([]*term.Node, len(c))
		for i, f := range c {
			fields[i] = b.substitute(f, subst)
		}
		return b.StructCtor(n.Sort(), fields...)
	case term.OpStructField:
		return b.StructField(b.substitute(n.Children()[0], subst), n.Payload().(int))
	case term.OpIntToReal:
		return b.IntToReal(b.substitute(n.Children()[0], subst))
	case term.OpRealToInt:
		return b.RealToInt(b.substitute(n.Children()[0], subst))
	case term.OpBvToNat:
		return b.BvToNat(b.substitute(n.Children()[0], subst))
	case term.OpIntToBv:
		return b.IntToBv(b.substitute(n.Children()[0], subst), n.Payload().(uint32))
	case term.OpApply:
		name := n.Payload().(string)
		args := make([]*term.Node, len(n.Children()))
		for i, a := range n.Children() {
			args[i] = b.substitute(a, subst)
		}
		return b.Apply(name, args...)
	case term.OpForall, term.OpExists:
		body := b.substitute(n.Children()[0], subst)
		if n.Op() == term.OpForall {
			return b.Forall(n.Payload().([]*term.Node), body)
		}
		return b.Exists(n.Payload().([]*term.Node), body)
	case term.OpAnnotate:
		return b.Annotate(b.substitute(n.Children()[0], subst))
	default:
		return n
	}
}

func (b *Builder) substituteSum(n *term.Node, subst map[term.ID]*term.Node) *term.Node {
	s := n.Payload().(*semiring.Sum)
	acc := semiring.FromConst(s.Ring, s.Offset)
	for _, k := range s.Keys() {
		coeff, _ := s.Coeff(k)
		child := b.byID[term.ID(k)]
		newChild := b.substitute(child, subst)
		if ns, ok := newChild.Payload().(*semiring.Sum); ok && newChild.Op() == term.OpSum && ns.Ring == s.Ring {
			acc = semiring.Add(acc, semiring.Scale(coeff, ns))
			continue
		}
		if _, isXor := s.Ring.(semiring.BVXorRing); isXor {
			acc = semiring.Add(acc, semiring.Scale(coeff, b.bvXorVarSum(newChild)))
			continue
		}
		acc = semiring.Add(acc, semiring.FromWeightedVar(s.Ring, coeff, semiring.Key(newChild.ID())))
	}
	switch s.Ring.(type) {
	case semiring.IntRing:
		return b.intTerm(acc)
	case semiring.RealRing:
		return b.realTerm(acc)
	case semiring.BVArithRing:
		return b.bvArithTerm(n.Sort().Width(), acc)
	case semiring.BVXorRing:
		return b.bvXorTerm(n.Sort().Width(), acc)
	default:
		panic("symexpr: substitute: unknown sum ring")
	}
}

func (b *Builder) substituteProduct(n *term.Node, subst map[term.ID]*term.Node) *term.Node {
	p := n.Payload().(*semiring.Product)
	acc := semiring.NullProduct(p.Count)
	for _, k := range p.Keys() {
		exp, _ := p.Exponent(k)
		child := b.byID[term.ID(k)]
		newChild := b.substitute(child, subst)
		acc = semiring.Mul(acc, semiring.VarProduct(p.Count, semiring.Key(newChild.ID())))
		for i := 1; i < exp; i++ {
			acc = semiring.Mul(acc, semiring.VarProduct(p.Count, semiring.Key(newChild.ID())))
		}
	}
	switch n.Sort().Kind() {
	case sortreg.Integer:
		return b.intProductTerm(acc)
	case sortreg.Real:
		return b.realProductTerm(acc)
	case sortreg.BV:
		ring := p.Count
		return b.bvProductTerm(n.Sort().Width(), acc, ring)
	default:
		panic("symexpr: substitute: unknown product sort")
	}
}

// Forall/Exists fold to the body's own truth value when it does not
// depend on the bound variables — a cheap but sound special case of
// §4.E.8's "fold when unreferenced" rule, detected by checking the body is
// unchanged under substitution to a pair of distinct fresh constants would
// be a heavier (and here unnecessary) check; instead we use direct
// reference-reachability via Walk.
func (b *Builder) Forall(vars []*term.Node, body *term.Node) *term.Node {
	if !referencesAny(body, vars) {
		return body
	}
	key := "forall"
	for _, v := range vars {
		key += fmt.Sprintf(":%d", v.ID())
	}
	key += fmt.Sprintf("|%d", body.ID())
	return b.intern(term.OpForall, b.Sorts.Bool(), []*term.Node{body}, vars, key, abstract.TopBool())
}

func (b *Builder) Exists(vars []*term.Node, body *term.Node) *term.Node {
	if !referencesAny(body, vars) {
		return body
	}
	key := "exists"
	for _, v := range vars {
		key += fmt.Sprintf(":%d", v.ID())
	}
	key += fmt.Sprintf("|%d", body.ID())
	return b.intern(term.OpExists, b.Sorts.Bool(), []*term.Node{body}, vars, key, abstract.TopBool())
}

func referencesAny(body *term.Node, vars []*term.Node) bool {
	want := make(map[term.ID]bool, len(vars))
	for _, v := range vars {
		want[v.ID()] = true
	}
	found := false
	term.Walk([]*term.Node{body}, func(n *term.Node) {
		if want[n.ID()] {
			found = true
		}
	})
	return found
}

// Annotate assigns a fresh annotation identity to x (§4.E.9); annotating
// an already-annotated node is idempotent and returns the same node.
func (b *Builder) Annotate(x *term.Node) *term.Node {
	if x.Meta() != nil && x.Meta().AnnotationID != "" {
		return x
	}
	return x.WithMeta(&term.Meta{AnnotationID: newAnnotationID()})
}

// --- fresh variables ---

func (b *Builder) freshVar(s *sortreg.Sort, name string, bound bool) *term.Node {
	return b.freshLeaf(term.OpVar, s, &term.VarInfo{Name: name, Bound: bound}, topOf(s))
}

// FreshConst introduces a fresh unconstrained variable of the given sort.
func (b *Builder) FreshConst(s *sortreg.Sort, name string) *term.Node {
	return b.freshVar(s, name, false)
}

// FreshBoundConst introduces a fresh bound variable (for use as a
// quantifier or function-definition parameter).
func (b *Builder) FreshBoundConst(s *sortreg.Sort, name string) *term.Node {
	return b.freshVar(s, name, true)
}

// FreshBoundedInt introduces a fresh integer variable whose abstract value
// is pre-narrowed to [lo, hi]. lo > hi panics with an InvalidRange
// *symerr.Error (§7); no error value is returned.
func (b *Builder) FreshBoundedInt(name string, lo, hi *big.Int) *term.Node {
	if lo != nil && hi != nil && lo.Cmp(hi) > 0 {
		panic(symerr.InvalidRangeErr("Integer", lo.String(), hi.String()))
	}
	abs := abstract.RangeInt(lo, hi)
	return b.freshLeaf(term.OpVar, b.Sorts.Integer(), &term.VarInfo{Name: name}, abs)
}

// FreshBoundedReal is the Real analogue of FreshBoundedInt.
func (b *Builder) FreshBoundedReal(name string, lo, hi *big.Rat) *term.Node {
	if lo != nil && hi != nil && lo.Cmp(hi) > 0 {
		panic(symerr.InvalidRangeErr("Real", lo.RatString(), hi.RatString()))
	}
	abs := abstract.RangeReal(lo, hi)
	return b.freshLeaf(term.OpVar, b.Sorts.Real(), &term.VarInfo{Name: name}, abs)
}

// FreshNat introduces a fresh integer variable constrained to be
// non-negative, a convenience composing FreshBoundedInt with a zero lower
// bound (§9 supplemented feature: natural-number-as-protected-integer).
func (b *Builder) FreshNat(name string) *term.Node {
	return b.FreshBoundedInt(name, big.NewInt(0), nil)
}

// --- conversions (§4.E) ---

func (b *Builder) IntToReal(x *term.Node) *term.Node {
	if k, ok := b.intScalarOf(x); ok {
		return b.RealLit(new(big.Rat).SetInt(k))
	}
	ir := x.AbstractValue().(abstract.IntRange)
	abs := abstract.RangeReal(ratOrNil(ir.Lo), ratOrNil(ir.Hi))
	return b.intern(term.OpIntToReal, b.Sorts.Real(), []*term.Node{x}, nil, "", abs)
}

func ratOrNil(v *big.Int) *big.Rat {
	if v == nil {
		return nil
	}
	return new(big.Rat).SetInt(v)
}

func (b *Builder) RealToInt(x *term.Node) *term.Node {
	if k, ok := b.realScalarOf(x); ok && k.IsInt() {
		return b.IntLit(new(big.Int).Quo(k.Num(), k.Denom()))
	}
	return b.intern(term.OpRealToInt, b.Sorts.Integer(), []*term.Node{x}, nil, "", abstract.TopInt())
}

// BvToNat interprets a bitvector as an unsigned Integer.
func (b *Builder) BvToNat(x *term.Node) *term.Node {
	if v, ok := x.AbstractValue().(abstract.BVDomain).AsConst(); ok {
		return b.IntLit(v)
	}
	bd := x.AbstractValue().(abstract.BVDomain)
	abs := abstract.RangeInt(bd.ALo, bd.AHi)
	return b.intern(term.OpBvToNat, b.Sorts.Integer(), []*term.Node{x}, nil, "", abs)
}

// IntToBv reduces an Integer modulo 2^width into a bitvector.
func (b *Builder) IntToBv(x *term.Node, width uint32) *term.Node {
	if k, ok := b.intScalarOf(x); ok {
		return b.BvLit(width, k)
	}
	return b.intern(term.OpIntToBv, b.Sorts.BV(width), []*term.Node{x}, width, "", abstract.TopBV(width))
}
