// Package xprint implements a human-readable term printer for debugging and
// the REPL. It is deliberately not an SMT-LIB writer: output is a compact
// prefix-ish notation meant for a terminal, not a solver's wire format.
package xprint

import (
	"fmt"
	"math/big"
	"strings"

	"symexpr/internal/builder"
	"symexpr/internal/semiring"
	"symexpr/internal/sortreg"
	"symexpr/internal/term"
)

// Printer renders term trees to text. A subterm reached through several
// parents is rendered in full at each occurrence; no rendering is cached.
type Printer struct {
	indent    int
	indentStr string
	output    strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{indentStr: "  "}
}

// Print renders n and returns the accumulated text; the Printer may be
// reused for another call afterward.
func (p *Printer) Print(n *term.Node) string {
	p.output.Reset()
	p.indent = 0
	p.formatTerm(n)
	return p.output.String()
}

// Sprint is a convenience one-shot entry point.
func Sprint(n *term.Node) string {
	return NewPrinter().Print(n)
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString(p.indentStr)
	}
}

func (p *Printer) formatTerm(n *term.Node) {
	if n == nil {
		p.output.WriteString("<nil>")
		return
	}

	switch n.Op() {
	case term.OpTrue:
		p.output.WriteString("true")
	case term.OpFalse:
		p.output.WriteString("false")

	case term.OpSum:
		p.formatSum(n)
	case term.OpProduct:
		p.formatProduct(n)

	case term.OpVar:
		info := n.Payload().(*term.VarInfo)
		p.output.WriteString(info.Name)

	case term.OpStrConcat:
		if s, ok := builder.StringLiteral(n); ok {
			fmt.Fprintf(&p.output, "%q", s)
			return
		}
		p.formatCall("str.concat", n.Children())

	case term.OpFloatAdd:
		if v, ok := builder.FloatLiteral(n); ok {
			p.output.WriteString(v.Text('g', -1))
			return
		}
		p.formatCall(n.Op().String(), n.Children())

	case term.OpArrConst:
		if def, ok := builder.ArrayConstDefault(n); ok {
			p.output.WriteString("(const-array ")
			p.formatTerm(def)
			p.output.WriteString(")")
			return
		}
		p.formatCall(n.Op().String(), n.Children())

	case term.OpIte:
		c := n.Children()
		p.output.WriteString("(ite ")
		p.formatTerm(c[0])
		p.output.WriteString(" ")
		p.formatTerm(c[1])
		p.output.WriteString(" ")
		p.formatTerm(c[2])
		p.output.WriteString(")")

	case term.OpAnd:
		p.formatCall("and", n.Children())

	case term.OpNot:
		p.output.WriteString("(not ")
		p.formatTerm(n.Children()[0])
		p.output.WriteString(")")

	case term.OpBvExtract:
		pl := n.Payload().(term.BvExtractPayload)
		p.output.WriteString("(bv.extract ")
		fmt.Fprintf(&p.output, "[%d:%d] ", pl.Hi, pl.Lo)
		p.formatTerm(n.Children()[0])
		p.output.WriteString(")")

	case term.OpBvZext, term.OpBvSext:
		extra := n.Payload().(int)
		p.output.WriteString("(")
		p.output.WriteString(n.Op().String())
		fmt.Fprintf(&p.output, " %d ", extra)
		p.formatTerm(n.Children()[0])
		p.output.WriteString(")")

	case term.OpBvFill:
		bit := n.Payload().(bool)
		fmt.Fprintf(&p.output, "(bv.fill %v [%d])", bit, n.Sort().Width())

	case term.OpStructCtor:
		p.output.WriteString("(struct")
		for _, c := range n.Children() {
			p.output.WriteString(" ")
			p.formatTerm(c)
		}
		p.output.WriteString(")")

	case term.OpStructField:
		idx := n.Payload().(int)
		p.output.WriteString("(field ")
		p.formatTerm(n.Children()[0])
		fmt.Fprintf(&p.output, " %d)", idx)

	case term.OpFloatCast:
		pl := n.Payload().(term.FloatCastPayload)
		p.output.WriteString("(fp.cast ")
		fmt.Fprintf(&p.output, "(%d,%d) ", pl.Eb, pl.Sb)
		p.formatTerm(n.Children()[0])
		p.output.WriteString(")")

	case term.OpIntToBv:
		w := n.Payload().(uint32)
		p.output.WriteString("(int.toBv ")
		fmt.Fprintf(&p.output, "%d ", w)
		p.formatTerm(n.Children()[0])
		p.output.WriteString(")")

	case term.OpAnnotate:
		p.formatTerm(n.Children()[0])

	case term.OpForall, term.OpExists:
		p.formatQuant(n)

	case term.OpApply:
		name := n.Payload().(string)
		p.formatCall(name, n.Children())

	default:
		p.formatCall(n.Op().String(), n.Children())
	}
}

func (p *Printer) formatCall(name string, children []*term.Node) {
	p.output.WriteString("(")
	p.output.WriteString(name)
	for _, c := range children {
		p.output.WriteString(" ")
		p.formatTerm(c)
	}
	p.output.WriteString(")")
}

// formatSum prints a weighted sum as "(+ c1*x1 c2*x2 ... k)", collapsing a
// bare constant or variable to its plain literal/name form (the same
// recognizers the builder itself uses to decide whether to wrap a node).
func (p *Printer) formatSum(n *term.Node) {
	s := n.Payload().(*semiring.Sum)
	if k, ok := s.AsConstant(); ok {
		p.writeScalar(k)
		return
	}
	children := n.Children()
	p.output.WriteString("(+")
	for _, c := range children {
		coeff, _ := s.Coeff(semiring.Key(c.ID()))
		p.output.WriteString(" ")
		if isOne(coeff) {
			p.formatTerm(c)
		} else {
			p.output.WriteString("(* ")
			p.writeScalar(coeff)
			p.output.WriteString(" ")
			p.formatTerm(c)
			p.output.WriteString(")")
		}
	}
	if !isZero(s.Offset) {
		p.output.WriteString(" ")
		p.writeScalar(s.Offset)
	}
	p.output.WriteString(")")
}

// formatProduct prints a monomial as "(* x1^n1 x2^n2 ...)".
func (p *Printer) formatProduct(n *term.Node) {
	pr := n.Payload().(*semiring.Product)
	children := n.Children()
	p.output.WriteString("(*")
	for _, c := range children {
		exp, _ := pr.Exponent(semiring.Key(c.ID()))
		p.output.WriteString(" ")
		p.formatTerm(c)
		if exp != 1 {
			fmt.Fprintf(&p.output, "^%d", exp)
		}
	}
	p.output.WriteString(")")
}

func (p *Printer) writeScalar(v any) {
	switch x := v.(type) {
	case *big.Int:
		p.output.WriteString(x.String())
	case *big.Rat:
		p.output.WriteString(x.RatString())
	default:
		fmt.Fprintf(&p.output, "%v", v)
	}
}

func isZero(v any) bool {
	switch x := v.(type) {
	case *big.Int:
		return x.Sign() == 0
	case *big.Rat:
		return x.Sign() == 0
	default:
		return false
	}
}

func isOne(v any) bool {
	switch x := v.(type) {
	case *big.Int:
		return x.Cmp(big.NewInt(1)) == 0
	case *big.Rat:
		return x.Cmp(big.NewRat(1, 1)) == 0
	default:
		return false
	}
}

func (p *Printer) formatQuant(n *term.Node) {
	kw := "forall"
	if n.Op() == term.OpExists {
		kw = "exists"
	}
	vars := n.Payload().([]*term.Node)
	body := n.Children()[0]
	p.output.WriteString("(")
	p.output.WriteString(kw)
	p.output.WriteString(" (")
	for i, v := range vars {
		if i > 0 {
			p.output.WriteString(" ")
		}
		info := v.Payload().(*term.VarInfo)
		p.output.WriteString(info.Name)
		p.output.WriteString(":")
		p.output.WriteString(sortName(v.Sort()))
	}
	p.output.WriteString(") ")
	p.formatTerm(body)
	p.output.WriteString(")")
}

func sortName(s *sortreg.Sort) string { return s.String() }
