package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"symexpr/internal/builder"
	"symexpr/internal/concrete"
	"symexpr/internal/features"
	"symexpr/internal/theory"
	"symexpr/internal/term"
	"symexpr/internal/xprint"
)

// session holds one Builder and a numbered log of the terms its commands
// have built, referenced from the command line as $0, $1, ... in
// construction order; named variables live in vars and are not numbered.
// This is a debug/demo harness over the Builder API, not an expression
// language: each line names one builder method and its $-references.
type session struct {
	b    *builder.Builder
	log  []*term.Node
	vars map[string]*term.Node // named variables, from intvar/realvar/boolvar commands
}

func newSession() *session {
	return &session{b: builder.New(), vars: make(map[string]*term.Node)}
}

func (s *session) record(n *term.Node) *term.Node {
	s.log = append(s.log, n)
	return n
}

func (s *session) resolve(tok string) (*term.Node, error) {
	if strings.HasPrefix(tok, "$") {
		idx, err := strconv.Atoi(tok[1:])
		if err != nil || idx < 0 || idx >= len(s.log) {
			return nil, fmt.Errorf("no such reference %s", tok)
		}
		return s.log[idx], nil
	}
	if n, ok := s.vars[tok]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("unknown operand %q", tok)
}

// run executes one command line. A blank line or a "#"-prefixed line is a
// no-op. Output, if any, is written to out.
func (s *session) run(line string, out *strings.Builder) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	arg := func(i int) (*term.Node, error) {
		if i >= len(args) {
			return nil, fmt.Errorf("%s: missing operand %d", cmd, i)
		}
		return s.resolve(args[i])
	}

	switch cmd {
	case "true":
		s.record(s.b.True())
	case "false":
		s.record(s.b.False())
	case "intlit":
		v, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("intlit: bad integer %q", args[0])
		}
		s.record(s.b.IntLit(v))
	case "reallit":
		v, ok := new(big.Rat).SetString(args[0])
		if !ok {
			return fmt.Errorf("reallit: bad rational %q", args[0])
		}
		s.record(s.b.RealLit(v))
	case "bvlit":
		width, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bvlit: bad width %q", args[0])
		}
		v, ok := new(big.Int).SetString(args[1], 10)
		if !ok {
			return fmt.Errorf("bvlit: bad value %q", args[1])
		}
		s.record(s.b.BvLit(uint32(width), v))
	case "strlit":
		s.record(s.b.StrLit(0, strings.Join(args, " ")))
	case "intvar":
		s.vars[args[0]] = s.b.FreshConst(s.b.Sorts.Integer(), args[0])
	case "realvar":
		s.vars[args[0]] = s.b.FreshConst(s.b.Sorts.Real(), args[0])
	case "boolvar":
		s.vars[args[0]] = s.b.FreshConst(s.b.Sorts.Bool(), args[0])
	case "not":
		x, err := arg(0)
		if err != nil {
			return err
		}
		s.record(s.b.Not(x))
	case "and":
		var xs []*term.Node
		for i := range args {
			x, err := arg(i)
			if err != nil {
				return err
			}
			xs = append(xs, x)
		}
		s.record(s.b.And(xs...))
	case "ite":
		c, err := arg(0)
		if err != nil {
			return err
		}
		t, err := arg(1)
		if err != nil {
			return err
		}
		e, err := arg(2)
		if err != nil {
			return err
		}
		s.record(s.b.Ite(c, t, e))
	case "eq":
		x, err := arg(0)
		if err != nil {
			return err
		}
		y, err := arg(1)
		if err != nil {
			return err
		}
		s.record(s.b.Eq(x, y))
	case "intadd", "intsub", "intmul", "intle":
		x, err := arg(0)
		if err != nil {
			return err
		}
		y, err := arg(1)
		if err != nil {
			return err
		}
		switch cmd {
		case "intadd":
			s.record(s.b.IntAdd(x, y))
		case "intsub":
			s.record(s.b.IntSub(x, y))
		case "intmul":
			s.record(s.b.IntMul(x, y))
		case "intle":
			s.record(s.b.IntLe(x, y))
		}
	case "print":
		n, err := arg(0)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", xprint.Sprint(n))
	case "theory":
		n, err := arg(0)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", theory.Classify(n))
	case "features":
		n, err := arg(0)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", features.Of([]*term.Node{n}))
	case "concrete":
		n, err := arg(0)
		if err != nil {
			return err
		}
		v, ok := concrete.Concrete(n)
		if !ok {
			fmt.Fprintf(out, "not concrete\n")
			return nil
		}
		fmt.Fprintf(out, "%+v\n", v)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
