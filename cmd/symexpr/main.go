// cmd/symexpr is a demo/debug CLI over the symexpr term engine: a tiny
// line-oriented command driver (see session.go), not an expression
// language or an SMT-LIB frontend. It exists to exercise the Builder API
// interactively and to sanity-check scripted sequences of constructions.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"c": "check",
	"i": "repl",
	"v": "version",
	"h": "help",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "help", "--help", "-h":
		showUsage()
	case "version", "--version", "-v":
		fmt.Printf("symexpr %s\n", version)
	case "repl":
		runRepl()
	case "check":
		if len(args) < 2 {
			log.Fatal("usage: symexpr check <script-file>")
		}
		if err := runCheck(args[1]); err != nil {
			log.Fatalf("check: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`symexpr - symbolic expression engine demo CLI

Usage:
  symexpr repl              start an interactive builder session
  symexpr check <file>      run a command script non-interactively
  symexpr version
  symexpr help

Session commands (one per line, "$N" refers to the N-th prior result):
  true | false
  intlit <n> | reallit <num>/<den> | bvlit <width> <v> | strlit <text>
  intvar <name> | realvar <name> | boolvar <name>
  not $i | and $i $j ... | ite $c $t $e | eq $i $j
  intadd $i $j | intsub $i $j | intmul $i $j | intle $i $j
  print $i | theory $i | features $i | concrete $i`)
}

func runRepl() {
	fmt.Println("symexpr repl | type 'exit' to quit, 'help' for commands")
	s := newSession()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s terms] > ", humanize.Comma(int64(len(s.log))))
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "exit" {
			break
		}
		if strings.TrimSpace(line) == "help" {
			showUsage()
			continue
		}
		var out strings.Builder
		if err := s.run(line, &out); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Print(out.String())
		if idx := len(s.log) - 1; idx >= 0 {
			fmt.Printf("  $%d\n", idx)
		}
	}
}

func runCheck(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s := newSession()
	var out strings.Builder
	for i, line := range strings.Split(string(data), "\n") {
		if err := s.run(line, &out); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	fmt.Print(out.String())
	fmt.Printf("ok: %s terms built, %s\n", humanize.Comma(int64(len(s.log))), path)
	return nil
}
