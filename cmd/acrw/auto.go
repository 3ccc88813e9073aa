package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lmorg/readline/v4"
	"golang.org/x/term"

	"github.com/client9/acrewrite/engine"
	"github.com/client9/acrewrite/lisptext"
)

// maxIdentityPaths bounds how many shortest paths RunAuto reports, per
// spec §6's "up to five shortest simple paths".
const maxIdentityPaths = 5

// RunAuto implements the "auto" subcommand: each line is parsed as an
// equality form "(== lhs rhs)"; the exploration graph between lhs and rhs
// is built under the loaded rulesets, printed in full, and then up to five
// shortest simple paths are printed, or a "no solution" report if lhs and
// rhs never meet.
func RunAuto(rulesets map[string][]engine.Rule, prompt string) error {
	output := os.Stdout

	if term.IsTerminal(int(os.Stdin.Fd())) {
		rl := readline.NewInstance()
		rl.SetPrompt(prompt)
		for {
			line, err := rl.Readline()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			reportIdentity(output, rulesets, line)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		reportIdentity(output, rulesets, scanner.Text())
	}
	return scanner.Err()
}

// reportIdentity parses one "(== lhs rhs)" line and prints its identity
// search result. Parse and search errors are reported without ending the
// session.
func reportIdentity(output io.Writer, rulesets map[string][]engine.Rule, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	p := lisptext.NewParser(lisptext.NewLexer(line))
	form, err := p.ParseRule()
	if err != nil {
		fmt.Fprintf(output, "error: %v\n", err)
		return
	}
	if form.Op != "==" {
		fmt.Fprintf(output, "error: auto expects an equality form '(== lhs rhs)', got '(%s ...)'\n", form.Op)
		return
	}

	g, lid, rid, err := engine.Explore(form.Pattern, form.Replacement, rulesets)
	if err != nil {
		fmt.Fprintf(output, "error: %v\n", err)
		return
	}

	fmt.Fprint(output, "process graph:\n")
	fmt.Fprint(output, g.Dump())

	paths := engine.SimplePaths(g, lid, rid, maxIdentityPaths)
	if len(paths) == 0 {
		fmt.Fprintln(output, "no solution")
		return
	}
	for _, path := range paths {
		fmt.Fprintln(output, formatPath(g, path))
	}
}

func formatPath(g *engine.Graph, path engine.Path) string {
	var b strings.Builder
	b.WriteString(lisptext.Print(g.Expr(path.Nodes[0])))
	for i, label := range path.Labels {
		fmt.Fprintf(&b, " --%s--> %s", label, lisptext.Print(g.Expr(path.Nodes[i+1])))
	}
	return b.String()
}
