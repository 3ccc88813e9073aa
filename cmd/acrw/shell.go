package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lmorg/readline/v4"
	"golang.org/x/term"

	"github.com/client9/acrewrite/engine"
	"github.com/client9/acrewrite/expr"
	"github.com/client9/acrewrite/lisptext"
)

// shellSession holds the single piece of mutable state a shell REPL turn
// acts on: the expression under rewrite. Grounded on the teacher's REPL
// struct, narrowed to what this rewriter's shell mode actually needs.
type shellSession struct {
	rulesets map[string][]engine.Rule
	current  expr.Expr
	output   io.Writer
}

// RunShell implements the "shell" subcommand: a REPL over a single
// expression, starting from the literal integer 0. Each line either
// saturates the current expression under every ruleset whose name it
// contains as a substring, or (if it names none) is parsed as a
// replacement expression. Parse and saturation errors are reported but do
// not end the session, per spec error-handling policy.
func RunShell(rulesets map[string][]engine.Rule, prompt string) error {
	s := &shellSession{rulesets: rulesets, current: expr.NewInteger(0), output: os.Stdout}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return s.runInteractive(prompt)
	}
	return s.runScanner()
}

func (s *shellSession) runInteractive(prompt string) error {
	rl := readline.NewInstance()
	rl.SetPrompt(prompt)
	fmt.Fprintf(s.output, "%s\n", lisptext.Print(s.current))
	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		s.step(line)
	}
}

func (s *shellSession) runScanner() error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintf(s.output, "%s\n", lisptext.Print(s.current))
	for scanner.Scan() {
		s.step(scanner.Text())
	}
	return scanner.Err()
}

// step processes one input line against the current expression, per the
// substring-dispatch rule spec §9 documents as a preserved design smell:
// ambiguous if one ruleset name is a substring of another, resolved here
// by applying every matching ruleset in ascending name order.
func (s *shellSession) step(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if names := s.matchingRulesets(line); len(names) > 0 {
		var combined []engine.Rule
		for _, name := range names {
			combined = append(combined, s.rulesets[name]...)
		}
		next, err := engine.ApplyRuleset(s.current, combined)
		if err != nil {
			fmt.Fprintf(s.output, "error: %v\n", err)
			return
		}
		s.current = next
	} else {
		p := lisptext.NewParser(lisptext.NewLexer(line))
		next, err := p.ParseExpression()
		if err != nil {
			fmt.Fprintf(s.output, "error: %v\n", err)
			return
		}
		s.current = next
	}

	fmt.Fprintf(s.output, "%s\n", lisptext.Print(s.current))
}

func (s *shellSession) matchingRulesets(line string) []string {
	var names []string
	for name := range s.rulesets {
		if strings.Contains(line, name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
