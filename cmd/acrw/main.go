// Command acrw is the rewriter's primary executable: a "shell" REPL that
// saturates an expression under named rulesets, and an "auto" REPL that
// searches for an identity proof between two expressions.
//
// Grounded on the teacher's cmd/repl/main.go flag/subcommand dispatch and
// cmd/cardinal/repl.go's REPL construction and startup-timing log line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/client9/acrewrite/ruleset"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sub := os.Args[1]
	fs := flag.NewFlagSet(sub, flag.ExitOnError)
	rulesDir := fs.String("rules", "./rules", "directory of .rules files")
	prompt := fs.String("prompt", sub+"> ", "REPL prompt string")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	start := time.Now()
	rulesets, err := ruleset.Load(*rulesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "acrw: %v\n", err)
		os.Exit(1)
	}
	log.Printf("loaded %d ruleset(s) from %s in %g ms", len(rulesets), *rulesDir, 1000.0*float64(time.Since(start))/1e9)

	switch sub {
	case "shell":
		if err := RunShell(rulesets, *prompt); err != nil {
			fmt.Fprintf(os.Stderr, "acrw: %v\n", err)
			os.Exit(1)
		}
	case "auto":
		if err := RunAuto(rulesets, *prompt); err != nil {
			fmt.Fprintf(os.Stderr, "acrw: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: acrw <shell|auto> [-rules dir] [-prompt string]`)
}
