// Package ruleset implements the file-based ruleset loader (spec
// component C8): one named ruleset per file under a rules directory, with
// a "#map" macro preprocessor resolved after every file is read.
//
// Grounded on the teacher's cmd/cardinal/repl.go ExecuteFile (os.ReadFile
// + bufio.Scanner line-at-a-time reading) for the file-reading shape, and
// builtin_setup.go's "load, validate, register, fail fast" sequencing for
// the loader's overall flow.
package ruleset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/client9/acrewrite/engine"
	"github.com/client9/acrewrite/lisptext"
)

// LoadErrorKind names one of the fatal, start-up-aborting load failures
// spec §7 enumerates.
type LoadErrorKind int

const (
	ErrMissingExtension LoadErrorKind = iota
	ErrUnparseableFile
	ErrUnknownMacro
	ErrMissingRuleset
	ErrEmptyMacro
)

var loadErrorKindNames = map[LoadErrorKind]string{
	ErrMissingExtension: "MissingExtension",
	ErrUnparseableFile:  "UnparseableFile",
	ErrUnknownMacro:     "UnknownMacro",
	ErrMissingRuleset:   "MissingRuleset",
	ErrEmptyMacro:       "EmptyMacro",
}

func (k LoadErrorKind) String() string {
	if name, ok := loadErrorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// LoadError is a fatal configuration error: the caller should abort
// start-up rather than attempt to continue with a partial rule set.
type LoadError struct {
	Kind LoadErrorKind
	File string
	Msg  string
}

func (e LoadError) Error() string {
	return fmt.Sprintf("load error (%s) in %s: %s", e.Kind, e.File, e.Msg)
}

// requiredExtension is the file suffix a ruleset file must carry; it is
// stripped to derive the ruleset's name.
const requiredExtension = ".rules"

// Load reads every file directly under dir as a named ruleset (file stem
// = ruleset name), applies each file's "#map" macro if present, and
// returns the resulting name -> []engine.Rule map. Any problem aborts the
// whole load with a LoadError.
func Load(dir string) (map[string][]engine.Rule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, LoadError{Kind: ErrUnparseableFile, File: dir, Msg: err.Error()}
	}

	rulesets := make(map[string][]engine.Rule)
	macros := make(map[string][]string) // ruleset name -> referenced ruleset names
	var macroStems []string             // stems with a #map, in ascending order

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		name := ent.Name()
		if filepath.Ext(name) != requiredExtension {
			return nil, LoadError{Kind: ErrMissingExtension, File: name,
				Msg: "ruleset files must have a " + requiredExtension + " extension"}
		}
		stem := strings.TrimSuffix(name, requiredExtension)
		path := filepath.Join(dir, name)

		rules, mapArgs, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		rulesets[stem] = rules
		if len(mapArgs) > 0 {
			macros[stem] = mapArgs
			macroStems = append(macroStems, stem)
		}
	}

	// Apply #map macros in ascending stem order, not map iteration order,
	// so a chain of #map references (one mapped ruleset feeding another)
	// resolves identically across runs, per the determinism requirement.
	sort.Strings(macroStems)
	for _, stem := range macroStems {
		if err := applyMap(rulesets, stem, macros[stem]); err != nil {
			return nil, err
		}
	}

	return rulesets, nil
}

// loadFile reads one ruleset file, stripping "#"-prefixed macro lines
// before parsing the remaining rule forms, one per non-blank,
// non-comment, non-macro line.
func loadFile(path string) ([]engine.Rule, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, LoadError{Kind: ErrUnparseableFile, File: path, Msg: err.Error()}
	}
	defer f.Close()

	var rules []engine.Rule
	var mapArgs []string

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "#") {
			args, err := parseMacroLine(line, path, lineNo)
			if err != nil {
				return nil, nil, err
			}
			mapArgs = append(mapArgs, args...)
			continue
		}

		p := lisptext.NewParser(lisptext.NewLexer(line))
		form, err := p.ParseRule()
		if err != nil {
			return nil, nil, LoadError{Kind: ErrUnparseableFile, File: path,
				Msg: fmt.Sprintf("line %d: %v", lineNo, err)}
		}

		kind := engine.Replacement
		if form.Op == "==" {
			kind = engine.Equality
		}
		rules = append(rules, engine.Rule{
			Name:        fmt.Sprintf("%s:%d", filepath.Base(path), lineNo),
			Pattern:     form.Pattern,
			Replacement: form.Replacement,
			Kind:        kind,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, LoadError{Kind: ErrUnparseableFile, File: path, Msg: err.Error()}
	}
	return rules, mapArgs, nil
}

// parseMacroLine recognizes "#map R1 R2 ..."; any other macro name is
// unknown and aborts loading, per spec §6.
func parseMacroLine(line, path string, lineNo int) ([]string, error) {
	fields := strings.Fields(line)
	name := strings.TrimPrefix(fields[0], "#")
	if name != "map" {
		return nil, LoadError{Kind: ErrUnknownMacro, File: path,
			Msg: fmt.Sprintf("line %d: unknown macro %q", lineNo, name)}
	}
	args := fields[1:]
	if len(args) == 0 {
		return nil, LoadError{Kind: ErrEmptyMacro, File: path,
			Msg: fmt.Sprintf("line %d: #map requires at least one ruleset name", lineNo)}
	}
	return args, nil
}

// applyMap rewrites both the pattern and replacement of every rule in
// rulesets[stem] by saturating under the union of the named rulesets in
// refs, per the "#map R1 R2 ..." macro.
func applyMap(rulesets map[string][]engine.Rule, stem string, refs []string) error {
	var union []engine.Rule
	for _, ref := range refs {
		rs, ok := rulesets[ref]
		if !ok {
			return LoadError{Kind: ErrMissingRuleset, File: stem + requiredExtension,
				Msg: fmt.Sprintf("#map references unknown ruleset %q", ref)}
		}
		union = append(union, rs...)
	}

	rewritten := make([]engine.Rule, len(rulesets[stem]))
	for i, r := range rulesets[stem] {
		pat, err := engine.ApplyRuleset(r.Pattern, union)
		if err != nil {
			return LoadError{Kind: ErrUnparseableFile, File: stem + requiredExtension, Msg: err.Error()}
		}
		repl, err := engine.ApplyRuleset(r.Replacement, union)
		if err != nil {
			return LoadError{Kind: ErrUnparseableFile, File: stem + requiredExtension, Msg: err.Error()}
		}
		rewritten[i] = engine.Rule{Name: r.Name, Pattern: pat, Replacement: repl, Kind: r.Kind}
	}
	rulesets[stem] = rewritten
	return nil
}
