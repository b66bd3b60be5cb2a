// Package config parses the CLI surface of SPEC_FULL.md §10.3: a
// script-file path, a one-shot "-c" expression, and REPL options.
//
// Grounded on the teacher's internal/config/config.go: a flag.FlagSet
// with ContinueOnError, trailing non-flag arguments split off as the
// script file plus its own argv, and VIRO_*-style env overrides for
// the same fields flags set.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Config holds everything cmd/vlang needs to pick a run mode and wire
// the interpreter, trace session, and REPL (SPEC_FULL.md §10.3).
type Config struct {
	ScriptFile string
	EvalExpr   string
	ReplMode   bool

	TraceFile string

	NoHistory   bool
	HistoryFile string
	Prompt      string

	Args []string
}

func New() *Config {
	return &Config{Prompt: "vlang> "}
}

// LoadFromEnv applies VLANG_*-prefixed overrides, mirroring the
// teacher's LoadFromEnv. Flags parsed afterward still win: call this
// before LoadFromFlagsWithArgs.
func (c *Config) LoadFromEnv() {
	if f := os.Getenv("VLANG_HISTORY_FILE"); f != "" {
		c.HistoryFile = f
	}
	if f := os.Getenv("VLANG_TRACE_FILE"); f != "" {
		c.TraceFile = f
	}
	if p := os.Getenv("VLANG_PROMPT"); p != "" {
		c.Prompt = p
	}
}

// LoadFromFlags parses os.Args[1:]; see LoadFromFlagsWithArgs.
func (c *Config) LoadFromFlags() error {
	return c.LoadFromFlagsWithArgs(os.Args[1:])
}

// LoadFromFlagsWithArgs splits args into flags and a trailing script
// invocation the same way the teacher's splitCommandLineArgs does:
// the first argument that isn't a recognized flag (and doesn't take a
// value) is the script file, and everything from there on is the
// script's own argv rather than more vlang flags.
func (c *Config) LoadFromFlagsWithArgs(args []string) error {
	fs := flag.NewFlagSet("vlang", flag.ContinueOnError)

	evalExpr := fs.String("c", "", "evaluate EXPR and print its result")
	replMode := fs.Bool("repl", false, "start the interactive REPL")
	traceFile := fs.String("trace-file", "", "write a JSON-lines trace to this file")
	noHistory := fs.Bool("no-history", false, "disable REPL command history")
	historyFile := fs.String("history-file", "", "REPL history file location")
	prompt := fs.String("prompt", "", "custom REPL prompt")

	valueFlags := map[string]bool{"-c": true, "-trace-file": true, "-history-file": true, "-prompt": true}
	scriptIdx := -1
	for idx := 0; idx < len(args); idx++ {
		a := args[idx]
		if valueFlags[a] {
			idx++ // skip the value token this flag consumes
			continue
		}
		if strings.HasPrefix(a, "-") {
			continue
		}
		scriptIdx = idx
		break
	}

	var flagArgs []string
	if scriptIdx >= 0 {
		flagArgs = args[:scriptIdx]
	} else {
		flagArgs = args
	}

	if err := fs.Parse(flagArgs); err != nil {
		return err
	}

	c.EvalExpr = *evalExpr
	c.ReplMode = *replMode
	if *traceFile != "" {
		c.TraceFile = *traceFile
	}
	c.NoHistory = *noHistory
	if *historyFile != "" {
		c.HistoryFile = *historyFile
	}
	if *prompt != "" {
		c.Prompt = *prompt
	}

	if scriptIdx >= 0 {
		c.ScriptFile = args[scriptIdx]
		c.Args = args[scriptIdx+1:]
	}

	return nil
}

// Validate rejects contradictory flag combinations (spec §10.3: the
// three run modes — script, eval, REPL — are mutually exclusive).
func (c *Config) Validate() error {
	modes := 0
	if c.ScriptFile != "" {
		modes++
	}
	if c.EvalExpr != "" {
		modes++
	}
	if c.ReplMode {
		modes++
	}
	if modes > 1 {
		return fmt.Errorf("specify only one of: a script file, -c, or -repl")
	}
	return nil
}

// Mode reports which of the three run modes this config selects,
// defaulting to the REPL when nothing else was specified.
type Mode int

const (
	ModeRepl Mode = iota
	ModeScript
	ModeEval
)

func (c *Config) Mode() Mode {
	switch {
	case c.ScriptFile != "":
		return ModeScript
	case c.EvalExpr != "":
		return ModeEval
	default:
		return ModeRepl
	}
}
