// Command vlang is the embeddable interpreter's standalone driver:
// run a script file, evaluate a one-shot expression with -c, or drop
// into the interactive shell.
//
// Grounded on the teacher's cmd/viro: a config-load-then-dispatch
// split across run.go/script.go/eval.go/repl.go, reproduced here in a
// single file since vlang's CLI surface is far smaller (no sandboxing,
// no profiler, no debug/help/version subsystems).
package main

import (
	"fmt"
	"os"

	"github.com/vlang-run/vlang/internal/builtin"
	"github.com/vlang-run/vlang/internal/config"
	"github.com/vlang-run/vlang/internal/eval"
	"github.com/vlang-run/vlang/internal/lexer"
	"github.com/vlang-run/vlang/internal/replshell"
	"github.com/vlang-run/vlang/internal/scope"
	"github.com/vlang-run/vlang/internal/token"
	"github.com/vlang-run/vlang/internal/trace"
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

const (
	exitSuccess = 0
	exitError   = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.New()
	cfg.LoadFromEnv()
	if err := cfg.LoadFromFlagsWithArgs(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitUsage
	}

	var session *trace.Session
	if cfg.TraceFile != "" {
		session = trace.NewFileSession(cfg.TraceFile, 10)
		session.Enable()
		defer session.Close()
	}

	switch cfg.Mode() {
	case config.ModeScript:
		return runFile(cfg, session)
	case config.ModeEval:
		return runEval(cfg, session)
	default:
		return runRepl(cfg, session)
	}
}

func runFile(cfg *config.Config, session *trace.Session) int {
	src, err := os.ReadFile(cfg.ScriptFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", cfg.ScriptFile, err)
		return exitError
	}
	return execute(string(src), cfg.ScriptFile, cfg.Args, session, false)
}

func runEval(cfg *config.Config, session *trace.Session) int {
	return execute(cfg.EvalExpr, "<eval>", nil, session, true)
}

func runRepl(cfg *config.Config, session *trace.Session) int {
	sh, err := replshell.New(replshell.Config{
		Prompt:      cfg.Prompt,
		HistoryFile: cfg.HistoryFile,
		NoHistory:   cfg.NoHistory,
		Out:         os.Stdout,
		Trace:       session,
		Register:    builtin.Register,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing shell: %v\n", err)
		return exitError
	}
	if err := sh.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running shell: %v\n", err)
		return exitError
	}
	return exitSuccess
}

func execute(src, sourceFile string, scriptArgs []string, session *trace.Session, printResult bool) int {
	tokens, lexErr := lexer.Scan(src)
	if lexErr != nil {
		fmt.Fprintln(os.Stderr, lexErr.Error())
		return verror.ToExitCode(lexErr.Category)
	}

	cur := token.NewCursor(src, tokens)
	interp := eval.New(sourceFile, cur)
	if session != nil {
		interp.AttachTrace(session)
	}
	builtin.Register(interp.Scope, os.Stdout)
	declareArgs(interp.Scope, scriptArgs)

	if err := interp.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return verror.ToExitCode(err.Category)
	}

	if printResult && interp.Result.Kind != value.Undefined {
		fmt.Fprintln(os.Stdout, value.Inspect(interp.Result))
	}
	return exitSuccess
}

func declareArgs(s *scope.Stack, args []string) {
	elems := make([]value.Value, len(args))
	for i, a := range args {
		elems[i] = value.Str(a)
	}
	s.Declare("args", value.Arr(elems))
}
