// Package replshell implements the interactive Read-Eval-Print loop
// of SPEC_FULL.md §10.4.
//
// Grounded on the teacher's internal/repl.REPL: readline.Config wraps
// prompt/history, each line is appended to a pending buffer and
// re-lexed/re-parsed as a whole, and a syntax error that looks like a
// truncated program (unexpected EOF / unclosed literal) switches to a
// continuation prompt instead of being reported, the same gate as the
// teacher's shouldAwaitContinuation.
package replshell

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/vlang-run/vlang/internal/eval"
	"github.com/vlang-run/vlang/internal/lexer"
	"github.com/vlang-run/vlang/internal/scope"
	"github.com/vlang-run/vlang/internal/token"
	"github.com/vlang-run/vlang/internal/trace"
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

const (
	primaryPrompt      = "vlang> "
	continuationPrompt = "...... "
)

// RegisterFunc installs the host standard library into a freshly
// pushed top-level scope. cmd/vlang passes builtin.Register here so
// replshell does not need to import internal/builtin directly.
type RegisterFunc func(s *scope.Stack, out io.Writer)

// Shell is one REPL session: a persistent scope stack shared across
// every evaluated line, so `let`/`function` bindings from earlier
// input remain visible. Each line gets a fresh token cursor.
type Shell struct {
	rl     *readline.Instance
	out    io.Writer
	trace  *trace.Session
	scope  *scope.Stack
	source strings.Builder

	pendingLines []string
	awaitingCont bool
}

// Config configures a Shell.
type Config struct {
	Prompt      string
	HistoryFile string
	NoHistory   bool
	Out         io.Writer
	Trace       *trace.Session
	Register    RegisterFunc
}

func New(cfg Config) (*Shell, error) {
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = primaryPrompt
	}

	rlCfg := &readline.Config{
		Prompt:                 prompt,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
	}
	if !cfg.NoHistory && cfg.HistoryFile != "" {
		rlCfg.HistoryFile = cfg.HistoryFile
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	s := scope.NewStack()
	if cfg.Register != nil {
		cfg.Register(s, cfg.Out)
	}

	return &Shell{rl: rl, out: cfg.Out, trace: cfg.Trace, scope: s}, nil
}

// NewForTest builds a Shell with no backing readline.Instance, the same
// injection seam as the teacher's NewREPLForTest: EvalLineForTest drives
// processLine directly so tests exercise the continuation/history/error
// logic without a real terminal.
func NewForTest(cfg Config) *Shell {
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	s := scope.NewStack()
	if cfg.Register != nil {
		cfg.Register(s, cfg.Out)
	}
	return &Shell{rl: nil, out: cfg.Out, trace: cfg.Trace, scope: s}
}

// EvalLineForTest feeds one line through processLine and reports whether
// the shell would exit (an "exit"/"quit" command).
func (sh *Shell) EvalLineForTest(line string) bool {
	return sh.processLine(line)
}

// AwaitingContinuation reports whether the shell is mid multi-line input.
func (sh *Shell) AwaitingContinuation() bool {
	return sh.awaitingCont
}

// Run drives the loop until EOF (Ctrl-D) or an "exit"/"quit" command.
func (sh *Shell) Run() error {
	defer sh.rl.Close()
	for {
		line, err := sh.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				sh.pendingLines = nil
				sh.awaitingCont = false
				sh.rl.SetPrompt(primaryPrompt)
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(sh.out)
				return nil
			}
			return err
		}
		if sh.processLine(line) {
			return nil
		}
	}
}

// processLine feeds one input line through the pending-buffer and
// evaluation machinery; it returns true when the session should exit.
func (sh *Shell) processLine(line string) bool {
	trimmed := strings.TrimSpace(line)

	if !sh.awaitingCont && (trimmed == "exit" || trimmed == "quit") {
		return true
	}
	if trimmed == "" && !sh.awaitingCont {
		return false
	}

	sh.pendingLines = append(sh.pendingLines, line)
	joined := strings.Join(sh.pendingLines, "\n")

	tokens, lexErr := lexer.Scan(joined)
	if lexErr != nil {
		if shouldAwaitContinuation(lexErr) {
			sh.awaitingCont = true
			sh.setPrompt(continuationPrompt)
			return false
		}
		sh.finishLine()
		fmt.Fprintln(sh.out, lexErr.Error())
		return false
	}

	cur := token.NewCursor(joined, tokens)
	interp := eval.New("<repl>", cur)
	interp.Scope = sh.scope
	if sh.trace != nil {
		interp.AttachTrace(sh.trace)
	}

	var runErr *verror.Error
	for cur.Peek().Kind != token.EOF {
		if err := interp.Statement(eval.Exec); err != nil {
			runErr = err
			break
		}
	}

	if runErr != nil {
		if shouldAwaitContinuation(runErr) {
			sh.awaitingCont = true
			sh.setPrompt(continuationPrompt)
			return false
		}
		sh.finishLine()
		fmt.Fprintln(sh.out, runErr.Error())
		return false
	}

	sh.finishLine()
	if interp.Result.Kind != value.Undefined && interp.Result.Kind != value.Null {
		fmt.Fprintln(sh.out, value.Inspect(interp.Result))
	}
	return false
}

func (sh *Shell) finishLine() {
	joined := strings.Join(sh.pendingLines, "\n")
	sh.pendingLines = nil
	sh.awaitingCont = false
	sh.setPrompt(primaryPrompt)
	if joined != "" && sh.rl != nil {
		_ = sh.rl.SaveHistory(joined)
	}
}

// setPrompt is a no-op when running without a backing readline.Instance
// (NewForTest), mirroring the teacher's nil-guarded setPrompt.
func (sh *Shell) setPrompt(prompt string) {
	if sh.rl == nil {
		return
	}
	sh.rl.SetPrompt(prompt)
}

// shouldAwaitContinuation mirrors the teacher's check of the same
// name: a syntax error that reads as "the program is merely
// truncated" asks for another line instead of being reported.
func shouldAwaitContinuation(err *verror.Error) bool {
	if err == nil {
		return false
	}
	switch err.ID {
	case verror.IDUnexpectedEOF, verror.IDUnclosedLiteral:
		return true
	case verror.IDExpectedToken:
		return err.Args[1] == token.EOF.String()
	default:
		return false
	}
}
