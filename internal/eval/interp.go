// Package eval is the core of spec §1/§4: a fused parse-and-execute
// engine consuming a pre-scanned token array through a cursor, sharing
// one recursive-descent grammar between real execution and a
// structure-only skim, driving a value model over a scope stack.
//
// Grounded on the teacher's internal/eval.Evaluator (dispatch-by-kind,
// invokeFunction's frame push/bind/run/pop, post-hoc closure capture)
// restructured around a single pre-scanned token cursor rather than a
// pre-built value tree, per spec §9's explicit license to do so.
package eval

import (
	"github.com/vlang-run/vlang/internal/scope"
	"github.com/vlang-run/vlang/internal/token"
	"github.com/vlang-run/vlang/internal/trace"
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

// Mode distinguishes real execution from structural skimming (spec
// §4, §9's "Mode enum threaded through recursion" design note, chosen
// here over a mutable flag field).
type Mode int

const (
	Exec Mode = iota
	Skim
)

// Interp is the interpreter state of spec §3: cursor, scope stack,
// result slot, and the three control-flow flags. A parameter buffer is
// not modeled as a separate field — argument values are threaded
// directly as a []value.Value at call sites, which is equivalent.
type Interp struct {
	SourceFile string
	Cursor     *token.Cursor
	Scope      *scope.Stack

	Result value.Value

	Breaking   bool
	Continuing bool
	Returning  bool

	CallDepth int

	// Trace is the optional statement-boundary event sink (SPEC_FULL.md
	// §10.2). Nil disables tracing entirely; Statement only touches it
	// through AttachTrace/emitTrace so the hot path stays a nil check.
	Trace *trace.Session
}

// AttachTrace wires a trace session into the interpreter; subsequent
// statement boundaries emit an event when the session is enabled.
func (i *Interp) AttachTrace(s *trace.Session) {
	i.Trace = s
}

func (i *Interp) emitTrace(kind, detail string) {
	if i.Trace == nil || !i.Trace.Enabled() {
		return
	}
	i.Trace.Emit(kind, detail, i.Cursor.Peek().Line, i.CallDepth)
}

// MaxCallDepth bounds recursive script calls; exceeding it is reported
// as an internal error rather than letting the host process crash on
// a Go stack overflow.
const MaxCallDepth = 2000

func New(sourceFile string, cur *token.Cursor) *Interp {
	return &Interp{
		SourceFile: sourceFile,
		Cursor:     cur,
		Scope:      scope.NewStack(),
		Result:     value.Undef,
	}
}

// effective downgrades Exec to Skim whenever a control-flow flag is
// pending, per spec §4.5: "real execution requires exec && !break &&
// !continue && !return".
func (i *Interp) effective(m Mode) Mode {
	if m == Exec && (i.Breaking || i.Continuing || i.Returning) {
		return Skim
	}
	return m
}

// Run drives top-level execution until end-of-file (spec §2 "the
// executor is invoked at the top level").
func (i *Interp) Run() *verror.Error {
	for i.Cursor.Peek().Kind != token.EOF {
		if err := i.Statement(Exec); err != nil {
			return err
		}
	}
	return nil
}

// Clean reports whether the post-run invariants of spec §8 hold: only
// the global frame remains, all flags are clear, and the result slot
// is undefined. Intended for tests and for a host embedder resetting
// between runs.
func (i *Interp) Clean() bool {
	return i.Scope.Depth() == 1 && !i.Breaking && !i.Continuing && !i.Returning && i.Result.Kind == value.Undefined
}

func (i *Interp) errAt(callSite, id string, args [3]string) *verror.Error {
	cur := i.Cursor.Peek()
	var e *verror.Error
	switch id {
	case verror.IDTypeMismatch, verror.IDConditionType, verror.IDNotComparable:
		e = verror.NewType(callSite, id, args)
	case verror.IDUndefinedVariable, verror.IDUndeclaredDelete, verror.IDDuplicateAssign:
		e = verror.NewReference(callSite, id, args)
	case verror.IDBadIndex, verror.IDSpreadNotArray:
		e = verror.NewRange(callSite, id, args)
	case verror.IDNotCallable, verror.IDMemberOfNonObject, verror.IDArgCount, verror.IDNotAssignable:
		e = verror.NewStructural(callSite, id, args)
	default:
		e = verror.NewInternal(callSite, id, args)
	}
	return e.WithToken(i.SourceFile, cur.Line, cur.Kind.String(), i.Cursor.Peek().Text(i.Cursor.Source))
}

func (i *Interp) syntaxErr(callSite, id string, args [3]string) *verror.Error {
	return i.Cursor.SyntaxErrorHere(callSite, id, args)
}
