package verror

import (
	"fmt"
	"strings"
)

// Error is a structured interpreter error carrying the diagnostic datum
// spec §6 requires: source file, the call site within the interpreter
// that raised it, the current token's line and kind, and a message.
type Error struct {
	Category  Category
	ID        string
	Args      [3]string
	SourceFile string
	CallSite  string // function in the interpreter's own source that raised this
	Line      int    // source line of the current token
	TokenKind string // kind name of the current token
	Near      string // small window of source around the error
}

func (e *Error) Error() string {
	msg := formatMessage(e.ID, e.Args)
	var b strings.Builder
	fmt.Fprintf(&b, "%s error: %s", e.Category, msg)
	if e.SourceFile != "" {
		fmt.Fprintf(&b, " (%s:%d)", e.SourceFile, e.Line)
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.TokenKind != "" {
		fmt.Fprintf(&b, " near %s", e.TokenKind)
	}
	if e.CallSite != "" {
		fmt.Fprintf(&b, " [%s]", e.CallSite)
	}
	if e.Near != "" {
		fmt.Fprintf(&b, "\nnear: %s", e.Near)
	}
	return b.String()
}

func New(cat Category, callSite, id string, args [3]string) *Error {
	return &Error{Category: cat, ID: id, Args: args, CallSite: callSite}
}

func NewSyntax(callSite, id string, args [3]string) *Error {
	return New(CatSyntax, callSite, id, args)
}

func NewType(callSite, id string, args [3]string) *Error {
	return New(CatType, callSite, id, args)
}

func NewReference(callSite, id string, args [3]string) *Error {
	return New(CatReference, callSite, id, args)
}

func NewRange(callSite, id string, args [3]string) *Error {
	return New(CatRange, callSite, id, args)
}

func NewStructural(callSite, id string, args [3]string) *Error {
	return New(CatStructural, callSite, id, args)
}

func NewInternal(callSite, id string, args [3]string) *Error {
	return New(CatInternal, callSite, id, args)
}

// WithToken attaches current-token diagnostic context; returns the
// same error for chaining at the raise site.
func (e *Error) WithToken(sourceFile string, line int, tokenKind, near string) *Error {
	e.SourceFile = sourceFile
	e.Line = line
	e.TokenKind = tokenKind
	e.Near = near
	return e
}

func formatMessage(id string, args [3]string) string {
	tmpl, ok := messageTemplates[id]
	if !ok {
		tmpl = "%1 %2 %3"
	}
	msg := tmpl
	msg = strings.ReplaceAll(msg, "%1", args[0])
	msg = strings.ReplaceAll(msg, "%2", args[1])
	msg = strings.ReplaceAll(msg, "%3", args[2])
	return strings.TrimSpace(msg)
}

var messageTemplates = map[string]string{
	IDUnexpectedEOF:   "unexpected end of input",
	IDExpectedToken:   "expected %1, got %2: %3",
	IDUnclosedLiteral: "unclosed %1",
	IDTrailingComma:   "trailing comma not permitted in %1",
	IDInvalidSyntax:   "invalid syntax: %1",

	IDTypeMismatch:  "operator %1 does not accept %2 and %3",
	IDConditionType: "%1 condition must be boolean, got %2",
	IDNotComparable: "ordering undefined for %1 and %2",

	IDUndefinedVariable: "undefined variable: %1",
	IDUndeclaredDelete:  "cannot delete undeclared variable: %1",
	IDDuplicateAssign:   "no binding for %1 in any frame",

	IDBadIndex:       "array index must be a non-negative integer, got %1",
	IDSpreadNotArray: "spread operand must be an array, got %1",

	IDNotCallable:       "value of kind %1 is not callable",
	IDMemberOfNonObject: "cannot access member %1 of %2",
	IDArgCount:          "%1 expects %2 argument(s), got %3",
	IDNotAssignable:     "value is not assignable",

	IDInternal: "internal error: %1",
}
