package token

import "github.com/vlang-run/vlang/internal/verror"

// Cursor provides positional read/advance over a pre-scanned token
// array (spec §4.1). Past the end of the array, Peek yields the
// synthetic end-of-file token.
//
// The index is a plain int, so callers can save it (for loop bodies
// and function calls) and later restore it via Seek — the rewinding
// discipline spec §4.5 uses instead of continuation passing.
type Cursor struct {
	Source string
	Tokens []Token
	pos    int
}

func NewCursor(source string, tokens []Token) *Cursor {
	return &Cursor{Source: source, Tokens: tokens}
}

// Pos returns the current index, suitable for Seek.
func (c *Cursor) Pos() int { return c.pos }

// Seek rewinds or fast-forwards the cursor to a previously saved index.
func (c *Cursor) Seek(pos int) { c.pos = pos }

var eofToken = Token{Kind: EOF}

// Peek returns the token at the current position without advancing.
func (c *Cursor) Peek() Token {
	if c.pos >= len(c.Tokens) {
		t := eofToken
		if len(c.Tokens) > 0 {
			t.Line = c.Tokens[len(c.Tokens)-1].Line
		}
		return t
	}
	return c.Tokens[c.pos]
}

// PeekAt looks ahead (or behind) by offset tokens from the current
// position without advancing, clamped to end-of-file.
func (c *Cursor) PeekAt(offset int) Token {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.Tokens) {
		return eofToken
	}
	return c.Tokens[idx]
}

// Advance returns the current token and moves the cursor forward one
// position (never past len(Tokens); repeated calls at end-of-file keep
// yielding the synthetic EOF token).
func (c *Cursor) Advance() Token {
	t := c.Peek()
	if c.pos < len(c.Tokens) {
		c.pos++
	}
	return t
}

// Accept advances and returns true iff the current token matches kind.
func (c *Cursor) Accept(kind Kind) bool {
	if c.Peek().Kind == kind {
		c.Advance()
		return true
	}
	return false
}

// Expect accepts the current token iff it matches kind, else raises a
// syntax error. callSite names the interpreter function raising it
// (spec §4.1, §6 call-site diagnostic).
func (c *Cursor) Expect(kind Kind, callSite string) (Token, *verror.Error) {
	cur := c.Peek()
	if cur.Kind != kind {
		err := verror.NewSyntax(callSite, verror.IDExpectedToken, [3]string{kind.String(), cur.Kind.String(), c.near()})
		return cur, err.WithToken("", cur.Line, cur.Kind.String(), c.near())
	}
	return c.Advance(), nil
}

// near renders a small window of source text around the current token
// for diagnostics (spec §6 message rendering).
func (c *Cursor) near() string {
	cur := c.Peek()
	start := cur.Start - 12
	if start < 0 {
		start = 0
	}
	end := cur.End + 12
	if end > len(c.Source) {
		end = len(c.Source)
	}
	if start >= len(c.Source) || start > end {
		return ""
	}
	return c.Source[start:end]
}

// SyntaxErrorHere builds a syntax error at the current cursor position
// with diagnostic context already attached.
func (c *Cursor) SyntaxErrorHere(callSite, id string, args [3]string) *verror.Error {
	cur := c.Peek()
	return verror.NewSyntax(callSite, id, args).WithToken("", cur.Line, cur.Kind.String(), c.near())
}
