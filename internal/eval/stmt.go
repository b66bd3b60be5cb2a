package eval

import (
	"math"

	"github.com/vlang-run/vlang/internal/token"
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

// Statement dispatches one statement form (spec §4.5) by the current
// token's kind, resolving mode through the control-flow flags first
// so a pending break/continue/return silently converts the rest of
// the enclosing construct to a skim.
func (i *Interp) Statement(mode Mode) *verror.Error {
	mode = i.effective(mode)
	if mode == Exec {
		i.emitTrace("statement", i.Cursor.Peek().Kind.String())
	}
	switch i.Cursor.Peek().Kind {
	case token.Semicolon:
		i.Cursor.Advance()
		return nil
	case token.LBrace:
		return i.blockStmt(mode)
	case token.KwIf:
		return i.ifStmt(mode)
	case token.KwWhile:
		return i.whileStmt(mode)
	case token.KwDo:
		return i.doWhileStmt(mode)
	case token.KwFor:
		return i.forStmt(mode)
	case token.KwBreak:
		i.Cursor.Advance()
		if _, err := i.Cursor.Expect(token.Semicolon, "break"); err != nil {
			return err
		}
		if mode == Exec {
			i.Breaking = true
		}
		return nil
	case token.KwContinue:
		i.Cursor.Advance()
		if _, err := i.Cursor.Expect(token.Semicolon, "continue"); err != nil {
			return err
		}
		if mode == Exec {
			i.Continuing = true
		}
		return nil
	case token.KwFunction:
		return i.funcDecl(mode)
	case token.KwReturn:
		return i.returnStmt(mode)
	case token.KwDelete:
		return i.deleteStmt(mode)
	case token.KwLet:
		return i.letStmt(mode)
	default:
		return i.exprStmt(mode)
	}
}

// blockStmt implements spec §4.5's block: push frame, parse until '}',
// pop frame.
func (i *Interp) blockStmt(mode Mode) *verror.Error {
	if _, err := i.Cursor.Expect(token.LBrace, "block"); err != nil {
		return err
	}
	if mode == Exec {
		i.Scope.Push(nil)
	}
	for i.Cursor.Peek().Kind != token.RBrace && i.Cursor.Peek().Kind != token.EOF {
		if err := i.Statement(mode); err != nil {
			if mode == Exec {
				i.Scope.Pop()
			}
			return err
		}
	}
	if mode == Exec {
		i.Scope.Pop()
	}
	_, err := i.Cursor.Expect(token.RBrace, "block")
	return err
}

// ifStmt implements spec §4.5's if/else: the non-taken branch is
// skimmed so the cursor still advances past it.
func (i *Interp) ifStmt(mode Mode) *verror.Error {
	i.Cursor.Advance() // 'if'
	if _, err := i.Cursor.Expect(token.LParen, "if"); err != nil {
		return err
	}
	cond, err := i.Ternary(mode)
	if err != nil {
		return err
	}
	if _, err := i.Cursor.Expect(token.RParen, "if"); err != nil {
		return err
	}

	var condBool bool
	if mode == Exec {
		if cond.Kind != value.Boolean {
			return i.errAt("if", verror.IDConditionType, [3]string{"if", value.TypeOf(cond), ""})
		}
		condBool = value.AsBool(cond)
	}

	thenMode, elseMode := mode, mode
	if mode == Exec {
		if condBool {
			elseMode = Skim
		} else {
			thenMode = Skim
		}
	}
	if err := i.Statement(thenMode); err != nil {
		return err
	}
	if i.Cursor.Peek().Kind == token.KwElse {
		i.Cursor.Advance()
		if err := i.Statement(elseMode); err != nil {
			return err
		}
	}
	return nil
}

// whileStmt implements spec §4.5's while loop via cursor save/restore.
func (i *Interp) whileStmt(mode Mode) *verror.Error {
	i.Cursor.Advance() // 'while'
	if _, err := i.Cursor.Expect(token.LParen, "while"); err != nil {
		return err
	}
	condPos := i.Cursor.Pos()

	for {
		i.Cursor.Seek(condPos)
		cond, err := i.Ternary(mode)
		if err != nil {
			return err
		}
		if _, err := i.Cursor.Expect(token.RParen, "while"); err != nil {
			return err
		}

		bodyMode := mode
		terminate := false
		if mode == Exec {
			if cond.Kind != value.Boolean {
				return i.errAt("while", verror.IDConditionType, [3]string{"while", value.TypeOf(cond), ""})
			}
			if !value.AsBool(cond) {
				bodyMode = Skim
				terminate = true
			}
		}
		if err := i.Statement(bodyMode); err != nil {
			return err
		}

		if mode != Exec {
			return nil
		}
		i.Continuing = false
		if terminate || i.Breaking || i.Returning {
			i.Breaking = false
			return nil
		}
	}
}

// doWhileStmt implements spec §4.5's do/while: the body runs at least
// once; on the terminating iteration the trailing condition is still
// parsed (skimmed if break/return already ended the loop).
func (i *Interp) doWhileStmt(mode Mode) *verror.Error {
	i.Cursor.Advance() // 'do'
	bodyPos := i.Cursor.Pos()

	for {
		i.Cursor.Seek(bodyPos)
		if err := i.Statement(mode); err != nil {
			return err
		}
		if mode == Exec {
			i.Continuing = false
		}

		if _, err := i.Cursor.Expect(token.KwWhile, "do-while"); err != nil {
			return err
		}
		if _, err := i.Cursor.Expect(token.LParen, "do-while"); err != nil {
			return err
		}

		condMode := mode
		if mode == Exec && (i.Breaking || i.Returning) {
			condMode = Skim
		}
		cond, err := i.Ternary(condMode)
		if err != nil {
			return err
		}
		if _, err := i.Cursor.Expect(token.RParen, "do-while"); err != nil {
			return err
		}
		if _, err := i.Cursor.Expect(token.Semicolon, "do-while"); err != nil {
			return err
		}

		if mode != Exec {
			return nil
		}
		if i.Returning {
			return nil
		}
		if i.Breaking {
			i.Breaking = false
			return nil
		}
		if cond.Kind != value.Boolean {
			return i.errAt("do-while", verror.IDConditionType, [3]string{"do-while", value.TypeOf(cond), ""})
		}
		if !value.AsBool(cond) {
			return nil
		}
	}
}

// forStmt disambiguates the classic three-clause form from for-in/
// for-of by looking past an optional "let" for an "in"/"of" keyword.
func (i *Interp) forStmt(mode Mode) *verror.Error {
	i.Cursor.Advance() // 'for'
	if _, err := i.Cursor.Expect(token.LParen, "for"); err != nil {
		return err
	}

	savePos := i.Cursor.Pos()
	if i.Cursor.Peek().Kind == token.KwLet {
		i.Cursor.Advance()
	}
	if i.Cursor.Peek().Kind == token.Ident {
		next := i.Cursor.PeekAt(1).Kind
		if next == token.KwIn || next == token.KwOf {
			name := i.Cursor.Advance().Str
			isOf := i.Cursor.Advance().Kind == token.KwOf
			return i.forInOfStmt(mode, name, isOf)
		}
	}
	i.Cursor.Seek(savePos)
	return i.forClassicStmt(mode)
}

// forClassicStmt implements spec §4.5's classic for: init runs once,
// then each iteration restores to the condition, skims the step to
// land on ')', runs the body, then runs the step for real before the
// next condition check.
func (i *Interp) forClassicStmt(mode Mode) *verror.Error {
	if mode == Exec {
		i.Scope.Push(nil)
	}
	pop := func(err *verror.Error) *verror.Error {
		if mode == Exec {
			i.Scope.Pop()
		}
		return err
	}

	if i.Cursor.Peek().Kind != token.Semicolon {
		var err *verror.Error
		if i.Cursor.Peek().Kind == token.KwLet {
			err = i.letStmtNoSemi(mode)
		} else {
			err = i.exprCore(mode)
		}
		if err != nil {
			return pop(err)
		}
	}
	if _, err := i.Cursor.Expect(token.Semicolon, "for-init"); err != nil {
		return pop(err)
	}

	condPos := i.Cursor.Pos()
	for {
		i.Cursor.Seek(condPos)

		var condTrue bool
		hasCond := i.Cursor.Peek().Kind != token.Semicolon
		if hasCond {
			cond, err := i.Ternary(mode)
			if err != nil {
				return pop(err)
			}
			if mode == Exec {
				if cond.Kind != value.Boolean {
					return pop(i.errAt("for-cond", verror.IDConditionType, [3]string{"for", value.TypeOf(cond), ""}))
				}
				condTrue = value.AsBool(cond)
			}
		} else if mode == Exec {
			condTrue = true
		}
		if _, err := i.Cursor.Expect(token.Semicolon, "for-cond"); err != nil {
			return pop(err)
		}

		stepPos := i.Cursor.Pos()
		if i.Cursor.Peek().Kind != token.RParen {
			if err := i.exprCore(Skim); err != nil {
				return pop(err)
			}
		}
		if _, err := i.Cursor.Expect(token.RParen, "for-step"); err != nil {
			return pop(err)
		}
		afterStepPos := i.Cursor.Pos()

		bodyMode := mode
		if mode == Exec && !condTrue {
			bodyMode = Skim
		}
		if err := i.Statement(bodyMode); err != nil {
			return pop(err)
		}

		if mode != Exec {
			return pop(nil)
		}
		if !condTrue {
			return pop(nil)
		}
		i.Continuing = false
		if i.Breaking {
			i.Breaking = false
			return pop(nil)
		}
		if i.Returning {
			return pop(nil)
		}

		i.Cursor.Seek(stepPos)
		if i.Cursor.Peek().Kind != token.RParen {
			if err := i.exprCore(Exec); err != nil {
				return pop(err)
			}
		}
		i.Cursor.Seek(afterStepPos)
	}
}

// forInOfStmt implements spec §4.5's for-in/for-of: iterate array
// indices/values or object keys/values in insertion order, skipping
// any entry whose element/value is null; an empty iterable still
// skims the body once so the cursor advances past it.
func (i *Interp) forInOfStmt(mode Mode, varName string, isOf bool) *verror.Error {
	iterVal, err := i.Ternary(mode)
	if err != nil {
		return err
	}
	if _, err := i.Cursor.Expect(token.RParen, "for-in-of"); err != nil {
		return err
	}

	if mode == Exec && iterVal.Kind != value.Array && iterVal.Kind != value.Object {
		return i.errAt("for-in-of", verror.IDTypeMismatch, [3]string{"for-in/of", value.TypeOf(iterVal), ""})
	}

	bodyPos := i.Cursor.Pos()

	if mode != Exec {
		return i.Statement(mode)
	}

	var loopVals []value.Value
	switch iterVal.Kind {
	case value.Array:
		for idx, elem := range iterVal.Arr.Elems {
			if elem.Kind == value.Null {
				continue
			}
			if isOf {
				loopVals = append(loopVals, elem)
			} else {
				loopVals = append(loopVals, value.Num(float64(idx)))
			}
		}
	case value.Object:
		for _, k := range iterVal.Obj.Keys() {
			v, _ := iterVal.Obj.Get(k)
			if v.Kind == value.Null {
				continue
			}
			if isOf {
				loopVals = append(loopVals, v)
			} else {
				loopVals = append(loopVals, value.Str(k))
			}
		}
	}

	i.Scope.Push(nil)
	defer i.Scope.Pop()

	if len(loopVals) == 0 {
		i.Scope.Declare(varName, value.Undef)
		return i.Statement(Skim)
	}

	for _, v := range loopVals {
		i.Cursor.Seek(bodyPos)
		i.Scope.Declare(varName, v)
		if err := i.Statement(Exec); err != nil {
			return err
		}
		i.Continuing = false
		if i.Breaking {
			i.Breaking = false
			break
		}
		if i.Returning {
			break
		}
	}
	return nil
}

// funcDecl implements spec §4.5's function declaration: parse the
// same grammar as a function literal, then bind the name in the
// enclosing frame.
func (i *Interp) funcDecl(mode Mode) *verror.Error {
	acc, err := i.functionLiteral(mode)
	if err != nil {
		return err
	}
	if mode != Exec {
		return nil
	}
	fn, gerr := acc.Get(i, "funcDecl")
	if gerr != nil {
		return gerr
	}
	if fn.Fn == nil || fn.Fn.Name == "" {
		return i.errAt("funcDecl", verror.IDInvalidSyntax, [3]string{"function declaration requires a name", "", ""})
	}
	i.Scope.Declare(fn.Fn.Name, fn)
	return nil
}

// returnStmt implements spec §4.5/§4.6: evaluate the optional
// expression into the result slot and set the return flag.
func (i *Interp) returnStmt(mode Mode) *verror.Error {
	i.Cursor.Advance() // 'return'
	v := value.Nul
	if i.Cursor.Peek().Kind != token.Semicolon {
		rv, err := i.Ternary(mode)
		if err != nil {
			return err
		}
		v = rv
	}
	if _, err := i.Cursor.Expect(token.Semicolon, "return"); err != nil {
		return err
	}
	if mode == Exec {
		i.Result = v
		i.Returning = true
	}
	return nil
}

// deleteStmt implements spec §4.5's delete: remove the innermost
// binding, failing with a reference error if undeclared.
func (i *Interp) deleteStmt(mode Mode) *verror.Error {
	i.Cursor.Advance() // 'delete'
	nameTok, err := i.Cursor.Expect(token.Ident, "delete")
	if err != nil {
		return err
	}
	if _, err := i.Cursor.Expect(token.Semicolon, "delete"); err != nil {
		return err
	}
	if mode == Exec {
		if !i.Scope.Erase(nameTok.Str) {
			return i.errAt("delete", verror.IDUndeclaredDelete, [3]string{nameTok.Str, "", ""})
		}
	}
	return nil
}

// letStmt implements spec §4.5's let-declaration: comma-separated
// "id [= expr]" bindings in the current frame, defaulting to null.
func (i *Interp) letStmt(mode Mode) *verror.Error {
	if err := i.letStmtNoSemi(mode); err != nil {
		return err
	}
	_, err := i.Cursor.Expect(token.Semicolon, "let")
	return err
}

func (i *Interp) letStmtNoSemi(mode Mode) *verror.Error {
	i.Cursor.Advance() // 'let'
	for {
		nameTok, err := i.Cursor.Expect(token.Ident, "let")
		if err != nil {
			return err
		}
		v := value.Nul
		if i.Cursor.Peek().Kind == token.Assign {
			i.Cursor.Advance()
			rv, err := i.Ternary(mode)
			if err != nil {
				return err
			}
			v = rv
		}
		if mode == Exec {
			i.Scope.Declare(nameTok.Str, v)
		}
		if i.Cursor.Peek().Kind != token.Comma {
			break
		}
		i.Cursor.Advance()
	}
	return nil
}

// exprStmt implements spec §4.5's expression statement.
func (i *Interp) exprStmt(mode Mode) *verror.Error {
	if err := i.exprCore(mode); err != nil {
		return err
	}
	_, err := i.Cursor.Expect(token.Semicolon, "expr-stmt")
	return err
}

// exprCore parses one expression-statement's grammar without
// consuming a trailing terminator, shared between exprStmt (which
// expects ';') and the classic for-loop's init/step clauses (which
// don't). If the leading token cannot start an accessor (a prefix
// operator), it falls through to a plain value expression. Otherwise
// it parses an accessor and checks for assignment/increment/decrement
// before treating the accessor as the leftmost operand of a larger
// expression (spec §4.5).
func (i *Interp) exprCore(mode Mode) *verror.Error {
	switch i.Cursor.Peek().Kind {
	case token.KwTypeof, token.Not, token.Plus, token.Minus:
		_, err := i.Ternary(mode)
		return err
	}

	acc, err := i.postfix(mode)
	if err != nil {
		return err
	}

	switch i.Cursor.Peek().Kind {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign, token.PercentAssign:
		op := i.Cursor.Advance().Kind
		rhs, err := i.Ternary(mode)
		if err != nil {
			return err
		}
		if mode == Skim {
			return nil
		}
		return i.applyCompoundAssign(acc, op, rhs)
	case token.Increment, token.Decrement:
		op := i.Cursor.Advance().Kind
		if mode == Skim {
			return nil
		}
		return i.applyIncDec(acc, op)
	default:
		var left value.Value
		if mode == Exec {
			left, err = acc.Get(i, "exprCore")
			if err != nil {
				return err
			}
		}
		left, err = i.multiplicativeCont(mode, left)
		if err != nil {
			return err
		}
		left, err = i.additiveCont(mode, left)
		if err != nil {
			return err
		}
		left, err = i.relationalCont(mode, left)
		if err != nil {
			return err
		}
		left, err = i.logicalCont(mode, left)
		if err != nil {
			return err
		}
		_, err = i.ternaryCont(mode, left)
		return err
	}
}

func (i *Interp) applyCompoundAssign(acc Accessor, op token.Kind, rhs value.Value) *verror.Error {
	if op == token.Assign {
		return acc.Put(i, rhs, "assign")
	}
	cur, err := acc.Get(i, "compound-assign")
	if err != nil {
		return err
	}
	var result value.Value
	switch op {
	case token.PlusAssign:
		switch {
		case cur.Kind == value.Number && rhs.Kind == value.Number:
			result = value.Num(cur.Num + rhs.Num)
		case cur.Kind == value.String && rhs.Kind == value.String:
			result = value.Str(value.AsString(cur) + value.AsString(rhs))
		default:
			return i.errAt("compound-assign", verror.IDTypeMismatch, [3]string{"+=", value.TypeOf(cur), value.TypeOf(rhs)})
		}
	case token.MinusAssign, token.StarAssign, token.SlashAssign, token.PercentAssign:
		if cur.Kind != value.Number || rhs.Kind != value.Number {
			return i.errAt("compound-assign", verror.IDTypeMismatch, [3]string{op.String(), value.TypeOf(cur), value.TypeOf(rhs)})
		}
		switch op {
		case token.MinusAssign:
			result = value.Num(cur.Num - rhs.Num)
		case token.StarAssign:
			result = value.Num(cur.Num * rhs.Num)
		case token.SlashAssign:
			result = value.Num(cur.Num / rhs.Num)
		case token.PercentAssign:
			result = value.Num(math.Mod(cur.Num, rhs.Num))
		}
	}
	return acc.Put(i, result, "compound-assign")
}

func (i *Interp) applyIncDec(acc Accessor, op token.Kind) *verror.Error {
	cur, err := acc.Get(i, "incdec")
	if err != nil {
		return err
	}
	if cur.Kind != value.Number {
		return i.errAt("incdec", verror.IDTypeMismatch, [3]string{op.String(), value.TypeOf(cur), ""})
	}
	delta := 1.0
	if op == token.Decrement {
		delta = -1.0
	}
	return acc.Put(i, value.Num(cur.Num+delta), "incdec")
}
