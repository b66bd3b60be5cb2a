package eval

import (
	"github.com/vlang-run/vlang/internal/token"
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

// call implements the postfix call-site mechanism of spec §4.6: it
// consumes "(args)", evaluates each argument (honoring spread), and —
// in Exec mode — dispatches to a host or script callee.
func (i *Interp) call(mode Mode, calleeAcc Accessor) (Accessor, *verror.Error) {
	if _, err := i.Cursor.Expect(token.LParen, "call"); err != nil {
		return Accessor{}, err
	}

	var args []value.Value
	first := true
	for i.Cursor.Peek().Kind != token.RParen {
		if !first {
			if _, err := i.Cursor.Expect(token.Comma, "call"); err != nil {
				return Accessor{}, err
			}
		}
		first = false
		if i.Cursor.Peek().Kind == token.Ellipsis {
			i.Cursor.Advance()
			v, err := i.Ternary(mode)
			if err != nil {
				return Accessor{}, err
			}
			if mode == Exec {
				if v.Kind != value.Array {
					return Accessor{}, i.errAt("call", verror.IDSpreadNotArray, [3]string{value.TypeOf(v), "", ""})
				}
				args = append(args, v.Arr.Elems...)
			}
			continue
		}
		v, err := i.Ternary(mode)
		if err != nil {
			return Accessor{}, err
		}
		if mode == Exec {
			args = append(args, v)
		}
	}
	if _, err := i.Cursor.Expect(token.RParen, "call"); err != nil {
		return Accessor{}, err
	}

	if mode == Skim {
		return accValue(value.Undef), nil
	}

	callee, err := calleeAcc.Get(i, "call")
	if err != nil {
		return Accessor{}, err
	}

	result, err := i.invoke(callee, args)
	if err != nil {
		return Accessor{}, err
	}
	return accValue(result), nil
}

// invoke dispatches a resolved callee value to either a host callable
// or a script function (spec §4.6 steps 4-8).
func (i *Interp) invoke(callee value.Value, args []value.Value) (value.Value, *verror.Error) {
	switch callee.Kind {
	case value.HostFunction:
		res, goErr := callee.Fn.Native(args)
		if goErr != nil {
			if ve, ok := goErr.(*verror.Error); ok {
				return value.Undef, ve
			}
			return value.Undef, i.errAt("invoke-host", verror.IDInternal, [3]string{goErr.Error(), "", ""})
		}
		return res, nil
	case value.Function:
		return i.invokeScript(callee.Fn, args)
	default:
		return value.Undef, i.errAt("invoke", verror.IDNotCallable, [3]string{value.TypeOf(callee), "", ""})
	}
}

// invokeScript implements spec §4.6 steps 2, 5-8: push a frame seeded
// with the closure, bind parameters positionally, jump the shared
// cursor to the function's entry token, execute the body, restore the
// cursor, write the frame's current values of the closure's names back
// into the closure, and capture a returned function's closure from the
// just-completed frame before popping it.
func (i *Interp) invokeScript(fh *value.FunctionHandle, args []value.Value) (value.Value, *verror.Error) {
	i.CallDepth++
	if i.CallDepth > MaxCallDepth {
		i.CallDepth--
		return value.Undef, i.errAt("invokeScript", verror.IDInternal, [3]string{"call stack exceeded", "", ""})
	}
	defer func() { i.CallDepth-- }()

	callSitePos := i.Cursor.Pos()

	seed := make(map[string]value.Value, len(fh.Closure))
	for k, v := range fh.Closure {
		seed[k] = v
	}
	i.Scope.Push(seed)

	if err := i.bindParams(fh, args, callSitePos); err != nil {
		i.Scope.Pop()
		i.Cursor.Seek(callSitePos)
		return value.Undef, err
	}

	i.Cursor.Seek(fh.BodyPos)
	savedResult := i.Result
	i.Result = value.Nul // spec §4.6 step 6: null if the function never executes a return

	for i.Cursor.Peek().Kind != token.RBrace {
		if err := i.Statement(Exec); err != nil {
			i.Scope.Pop()
			i.Result = savedResult
			i.Cursor.Seek(callSitePos)
			return value.Undef, err
		}
	}
	i.Cursor.Advance() // consume '}'

	result := i.Result
	i.Returning = false
	i.Result = savedResult

	frame := i.Scope.InnermostBindings()
	for k := range fh.Closure {
		if v, ok := frame[k]; ok {
			fh.Closure[k] = v
		}
	}

	if result.Kind == value.Function {
		for k, v := range i.Scope.InnermostBindings() {
			result.Fn.Closure[k] = v
		}
	}

	i.Scope.Pop()
	i.Cursor.Seek(callSitePos)

	return result, nil
}

// bindParams declares each formal positionally: an actual argument if
// present, else a lazily-evaluated default, else null; a trailing
// "...rest" parameter binds an array of remaining actuals (spec §4.6
// step 5).
func (i *Interp) bindParams(fh *value.FunctionHandle, args []value.Value, callSitePos int) *verror.Error {
	for idx, p := range fh.Params {
		if idx < len(args) {
			i.Scope.Declare(p.Name, args[idx])
			continue
		}
		if p.HasDefault {
			i.Cursor.Seek(p.DefaultPos)
			v, err := i.Ternary(Exec)
			if err != nil {
				return err
			}
			i.Cursor.Seek(callSitePos)
			i.Scope.Declare(p.Name, v)
			continue
		}
		i.Scope.Declare(p.Name, value.Nul)
	}
	if fh.Rest != "" {
		var rest []value.Value
		if len(args) > len(fh.Params) {
			rest = append(rest, args[len(fh.Params):]...)
		}
		i.Scope.Declare(fh.Rest, value.Arr(rest))
	}
	return nil
}
