package eval

import (
	"math"
	"strings"

	"github.com/vlang-run/vlang/internal/token"
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

// Ternary is the root of the expression grammar (spec §4.4 level 1).
func (i *Interp) Ternary(mode Mode) (value.Value, *verror.Error) {
	left, err := i.logical(mode)
	if err != nil {
		return value.Undef, err
	}
	return i.ternaryCont(mode, left)
}

func (i *Interp) ternaryCont(mode Mode, cond value.Value) (value.Value, *verror.Error) {
	if i.Cursor.Peek().Kind != token.Question {
		return cond, nil
	}
	i.Cursor.Advance()

	var condBool bool
	if mode == Exec {
		if cond.Kind != value.Boolean {
			return value.Undef, i.errAt("ternary", verror.IDConditionType, [3]string{"ternary", value.TypeOf(cond), ""})
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

	thenVal, err := i.Ternary(i.effective(thenMode))
	if err != nil {
		return value.Undef, err
	}
	if _, err := i.Cursor.Expect(token.Colon, "ternary"); err != nil {
		return value.Undef, err
	}
	elseVal, err := i.Ternary(i.effective(elseMode))
	if err != nil {
		return value.Undef, err
	}

	if mode == Skim {
		return value.Undef, nil
	}
	if condBool {
		return thenVal, nil
	}
	return elseVal, nil
}

// logical implements &&/|| (spec §4.4 level 2): left-associative, both
// operands must be boolean, and — a deliberate simplification carried
// from the original — both sides are always fully evaluated, so there
// is no short-circuit.
func (i *Interp) logical(mode Mode) (value.Value, *verror.Error) {
	left, err := i.relational(mode)
	if err != nil {
		return value.Undef, err
	}
	return i.logicalCont(mode, left)
}

func (i *Interp) logicalCont(mode Mode, left value.Value) (value.Value, *verror.Error) {
	for {
		k := i.Cursor.Peek().Kind
		if k != token.And && k != token.Or {
			return left, nil
		}
		i.Cursor.Advance()
		right, err := i.relational(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			left = value.Undef
			continue
		}
		if left.Kind != value.Boolean || right.Kind != value.Boolean {
			return value.Undef, i.errAt("logical", verror.IDTypeMismatch, [3]string{k.String(), value.TypeOf(left), value.TypeOf(right)})
		}
		if k == token.And {
			left = value.Bool_(value.AsBool(left) && value.AsBool(right))
		} else {
			left = value.Bool_(value.AsBool(left) || value.AsBool(right))
		}
	}
}

// relational implements ==, !=, <, <=, >, >= (spec §4.4 level 3).
func (i *Interp) relational(mode Mode) (value.Value, *verror.Error) {
	left, err := i.additive(mode)
	if err != nil {
		return value.Undef, err
	}
	return i.relationalCont(mode, left)
}

func (i *Interp) relationalCont(mode Mode, left value.Value) (value.Value, *verror.Error) {
	for {
		k := i.Cursor.Peek().Kind
		if !isRelationalOp(k) {
			return left, nil
		}
		i.Cursor.Advance()
		right, err := i.additive(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			left = value.Undef
			continue
		}
		switch k {
		case token.Eq:
			left = value.Bool_(value.Equal(left, right))
			continue
		case token.Ne:
			left = value.Bool_(!value.Equal(left, right))
			continue
		}
		switch {
		case left.Kind == value.Number && right.Kind == value.Number:
			left = value.Bool_(compareNum(k, left.Num, right.Num))
		case left.Kind == value.String && right.Kind == value.String:
			left = value.Bool_(compareStr(k, value.AsString(left), value.AsString(right)))
		default:
			return value.Undef, i.errAt("relational", verror.IDNotComparable, [3]string{value.TypeOf(left), value.TypeOf(right), ""})
		}
	}
}

func isRelationalOp(k token.Kind) bool {
	switch k {
	case token.Eq, token.Ne, token.Lt, token.Le, token.Gt, token.Ge:
		return true
	default:
		return false
	}
}

func compareNum(k token.Kind, a, b float64) bool {
	switch k {
	case token.Lt:
		return a < b
	case token.Le:
		return a <= b
	case token.Gt:
		return a > b
	case token.Ge:
		return a >= b
	default:
		return false
	}
}

func compareStr(k token.Kind, a, b string) bool {
	c := strings.Compare(a, b)
	switch k {
	case token.Lt:
		return c < 0
	case token.Le:
		return c <= 0
	case token.Gt:
		return c > 0
	case token.Ge:
		return c >= 0
	default:
		return false
	}
}

// additive implements + and - (spec §4.4 level 4).
func (i *Interp) additive(mode Mode) (value.Value, *verror.Error) {
	left, err := i.multiplicative(mode)
	if err != nil {
		return value.Undef, err
	}
	return i.additiveCont(mode, left)
}

func (i *Interp) additiveCont(mode Mode, left value.Value) (value.Value, *verror.Error) {
	for {
		k := i.Cursor.Peek().Kind
		if k != token.Plus && k != token.Minus {
			return left, nil
		}
		i.Cursor.Advance()
		right, err := i.multiplicative(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			left = value.Undef
			continue
		}
		if k == token.Plus {
			switch {
			case left.Kind == value.Number && right.Kind == value.Number:
				left = value.Num(left.Num + right.Num)
			case left.Kind == value.String && right.Kind == value.String:
				left = value.Str(value.AsString(left) + value.AsString(right))
			default:
				return value.Undef, i.errAt("additive", verror.IDTypeMismatch, [3]string{"+", value.TypeOf(left), value.TypeOf(right)})
			}
			continue
		}
		if left.Kind != value.Number || right.Kind != value.Number {
			return value.Undef, i.errAt("additive", verror.IDTypeMismatch, [3]string{"-", value.TypeOf(left), value.TypeOf(right)})
		}
		left = value.Num(left.Num - right.Num)
	}
}

// multiplicative implements *, /, % (spec §4.4 level 5), numbers only.
func (i *Interp) multiplicative(mode Mode) (value.Value, *verror.Error) {
	left, err := i.prefix(mode)
	if err != nil {
		return value.Undef, err
	}
	return i.multiplicativeCont(mode, left)
}

func (i *Interp) multiplicativeCont(mode Mode, left value.Value) (value.Value, *verror.Error) {
	for {
		k := i.Cursor.Peek().Kind
		if k != token.Star && k != token.Slash && k != token.Percent {
			return left, nil
		}
		i.Cursor.Advance()
		right, err := i.prefix(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			left = value.Undef
			continue
		}
		if left.Kind != value.Number || right.Kind != value.Number {
			return value.Undef, i.errAt("multiplicative", verror.IDTypeMismatch, [3]string{k.String(), value.TypeOf(left), value.TypeOf(right)})
		}
		switch k {
		case token.Star:
			left = value.Num(left.Num * right.Num)
		case token.Slash:
			left = value.Num(left.Num / right.Num)
		case token.Percent:
			left = value.Num(math.Mod(left.Num, right.Num))
		}
	}
}

// prefix implements typeof, !, unary +/- (spec §4.4 level 6). typeof's
// operand is parsed through the full postfix chain first — per spec
// §9's documented behavior, typeof is applied only after access/call
// resolution, so typeof of an undeclared identifier still fails as a
// reference error rather than yielding "undefined".
func (i *Interp) prefix(mode Mode) (value.Value, *verror.Error) {
	switch i.Cursor.Peek().Kind {
	case token.KwTypeof:
		i.Cursor.Advance()
		acc, err := i.postfix(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			return value.Undef, nil
		}
		v, err := acc.Get(i, "typeof")
		if err != nil {
			return value.Undef, err
		}
		return value.Str(value.TypeOf(v)), nil
	case token.Not:
		i.Cursor.Advance()
		v, err := i.prefix(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			return value.Undef, nil
		}
		if v.Kind != value.Boolean {
			return value.Undef, i.errAt("prefix-not", verror.IDTypeMismatch, [3]string{"!", value.TypeOf(v), ""})
		}
		return value.Bool_(!value.AsBool(v)), nil
	case token.Plus:
		i.Cursor.Advance()
		v, err := i.prefix(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			return value.Undef, nil
		}
		if v.Kind != value.Number {
			return value.Undef, i.errAt("prefix-plus", verror.IDTypeMismatch, [3]string{"+", value.TypeOf(v), ""})
		}
		return v, nil
	case token.Minus:
		i.Cursor.Advance()
		v, err := i.prefix(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			return value.Undef, nil
		}
		if v.Kind != value.Number {
			return value.Undef, i.errAt("prefix-minus", verror.IDTypeMismatch, [3]string{"-", value.TypeOf(v), ""})
		}
		return value.Num(-v.Num), nil
	default:
		acc, err := i.postfix(mode)
		if err != nil {
			return value.Undef, err
		}
		if mode == Skim {
			return value.Undef, nil
		}
		return acc.Get(i, "prefix")
	}
}

// postfix implements the accessor chain of spec §4.3: a primary
// followed by any run of [expr], .ident, ?.ident, and (args).
func (i *Interp) postfix(mode Mode) (Accessor, *verror.Error) {
	acc, err := i.primary(mode)
	if err != nil {
		return Accessor{}, err
	}
	for {
		switch i.Cursor.Peek().Kind {
		case token.LBracket:
			i.Cursor.Advance()
			idxVal, err := i.Ternary(mode)
			if err != nil {
				return Accessor{}, err
			}
			if _, err := i.Cursor.Expect(token.RBracket, "postfix-index"); err != nil {
				return Accessor{}, err
			}
			if mode == Skim {
				acc = accValue(value.Undef)
				continue
			}
			holder, err := acc.Get(i, "postfix-index")
			if err != nil {
				return Accessor{}, err
			}
			switch holder.Kind {
			case value.Array:
				if idxVal.Kind != value.Number || idxVal.Num != math.Trunc(idxVal.Num) || idxVal.Num < 0 {
					return Accessor{}, i.errAt("postfix-index", verror.IDBadIndex, [3]string{value.Inspect(idxVal), "", ""})
				}
				acc = Accessor{Kind: ByArrayIndex, Holder: holder, Index: int(idxVal.Num)}
			case value.Object:
				if idxVal.Kind != value.String {
					return Accessor{}, i.errAt("postfix-index", verror.IDMemberOfNonObject, [3]string{value.Inspect(idxVal), "object", ""})
				}
				acc = Accessor{Kind: ByObjectKey, Holder: holder, Name: value.AsString(idxVal)}
			default:
				return Accessor{}, i.errAt("postfix-index", verror.IDMemberOfNonObject, [3]string{value.Inspect(idxVal), value.TypeOf(holder), ""})
			}
		case token.Dot:
			i.Cursor.Advance()
			nameTok, err := i.Cursor.Expect(token.Ident, "postfix-dot")
			if err != nil {
				return Accessor{}, err
			}
			if mode == Skim {
				acc = accValue(value.Undef)
				continue
			}
			holder, err := acc.Get(i, "postfix-dot")
			if err != nil {
				return Accessor{}, err
			}
			if holder.Kind != value.Object {
				return Accessor{}, i.errAt("postfix-dot", verror.IDMemberOfNonObject, [3]string{nameTok.Str, value.TypeOf(holder), ""})
			}
			acc = Accessor{Kind: ByObjectKey, Holder: holder, Name: nameTok.Str}
		case token.QuestionDot:
			i.Cursor.Advance()
			nameTok, err := i.Cursor.Expect(token.Ident, "postfix-optdot")
			if err != nil {
				return Accessor{}, err
			}
			if mode == Skim {
				acc = accValue(value.Undef)
				continue
			}
			holder, err := acc.Get(i, "postfix-optdot")
			if err != nil {
				return Accessor{}, err
			}
			switch holder.Kind {
			case value.Null, value.Undefined:
				acc = Accessor{Kind: ByOptionalKey, HolderNull: true, Name: nameTok.Str}
			case value.Object:
				acc = Accessor{Kind: ByOptionalKey, Holder: holder, Name: nameTok.Str}
			default:
				return Accessor{}, i.errAt("postfix-optdot", verror.IDMemberOfNonObject, [3]string{nameTok.Str, value.TypeOf(holder), ""})
			}
		case token.LParen:
			var err *verror.Error
			acc, err = i.call(mode, acc)
			if err != nil {
				return Accessor{}, err
			}
		default:
			return acc, nil
		}
	}
}

// primary implements spec §4.4 level 8: literals, array/object/
// function literals, parenthesized expressions, and identifiers.
func (i *Interp) primary(mode Mode) (Accessor, *verror.Error) {
	tok := i.Cursor.Peek()
	switch tok.Kind {
	case token.Null:
		i.Cursor.Advance()
		return accValue(value.Nul), nil
	case token.True:
		i.Cursor.Advance()
		return accValue(value.True), nil
	case token.False:
		i.Cursor.Advance()
		return accValue(value.False), nil
	case token.Number:
		i.Cursor.Advance()
		return accValue(value.Num(tok.Number)), nil
	case token.String:
		i.Cursor.Advance()
		return accValue(value.Str(tok.Str)), nil
	case token.Ident:
		i.Cursor.Advance()
		return Accessor{Kind: ByIdentifier, Name: tok.Str}, nil
	case token.LParen:
		i.Cursor.Advance()
		v, err := i.Ternary(mode)
		if err != nil {
			return Accessor{}, err
		}
		if _, err := i.Cursor.Expect(token.RParen, "primary-paren"); err != nil {
			return Accessor{}, err
		}
		return accValue(v), nil
	case token.LBracket:
		return i.arrayLiteral(mode)
	case token.LBrace:
		return i.objectLiteral(mode)
	case token.KwFunction:
		return i.functionLiteral(mode)
	default:
		return Accessor{}, i.syntaxErr("primary", verror.IDInvalidSyntax, [3]string{"unexpected token " + tok.Kind.String(), "", ""})
	}
}

// arrayLiteral implements spec §4.4's array literal: no trailing
// comma, elements may be `...expr` spreads requiring an array operand.
func (i *Interp) arrayLiteral(mode Mode) (Accessor, *verror.Error) {
	if _, err := i.Cursor.Expect(token.LBracket, "arrayLiteral"); err != nil {
		return Accessor{}, err
	}
	var elems []value.Value
	first := true
	for i.Cursor.Peek().Kind != token.RBracket {
		if !first {
			if _, err := i.Cursor.Expect(token.Comma, "arrayLiteral"); err != nil {
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
					return Accessor{}, i.errAt("arrayLiteral", verror.IDSpreadNotArray, [3]string{value.TypeOf(v), "", ""})
				}
				elems = append(elems, v.Arr.Elems...)
			}
			continue
		}
		v, err := i.Ternary(mode)
		if err != nil {
			return Accessor{}, err
		}
		if mode == Exec {
			elems = append(elems, v)
		}
	}
	if _, err := i.Cursor.Expect(token.RBracket, "arrayLiteral"); err != nil {
		return Accessor{}, err
	}
	if mode == Skim {
		return accValue(value.Undef), nil
	}
	return accValue(value.Arr(elems)), nil
}

// objectLiteral implements spec §4.4's object literal: keys are
// identifiers or string literals, duplicates overwrite, no trailing
// comma.
func (i *Interp) objectLiteral(mode Mode) (Accessor, *verror.Error) {
	if _, err := i.Cursor.Expect(token.LBrace, "objectLiteral"); err != nil {
		return Accessor{}, err
	}
	obj := value.NewObject()
	first := true
	for i.Cursor.Peek().Kind != token.RBrace {
		if !first {
			if _, err := i.Cursor.Expect(token.Comma, "objectLiteral"); err != nil {
				return Accessor{}, err
			}
		}
		first = false
		var key string
		switch i.Cursor.Peek().Kind {
		case token.Ident:
			key = i.Cursor.Advance().Str
		case token.String:
			key = i.Cursor.Advance().Str
		default:
			return Accessor{}, i.syntaxErr("objectLiteral", verror.IDInvalidSyntax, [3]string{"expected object key", "", ""})
		}
		if _, err := i.Cursor.Expect(token.Colon, "objectLiteral"); err != nil {
			return Accessor{}, err
		}
		v, err := i.Ternary(mode)
		if err != nil {
			return Accessor{}, err
		}
		if mode == Exec {
			obj.Set(key, v)
		}
	}
	if _, err := i.Cursor.Expect(token.RBrace, "objectLiteral"); err != nil {
		return Accessor{}, err
	}
	if mode == Skim {
		return accValue(value.Undef), nil
	}
	return accValue(value.Obj(obj)), nil
}

// functionLiteral implements spec §4.4/§4.6's function literal: an
// optional name, a parameter list with optional defaults and a
// trailing rest parameter, and a body that is skimmed at definition
// time regardless of mode (the body only runs when the function is
// later called).
func (i *Interp) functionLiteral(mode Mode) (Accessor, *verror.Error) {
	if _, err := i.Cursor.Expect(token.KwFunction, "functionLiteral"); err != nil {
		return Accessor{}, err
	}
	name := ""
	if i.Cursor.Peek().Kind == token.Ident {
		name = i.Cursor.Advance().Str
	}
	if _, err := i.Cursor.Expect(token.LParen, "functionLiteral"); err != nil {
		return Accessor{}, err
	}
	params, rest, err := i.parseParamList()
	if err != nil {
		return Accessor{}, err
	}
	if _, err := i.Cursor.Expect(token.RParen, "functionLiteral"); err != nil {
		return Accessor{}, err
	}
	if _, err := i.Cursor.Expect(token.LBrace, "functionLiteral"); err != nil {
		return Accessor{}, err
	}
	bodyPos := i.Cursor.Pos()
	if err := i.skimBlockBody(); err != nil {
		return Accessor{}, err
	}
	if mode == Skim {
		return accValue(value.Undef), nil
	}
	closure := i.Scope.InnermostBindings()
	fh := &value.FunctionHandle{Name: name, Params: params, Rest: rest, BodyPos: bodyPos, Closure: closure}
	return accValue(value.Fn(fh)), nil
}

func (i *Interp) parseParamList() ([]value.Param, string, *verror.Error) {
	var params []value.Param
	rest := ""
	first := true
	for i.Cursor.Peek().Kind != token.RParen {
		if !first {
			if _, err := i.Cursor.Expect(token.Comma, "parseParamList"); err != nil {
				return nil, "", err
			}
		}
		first = false
		if i.Cursor.Peek().Kind == token.Ellipsis {
			i.Cursor.Advance()
			nameTok, err := i.Cursor.Expect(token.Ident, "parseParamList")
			if err != nil {
				return nil, "", err
			}
			rest = nameTok.Str
			break
		}
		nameTok, err := i.Cursor.Expect(token.Ident, "parseParamList")
		if err != nil {
			return nil, "", err
		}
		p := value.Param{Name: nameTok.Str}
		if i.Cursor.Peek().Kind == token.Assign {
			i.Cursor.Advance()
			p.HasDefault = true
			p.DefaultPos = i.Cursor.Pos()
			if _, err := i.Ternary(Skim); err != nil {
				return nil, "", err
			}
		}
		params = append(params, p)
	}
	return params, rest, nil
}

// skimBlockBody consumes a statement sequence up to and including the
// closing brace without side effects (spec §4.5's skim mode).
func (i *Interp) skimBlockBody() *verror.Error {
	for i.Cursor.Peek().Kind != token.RBrace && i.Cursor.Peek().Kind != token.EOF {
		if err := i.Statement(Skim); err != nil {
			return err
		}
	}
	_, err := i.Cursor.Expect(token.RBrace, "skimBlockBody")
	return err
}
