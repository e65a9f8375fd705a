package interp

import (
	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/lexer"
	"github.com/exin-lang/exin/internal/value"
)

// expr is the comma-expr production: a sequence of assignment-expressions
// separated by ',', evaluated left to right, yielding the last one (the C
// comma operator). Used for if/while conditions, return values, and
// parenthesized sub-expressions.
func (it *Interp) expr() (value.Value, error) {
	v, err := it.assignExpr()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := it.accept(lexer.Comma)
		if err != nil {
			value.Decref(v)
			return nil, err
		}
		if !ok {
			return v, nil
		}
		value.Decref(v)
		v, err = it.assignExpr()
		if err != nil {
			return nil, err
		}
	}
}

// assignExpr handles '=' '+=' '-=' '*=' '/=' '%=', right-associatively. The
// grammar's assign production only ever has an identifier (optionally
// subscripted) on its left, so the left-hand side is parsed speculatively:
// save a Position, try to read it as an lvalue, and if no assignment
// operator follows, jump back and parse it as an ordinary expression. This
// reuses the same save/jump mechanism that drives loops and calls to give
// the parser unlimited lookahead without an AST.
func (it *Interp) assignExpr() (value.Value, error) {
	t, err := it.peek()
	if err != nil {
		return nil, err
	}
	if t.Type == lexer.Ident {
		saved := lexer.Save(it.Reader, it.Scan)
		target, ok, err := it.tryLValue()
		if err != nil {
			return nil, err
		}
		if ok {
			opTok, err := it.peek()
			if err != nil {
				return nil, err
			}
			if isAssignOp(opTok.Type) {
				it.next()
				rhs, err := it.assignExpr()
				if err != nil {
					return nil, err
				}
				return it.applyAssign(target, opTok.Type, rhs)
			}
		}
		saved.Jump(it.Reader, it.Scan)
	}
	return it.orExpr()
}

func isAssignOp(t lexer.TokenType) bool {
	switch t {
	case lexer.Equal, lexer.PlusEqual, lexer.MinusEqual, lexer.StarEqual, lexer.SlashEqual, lexer.PercentEqual:
		return true
	}
	return false
}

// lvalue names an assignment target: either a plain identifier, or a
// ListNode reached by walking one or more subscripts from it.
type lvalue struct {
	name string
	node *value.ListNode
}

func (t lvalue) get(it *Interp) (value.Value, error) {
	if t.node != nil {
		return t.node.Obj, nil
	}
	v, ok := it.Scopes.Lookup(t.name)
	if !ok {
		return nil, it.raise(errors.NameError, "undefined identifier %q", t.name)
	}
	return v, nil
}

func (t lvalue) set(it *Interp, v value.Value) error {
	if t.node != nil {
		t.node.Set(v)
		return nil
	}
	if !it.Scopes.Assign(t.name, v) {
		return it.raise(errors.NameError, "undefined identifier %q", t.name)
	}
	return nil
}

// tryLValue attempts to parse an identifier followed by zero or more plain
// '[' index ']' subscripts. A slice trailer or a '.' method trailer is not
// assignable, so those cases report ok=false so the caller rewinds and
// reparses the same tokens as an ordinary expression.
func (it *Interp) tryLValue() (lvalue, bool, error) {
	idTok, err := it.next()
	if err != nil {
		return lvalue{}, false, err
	}
	if idTok.Type != lexer.Ident {
		return lvalue{}, false, nil
	}
	cur, ok := it.Scopes.Lookup(idTok.Text)
	if !ok {
		return lvalue{}, false, nil
	}
	lv := lvalue{name: idTok.Text}
	for {
		t, err := it.peek()
		if err != nil {
			return lvalue{}, false, err
		}
		if t.Type != lexer.LSqb {
			break
		}
		it.next()
		idxVal, err := it.assignExpr()
		if err != nil {
			return lvalue{}, false, err
		}
		isSlice, err := it.accept(lexer.Colon)
		if err != nil {
			value.Decref(idxVal)
			return lvalue{}, false, err
		}
		if isSlice {
			value.Decref(idxVal)
			peekEnd, err := it.peek()
			if err != nil {
				return lvalue{}, false, err
			}
			if peekEnd.Type != lexer.RSqb {
				end, err := it.assignExpr()
				if err != nil {
					return lvalue{}, false, err
				}
				value.Decref(end)
			}
			if _, err := it.expect(lexer.RSqb); err != nil {
				return lvalue{}, false, err
			}
			return lvalue{}, false, nil
		}
		if _, err := it.expect(lexer.RSqb); err != nil {
			value.Decref(idxVal)
			return lvalue{}, false, err
		}
		idx := value.AsInt(idxVal)
		value.Decref(idxVal)
		item, err := value.Item(cur, idx)
		if err != nil {
			return lvalue{}, false, it.locate(err)
		}
		node, ok := item.(*value.ListNode)
		if !ok {
			return lvalue{}, false, it.raise(errors.TypeError, "cannot assign through a %s subscript", cur.Kind())
		}
		lv = lvalue{node: node}
		cur = node.Obj
	}
	if dotTok, err := it.peek(); err == nil && dotTok.Type == lexer.Dot {
		return lvalue{}, false, nil
	}
	return lv, true, nil
}

func (it *Interp) applyAssign(target lvalue, op lexer.TokenType, rhs value.Value) (value.Value, error) {
	var result value.Value
	if op == lexer.Equal {
		result = rhs
	} else {
		cur, err := target.get(it)
		if err != nil {
			value.Decref(rhs)
			return nil, err
		}
		var opErr error
		switch op {
		case lexer.PlusEqual:
			result, opErr = value.Add(cur, rhs)
		case lexer.MinusEqual:
			result, opErr = value.Sub(cur, rhs)
		case lexer.StarEqual:
			result, opErr = value.Mult(cur, rhs)
		case lexer.SlashEqual:
			result, opErr = value.Div(cur, rhs)
		case lexer.PercentEqual:
			result, opErr = value.Mod(cur, rhs)
		}
		value.Decref(rhs)
		if opErr != nil {
			return nil, it.locate(opErr)
		}
	}
	if err := target.set(it, result); err != nil {
		value.Decref(result)
		return nil, err
	}
	return result, nil
}

func (it *Interp) orExpr() (value.Value, error) {
	left, err := it.andExpr()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := it.accept(lexer.Or)
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := it.andExpr()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		res, err := value.Or(left, right)
		value.Decref(left)
		value.Decref(right)
		if err != nil {
			return nil, it.locate(err)
		}
		left = res
	}
}

func (it *Interp) andExpr() (value.Value, error) {
	left, err := it.eqExpr()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := it.accept(lexer.And)
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := it.eqExpr()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		res, err := value.And(left, right)
		value.Decref(left)
		value.Decref(right)
		if err != nil {
			return nil, it.locate(err)
		}
		left = res
	}
}

func (it *Interp) eqExpr() (value.Value, error) {
	left, err := it.relExpr()
	if err != nil {
		return nil, err
	}
	for {
		t, err := it.peek()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		var op func(a, b value.Value) (value.Value, error)
		switch t.Type {
		case lexer.EqEqual:
			op = value.Eql
		case lexer.NotEqual:
			op = value.Neq
		case lexer.In:
			op = value.In
		default:
			return left, nil
		}
		it.next()
		right, err := it.relExpr()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		res, err := op(left, right)
		value.Decref(left)
		value.Decref(right)
		if err != nil {
			return nil, it.locate(err)
		}
		left = res
	}
}

func (it *Interp) relExpr() (value.Value, error) {
	left, err := it.addExpr()
	if err != nil {
		return nil, err
	}
	for {
		t, err := it.peek()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		var op func(a, b value.Value) (value.Value, error)
		switch t.Type {
		case lexer.Less:
			op = value.Lss
		case lexer.LessEqual:
			op = value.Leq
		case lexer.Greater:
			op = value.Gtr
		case lexer.GreaterEqual:
			op = value.Geq
		default:
			return left, nil
		}
		it.next()
		right, err := it.addExpr()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		res, err := op(left, right)
		value.Decref(left)
		value.Decref(right)
		if err != nil {
			return nil, it.locate(err)
		}
		left = res
	}
}

func (it *Interp) addExpr() (value.Value, error) {
	left, err := it.mulExpr()
	if err != nil {
		return nil, err
	}
	for {
		t, err := it.peek()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		var op func(a, b value.Value) (value.Value, error)
		switch t.Type {
		case lexer.Plus:
			op = value.Add
		case lexer.Minus:
			op = value.Sub
		default:
			return left, nil
		}
		it.next()
		right, err := it.mulExpr()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		res, err := op(left, right)
		value.Decref(left)
		value.Decref(right)
		if err != nil {
			return nil, it.locate(err)
		}
		left = res
	}
}

func (it *Interp) mulExpr() (value.Value, error) {
	left, err := it.unaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		t, err := it.peek()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		var op func(a, b value.Value) (value.Value, error)
		switch t.Type {
		case lexer.Star:
			op = value.Mult
		case lexer.Slash:
			op = value.Div
		case lexer.Percent:
			op = value.Mod
		default:
			return left, nil
		}
		it.next()
		right, err := it.unaryExpr()
		if err != nil {
			value.Decref(left)
			return nil, err
		}
		res, err := op(left, right)
		value.Decref(left)
		value.Decref(right)
		if err != nil {
			return nil, it.locate(err)
		}
		left = res
	}
}

func (it *Interp) unaryExpr() (value.Value, error) {
	t, err := it.peek()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case lexer.Plus:
		it.next()
		return it.primary()
	case lexer.Minus:
		it.next()
		v, err := it.primary()
		if err != nil {
			return nil, err
		}
		res, err := value.Negate(v)
		value.Decref(v)
		if err != nil {
			return nil, it.locate(err)
		}
		return res, nil
	case lexer.Not:
		it.next()
		v, err := it.primary()
		if err != nil {
			return nil, err
		}
		res, err := value.Invert(v)
		value.Decref(v)
		if err != nil {
			return nil, it.locate(err)
		}
		return res, nil
	default:
		return it.primary()
	}
}

func (it *Interp) primary() (value.Value, error) {
	t, err := it.next()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case lexer.Int:
		i, perr := value.ParseIntLiteral(t.Text)
		if perr != nil {
			return nil, it.raise(errors.ValueError, "%s", perr)
		}
		return value.NewInt(i), nil
	case lexer.Float:
		f, perr := value.ParseFloatLiteral(t.Text)
		if perr != nil {
			return nil, it.raise(errors.ValueError, "%s", perr)
		}
		return value.NewFloat(f), nil
	case lexer.Str:
		return value.NewStr(t.Text), nil
	case lexer.Char:
		return value.NewChar(t.Text[0]), nil
	case lexer.LSqb:
		return it.listLiteral()
	case lexer.LPar:
		v, err := it.expr()
		if err != nil {
			return nil, err
		}
		if _, err := it.expect(lexer.RPar); err != nil {
			value.Decref(v)
			return nil, err
		}
		return v, nil
	case lexer.Ident:
		return it.identOrCall(t.Text)
	default:
		return nil, it.raise(errors.SyntaxError, "unexpected token %s in expression", t.Type)
	}
}

func (it *Interp) listLiteral() (value.Value, error) {
	list := value.NewList()
	ok, err := it.accept(lexer.RSqb)
	if err != nil {
		return nil, err
	}
	if ok {
		return list, nil
	}
	for {
		v, err := it.assignExpr()
		if err != nil {
			value.Decref(list)
			return nil, err
		}
		list.Append(v)
		value.Decref(v)
		more, err := it.accept(lexer.Comma)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	if _, err := it.expect(lexer.RSqb); err != nil {
		return nil, err
	}
	return list, nil
}

// identOrCall resolves a bare identifier either as a call (if immediately
// followed by '(') or as a variable reference followed by trailers.
func (it *Interp) identOrCall(name string) (value.Value, error) {
	peeked, err := it.peek()
	if err != nil {
		return nil, err
	}
	if peeked.Type == lexer.LPar {
		it.next()
		return it.call(name)
	}
	v, ok := it.Scopes.Lookup(name)
	if !ok {
		return nil, it.raise(errors.NameError, "undefined identifier %q", name)
	}
	return it.applyTrailers(value.Incref(v))
}

func (it *Interp) applyTrailers(v value.Value) (value.Value, error) {
	for {
		t, err := it.peek()
		if err != nil {
			value.Decref(v)
			return nil, err
		}
		switch t.Type {
		case lexer.LSqb:
			it.next()
			nv, err := it.subscriptOrSlice(v)
			value.Decref(v)
			if err != nil {
				return nil, err
			}
			v = nv
		case lexer.Dot:
			it.next()
			nameTok, err := it.expect(lexer.Ident)
			if err != nil {
				value.Decref(v)
				return nil, err
			}
			nv, err := it.method(v, nameTok.Text)
			value.Decref(v)
			if err != nil {
				return nil, err
			}
			v = nv
		default:
			return v, nil
		}
	}
}

// subscriptOrSlice parses the body of a '[' trailer, assuming '[' was
// already consumed. A read through a subscript unwraps a ListNode to its
// contained value (§3's "operations silently unwrap a ListNode at the use
// site"); assignment targets are resolved separately by tryLValue.
func (it *Interp) subscriptOrSlice(v value.Value) (value.Value, error) {
	startVal, err := it.assignExpr()
	if err != nil {
		return nil, err
	}
	isSlice, err := it.accept(lexer.Colon)
	if err != nil {
		value.Decref(startVal)
		return nil, err
	}
	if isSlice {
		var endVal value.Value
		t, err := it.peek()
		if err != nil {
			value.Decref(startVal)
			return nil, err
		}
		if t.Type != lexer.RSqb {
			endVal, err = it.assignExpr()
			if err != nil {
				value.Decref(startVal)
				return nil, err
			}
		}
		if _, err := it.expect(lexer.RSqb); err != nil {
			value.Decref(startVal)
			value.Decref(endVal)
			return nil, err
		}
		start := value.AsInt(startVal)
		value.Decref(startVal)
		var end int64
		if endVal != nil {
			end = value.AsInt(endVal)
			value.Decref(endVal)
		} else {
			length, lerr := value.Length(v)
			if lerr != nil {
				return nil, it.locate(lerr)
			}
			end = length
		}
		sliced, err := value.Slice(v, start, end)
		if err != nil {
			return nil, it.locate(err)
		}
		return sliced, nil
	}
	if _, err := it.expect(lexer.RSqb); err != nil {
		value.Decref(startVal)
		return nil, err
	}
	idx := value.AsInt(startVal)
	value.Decref(startVal)
	item, err := value.Item(v, idx)
	if err != nil {
		return nil, it.locate(err)
	}
	if node, ok := item.(*value.ListNode); ok {
		return value.Incref(node.Obj), nil
	}
	return item, nil
}

// method implements the dot-trailer sequence methods supplementing the
// type()/chr() built-in functions: .len, .type, .append(v), .insert(i, v),
// .remove(i).
func (it *Interp) method(v value.Value, name string) (value.Value, error) {
	hasParen, err := it.accept(lexer.LPar)
	if err != nil {
		return nil, err
	}
	var args []value.Value
	if hasParen {
		args, err = it.argList()
		if err != nil {
			for _, a := range args {
				value.Decref(a)
			}
			return nil, err
		}
		defer func() {
			for _, a := range args {
				value.Decref(a)
			}
		}()
	}
	switch name {
	case "len":
		n, err := value.Length(v)
		if err != nil {
			return nil, it.locate(err)
		}
		return value.NewInt(n), nil
	case "type":
		return value.NewStr(v.Kind().String()), nil
	case "append":
		lst, ok := v.(*value.List)
		if !ok || len(args) != 1 {
			return nil, it.raise(errors.TypeError, "append requires a list and one value")
		}
		lst.Append(args[0])
		return value.NewNone(), nil
	case "insert":
		lst, ok := v.(*value.List)
		if !ok || len(args) != 2 {
			return nil, it.raise(errors.TypeError, "insert requires a list, an index and a value")
		}
		lst.Insert(value.AsInt(args[0]), args[1])
		return value.NewNone(), nil
	case "remove":
		lst, ok := v.(*value.List)
		if !ok || len(args) != 1 {
			return nil, it.raise(errors.TypeError, "remove requires a list and an index")
		}
		removed, ok := lst.Remove(value.AsInt(args[0]))
		if !ok {
			return nil, it.raise(errors.IndexError, "")
		}
		return removed, nil
	default:
		return nil, it.raise(errors.NameError, "unknown method %q", name)
	}
}

// argList parses a comma-separated list of assignment-expressions up to and
// including the closing ')'.
func (it *Interp) argList() ([]value.Value, error) {
	var args []value.Value
	ok, err := it.accept(lexer.RPar)
	if err != nil {
		return args, err
	}
	if ok {
		return args, nil
	}
	for {
		v, err := it.assignExpr()
		if err != nil {
			return args, err
		}
		args = append(args, v)
		more, err := it.accept(lexer.Comma)
		if err != nil {
			return args, err
		}
		if !more {
			break
		}
	}
	if _, err := it.expect(lexer.RPar); err != nil {
		return args, err
	}
	return args, nil
}

// call resolves name either as a user-defined function (bound to a Position
// by the pre-scan) or as a native built-in, falling back to NameError when
// neither applies — the generalized "identifier lookup, then built-in
// table" fallback chain described in the domain stack.
func (it *Interp) call(name string) (value.Value, error) {
	args, err := it.argList()
	if err != nil {
		for _, a := range args {
			value.Decref(a)
		}
		return nil, err
	}
	defer func() {
		for _, a := range args {
			value.Decref(a)
		}
	}()
	if bound, ok := it.Scopes.Lookup(name); ok {
		if pos, ok := bound.(*lexer.Position); ok {
			return it.callUserFunction(pos, args)
		}
	}
	if fn, ok := it.Builtins[name]; ok {
		return fn(it, args)
	}
	return nil, it.raise(errors.NameError, "undefined function %q", name)
}
