package interp

import (
	"fmt"
	"strings"

	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/lexer"
	"github.com/exin-lang/exin/internal/value"
)

// statement parses and executes exactly one statement, returning the
// control Signal it produced (Normal unless it was break/continue/return).
func (it *Interp) statement() (Signal, error) {
	t, err := it.peek()
	if err != nil {
		return signalNormal, err
	}
	switch t.Type {
	case lexer.DefChar, lexer.DefInt, lexer.DefFloat, lexer.DefStr, lexer.DefList:
		return it.varDecl(t.Type)
	case lexer.DefFunc:
		return it.funcDefStatement()
	case lexer.If:
		return it.ifStatement()
	case lexer.While:
		return it.whileStatement()
	case lexer.Do:
		return it.doStatement()
	case lexer.For:
		return it.forStatement()
	case lexer.Print:
		return it.printStatement()
	case lexer.Input:
		return it.inputStatement()
	case lexer.Import:
		return it.importStatement()
	case lexer.Return:
		return it.returnStatement()
	case lexer.Pass:
		it.next()
		_, err := it.expect(lexer.Newline)
		return signalNormal, err
	case lexer.Break:
		it.next()
		if _, err := it.expect(lexer.Newline); err != nil {
			return signalNormal, err
		}
		return Signal{Kind: Break}, nil
	case lexer.Continue:
		it.next()
		if _, err := it.expect(lexer.Newline); err != nil {
			return signalNormal, err
		}
		return Signal{Kind: Continue}, nil
	default:
		v, err := it.expr()
		if err != nil {
			return signalNormal, err
		}
		value.Decref(v)
		_, err = it.expect(lexer.Newline)
		return signalNormal, err
	}
}

// block parses NEWLINE INDENT statement+ DEDENT, executing each statement
// in turn. It stops at the first non-Normal signal, skipping the remainder
// of the block's tokens (still consuming them, just not evaluating) so the
// scanner lands cleanly on the matching DEDENT.
func (it *Interp) block() (Signal, error) {
	if _, err := it.expect(lexer.Newline); err != nil {
		return signalNormal, err
	}
	if _, err := it.expect(lexer.Indent); err != nil {
		return signalNormal, err
	}
	it.Trace.Block("enter")
	result := signalNormal
	for {
		t, err := it.peek()
		if err != nil {
			return signalNormal, err
		}
		if t.Type == lexer.Dedent {
			it.next()
			break
		}
		sig, err := it.statement()
		if err != nil {
			return signalNormal, err
		}
		if sig.Kind != Normal {
			result = sig
			if err := it.skipToDedent(); err != nil {
				return signalNormal, err
			}
			break
		}
	}
	it.Trace.Block("exit")
	return result, nil
}

// skipBlock consumes a whole NEWLINE INDENT ... DEDENT block structurally,
// without executing any of its statements — used for the untaken branch of
// an if, a while whose condition is already false, and a def encountered
// outside of a call (its body only runs when invoked, via Position jump).
func (it *Interp) skipBlock() error {
	if _, err := it.expect(lexer.Newline); err != nil {
		return err
	}
	if _, err := it.expect(lexer.Indent); err != nil {
		return err
	}
	return it.skipToDedent()
}

// skipToDedent discards tokens, tracking nested INDENT/DEDENT depth, until
// the DEDENT matching one already-consumed INDENT is reached.
func (it *Interp) skipToDedent() error {
	depth := 1
	for depth > 0 {
		t, err := it.next()
		if err != nil {
			return err
		}
		switch t.Type {
		case lexer.Indent:
			depth++
		case lexer.Dedent:
			depth--
		case lexer.EndMarker:
			return it.raise(errors.SyntaxError, "unexpected end of file")
		}
	}
	return nil
}

func defaultValue(kindTok lexer.TokenType) value.Value {
	switch kindTok {
	case lexer.DefChar:
		return value.NewChar(0)
	case lexer.DefFloat:
		return value.NewFloat(0)
	case lexer.DefStr:
		return value.NewStr("")
	case lexer.DefList:
		return value.NewList()
	default:
		return value.NewInt(0)
	}
}

func (it *Interp) varDecl(kindTok lexer.TokenType) (Signal, error) {
	it.next()
	for {
		nameTok, err := it.expect(lexer.Ident)
		if err != nil {
			return signalNormal, err
		}
		var val value.Value
		hasInit, err := it.accept(lexer.Equal)
		if err != nil {
			return signalNormal, err
		}
		if hasInit {
			val, err = it.assignExpr()
			if err != nil {
				return signalNormal, err
			}
		} else {
			val = defaultValue(kindTok)
		}
		it.Scopes.Declare(nameTok.Text, val)
		value.Decref(val)
		more, err := it.accept(lexer.Comma)
		if err != nil {
			return signalNormal, err
		}
		if !more {
			break
		}
	}
	_, err := it.expect(lexer.Newline)
	return signalNormal, err
}

// funcDefStatement handles encountering 'def' during ordinary execution: the
// pre-scan pass already bound the function's name to a Position, so here we
// only need to parse the signature and skip the body.
func (it *Interp) funcDefStatement() (Signal, error) {
	it.next()
	if _, err := it.expect(lexer.Ident); err != nil {
		return signalNormal, err
	}
	if _, err := it.expect(lexer.LPar); err != nil {
		return signalNormal, err
	}
	for {
		tok, err := it.next()
		if err != nil {
			return signalNormal, err
		}
		if tok.Type == lexer.RPar {
			break
		}
	}
	return signalNormal, it.skipBlock()
}

func (it *Interp) ifStatement() (Signal, error) {
	it.next()
	cond, err := it.expr()
	if err != nil {
		return signalNormal, err
	}
	truthy := value.AsBool(cond)
	value.Decref(cond)
	if truthy {
		sig, err := it.block()
		if err != nil {
			return signalNormal, err
		}
		hasElse, err := it.accept(lexer.Else)
		if err != nil {
			return signalNormal, err
		}
		if hasElse {
			if err := it.skipBlock(); err != nil {
				return signalNormal, err
			}
		}
		return sig, nil
	}
	if err := it.skipBlock(); err != nil {
		return signalNormal, err
	}
	hasElse, err := it.accept(lexer.Else)
	if err != nil {
		return signalNormal, err
	}
	if hasElse {
		return it.block()
	}
	return signalNormal, nil
}

func (it *Interp) whileStatement() (Signal, error) {
	it.next()
	condPos := lexer.Save(it.Reader, it.Scan)
	for {
		condPos.Jump(it.Reader, it.Scan)
		cond, err := it.expr()
		if err != nil {
			return signalNormal, err
		}
		truthy := value.AsBool(cond)
		value.Decref(cond)
		if !truthy {
			return signalNormal, it.skipBlock()
		}
		sig, err := it.block()
		if err != nil {
			return signalNormal, err
		}
		switch sig.Kind {
		case Return:
			return sig, nil
		case Break:
			return signalNormal, nil
		}
	}
}

func (it *Interp) doStatement() (Signal, error) {
	it.next()
	bodyPos := lexer.Save(it.Reader, it.Scan)
	for {
		bodyPos.Jump(it.Reader, it.Scan)
		sig, err := it.block()
		if err != nil {
			return signalNormal, err
		}
		if sig.Kind == Return {
			return sig, nil
		}
		if _, err := it.expect(lexer.While); err != nil {
			return signalNormal, err
		}
		cond, err := it.expr()
		if err != nil {
			return signalNormal, err
		}
		truthy := value.AsBool(cond)
		value.Decref(cond)
		if _, err := it.expect(lexer.Newline); err != nil {
			return signalNormal, err
		}
		if sig.Kind == Break || !truthy {
			return signalNormal, nil
		}
	}
}

func (it *Interp) forStatement() (Signal, error) {
	it.next()
	nameTok, err := it.expect(lexer.Ident)
	if err != nil {
		return signalNormal, err
	}
	if _, err := it.expect(lexer.In); err != nil {
		return signalNormal, err
	}
	seq, err := it.expr()
	if err != nil {
		return signalNormal, err
	}
	length, err := value.Length(seq)
	if err != nil {
		value.Decref(seq)
		return signalNormal, it.locate(err)
	}
	bodyPos := lexer.Save(it.Reader, it.Scan)
	for i := int64(0); i < length; i++ {
		bodyPos.Jump(it.Reader, it.Scan)
		item, err := value.Item(seq, i)
		if err != nil {
			value.Decref(seq)
			return signalNormal, it.locate(err)
		}
		var bound value.Value
		if node, ok := item.(*value.ListNode); ok {
			bound = value.Incref(node.Obj)
		} else {
			bound = item
		}
		if !it.Scopes.Assign(nameTok.Text, bound) {
			it.Scopes.Declare(nameTok.Text, bound)
		}
		value.Decref(bound)
		sig, err := it.block()
		if err != nil {
			value.Decref(seq)
			return signalNormal, err
		}
		if sig.Kind == Return {
			value.Decref(seq)
			return sig, nil
		}
		if sig.Kind == Break {
			value.Decref(seq)
			return signalNormal, nil
		}
	}
	if length <= 0 {
		bodyPos.Jump(it.Reader, it.Scan)
		if err := it.skipBlock(); err != nil {
			value.Decref(seq)
			return signalNormal, err
		}
	}
	value.Decref(seq)
	return signalNormal, nil
}

// printStatement implements §4.1's print statement: fields separated by a
// single space and terminated with a newline, unless the "-raw" flag
// (supplemented from original_source/, parser.c's print_stmnt) is given, in
// which case fields are written back-to-back with no trailing newline.
func (it *Interp) printStatement() (Signal, error) {
	it.next()
	raw := false
	t, err := it.peek()
	if err != nil {
		return signalNormal, err
	}
	if t.Type == lexer.Minus {
		saved := lexer.Save(it.Reader, it.Scan)
		it.next()
		idTok, perr := it.peek()
		if perr == nil && idTok.Type == lexer.Ident && idTok.Text == "raw" {
			it.next()
			raw = true
		} else {
			saved.Jump(it.Reader, it.Scan)
		}
	}
	var fields []value.Value
	nt, err := it.peek()
	if err != nil {
		return signalNormal, err
	}
	if nt.Type != lexer.Newline {
		for {
			v, err := it.assignExpr()
			if err != nil {
				return signalNormal, err
			}
			fields = append(fields, v)
			more, err := it.accept(lexer.Comma)
			if err != nil {
				return signalNormal, err
			}
			if !more {
				break
			}
		}
	}
	if _, err := it.expect(lexer.Newline); err != nil {
		return signalNormal, err
	}
	for i, v := range fields {
		if !raw && i > 0 {
			fmt.Fprint(it.Stdout, " ")
		}
		fmt.Fprint(it.Stdout, v.String())
		value.Decref(v)
	}
	if !raw {
		fmt.Fprintln(it.Stdout)
	}
	return signalNormal, nil
}

// inputStatement implements the supplemented "input" statement
// (original_source/parser.c's input_stmnt): an optional literal prompt
// followed by a name whose existing declared kind decides how the read
// line is converted (mirrors obj_scan).
func (it *Interp) inputStatement() (Signal, error) {
	it.next()
	for {
		t, err := it.peek()
		if err != nil {
			return signalNormal, err
		}
		if t.Type == lexer.Str {
			it.next()
			fmt.Fprint(it.Stdout, t.Text)
		}
		nameTok, err := it.expect(lexer.Ident)
		if err != nil {
			return signalNormal, err
		}
		line, rerr := it.Stdin.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if rerr != nil && line == "" {
			return signalNormal, it.raise(errors.SystemError, "input: %s", rerr)
		}
		cur, ok := it.Scopes.Lookup(nameTok.Text)
		if !ok {
			return signalNormal, it.raise(errors.NameError, "undefined identifier %q", nameTok.Text)
		}
		converted, cerr := convertInput(cur.Kind(), line)
		if cerr != nil {
			return signalNormal, it.raise(errors.ValueError, "%s", cerr)
		}
		it.Scopes.Assign(nameTok.Text, converted)
		value.Decref(converted)
		more, err := it.accept(lexer.Comma)
		if err != nil {
			return signalNormal, err
		}
		if !more {
			break
		}
	}
	_, err := it.expect(lexer.Newline)
	return signalNormal, err
}

func convertInput(kind value.Kind, text string) (value.Value, error) {
	switch kind {
	case value.KindInt:
		i, err := value.ParseIntLiteral(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}
		return value.NewInt(i), nil
	case value.KindFloat:
		f, err := value.ParseFloatLiteral(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}
		return value.NewFloat(f), nil
	case value.KindChar:
		if len(text) == 0 {
			return value.NewChar(0), nil
		}
		return value.NewChar(text[0]), nil
	default:
		return value.NewStr(text), nil
	}
}

// importStatement implements §4.2's import(name): load the module, swap the
// live reader/scanner onto it, pre-scan and execute its top-level
// statements to completion, then jump back to resume right after the
// import statement. Importing a module that is already loaded does nothing.
func (it *Interp) importStatement() (Signal, error) {
	it.next()
	nameTok, err := it.expect(lexer.Str)
	if err != nil {
		return signalNormal, err
	}
	if it.Loader.Search(nameTok.Text) != nil {
		_, err := it.expect(lexer.Newline)
		return signalNormal, err
	}
	mod, err := it.Loader.Load(nameTok.Text)
	if err != nil {
		return signalNormal, err
	}
	if _, err := it.expect(lexer.Newline); err != nil {
		return signalNormal, err
	}

	resumePos := lexer.Save(it.Reader, it.Scan)
	it.Reader.Current = mod
	it.Reader.Reset()
	it.Scan.Reset()
	if err := it.PreScan(); err != nil {
		resumePos.Jump(it.Reader, it.Scan)
		return signalNormal, err
	}
	_, err = it.runModuleBody()
	resumePos.Jump(it.Reader, it.Scan)
	return signalNormal, err
}

func (it *Interp) returnStatement() (Signal, error) {
	it.next()
	t, err := it.peek()
	if err != nil {
		return signalNormal, err
	}
	if t.Type == lexer.Newline {
		it.next()
		return Signal{Kind: Return, Value: value.NewInt(0)}, nil
	}
	v, err := it.expr()
	if err != nil {
		return signalNormal, err
	}
	if _, err := it.expect(lexer.Newline); err != nil {
		value.Decref(v)
		return signalNormal, err
	}
	return Signal{Kind: Return, Value: v}, nil
}
