package interp

import (
	"github.com/exin-lang/exin/internal/lexer"
	"github.com/exin-lang/exin/internal/module"
	"github.com/exin-lang/exin/internal/value"
)

// Run pre-scans the current module for function declarations, then executes
// its top-level statements, returning the process exit code implied by the
// module's top-level "return" (0 if the module runs to completion without
// one).
func (it *Interp) Run() (int, error) {
	if err := it.PreScan(); err != nil {
		return 0, err
	}
	code, err := it.runModuleBody()
	it.Trace.GlobalScope(it.Scopes.Global.Names())
	return code, err
}

// LoadModule swaps the interpreter onto a freshly supplied module, the same
// reader/scanner reset importStatement performs when it jumps onto an
// imported file, and pre-scans it. Scopes are left untouched, so a caller
// that repeatedly calls LoadModule/RunBody (the REPL) keeps its bindings
// alive across chunks the way a single growing module would.
func (it *Interp) LoadModule(m *module.Module) error {
	it.Reader.Current = m
	it.Reader.Reset()
	it.Scan.Reset()
	return it.PreScan()
}

// RunBody executes the statements of whatever module LoadModule or New most
// recently installed, without repeating the pre-scan pass.
func (it *Interp) RunBody() (int, error) {
	return it.runModuleBody()
}

func (it *Interp) runModuleBody() (int, error) {
	for {
		t, err := it.peek()
		if err != nil {
			return 0, err
		}
		if t.Type == lexer.EndMarker {
			return 0, nil
		}
		sig, err := it.statement()
		if err != nil {
			return 0, err
		}
		if sig.Kind == Return {
			code := 0
			if sig.Value != nil {
				code = int(value.AsInt(sig.Value))
				value.Decref(sig.Value)
			}
			return code, nil
		}
	}
}

// PreScan walks the current module start to end exactly once, recording a
// Position for every "def name(" so that calls to functions defined later
// in the file succeed (§4.5's explicit two-pass design, not a workaround).
// It saves and restores the reader/scanner around itself so the caller's
// own position is unaffected.
func (it *Interp) PreScan() error {
	startPos := lexer.Save(it.Reader, it.Scan)
	defer startPos.Jump(it.Reader, it.Scan)

	for {
		t, err := it.next()
		if err != nil {
			return err
		}
		switch t.Type {
		case lexer.EndMarker:
			return nil
		case lexer.DefFunc:
			if err := it.prescanFuncDef(); err != nil {
				return err
			}
		}
	}
}

func (it *Interp) prescanFuncDef() error {
	nameTok, err := it.expect(lexer.Ident)
	if err != nil {
		return err
	}
	fnPos := lexer.Save(it.Reader, it.Scan)
	it.Scopes.DeclareGlobal(nameTok.Text, fnPos)
	value.Decref(fnPos)

	if _, err := it.expect(lexer.LPar); err != nil {
		return err
	}
	for {
		tok, err := it.next()
		if err != nil {
			return err
		}
		if tok.Type == lexer.RPar {
			break
		}
	}
	return it.skipBlock()
}

// callUserFunction implements the seven-step function-call protocol of
// §4.5: push a scope, save the continuation position, jump to the callee,
// bind parameters from the already-evaluated argument list, run the body,
// then jump back and pop the scope. The callee's indentation context is
// reset to column zero for the duration of the call (§4.3's note that each
// function body re-derives its own indentation), restored afterward.
func (it *Interp) callUserFunction(fnPos *lexer.Position, args []value.Value) (value.Value, error) {
	it.Scopes.Push()
	defer it.Scopes.Pop()

	returnPos := lexer.Save(it.Reader, it.Scan)

	// Capture the caller's indentation stack before the jump replaces it
	// with the one saved at the def, then start the callee at column zero.
	savedIndent := it.Scan.PushIndent()
	defer it.Scan.PopIndent(savedIndent)
	fnPos.Jump(it.Reader, it.Scan)
	it.Scan.PushIndent()

	if _, err := it.expect(lexer.LPar); err != nil {
		return nil, err
	}
	var params []string
	closed, err := it.accept(lexer.RPar)
	if err != nil {
		return nil, err
	}
	if !closed {
		for {
			tok, err := it.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			params = append(params, tok.Text)
			more, err := it.accept(lexer.Comma)
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}
		if _, err := it.expect(lexer.RPar); err != nil {
			return nil, err
		}
	}

	for i, name := range params {
		if i < len(args) {
			it.Scopes.Declare(name, args[i])
			continue
		}
		zero := value.NewInt(0)
		it.Scopes.Declare(name, zero)
		value.Decref(zero)
	}

	sig, err := it.block()
	returnPos.Jump(it.Reader, it.Scan)
	if err != nil {
		return nil, err
	}
	if sig.Kind == Return && sig.Value != nil {
		return sig.Value, nil
	}
	return value.NewInt(0), nil
}
