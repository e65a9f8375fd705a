// Package interp implements the recursive-descent parser/evaluator:
// it parses and executes a module's token stream in the same pass, using
// lexer.Position save/jump instead of building an AST, exactly as
// parser.c/expression.c do. This package also owns the Reader/Scanner pair
// for the process (there is exactly one of each, per §5's "process-wide
// mutable singletons" note, modeled here as fields of a single Interp
// value rather than package globals).
package interp

import (
	"bufio"
	"io"
	"os"

	"github.com/exin-lang/exin/internal/config"
	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/lexer"
	"github.com/exin-lang/exin/internal/module"
	"github.com/exin-lang/exin/internal/scope"
	"github.com/exin-lang/exin/internal/trace"
	"github.com/exin-lang/exin/internal/value"
)

// Builtin is a native function registered in the builtin table (§4.5's
// "extension point for future built-ins").
type Builtin func(it *Interp, args []value.Value) (value.Value, error)

// Interp is the full interpreter state: reader, scanner, scope manager,
// loaded modules, builtin table, and I/O streams.
type Interp struct {
	Cfg    config.Config
	Trace  *trace.Tracer
	Loader *module.Loader
	Reader *lexer.Reader
	Scan   *lexer.Scanner
	Scopes *scope.Manager

	Builtins map[string]Builtin

	Stdout io.Writer
	Stdin  *bufio.Reader
}

// New creates an interpreter ready to run m as the top-level module.
func New(cfg config.Config, loader *module.Loader, m *module.Module) *Interp {
	r := lexer.NewReader(m)
	it := &Interp{
		Cfg:      cfg,
		Trace:    trace.New(cfg),
		Loader:   loader,
		Reader:   r,
		Scan:     lexer.NewScanner(r, cfg),
		Scopes:   scope.NewManager(),
		Builtins: make(map[string]Builtin),
		Stdout:   os.Stdout,
		Stdin:    bufio.NewReader(os.Stdin),
	}
	return it
}

// Register adds a native function to the builtin table.
func (it *Interp) Register(name string, fn Builtin) {
	it.Builtins[name] = fn
}

// Raise builds a located RuntimeError, exported so native functions
// registered in internal/builtins can report errors with the same file/line
// context a scripted statement would get.
func (it *Interp) Raise(kind errors.Kind, format string, args ...any) error {
	return it.raise(kind, format, args...)
}

// raise builds a RuntimeError with the current source location attached,
// the Go-port equivalent of error.c's error() reading reader.current and
// print_current_line before printing the message.
func (it *Interp) raise(kind errors.Kind, format string, args ...any) error {
	e := errors.New(kind, format, args...)
	name := ""
	if it.Reader.Current != nil {
		name = it.Reader.Current.Name
	}
	return e.At(name, it.Reader.Line(), it.Reader.CurrentLine())
}

// locate attaches the current source location to an error surfacing from a
// value-package operation (Add/Sub/.../Item/Slice/Length), the same way next()
// already does for scanner errors: those functions know nothing of modules or
// line numbers, so whichever expression called them has to stamp the location
// on the way back up.
func (it *Interp) locate(err error) error {
	if re, ok := err.(*errors.RuntimeError); ok {
		return re.At(it.moduleName(), it.Reader.Line(), it.Reader.CurrentLine())
	}
	return err
}

// next advances the scanner and wraps scanner errors with source location.
func (it *Interp) next() (lexer.Token, error) {
	t, err := it.Scan.Next()
	if err != nil {
		if re, ok := err.(*errors.RuntimeError); ok {
			return t, re.At(it.moduleName(), it.Reader.Line(), it.Reader.CurrentLine())
		}
		return t, err
	}
	it.Trace.Token("%s %q", t.Type, t.Text)
	return t, nil
}

func (it *Interp) peek() (lexer.Token, error) {
	return it.Scan.Peek()
}

func (it *Interp) moduleName() string {
	if it.Reader.Current != nil {
		return it.Reader.Current.Name
	}
	return ""
}

// expect consumes the next token, raising a SyntaxError if its type does
// not match want.
func (it *Interp) expect(want lexer.TokenType) (lexer.Token, error) {
	t, err := it.next()
	if err != nil {
		return t, err
	}
	if t.Type != want {
		return t, it.raise(errors.SyntaxError, "expected %s, found %s", want, t.Type)
	}
	return t, nil
}

// accept consumes and returns true if the next token is of type want,
// otherwise leaves it peeked for the caller.
func (it *Interp) accept(want lexer.TokenType) (bool, error) {
	t, err := it.peek()
	if err != nil {
		return false, err
	}
	if t.Type == want {
		_, err := it.next()
		return true, err
	}
	return false, nil
}
