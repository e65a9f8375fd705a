// Package errors defines the nine numbered error kinds the interpreter can
// raise. A raised error stops the module being run: it unwinds to cmd/exin,
// which prints it and exits with Kind as the process exit code, mirroring
// error.c's error()/exit(number) in the original implementation (the REPL
// instead prints it and goes on to the next chunk).
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind is one of the nine error numbers, doubling as the process exit code.
type Kind int

const (
	NameError Kind = iota + 1
	TypeError
	SyntaxError
	ValueError
	SystemError
	IndexError
	OutOfMemoryError
	ModNotAllowedError
	DivisionByZeroError
)

var names = map[Kind]string{
	NameError:           "NameError",
	TypeError:           "TypeError",
	SyntaxError:         "SyntaxError",
	ValueError:          "ValueError",
	SystemError:         "SystemError",
	IndexError:          "IndexError: index out of range",
	OutOfMemoryError:    "Out of memory",
	ModNotAllowedError:  "ModNotAllowedError",
	DivisionByZeroError: "DivisionByZeroError: division by zero",
}

// hasDetail reports whether this kind's message may carry a formatted detail
// string in addition to its fixed description, matching error.c's
// print_extra_info flag.
var hasDetail = map[Kind]bool{
	NameError:          true,
	TypeError:          true,
	SyntaxError:        true,
	ValueError:         true,
	SystemError:        true,
	ModNotAllowedError: true,
}

// SourceLocation pinpoints where a RuntimeError occurred.
type SourceLocation struct {
	Module string // module name as loaded: the command-line path or the import name as written
	Line   int
	Text   string // the source line being executed
}

// RuntimeError is the error value that unwinds through the interpreter.
type RuntimeError struct {
	Kind     Kind
	Detail   string
	Location SourceLocation
}

// Error implements the error interface, formatted as §6 of the specification
// requires: "File <module>, line <n>\n<source line>\n<Kind>[: <detail>]".
func (e *RuntimeError) Error() string {
	var sb strings.Builder
	if e.Location.Module != "" {
		fmt.Fprintf(&sb, "File %s", e.Location.Module)
	}
	if e.Location.Line > 0 {
		fmt.Fprintf(&sb, ", line %d\n%s\n", e.Location.Line, e.Location.Text)
	} else if e.Location.Module != "" {
		sb.WriteString("\n")
	}
	sb.WriteString(names[e.Kind])
	if hasDetail[e.Kind] && e.Detail != "" {
		fmt.Fprintf(&sb, ": %s", e.Detail)
	}
	return sb.String()
}

// Exit returns the process exit code for this error, identical to Kind.
func (e *RuntimeError) Exit() int {
	return int(e.Kind)
}

// New builds a RuntimeError without location information; a caller further
// up the call stack (typically the parser/evaluator) fills in Location
// before the error reaches cmd/exin.
func New(kind Kind, format string, args ...any) *RuntimeError {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &RuntimeError{Kind: kind, Detail: detail}
}

// At attaches source location to an existing RuntimeError, returning it for
// chaining at the raise site.
func (e *RuntimeError) At(module string, line int, text string) *RuntimeError {
	e.Location = SourceLocation{Module: module, Line: line, Text: text}
	return e
}

// Wrap attaches context from a lower layer (a failed db/net call, for
// instance) to a SystemError before it is handed back up as a RuntimeError,
// using github.com/pkg/errors the way the teacher's own layered
// SentraError/WithSource construction accumulates context while unwinding.
func Wrap(err error, format string, args ...any) *RuntimeError {
	wrapped := pkgerrors.Wrap(err, fmt.Sprintf(format, args...))
	return New(SystemError, "%s", wrapped.Error())
}
