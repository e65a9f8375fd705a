package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormattingWithLocation(t *testing.T) {
	err := New(TypeError, "unsupported operand types for +: int and str").
		At("main", 12, "x = 1 + \"a\"")

	got := err.Error()
	want := "File main, line 12\nx = 1 + \"a\"\nTypeError: unsupported operand types for +: int and str"
	if got != want {
		t.Errorf("Error() =\n%s\nwant:\n%s", got, want)
	}
}

func TestErrorFormattingWithoutLocation(t *testing.T) {
	err := New(DivisionByZeroError, "")
	if got := err.Error(); got != "DivisionByZeroError: division by zero" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIndexErrorHasNoDetailSuffix(t *testing.T) {
	err := New(IndexError, "this detail is ignored")
	if got := err.Error(); got != "IndexError: index out of range" {
		t.Errorf("IndexError should ignore its detail, got %q", got)
	}
}

func TestExitMatchesKind(t *testing.T) {
	for kind := NameError; kind <= DivisionByZeroError; kind++ {
		err := New(kind, "")
		if err.Exit() != int(kind) {
			t.Errorf("Exit() = %d, want %d", err.Exit(), int(kind))
		}
	}
}

func TestWrapProducesSystemError(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := Wrap(cause, "db_connect %s", "primary")

	if wrapped.Kind != SystemError {
		t.Fatalf("Wrap kind = %v, want SystemError", wrapped.Kind)
	}
	if !strings.Contains(wrapped.Detail, "connection refused") {
		t.Errorf("wrapped detail %q does not mention underlying cause", wrapped.Detail)
	}
	if !strings.Contains(wrapped.Detail, "db_connect primary") {
		t.Errorf("wrapped detail %q does not mention the wrap context", wrapped.Detail)
	}
}
