package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/exin-lang/exin/internal/config"
	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/module"
)

// run executes code as a fresh top-level module and returns everything
// written to stdout plus the module's exit code.
func run(t *testing.T, code string) (string, int) {
	t.Helper()
	loader := module.NewLoader()
	m := loader.LoadSource("<test>", code)
	it := interp.New(config.Default(), loader, m)

	var out bytes.Buffer
	it.Stdout = &out

	exitCode, err := it.Run()
	if err != nil {
		t.Fatalf("Run(%q) failed: %v", code, err)
	}
	return out.String(), exitCode
}

func runErr(t *testing.T, code string) error {
	t.Helper()
	loader := module.NewLoader()
	m := loader.LoadSource("<test>", code)
	it := interp.New(config.Default(), loader, m)
	it.Stdout = &bytes.Buffer{}
	_, err := it.Run()
	return err
}

func TestArithmeticAndPrint(t *testing.T) {
	out, _ := run(t, "print 1 + 2 * 3\n")
	if strings.TrimSpace(out) != "7" {
		t.Errorf("got %q, want 7", out)
	}
}

func TestVariableDeclarationAndReassignment(t *testing.T) {
	out, _ := run(t, "int x = 10\nx = x + 5\nprint x\n")
	if strings.TrimSpace(out) != "15" {
		t.Errorf("got %q, want 15", out)
	}
}

func TestIfElse(t *testing.T) {
	code := "int x = 1\nif x == 1\n    print \"one\"\nelse\n    print \"other\"\n"
	out, _ := run(t, code)
	if strings.TrimSpace(out) != "one" {
		t.Errorf("got %q, want one", out)
	}
}

func TestWhileLoopWithBreak(t *testing.T) {
	code := "int i = 0\nwhile i < 10\n    if i == 3\n        break\n    print i\n    i = i + 1\n"
	out, _ := run(t, code)
	want := "0\n1\n2\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestForLoopOverList(t *testing.T) {
	code := "list xs = [1, 2, 3]\nfor v in xs\n    print v\n"
	out, _ := run(t, code)
	want := "1\n2\n3\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestFunctionDefinedAfterCallSitePreScanned(t *testing.T) {
	// §4.5's two-pass design: calling greet() before its textual "def" is
	// reached must still work, because PreScan records every def up front.
	code := "print greet()\ndef greet()\n    return \"hi\"\n"
	out, _ := run(t, code)
	if strings.TrimSpace(out) != "hi" {
		t.Errorf("got %q, want hi", out)
	}
}

func TestFunctionArgumentsAndReturn(t *testing.T) {
	code := "def add(a, b)\n    return a + b\nprint add(3, 4)\n"
	out, _ := run(t, code)
	if strings.TrimSpace(out) != "7" {
		t.Errorf("got %q, want 7", out)
	}
}

func TestRecursiveFunction(t *testing.T) {
	code := "def fact(n)\n    if n <= 1\n        return 1\n    return n * fact(n - 1)\nprint fact(5)\n"
	out, _ := run(t, code)
	if strings.TrimSpace(out) != "120" {
		t.Errorf("got %q, want 120", out)
	}
}

func TestTopLevelReturnBecomesExitCode(t *testing.T) {
	_, code := run(t, "return 3\n")
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestPrintRawSuppressesSeparatorAndNewline(t *testing.T) {
	out, _ := run(t, "print -raw \"a\", \"b\"\nprint \"c\"\n")
	if out != "abc\n" {
		t.Errorf("got %q, want %q", out, "abc\n")
	}
}

func TestListIndexAssignmentMutatesInPlace(t *testing.T) {
	code := "list xs = [1, 2, 3]\nxs[1] = 99\nprint xs\n"
	out, _ := run(t, code)
	if strings.TrimSpace(out) != "[1,99,3]" {
		t.Errorf("got %q, want [1,99,3]", out)
	}
}

func TestStringConcatenationWithNumber(t *testing.T) {
	out, _ := run(t, "print \"n=\" + 5\n")
	if strings.TrimSpace(out) != "n=5" {
		t.Errorf("got %q, want n=5", out)
	}
}

func TestDivisionByZeroRaises(t *testing.T) {
	err := runErr(t, "print 1 / 0\n")
	if err == nil {
		t.Fatal("expected an error")
	}
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.DivisionByZeroError {
		t.Fatalf("expected DivisionByZeroError, got %v", err)
	}
}

func TestDivisionByZeroErrorCarriesSourceLocation(t *testing.T) {
	// §6's error output needs "File <name>, line <n>\n<source>\n<Kind>" even
	// for errors that originate inside internal/value's operators rather than
	// from the parser itself.
	err := runErr(t, "int x = 1\nprint 1 / 0\n")
	re, ok := err.(*errors.RuntimeError)
	if !ok {
		t.Fatalf("expected *errors.RuntimeError, got %v", err)
	}
	if re.Location.Line == 0 || re.Location.Module == "" {
		t.Fatalf("RuntimeError has no location attached: %#v", re.Location)
	}
	msg := re.Error()
	if !strings.Contains(msg, "File") || !strings.Contains(msg, "line 2") {
		t.Errorf("Error() = %q, want a File/line header", msg)
	}
}

func TestModOnFloatOperandIsModNotAllowedError(t *testing.T) {
	err := runErr(t, "print 5.0 % 2.0\n")
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.ModNotAllowedError {
		t.Fatalf("expected ModNotAllowedError, got %v", err)
	}
	if re.Location.Line == 0 {
		t.Errorf("ModNotAllowedError should carry a source location too")
	}
}

func TestUndefinedNameRaisesNameError(t *testing.T) {
	err := runErr(t, "print nope\n")
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.NameError {
		t.Fatalf("expected NameError, got %v", err)
	}
}

func TestDoWhileRunsBodyAtLeastOnce(t *testing.T) {
	code := "int i = 0\ndo\n    print i\n    i = i + 1\nwhile i < 0\n"
	out, _ := run(t, code)
	if strings.TrimSpace(out) != "0" {
		t.Errorf("got %q, want 0 (body runs once even though condition is false)", out)
	}
}

func TestPassIsNoop(t *testing.T) {
	out, _ := run(t, "if 1\n    pass\nprint \"done\"\n")
	if strings.TrimSpace(out) != "done" {
		t.Errorf("got %q, want done", out)
	}
}

func TestLoadModuleAndRunBodyShareScopeAcrossChunks(t *testing.T) {
	loader := module.NewLoader()
	it := interp.New(config.Default(), loader, loader.LoadSource("<repl>", ""))
	var out bytes.Buffer
	it.Stdout = &out

	chunk1 := loader.LoadSource("<chunk1>", "int x = 41\n")
	if err := it.LoadModule(chunk1); err != nil {
		t.Fatalf("LoadModule chunk1: %v", err)
	}
	if _, err := it.RunBody(); err != nil {
		t.Fatalf("RunBody chunk1: %v", err)
	}

	chunk2 := loader.LoadSource("<chunk2>", "x = x + 1\nprint x\n")
	if err := it.LoadModule(chunk2); err != nil {
		t.Fatalf("LoadModule chunk2: %v", err)
	}
	if _, err := it.RunBody(); err != nil {
		t.Fatalf("RunBody chunk2: %v", err)
	}

	if strings.TrimSpace(out.String()) != "42" {
		t.Errorf("got %q, want 42 (x should have survived across chunks)", out.String())
	}
}
