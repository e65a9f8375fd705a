package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunPrintsUsageAndVersionWithoutExecuting(t *testing.T) {
	if code := run([]string{"-h"}); code != 0 {
		t.Errorf("-h exit code = %d, want 0", code)
	}
	if code := run([]string{"-v"}); code != 0 {
		t.Errorf("-v exit code = %d, want 0", code)
	}
}

func TestRunRejectsUnknownOption(t *testing.T) {
	if code := run([]string{"-z"}); code == 0 {
		t.Error("unknown option should return a nonzero exit code")
	}
}

func TestRunRejectsInvalidTabSize(t *testing.T) {
	if code := run([]string{"-tbogus"}); code == 0 {
		t.Error("invalid -t value should return a nonzero exit code")
	}
}

func TestRunRejectsInvalidDebugMask(t *testing.T) {
	if code := run([]string{"-dbogus"}); code == 0 {
		t.Error("invalid -d value should return a nonzero exit code")
	}
}

func TestRunExecutesModuleFileAndReturnsItsExitCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.exin")
	if err := os.WriteFile(path, []byte("return 7\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if code := run([]string{path}); code != 7 {
		t.Errorf("run(%q) = %d, want 7", path, code)
	}
}

func TestRunReportsMissingModuleFile(t *testing.T) {
	code := run([]string{filepath.Join(t.TempDir(), "missing.exin")})
	if code == 0 {
		t.Error("a missing module file should return a nonzero exit code")
	}
}

func TestRunModulePropagatesRuntimeErrorExitCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.exin")
	if err := os.WriteFile(path, []byte("print 1 / 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	code := run([]string{path})
	if code == 0 {
		t.Error("a division-by-zero module should return a nonzero exit code")
	}
}
