package module

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSourceAppendsPaddingAndCaches(t *testing.T) {
	l := NewLoader()
	m := l.LoadSource("<test>", "print 1\n")
	if m.Code != "print 1\n\n\n" {
		t.Errorf("Code = %q, want trailing double-newline padding", m.Code)
	}
	if got := l.Search("<test>"); got != m {
		t.Errorf("Search did not return the cached module")
	}
}

func TestLoadReadsFromDiskAndCachesByName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "helper.exin")
	if err := os.WriteFile(path, []byte("return 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := NewLoader()
	m, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Code != "return 0\n\n\n" {
		t.Errorf("Code = %q, want padded source", m.Code)
	}

	again, err := l.Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again != m {
		t.Error("second Load should return the identical cached *Module")
	}
}

func TestLoadResolvesAgainstSearchPath(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "lib")
	if err := os.Mkdir(libDir, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(libDir, "util.exin"), []byte("return 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := NewLoader()
	l.SearchPath = []string{dir, libDir}
	m, err := l.Load("util.exin")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Code != "return 1\n\n\n" {
		t.Errorf("Code = %q, want padded source from the lib directory", m.Code)
	}
}

func TestLoadMissingFileReturnsSystemError(t *testing.T) {
	l := NewLoader()
	l.SearchPath = nil
	_, err := l.Load(filepath.Join(t.TempDir(), "missing.exin"))
	if err == nil {
		t.Fatal("expected an error for a missing module")
	}
}
