package repl

import (
	"bufio"
	"strings"
	"testing"
)

func TestReadChunkStopsAtBlankLine(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("int x = 1\nx = x + 1\n\nint y = 2\n"))
	lines, ok := readChunk(scanner, false)
	if !ok || len(lines) != 2 {
		t.Fatalf("readChunk = %v, %v, want 2 lines, true", lines, ok)
	}
	if lines[0] != "int x = 1" || lines[1] != "x = x + 1" {
		t.Errorf("unexpected chunk content: %v", lines)
	}

	lines, ok = readChunk(scanner, false)
	if !ok || len(lines) != 1 || lines[0] != "int y = 2" {
		t.Errorf("second chunk = %v, %v, want [int y = 2], true", lines, ok)
	}
}

func TestReadChunkExitStopsTheLoop(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("exit\n"))
	_, ok := readChunk(scanner, false)
	if ok {
		t.Error("readChunk should report ok=false after reading \"exit\"")
	}
}

func TestReadChunkEOFWithPendingLinesStillRuns(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("print 1"))
	lines, ok := readChunk(scanner, false)
	if !ok || len(lines) != 1 || lines[0] != "print 1" {
		t.Fatalf("readChunk at EOF = %v, %v, want [print 1], true", lines, ok)
	}
}

func TestReadChunkEOFWithNothingPendingStops(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader(""))
	lines, ok := readChunk(scanner, false)
	if ok || len(lines) != 0 {
		t.Errorf("readChunk on empty input = %v, %v, want nil, false", lines, ok)
	}
}
