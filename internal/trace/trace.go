// Package trace provides the leveled debug tracer used in place of the
// original interpreter's debug_printf macro. It is a thin wrapper around the
// standard log package, matching how the teacher codebase logs to stderr
// with log.New rather than reaching for a structured-logging library.
package trace

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/exin-lang/exin/internal/config"
)

var logger = log.New(os.Stderr, "", 0)

// SetOutput redirects trace output; tests use this to capture trace lines.
func SetOutput(w io.Writer) {
	logger = log.New(w, "", 0)
}

// Tracer emits messages gated by a bitmask of enabled channels.
type Tracer struct {
	mask int
}

// New returns a Tracer that only prints lines whose channel bit is set in cfg.Trace.
func New(cfg config.Config) *Tracer {
	return &Tracer{mask: cfg.Trace}
}

func (t *Tracer) enabled(channel int) bool {
	return t != nil && t.mask&channel != 0
}

// Token logs a scanned token, gated by config.TraceToken.
func (t *Tracer) Token(format string, args ...any) {
	if t.enabled(config.TraceToken) {
		logger.Print("token: " + fmt.Sprintf(format, args...))
	}
}

// Block logs function/block entry and exit, gated by config.TraceBlock.
func (t *Tracer) Block(format string, args ...any) {
	if t.enabled(config.TraceBlock) {
		logger.Print("block: " + fmt.Sprintf(format, args...))
	}
}

// Alloc logs value allocation/release, gated by config.TraceAlloc.
func (t *Tracer) Alloc(format string, args ...any) {
	if t.enabled(config.TraceAlloc) {
		logger.Print("alloc: " + fmt.Sprintf(format, args...))
	}
}

// ScanOnly logs tokens seen during the pre-scan pass, gated by config.TraceScanOnly.
func (t *Tracer) ScanOnly(format string, args ...any) {
	if t.enabled(config.TraceScanOnly) {
		logger.Print("scan: " + fmt.Sprintf(format, args...))
	}
}

// Dump logs the final scope/value dump, gated by config.TraceDump.
func (t *Tracer) Dump(format string, args ...any) {
	if t.enabled(config.TraceDump) {
		logger.Print("dump: " + fmt.Sprintf(format, args...))
	}
}

// GlobalScope logs the identifiers left bound in the global scope at program
// exit, the one TraceDump site config.TraceDump is meant for. The bound
// count is humanized the way the teacher formats large counters in its own
// CLI summaries, rather than printing a bare integer.
func (t *Tracer) GlobalScope(names []string) {
	if !t.enabled(config.TraceDump) {
		return
	}
	logger.Print("dump: " + humanize.Comma(int64(len(names))) + " name(s) bound at exit: " + fmt.Sprint(names))
}
