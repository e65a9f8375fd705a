// Package config holds the handful of global knobs the interpreter reads at
// start-up: how wide a tab expands to during indentation scanning, and which
// debug trace channels (if any) are enabled.
package config

// Debug trace channel bits, passed to -d on the command line.
const (
	TraceNone     = 0
	TraceToken    = 1 << (iota - 1) // show every token as it is scanned
	TraceBlock                      // show function/block entry and exit
	TraceAlloc                      // channel of Tracer.Alloc; nothing in the interpreter emits on it
	TraceScanOnly                   // channel of Tracer.ScanOnly; nothing emits on it (pre-scan tokens go to TraceToken)
	TraceDump                       // dump scopes and values at program exit
)

// Config carries the few process-wide settings the original C implementation
// kept in a single global struct.
type Config struct {
	TabSize int
	Trace   int
}

// Default returns the configuration a freshly started interpreter uses
// before any command-line flags are applied.
func Default() Config {
	return Config{TabSize: 4, Trace: TraceNone}
}
