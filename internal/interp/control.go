package interp

import "github.com/exin-lang/exin/internal/value"

// Control is the explicit replacement for the original's longjmp-based
// do_break/do_continue/do_return flags (§9 design notes): every statement
// and block returns a Signal, and each construct that can absorb a signal
// (a loop for Break/Continue, a function call for Return) checks it instead
// of the whole evaluator sharing three mutable globals.
type Control int

const (
	Normal Control = iota
	Break
	Continue
	Return
)

// Signal carries a Control tag and, for Return, the value being returned.
type Signal struct {
	Kind  Control
	Value value.Value
}

var signalNormal = Signal{Kind: Normal}
