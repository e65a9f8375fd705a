package builtins

import (
	"time"

	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/value"
)

// processStart anchors clock()'s elapsed-time measurement, mirroring the
// teacher's createTimeModule which backs its own time builtin module with
// the standard time package rather than a third-party one.
var processStart = time.Now()

// RegisterTime wires clock(), the sole member of the time family.
func RegisterTime(it *interp.Interp) {
	it.Register("clock", clockFn)
}

func clockFn(it *interp.Interp, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, it.Raise(errors.TypeError, "clock() expects no arguments")
	}
	return value.NewFloat(time.Since(processStart).Seconds()), nil
}
