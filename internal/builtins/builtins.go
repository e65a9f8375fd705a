// Package builtins registers EXIN's native function table: the small
// extension surface §4.5 calls out ("type(x) and chr(i) as the minimum")
// plus the str/db/net/time families SPEC_FULL.md's domain stack adds.
// None of this lives in internal/interp itself — the interpreter only
// knows about the Builtin function type and an empty map until a caller
// (cmd/exin's main, or a test) registers these tables into it, the same
// lazy-registration shape as the teacher's loadBuiltinModule fallback
// chain in internal/module/module.go.
package builtins

import (
	"strings"

	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/value"
)

// RegisterAll wires every builtin family into it. cmd/exin calls this once
// at startup; tests can call the individual Register* functions instead to
// exercise a narrower surface.
func RegisterAll(it *interp.Interp) {
	RegisterCore(it)
	RegisterDB(it)
	RegisterNet(it)
	RegisterTime(it)
}

// RegisterCore wires type/chr and the str family — the functions that need
// no third-party dependency.
func RegisterCore(it *interp.Interp) {
	it.Register("type", builtinType)
	it.Register("chr", builtinChr)
	it.Register("ord", builtinOrd)
	it.Register("upper", builtinUpper)
	it.Register("lower", builtinLower)
}

// builtinType implements type(x), identical to the x.type dot-trailer
// method (expression.c's method() and object.c's type name table share one
// name list; here both read Kind().String()).
func builtinType(it *interp.Interp, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, it.Raise(errors.TypeError, "type() expects exactly one argument")
	}
	return value.NewStr(args[0].Kind().String()), nil
}

// builtinChr implements chr(i): the character whose code point is i,
// truncated to a byte the same way every numeric coercion in number.c
// truncates (object.c's obj_as_char).
func builtinChr(it *interp.Interp, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, it.Raise(errors.TypeError, "chr() expects exactly one argument")
	}
	if !value.IsNumber(args[0]) {
		return nil, it.Raise(errors.TypeError, "chr() expects a numeric argument")
	}
	return value.NewChar(byte(value.AsInt(args[0]))), nil
}

// builtinOrd implements ord(c): the code point of a Char, or of a
// single-character Str (object.c's string accessors treat both the same
// way a one-element sequence does).
func builtinOrd(it *interp.Interp, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, it.Raise(errors.TypeError, "ord() expects exactly one argument")
	}
	switch v := args[0].(type) {
	case *value.Char:
		return value.NewInt(int64(v.Val)), nil
	case *value.Str:
		if len(v.Val) != 1 {
			return nil, it.Raise(errors.ValueError, "ord() expects a single character")
		}
		return value.NewInt(int64(v.Val[0])), nil
	default:
		return nil, it.Raise(errors.TypeError, "ord() expects a char or single-character string")
	}
}

func builtinUpper(it *interp.Interp, args []value.Value) (value.Value, error) {
	s, err := str1(it, args, "upper")
	if err != nil {
		return nil, err
	}
	return value.NewStr(strings.ToUpper(s)), nil
}

func builtinLower(it *interp.Interp, args []value.Value) (value.Value, error) {
	s, err := str1(it, args, "lower")
	if err != nil {
		return nil, err
	}
	return value.NewStr(strings.ToLower(s)), nil
}

func str1(it *interp.Interp, args []value.Value, name string) (string, error) {
	if len(args) != 1 {
		return "", it.Raise(errors.TypeError, "%s() expects exactly one argument", name)
	}
	s, ok := args[0].(*value.Str)
	if !ok {
		return "", it.Raise(errors.TypeError, "%s() expects a string argument", name)
	}
	return s.Val, nil
}
