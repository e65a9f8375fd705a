package value

import (
	"fmt"
	"strconv"

	"github.com/exin-lang/exin/internal/errors"
)

// Char, Int and Float are the three numeric kinds. Char is logically a
// one-byte character constant but participates in arithmetic exactly like
// the others (char_t is a typedef for char in the original C).
type Char struct {
	head
	Val byte
}

type Int struct {
	head
	Val int64
}

type Float struct {
	head
	Val float64
}

func NewChar(c byte) *Char    { return &Char{head: head{refcount: 1}, Val: c} }
func NewInt(i int64) *Int     { return &Int{head: head{refcount: 1}, Val: i} }
func NewFloat(f float64) *Float { return &Float{head: head{refcount: 1}, Val: f} }

func (c *Char) Kind() Kind  { return KindChar }
func (i *Int) Kind() Kind   { return KindInt }
func (f *Float) Kind() Kind { return KindFloat }

func (c *Char) String() string  { return string(rune(c.Val)) }
func (i *Int) String() string   { return strconv.FormatInt(i.Val, 10) }
func (f *Float) String() string { return strconv.FormatFloat(f.Val, 'G', 15, 64) }

// AsInt converts any numeric value to int64, following str_to_int/obj_as_int
// truncation semantics (floats truncate toward zero).
func AsInt(v Value) int64 {
	switch n := v.(type) {
	case *Char:
		return int64(n.Val)
	case *Int:
		return n.Val
	case *Float:
		return int64(n.Val)
	}
	return 0
}

// AsFloat converts any numeric value to float64.
func AsFloat(v Value) float64 {
	switch n := v.(type) {
	case *Char:
		return float64(n.Val)
	case *Int:
		return float64(n.Val)
	case *Float:
		return n.Val
	}
	return 0
}

// AsBool reports the truth value of v: zero/empty is false, everything else
// true, matching obj_as_bool.
func AsBool(v Value) bool {
	switch n := v.(type) {
	case *Char:
		return n.Val != 0
	case *Int:
		return n.Val != 0
	case *Float:
		return n.Val != 0
	case *Str:
		return len(n.Val) != 0
	case *List:
		return n.Len() != 0
	case *None:
		return false
	}
	return true
}

// coerce determines the result kind of a binary arithmetic op between two
// numbers: FLOAT if either operand is FLOAT, else INT if either is INT, else
// CHAR. Ported from number.c's coerce().
func coerce(a, b Value) Kind {
	if a.Kind() == KindFloat || b.Kind() == KindFloat {
		return KindFloat
	}
	if a.Kind() == KindInt || b.Kind() == KindInt {
		return KindInt
	}
	return KindChar
}

func numberFromKind(k Kind, i int64, f float64) Value {
	switch k {
	case KindFloat:
		return NewFloat(f)
	case KindInt:
		return NewInt(i)
	default:
		return NewChar(byte(i))
	}
}

// NumberAdd, NumberSub, ... implement the arithmetic operator table from
// number.c, coercing both operands to the wider of their two kinds before
// combining them.
func NumberAdd(a, b Value) (Value, error) {
	k := coerce(a, b)
	if k == KindFloat {
		return numberFromKind(k, 0, AsFloat(a)+AsFloat(b)), nil
	}
	return numberFromKind(k, AsInt(a)+AsInt(b), 0), nil
}

func NumberSub(a, b Value) (Value, error) {
	k := coerce(a, b)
	if k == KindFloat {
		return numberFromKind(k, 0, AsFloat(a)-AsFloat(b)), nil
	}
	return numberFromKind(k, AsInt(a)-AsInt(b), 0), nil
}

func NumberMult(a, b Value) (Value, error) {
	k := coerce(a, b)
	if k == KindFloat {
		return numberFromKind(k, 0, AsFloat(a)*AsFloat(b)), nil
	}
	return numberFromKind(k, AsInt(a)*AsInt(b), 0), nil
}

// NumberDiv implements '/'. Per the original's zero-check (obj_as_int(op2)
// == 0), the right operand is tested after integer coercion even when the
// division itself is floating point, so 1.0 / 0.0 raises DivisionByZeroError
// rather than producing +Inf.
func NumberDiv(a, b Value) (Value, error) {
	if AsInt(b) == 0 {
		return nil, errors.New(errors.DivisionByZeroError, "")
	}
	k := coerce(a, b)
	if k == KindFloat {
		return numberFromKind(k, 0, AsFloat(a)/AsFloat(b)), nil
	}
	return numberFromKind(k, AsInt(a)/AsInt(b), 0), nil
}

// NumberMod implements '%'. Float operands are rejected outright — number.c's
// number_mod() calls error(ModNotAllowedError, ...) as soon as coerce() comes
// back FLOAT_T, rather than truncating either side to an integer.
func NumberMod(a, b Value) (Value, error) {
	k := coerce(a, b)
	if k == KindFloat {
		return nil, errors.New(errors.ModNotAllowedError, "%%")
	}
	if AsInt(b) == 0 {
		return nil, errors.New(errors.DivisionByZeroError, "")
	}
	return numberFromKind(k, AsInt(a)%AsInt(b), 0), nil
}

func compareNumbers(a, b Value) int {
	k := coerce(a, b)
	if k == KindFloat {
		af, bf := AsFloat(a), AsFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	ai, bi := AsInt(a), AsInt(b)
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) Value {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}

func NumberEql(a, b Value) (Value, error) { return boolInt(compareNumbers(a, b) == 0), nil }
func NumberNeq(a, b Value) (Value, error) { return boolInt(compareNumbers(a, b) != 0), nil }
func NumberLss(a, b Value) (Value, error) { return boolInt(compareNumbers(a, b) < 0), nil }
func NumberLeq(a, b Value) (Value, error) { return boolInt(compareNumbers(a, b) <= 0), nil }
func NumberGtr(a, b Value) (Value, error) { return boolInt(compareNumbers(a, b) > 0), nil }
func NumberGeq(a, b Value) (Value, error) { return boolInt(compareNumbers(a, b) >= 0), nil }

// NumberOr and NumberAnd are the non-short-circuiting logical operators: both
// arguments have already been fully evaluated by the caller before either
// function runs, matching number_or/number_and taking fully formed operands.
func NumberOr(a, b Value) (Value, error)  { return boolInt(AsBool(a) || AsBool(b)), nil }
func NumberAnd(a, b Value) (Value, error) { return boolInt(AsBool(a) && AsBool(b)), nil }

// NumberNegate implements unary '-'.
func NumberNegate(a Value) (Value, error) {
	switch a.Kind() {
	case KindFloat:
		return NewFloat(-AsFloat(a)), nil
	default:
		return NewInt(-AsInt(a)), nil
	}
}

// NumberInvert implements unary 'not', always producing an Int 0/1.
func NumberInvert(a Value) (Value, error) {
	return boolInt(!AsBool(a)), nil
}

// ParseIntLiteral / ParseFloatLiteral convert scanned number text, following
// str_to_int / str_to_float.
func ParseIntLiteral(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q", s)
	}
	return i, nil
}

func ParseFloatLiteral(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float literal %q", s)
	}
	return f, nil
}
