// dispatch.go implements the central, kind-switched operator table the
// specification's design notes ask for in place of the original's per-type
// vtable of function pointers (TYPE_HEAD/TypeObject in object.h): one
// function per operator, switching on the concrete Go type of its operands,
// rather than a struct of function pointers attached to each value.
package value

import (
	"github.com/exin-lang/exin/internal/errors"
)

func bothNumbers(a, b Value) bool { return IsNumber(a) && IsNumber(b) }

// Add implements '+'. Numbers add arithmetically; if either operand is a
// string the other is converted to text and concatenated (str_concat); two
// lists concatenate into a new list (list_concat). Any other combination is
// a TypeError.
func Add(a, b Value) (Value, error) {
	switch {
	case bothNumbers(a, b):
		return NumberAdd(a, b)
	case a.Kind() == KindStr || b.Kind() == KindStr:
		return StrConcat(a, b)
	case a.Kind() == KindList && b.Kind() == KindList:
		return ListConcat(a.(*List), b.(*List)), nil
	default:
		return nil, errors.New(errors.TypeError, "unsupported operand types for +: %s and %s", a.Kind(), b.Kind())
	}
}

// Sub implements binary '-', numbers only.
func Sub(a, b Value) (Value, error) {
	if !bothNumbers(a, b) {
		return nil, errors.New(errors.TypeError, "unsupported operand types for -: %s and %s", a.Kind(), b.Kind())
	}
	return NumberSub(a, b)
}

// Mult implements '*'. Numbers multiply; a (string|list, int) pair repeats
// the sequence (str_repeat/list_repeat).
func Mult(a, b Value) (Value, error) {
	switch {
	case bothNumbers(a, b):
		return NumberMult(a, b)
	case a.Kind() == KindStr && IsNumber(b):
		return StrRepeat(a.(*Str), AsInt(b))
	case b.Kind() == KindStr && IsNumber(a):
		return StrRepeat(b.(*Str), AsInt(a))
	case a.Kind() == KindList && IsNumber(b):
		return ListRepeat(a.(*List), AsInt(b)), nil
	case b.Kind() == KindList && IsNumber(a):
		return ListRepeat(b.(*List), AsInt(a)), nil
	default:
		return nil, errors.New(errors.TypeError, "unsupported operand types for *: %s and %s", a.Kind(), b.Kind())
	}
}

func Div(a, b Value) (Value, error) {
	if !bothNumbers(a, b) {
		return nil, errors.New(errors.TypeError, "unsupported operand types for /: %s and %s", a.Kind(), b.Kind())
	}
	return NumberDiv(a, b)
}

func Mod(a, b Value) (Value, error) {
	if !bothNumbers(a, b) {
		return nil, errors.New(errors.TypeError, "unsupported operand types for %%: %s and %s", a.Kind(), b.Kind())
	}
	return NumberMod(a, b)
}

// Eql implements '=='. Numbers coerce and compare by value; strings compare
// by content; lists compare elementwise; two Nones are equal; any other
// combination is unequal.
func Eql(a, b Value) (Value, error) {
	switch {
	case bothNumbers(a, b):
		return NumberEql(a, b)
	case a.Kind() == KindStr && b.Kind() == KindStr:
		return StrEql(a.(*Str), b.(*Str))
	case a.Kind() == KindList && b.Kind() == KindList:
		return ListEql(a.(*List), b.(*List))
	case a.Kind() == KindNone && b.Kind() == KindNone:
		return boolInt(true), nil
	default:
		return boolInt(false), nil
	}
}

// Neq implements '!=' (and its '<>' synonym).
func Neq(a, b Value) (Value, error) {
	eq, err := Eql(a, b)
	if err != nil {
		return nil, err
	}
	return boolInt(!AsBool(eq)), nil
}

func cmpStrings(a, b *Str) int {
	switch {
	case a.Val < b.Val:
		return -1
	case a.Val > b.Val:
		return 1
	default:
		return 0
	}
}

func relational(name string, a, b Value, numOp func(Value, Value) (Value, error), strCmp func(int) bool) (Value, error) {
	switch {
	case bothNumbers(a, b):
		return numOp(a, b)
	case a.Kind() == KindStr && b.Kind() == KindStr:
		return boolInt(strCmp(cmpStrings(a.(*Str), b.(*Str)))), nil
	default:
		return nil, errors.New(errors.TypeError, "unsupported operand types for %s: %s and %s", name, a.Kind(), b.Kind())
	}
}

func Lss(a, b Value) (Value, error) {
	return relational("<", a, b, NumberLss, func(c int) bool { return c < 0 })
}
func Leq(a, b Value) (Value, error) {
	return relational("<=", a, b, NumberLeq, func(c int) bool { return c <= 0 })
}
func Gtr(a, b Value) (Value, error) {
	return relational(">", a, b, NumberGtr, func(c int) bool { return c > 0 })
}
func Geq(a, b Value) (Value, error) {
	return relational(">=", a, b, NumberGeq, func(c int) bool { return c >= 0 })
}

// Or and And are the non-short-circuiting boolean operators (§9 Open
// Question 1): the caller must have already evaluated both a and b before
// calling these.
func Or(a, b Value) (Value, error)  { return NumberOr(a, b) }
func And(a, b Value) (Value, error) { return NumberAnd(a, b) }

// In implements membership testing: iterate the right operand's items and
// compare each with '==' (obj_in). An empty list yields false rather than
// the original C's ambiguous NULL result; for a string right operand the
// test is substring search, so the empty string is in every string.
func In(needle, haystack Value) (Value, error) {
	switch h := haystack.(type) {
	case *List:
		for _, n := range h.Nodes {
			eq, err := Eql(needle, n.Obj)
			if err != nil {
				return nil, err
			}
			if AsBool(eq) {
				return boolInt(true), nil
			}
		}
		return boolInt(false), nil
	case *Str:
		s, ok := needle.(*Str)
		if !ok {
			if c, ok := needle.(*Char); ok {
				s = NewStr(string(rune(c.Val)))
			} else {
				return nil, errors.New(errors.TypeError, "'in' requires a str or char left operand for a str right operand")
			}
		}
		for i := 0; i+len(s.Val) <= len(h.Val); i++ {
			if h.Val[i:i+len(s.Val)] == s.Val {
				return boolInt(true), nil
			}
		}
		if s.Val == "" {
			return boolInt(true), nil
		}
		return boolInt(false), nil
	default:
		return nil, errors.New(errors.TypeError, "argument of type %s is not iterable", haystack.Kind())
	}
}

// Negate implements unary '-'.
func Negate(a Value) (Value, error) {
	if !IsNumber(a) {
		return nil, errors.New(errors.TypeError, "bad operand type for unary -: %s", a.Kind())
	}
	return NumberNegate(a)
}

// Invert implements unary 'not', defined for every kind via AsBool.
func Invert(a Value) (Value, error) {
	return NumberInvert(a)
}

// Length implements len()/.len for sequences.
func Length(v Value) (int64, error) {
	switch s := v.(type) {
	case *Str:
		return StrLength(s), nil
	case *List:
		return s.Len(), nil
	default:
		return 0, errors.New(errors.TypeError, "object of type %s has no length", v.Kind())
	}
}

// Item implements subscripting v[index]. For a List the ListNode itself is
// returned so assignment can mutate through it; for a Str a Char is
// returned (strings are immutable, so there is nothing to mutate through).
func Item(v Value, index int64) (Value, error) {
	switch s := v.(type) {
	case *Str:
		c, ok := StrItem(s, index)
		if !ok {
			return nil, errors.New(errors.IndexError, "")
		}
		return c, nil
	case *List:
		n, ok := s.Item(index)
		if !ok {
			return nil, errors.New(errors.IndexError, "")
		}
		return n, nil
	default:
		return nil, errors.New(errors.TypeError, "%s is not subscriptable", v.Kind())
	}
}

// Slice implements v[start:end].
func Slice(v Value, start, end int64) (Value, error) {
	switch s := v.(type) {
	case *Str:
		return StrSlice(s, start, end), nil
	case *List:
		return s.Slice(start, end), nil
	default:
		return nil, errors.New(errors.TypeError, "%s is not subscriptable", v.Kind())
	}
}
