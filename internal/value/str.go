package value

import "strings"

// Str is an immutable byte-string value (obj_as_str/str.c).
type Str struct {
	head
	Val string
}

func NewStr(s string) *Str { return &Str{head: head{refcount: 1}, Val: s} }

func (s *Str) Kind() Kind     { return KindStr }
func (s *Str) String() string { return s.Val }

// AsStr converts any value to its textual representation (obj_to_strobj),
// used when a non-string operand is concatenated with '+' onto a string.
func AsStr(v Value) string {
	if s, ok := v.(*Str); ok {
		return s.Val
	}
	return v.String()
}

// StrConcat implements '+' when either operand is a string: the other
// operand is converted to text first (str_concat).
func StrConcat(a, b Value) (Value, error) {
	return NewStr(AsStr(a) + AsStr(b)), nil
}

// StrRepeat implements '*' between a string and an integer count
// (str_repeat); a negative count yields the empty string.
func StrRepeat(s *Str, times int64) (Value, error) {
	if times < 0 {
		times = 0
	}
	return NewStr(strings.Repeat(s.Val, int(times))), nil
}

func StrEql(a, b *Str) (Value, error) { return boolInt(a.Val == b.Val), nil }
func StrNeq(a, b *Str) (Value, error) { return boolInt(a.Val != b.Val), nil }

// StrLength returns the number of bytes in s (length()/str_length).
func StrLength(s *Str) int64 { return int64(len(s.Val)) }

// StrItem returns the Char at index, supporting negative indices counting
// from the end (str_item). ok is false on out-of-range index.
func StrItem(s *Str, index int64) (Value, bool) {
	n := int64(len(s.Val))
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return nil, false
	}
	return NewChar(s.Val[index]), true
}

// StrSlice returns the substring [start,end) after clamping both bounds to
// the valid range, matching str_slice's adjustment rules.
func StrSlice(s *Str, start, end int64) Value {
	n := int64(len(s.Val))
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end >= n {
		end = n
	}
	if end < start {
		end = start
	}
	return NewStr(s.Val[start:end])
}
