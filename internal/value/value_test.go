package value

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/exin-lang/exin/internal/errors"
)

func TestRefcountLifecycle(t *testing.T) {
	n := NewInt(5)
	if n.Refcount() != 1 {
		t.Fatalf("new value refcount = %d, want 1", n.Refcount())
	}
	Incref(n)
	if n.Refcount() != 2 {
		t.Fatalf("after Incref refcount = %d, want 2", n.Refcount())
	}
	Decref(n)
	if n.Refcount() != 1 {
		t.Fatalf("after one Decref refcount = %d, want 1", n.Refcount())
	}
}

func TestListReleaseDecrefsChildren(t *testing.T) {
	child := NewInt(42)
	l := NewList()
	l.Append(child) // Append takes its own reference via NewListNode

	if child.Refcount() != 2 {
		t.Fatalf("child refcount after append = %d, want 2", child.Refcount())
	}
	Decref(l) // refcount drops to 0, release() walks nodes and decrefs child
	if child.Refcount() != 1 {
		t.Fatalf("child refcount after list release = %d, want 1", child.Refcount())
	}
}

func TestNumberCoercionAndArithmetic(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want string
	}{
		{"int+int", NewInt(2), NewInt(3), "5"},
		{"int+float coerces to float", NewInt(2), NewFloat(0.5), "2.5"},
		{"char+int coerces to int", NewChar('A'), NewInt(1), "66"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Add(c.a, c.b)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if got.String() != c.want {
				t.Errorf("Add(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestNumberDivByZero(t *testing.T) {
	_, err := NumberDiv(NewInt(1), NewInt(0))
	if err == nil {
		t.Fatal("expected DivisionByZeroError, got nil")
	}
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.DivisionByZeroError {
		t.Fatalf("expected DivisionByZeroError, got %# v", pretty.Formatter(err))
	}
}

func TestNumberModRejectsFloatOperands(t *testing.T) {
	_, err := NumberMod(NewFloat(5.0), NewFloat(2.0))
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.ModNotAllowedError {
		t.Fatalf("expected ModNotAllowedError for float %%, got %v", err)
	}

	_, err = NumberMod(NewInt(5), NewFloat(2.0))
	re, ok = err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.ModNotAllowedError {
		t.Fatalf("expected ModNotAllowedError when either operand is float, got %v", err)
	}
}

func TestNumberModIntTruncatingRemainder(t *testing.T) {
	got, err := NumberMod(NewInt(7), NewInt(2))
	if err != nil {
		t.Fatalf("NumberMod: %v", err)
	}
	if got.String() != "1" {
		t.Errorf("7 %% 2 = %s, want 1", got)
	}
}

func TestNumberModByZero(t *testing.T) {
	_, err := NumberMod(NewInt(1), NewInt(0))
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.DivisionByZeroError {
		t.Fatalf("expected DivisionByZeroError, got %v", err)
	}
}

func TestNumberDivFloatZeroStillChecksIntTruncation(t *testing.T) {
	// 1.0 / 0.0 must still raise, not produce +Inf, because the zero check
	// truncates the divisor to an int before testing it.
	_, err := NumberDiv(NewFloat(1.0), NewFloat(0.0))
	if err == nil {
		t.Fatal("expected DivisionByZeroError for float division by zero")
	}
}

func TestStrConcatAndRepeat(t *testing.T) {
	s, err := StrConcat(NewStr("ab"), NewInt(3))
	if err != nil {
		t.Fatalf("StrConcat: %v", err)
	}
	if s.String() != "ab3" {
		t.Errorf("StrConcat(ab, 3) = %q, want %q", s, "ab3")
	}

	r, err := StrRepeat(NewStr("xy"), 3)
	if err != nil {
		t.Fatalf("StrRepeat: %v", err)
	}
	if r.String() != "xyxyxy" {
		t.Errorf("StrRepeat = %q, want %q", r, "xyxyxy")
	}

	neg, err := StrRepeat(NewStr("xy"), -1)
	if err != nil {
		t.Fatalf("StrRepeat negative: %v", err)
	}
	if neg.String() != "" {
		t.Errorf("StrRepeat with negative count = %q, want empty", neg)
	}
}

func TestStrItemNegativeIndex(t *testing.T) {
	s := NewStr("hello")
	c, ok := StrItem(s, -1)
	if !ok || c.String() != "o" {
		t.Fatalf("StrItem(-1) = %v, %v, want 'o', true", c, ok)
	}
	_, ok = StrItem(s, 10)
	if ok {
		t.Fatal("StrItem(10) should be out of range")
	}
}

func TestStrSliceClamping(t *testing.T) {
	s := NewStr("hello")
	got := StrSlice(s, -3, 100)
	if got.String() != "llo" {
		t.Errorf("StrSlice(-3,100) = %q, want %q", got, "llo")
	}
}

func TestListInsertRemoveItem(t *testing.T) {
	l := NewList()
	l.Append(NewInt(1))
	l.Append(NewInt(2))
	l.Append(NewInt(3))

	l.Insert(-1, NewInt(99)) // before the last element
	if got := l.String(); got != "[1,2,99,3]" {
		t.Fatalf("after Insert(-1, 99) = %s, want [1,2,99,3]", got)
	}

	removed, ok := l.Remove(1)
	if !ok || removed.String() != "2" {
		t.Fatalf("Remove(1) = %v, %v, want 2, true", removed, ok)
	}
	if got := l.String(); got != "[1,99,3]" {
		t.Errorf("after Remove(1) = %s, want [1,99,3]", got)
	}

	node, ok := l.Item(-1)
	if !ok || node.Obj.String() != "3" {
		t.Fatalf("Item(-1) = %v, %v, want 3, true", node, ok)
	}
}

func TestListEqlElementwise(t *testing.T) {
	a := NewList()
	a.Append(NewInt(1))
	a.Append(NewStr("x"))

	b := NewList()
	b.Append(NewInt(1))
	b.Append(NewStr("x"))

	eq, err := ListEql(a, b)
	if err != nil {
		t.Fatalf("ListEql: %v", err)
	}
	if !AsBool(eq) {
		t.Errorf("expected equal lists to compare equal:\n%s", pretty.Sprint(a))
	}

	b.Append(NewInt(2))
	eq, err = ListEql(a, b)
	if err != nil {
		t.Fatalf("ListEql: %v", err)
	}
	if AsBool(eq) {
		t.Error("expected differently-sized lists to compare unequal")
	}
}

func TestCopyDeepCopiesLists(t *testing.T) {
	inner := NewList()
	inner.Append(NewInt(1))

	copied := Copy(inner).(*List)
	copied.Append(NewInt(2))

	if inner.Len() != 1 {
		t.Errorf("original list mutated by appending to its copy: len=%d", inner.Len())
	}
	if copied.Len() != 2 {
		t.Errorf("copy did not receive the append: len=%d", copied.Len())
	}
}

func TestInMembership(t *testing.T) {
	l := NewList()
	l.Append(NewInt(1))
	l.Append(NewInt(2))

	found, err := In(NewInt(2), l)
	if err != nil || !AsBool(found) {
		t.Errorf("In(2, [1,2]) = %v, %v, want true", found, err)
	}

	found, err = In(NewStr("ell"), NewStr("hello"))
	if err != nil || !AsBool(found) {
		t.Errorf("In(ell, hello) = %v, %v, want true", found, err)
	}
}

func TestItemOutOfRangeRaisesIndexError(t *testing.T) {
	l := NewList()
	l.Append(NewInt(1))
	_, err := Item(l, 5)
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.IndexError {
		t.Fatalf("expected IndexError, got %v", err)
	}
}
