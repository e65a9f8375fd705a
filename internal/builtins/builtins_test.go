package builtins_test

import (
	"testing"

	"github.com/exin-lang/exin/internal/builtins"
	"github.com/exin-lang/exin/internal/config"
	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/module"
	"github.com/exin-lang/exin/internal/value"
)

func newInterp(t *testing.T) *interp.Interp {
	t.Helper()
	loader := module.NewLoader()
	m := loader.LoadSource("<test>", "\n\n")
	it := interp.New(config.Default(), loader, m)
	builtins.RegisterAll(it)
	return it
}

func call(t *testing.T, it *interp.Interp, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := it.Builtins[name]
	if !ok {
		t.Fatalf("builtin %q was not registered", name)
	}
	return fn(it, args)
}

func TestTypeReturnsKindName(t *testing.T) {
	it := newInterp(t)
	got, err := call(t, it, "type", value.NewInt(1))
	if err != nil {
		t.Fatalf("type(): %v", err)
	}
	if got.String() != "int" {
		t.Errorf("type(1) = %q, want int", got)
	}
}

func TestChrAndOrdRoundTrip(t *testing.T) {
	it := newInterp(t)
	c, err := call(t, it, "chr", value.NewInt(65))
	if err != nil {
		t.Fatalf("chr(65): %v", err)
	}
	if c.String() != "A" {
		t.Fatalf("chr(65) = %q, want A", c)
	}

	back, err := call(t, it, "ord", c)
	if err != nil {
		t.Fatalf("ord('A'): %v", err)
	}
	if value.AsInt(back) != 65 {
		t.Errorf("ord('A') = %d, want 65", value.AsInt(back))
	}
}

func TestOrdRejectsMultiCharacterString(t *testing.T) {
	it := newInterp(t)
	_, err := call(t, it, "ord", value.NewStr("ab"))
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.ValueError {
		t.Fatalf("expected ValueError for ord() of a multi-character string, got %v", err)
	}
}

func TestUpperLower(t *testing.T) {
	it := newInterp(t)
	up, err := call(t, it, "upper", value.NewStr("MixedCase"))
	if err != nil || up.String() != "MIXEDCASE" {
		t.Errorf("upper(MixedCase) = %v, %v, want MIXEDCASE", up, err)
	}
	low, err := call(t, it, "lower", value.NewStr("MixedCase"))
	if err != nil || low.String() != "mixedcase" {
		t.Errorf("lower(MixedCase) = %v, %v, want mixedcase", low, err)
	}
}

func TestCoreBuiltinsRejectWrongArgCount(t *testing.T) {
	it := newInterp(t)
	_, err := call(t, it, "type")
	if err == nil {
		t.Error("type() with no arguments should fail")
	}
	_, err = call(t, it, "chr", value.NewInt(1), value.NewInt(2))
	if err == nil {
		t.Error("chr() with two arguments should fail")
	}
}

func TestClockIsMonotonicNonNegative(t *testing.T) {
	it := newInterp(t)
	first, err := call(t, it, "clock")
	if err != nil {
		t.Fatalf("clock(): %v", err)
	}
	second, err := call(t, it, "clock")
	if err != nil {
		t.Fatalf("clock(): %v", err)
	}
	if value.AsFloat(first) < 0 || value.AsFloat(second) < value.AsFloat(first) {
		t.Errorf("clock() should be non-negative and non-decreasing, got %v then %v", first, second)
	}
}

func TestDBRoundTripAgainstInMemorySQLite(t *testing.T) {
	it := newInterp(t)

	if _, err := call(t, it, "db_connect", value.NewStr("main"), value.NewStr("sqlite"), value.NewStr(":memory:")); err != nil {
		t.Fatalf("db_connect: %v", err)
	}
	defer call(t, it, "db_close", value.NewStr("main"))

	if _, err := call(t, it, "db_exec", value.NewStr("main"), value.NewStr("create table t (id integer, name text)")); err != nil {
		t.Fatalf("db_exec create: %v", err)
	}
	n, err := call(t, it, "db_exec", value.NewStr("main"), value.NewStr("insert into t values (1, 'a'), (2, 'b')"))
	if err != nil {
		t.Fatalf("db_exec insert: %v", err)
	}
	if value.AsInt(n) != 2 {
		t.Errorf("rows affected = %d, want 2", value.AsInt(n))
	}

	rows, err := call(t, it, "db_query", value.NewStr("main"), value.NewStr("select id, name from t order by id"))
	if err != nil {
		t.Fatalf("db_query: %v", err)
	}
	list, ok := rows.(*value.List)
	if !ok || list.Len() != 2 {
		t.Fatalf("db_query returned %v, want a 2-row list", rows)
	}
	first, _ := list.Item(0)
	if first.Obj.String() != "[1,a]" {
		t.Errorf("first row = %v, want [1,a]", first.Obj)
	}
}

func TestDBQueryAgainstUnknownConnectionIsValueError(t *testing.T) {
	it := newInterp(t)
	_, err := call(t, it, "db_query", value.NewStr("nope"), value.NewStr("select 1"))
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.ValueError {
		t.Fatalf("expected ValueError for an unknown connection id, got %v", err)
	}
}

func TestNetRecvOnUnknownHandleIsValueError(t *testing.T) {
	it := newInterp(t)
	_, err := call(t, it, "net_ws_recv", value.NewInt(999))
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.ValueError {
		t.Fatalf("expected ValueError for an unknown websocket handle, got %v", err)
	}
}

func TestNetSendRejectsNonNumericHandle(t *testing.T) {
	it := newInterp(t)
	_, err := call(t, it, "net_ws_send", value.NewStr("not-a-handle"), value.NewStr("hi"))
	re, ok := err.(*errors.RuntimeError)
	if !ok || re.Kind != errors.TypeError {
		t.Fatalf("expected TypeError for a non-numeric handle, got %v", err)
	}
}
