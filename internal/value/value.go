// Package value implements the tagged value system described in object.h of
// the original interpreter: a small family of concrete kinds sharing a
// reference count, with a central dispatch table of operations rather than
// per-type virtual methods. Every operation below takes borrowed operands
// (the caller still owns them) and returns a newly created value with a
// refcount of one; the caller is responsible for releasing both the operands
// and, eventually, the result.
package value

// Kind identifies which concrete value a Value holds.
type Kind int

const (
	Undefined Kind = iota
	KindChar
	KindInt
	KindFloat
	KindStr
	KindList
	KindListNode
	KindPosition
	KindNone
)

func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindListNode:
		return "listnode"
	case KindPosition:
		return "position"
	case KindNone:
		return "none"
	default:
		return "undefined"
	}
}

// Value is satisfied by every concrete value kind. Position is defined
// outside this package (in internal/lexer, which owns reader/scanner state)
// but also implements Value — its refcount methods must therefore be
// exported, since Go only matches unexported interface methods within the
// declaring package.
type Value interface {
	Kind() Kind
	Refcount() int
	IncRef()
	DecRef() bool // reports whether the refcount reached zero
	String() string
}

// head is embedded by every concrete value kind to provide the shared
// refcount bookkeeping, mirroring OBJ_HEAD in object.h.
type head struct {
	refcount int
}

func (h *head) Refcount() int { return h.refcount }
func (h *head) IncRef()       { h.refcount++ }
func (h *head) DecRef() bool {
	h.refcount--
	return h.refcount <= 0
}

// Incref increases v's refcount by one and returns v, for chaining at call
// sites that hand out a borrowed value as an owned one (obj_incref).
func Incref(v Value) Value {
	if v != nil {
		v.IncRef()
	}
	return v
}

// Decref releases a reference to v. Composite values (List) release their
// children in turn when their own count reaches zero.
func Decref(v Value) {
	if v == nil {
		return
	}
	if v.DecRef() {
		if r, ok := v.(releaser); ok {
			r.release()
		}
	}
}

// releaser is implemented by composite values that must release the values
// they hold once their own refcount drops to zero.
type releaser interface {
	release()
}

// IsNumber reports whether v is one of the three numeric kinds.
func IsNumber(v Value) bool {
	switch v.Kind() {
	case KindChar, KindInt, KindFloat:
		return true
	}
	return false
}

// IsSequence reports whether v supports length/item/slice (list or string).
func IsSequence(v Value) bool {
	switch v.Kind() {
	case KindList, KindStr:
		return true
	}
	return false
}

