package value

// ListNode is a mutable handle onto one cell of a List. Subscripting a list
// (xs[i]) yields the ListNode itself rather than a copy, so "xs[i] = v"
// can mutate the list in place by reassigning the node's Obj — the same
// indirection list.c gives the vtable's .item operation.
type ListNode struct {
	head
	Obj Value
}

func NewListNode(v Value) *ListNode {
	return &ListNode{head: head{refcount: 1}, Obj: Incref(v)}
}

func (n *ListNode) Kind() Kind     { return KindListNode }
func (n *ListNode) String() string { return n.Obj.String() }

// Set replaces the value a ListNode refers to, releasing the old one
// (listnode_set).
func (n *ListNode) Set(v Value) {
	Decref(n.Obj)
	n.Obj = Incref(v)
}

func (n *ListNode) release() {
	Decref(n.Obj)
}

// List is an ordered, mutable sequence of ListNodes (list.c). Unlike the
// original's hand-rolled doubly linked list, the Go port keeps nodes in a
// slice — insert/remove/append shift the backing array, which is the
// idiomatic Go equivalent the teacher's own Array type (Elements []Value)
// uses for the same role.
type List struct {
	head
	Nodes []*ListNode
}

func NewList() *List {
	return &List{head: head{refcount: 1}}
}

func (l *List) Kind() Kind     { return KindList }
func (l *List) Len() int64     { return int64(len(l.Nodes)) }

func (l *List) String() string {
	s := "["
	for i, n := range l.Nodes {
		if i > 0 {
			s += ","
		}
		s += n.Obj.String()
	}
	return s + "]"
}

func (l *List) release() {
	for _, n := range l.Nodes {
		Decref(n)
	}
}

// Append adds v to the end of the list (list_append_object).
func (l *List) Append(v Value) {
	l.Nodes = append(l.Nodes, NewListNode(v))
}

// resolveIndex converts a possibly-negative logical index to an absolute
// slice index by adding the length to a negative index. It does not clamp:
// Insert clamps the result to [0, len], Item and Remove reject it when it
// is out of range.
func resolveIndex(index, length int64) int64 {
	if index < 0 {
		index += length
	}
	return index
}

// Insert places v before position index (negative counts from the end,
// -1 meaning "before the last node"), clamped to the list's bounds
// (list_insert_object).
func (l *List) Insert(index int64, v Value) {
	idx := resolveIndex(index, l.Len())
	if idx < 0 {
		idx = 0
	}
	if idx > l.Len() {
		idx = l.Len()
	}
	node := NewListNode(v)
	l.Nodes = append(l.Nodes, nil)
	copy(l.Nodes[idx+1:], l.Nodes[idx:])
	l.Nodes[idx] = node
}

// Remove deletes and returns the node at index (list_remove_object). ok is
// false if index is out of range.
func (l *List) Remove(index int64) (Value, bool) {
	idx := resolveIndex(index, l.Len())
	if idx < 0 || idx >= l.Len() {
		return nil, false
	}
	node := l.Nodes[idx]
	l.Nodes = append(l.Nodes[:idx], l.Nodes[idx+1:]...)
	v := node.Obj
	Incref(v)
	Decref(node)
	return v, true
}

// Item returns the ListNode at index, or nil if out of range (list_item).
func (l *List) Item(index int64) (*ListNode, bool) {
	idx := resolveIndex(index, l.Len())
	if idx < 0 || idx >= l.Len() {
		return nil, false
	}
	return l.Nodes[idx], true
}

// Slice builds a new, deep-copied list from [start,end) (list_slice).
func (l *List) Slice(start, end int64) *List {
	n := l.Len()
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 {
		start = 0
	}
	if end >= n {
		end = n
	}
	out := NewList()
	for i := start; i < end; i++ {
		out.Append(Copy(l.Nodes[i].Obj))
	}
	return out
}

// ListConcat builds a new list containing a's elements followed by b's
// (list_concat), deep-copying every element.
func ListConcat(a, b *List) Value {
	out := NewList()
	for _, n := range a.Nodes {
		out.Append(Copy(n.Obj))
	}
	for _, n := range b.Nodes {
		out.Append(Copy(n.Obj))
	}
	return out
}

// ListRepeat builds a new list containing s's elements repeated n times
// (list_repeat).
func ListRepeat(s *List, times int64) Value {
	out := NewList()
	if times < 0 {
		times = 0
	}
	for i := int64(0); i < times; i++ {
		for _, n := range s.Nodes {
			out.Append(Copy(n.Obj))
		}
	}
	return out
}

// ListEql implements list equality by elementwise comparison (list_cmp):
// equal length and every element Eql.
func ListEql(a, b *List) (Value, error) {
	if a.Len() != b.Len() {
		return boolInt(false), nil
	}
	for i, n := range a.Nodes {
		eq, err := Eql(n.Obj, b.Nodes[i].Obj)
		if err != nil {
			return nil, err
		}
		if !AsBool(eq) {
			return boolInt(false), nil
		}
	}
	return boolInt(true), nil
}

func ListNeq(a, b *List) (Value, error) {
	eq, err := ListEql(a, b)
	if err != nil {
		return nil, err
	}
	return boolInt(!AsBool(eq)), nil
}

// Copy performs obj_copy: numbers/strings/none are immutable and copying
// just increments the refcount and returns the same value; lists are deep
// copied (list_set's semantics) so that "ys = xs" never aliases mutable
// state.
func Copy(v Value) Value {
	if l, ok := v.(*List); ok {
		out := NewList()
		for _, n := range l.Nodes {
			out.Append(Copy(n.Obj))
		}
		return out
	}
	return Incref(v)
}
