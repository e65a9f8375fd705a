package value

// None is the singular absence-of-value result, produced by statements that
// have no meaningful return (none.c). Printed and converted to text in
// lowercase, per the specification's §4.1 wording — the original C's
// none_print agrees ("none"); only its obj_to_strobj path capitalizes it,
// which this port does not replicate.
type None struct {
	head
}

var singletonNone = &None{head: head{refcount: 1}}

// NewNone returns the shared None value with its refcount bumped.
func NewNone() *None {
	singletonNone.IncRef()
	return singletonNone
}

func (n *None) Kind() Kind     { return KindNone }
func (n *None) String() string { return "none" }
