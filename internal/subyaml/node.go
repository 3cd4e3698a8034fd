package subyaml

import "fmt"

// Kind tags the variant held by a Node.
type Kind int

const (
	Mapping Kind = iota
	Sequence
	Scalar
)

func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	case Scalar:
		return "scalar"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one value of the parsed document: an ordered mapping, a sequence
// or a scalar leaf (string, int64 or bool).
type Node struct {
	Kind Kind

	keys   []string
	fields map[string]*Node
	items  []*Node
	value  any

	// placeholder is set on the empty mapping created for "key:" until the
	// next line decides whether it becomes a mapping or a sequence.
	placeholder bool
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: Mapping, fields: map[string]*Node{}}
}

// NewSequence returns a sequence node holding items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: Sequence, items: items}
}

// NewScalar returns a scalar leaf.
func NewScalar(v any) *Node {
	return &Node{Kind: Scalar, value: v}
}

func newPlaceholder() *Node {
	n := NewMapping()
	n.placeholder = true
	return n
}

// Set assigns key on a mapping, keeping first-insertion order for keys that
// are overwritten.
func (n *Node) Set(key string, v *Node) {
	if n.Kind != Mapping {
		return
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
	n.placeholder = false
}

// Get returns the value bound to key, or nil if n is not a mapping or the
// key is absent.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != Mapping {
		return nil
	}
	return n.fields[key]
}

// Keys returns the mapping keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != Mapping {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Items returns the elements of a sequence.
func (n *Node) Items() []*Node {
	if n == nil || n.Kind != Sequence {
		return nil
	}
	return n.items
}

// Append adds an element to a sequence.
func (n *Node) Append(v *Node) {
	if n.Kind != Sequence {
		return
	}
	n.items = append(n.items, v)
}

// Len is the number of keys of a mapping or items of a sequence.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case Mapping:
		return len(n.keys)
	case Sequence:
		return len(n.items)
	}
	return 0
}

// Last returns the last element of a sequence, or nil.
func (n *Node) Last() *Node {
	if n == nil || n.Kind != Sequence || len(n.items) == 0 {
		return nil
	}
	return n.items[len(n.items)-1]
}

// Value returns the scalar payload.
func (n *Node) Value() any {
	if n == nil || n.Kind != Scalar {
		return nil
	}
	return n.value
}

// Text returns a string scalar. Integers and booleans are formatted.
func (n *Node) Text() (string, bool) {
	switch v := n.Value().(type) {
	case string:
		return v, true
	case int64:
		return fmt.Sprint(v), true
	case bool:
		return fmt.Sprint(v), true
	}
	return "", false
}

// Bool returns a boolean scalar.
func (n *Node) Bool() (bool, bool) {
	b, ok := n.Value().(bool)
	return b, ok
}

// Int returns an integer scalar.
func (n *Node) Int() (int64, bool) {
	i, ok := n.Value().(int64)
	return i, ok
}

// IsContainer reports whether n is a mapping or a sequence.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == Mapping || n.Kind == Sequence)
}

// promote turns an unfilled placeholder mapping into an empty sequence. The
// node keeps its identity, so the parent binding stays valid.
func (n *Node) promote() error {
	if n.Kind == Sequence {
		return nil
	}
	if !n.placeholder || len(n.keys) > 0 {
		return fmt.Errorf("cannot turn %s with %d entries into a sequence", n.Kind, n.Len())
	}
	n.Kind = Sequence
	n.fields = nil
	n.keys = nil
	n.placeholder = false
	return nil
}

// Interface converts the tree to plain Go values: map[string]any,
// []any and scalars.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Mapping:
		m := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.fields[k].Interface()
		}
		return m
	case Sequence:
		s := make([]any, 0, len(n.items))
		for _, it := range n.items {
			s = append(s, it.Interface())
		}
		return s
	}
	return n.value
}
