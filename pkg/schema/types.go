package schema

import (
	"strings"
)

// Value is a validated schema position. The concrete types are Leaf, *Node and
// Rendered; a nil Value stands for an absent schema and converts to nil.
type Value interface {
	isValue()
}

// Leaf holds literal text content: a string or a Go numeric value. Leaves are
// never expanded and convert to Raw unchanged.
type Leaf struct {
	Raw any
}

func (Leaf) isValue() {}

// Text returns a string leaf.
func Text(s string) Leaf {
	return Leaf{Raw: s}
}

// Number returns a numeric leaf. Non-numeric inputs are stored as-is; Decode
// is the validating entry point.
func Number(n any) Leaf {
	return Leaf{Raw: n}
}

// IsText reports whether the leaf carries a string.
func (l Leaf) IsText() bool {
	_, ok := l.Raw.(string)
	return ok
}

// Rendered wraps a value the caller already resolved (for example an element
// built by hand). The converter passes it through untouched.
type Rendered struct {
	Value any
}

func (Rendered) isValue() {}

// Node describes one element. BaseType names a registered component or a
// primitive tag. A nil Children slice means the node declares no children; a
// non-nil empty slice means children were declared but empty.
type Node struct {
	BaseType string
	Props    map[string]any
	Children []Value
	Key      string
}

func (*Node) isValue() {}

// Validate re-checks a node built outside of Decode. It does not modify the
// receiver.
func (n *Node) Validate() error {
	return n.ValidateAt("")
}

// ValidateAt is Validate with the node's location reported on failure.
func (n *Node) ValidateAt(path string) error {
	if n == nil {
		return nil
	}
	if strings.TrimSpace(n.BaseType) == "" {
		return &ValidationError{Path: path, Field: fieldBaseType, Message: msgBaseType}
	}
	return nil
}

// Normalized returns a shallow copy with BaseType trimmed. Props and Children
// are copied so callers can mutate the result freely.
func (n *Node) Normalized() *Node {
	if n == nil {
		return nil
	}
	out := n.Clone()
	out.BaseType = strings.TrimSpace(out.BaseType)
	return out
}

// Clone copies the node, its props map and its children slice. Nested nodes
// are cloned recursively; leaf and rendered values are shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		BaseType: n.BaseType,
		Key:      n.Key,
		Props:    cloneProps(n.Props),
	}
	if n.Children != nil {
		out.Children = make([]Value, len(n.Children))
		for idx, child := range n.Children {
			if nested, ok := child.(*Node); ok {
				out.Children[idx] = nested.Clone()
				continue
			}
			out.Children[idx] = child
		}
	}
	return out
}

func cloneProps(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
