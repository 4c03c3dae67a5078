package element

import (
	"fmt"
	"strings"
)

// Component is an opaque reference to a host component type. The converter
// never calls into it; it only hands the reference to the element factory.
type Component interface {
	ComponentName() string
}

// Type is a resolved element type: either a registered component or a
// primitive tag passed straight to the factory.
type Type struct {
	Tag       string
	Component Component
}

// Tag returns a primitive element type.
func Tag(name string) Type {
	return Type{Tag: name}
}

// Of returns a component element type. A nil component yields the zero Type.
func Of(component Component) Type {
	return Type{Component: component}
}

// IsComponent reports whether the type references a registered component.
func (t Type) IsComponent() bool {
	return t.Component != nil
}

// Name returns the tag or the component name.
func (t Type) Name() string {
	if t.Component != nil {
		return t.Component.ComponentName()
	}
	return t.Tag
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if t.Component != nil {
		return "<" + t.Component.ComponentName() + ">"
	}
	return t.Tag
}

// KeyProp is the props entry carrying element identity.
const KeyProp = "key"

// Props are the attributes handed to the factory.
type Props map[string]any

// Clone returns a shallow copy. A nil receiver returns nil.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for key, value := range p {
		out[key] = value
	}
	return out
}

// Key returns the identity token stored under "key" when it is set to a
// non-empty value.
func (p Props) Key() (string, bool) {
	if p == nil {
		return "", false
	}
	raw, ok := p[KeyProp]
	if !ok || raw == nil {
		return "", false
	}
	var key string
	switch v := raw.(type) {
	case string:
		key = v
	default:
		key = fmt.Sprint(v)
	}
	if strings.TrimSpace(key) == "" {
		return "", false
	}
	return key, true
}

// Element is the value produced by the default factory.
type Element struct {
	Type     Type
	Key      string
	Props    Props
	Children []any
}

// Factory builds a rendered value from a resolved type, props and children.
// children is nil when the schema declared none. Implementations may return
// any value; the converter treats it as opaque.
type Factory func(typ Type, props Props, children []any) any

// Create is the default Factory. It lifts "key" out of props onto
// Element.Key and copies props so the element does not alias caller data.
func Create(typ Type, props Props, children []any) any {
	el := &Element{Type: typ, Children: children}
	if key, ok := props.Key(); ok {
		el.Key = key
	}
	if len(props) > 0 {
		el.Props = make(Props, len(props))
		for name, value := range props {
			if name == KeyProp {
				continue
			}
			el.Props[name] = value
		}
		if len(el.Props) == 0 {
			el.Props = nil
		}
	}
	return el
}

// Text concatenates the string and numeric leaves below value in document
// order.
func Text(value any) string {
	var sb strings.Builder
	appendText(&sb, value)
	return sb.String()
}

func appendText(sb *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
	case string:
		sb.WriteString(v)
	case *Element:
		if v == nil {
			return
		}
		for _, child := range v.Children {
			appendText(sb, child)
		}
	case []any:
		for _, item := range v {
			appendText(sb, item)
		}
	default:
		sb.WriteString(fmt.Sprint(v))
	}
}
