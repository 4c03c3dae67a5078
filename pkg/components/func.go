package components

import (
	"errors"
	"strings"

	"github.com/goliatone/go-elemgen/pkg/element"
)

// ExpandFunc expands a component's props and converted children into another
// rendered value, usually an *element.Element tree.
type ExpandFunc func(props element.Props, children []any) (any, error)

// Func is a component implemented by a Go function.
type Func struct {
	name   string
	expand ExpandFunc
}

// NewFunc returns a function component registered under name.
func NewFunc(name string, expand ExpandFunc) (*Func, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("components: func component name is required")
	}
	if expand == nil {
		return nil, errors.New("components: func component " + name + " has no expand function")
	}
	return &Func{name: name, expand: expand}, nil
}

// MustFunc panics when NewFunc fails.
func MustFunc(name string, expand ExpandFunc) *Func {
	fn, err := NewFunc(name, expand)
	if err != nil {
		panic(err)
	}
	return fn
}

// ComponentName implements element.Component.
func (f *Func) ComponentName() string {
	return f.name
}

// Expand calls the wrapped function with a copy of props.
func (f *Func) Expand(props element.Props, children []any) (any, error) {
	return f.expand(props.Clone(), children)
}
