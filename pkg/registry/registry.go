package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-elemgen/pkg/element"
)

// Resolver maps a trimmed base type to an element type. Implementations fall
// back to element.Tag(name) for names they do not know.
type Resolver interface {
	Resolve(name string) element.Type
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) element.Type

// Resolve calls fn(name).
func (fn ResolverFunc) Resolve(name string) element.Type {
	if fn == nil {
		return element.Tag(name)
	}
	return fn(name)
}

// Registry tracks component references keyed by name. Names are trimmed but
// compared case-sensitively, so "Button" and "button" are distinct. A nil
// *Registry is valid and resolves every name to a primitive tag.
type Registry struct {
	mu         sync.RWMutex
	components map[string]element.Component
}

var _ Resolver = (*Registry)(nil)

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]element.Component),
	}
}

// Static builds a registry from a name → component map.
func Static(components map[string]element.Component) (*Registry, error) {
	reg := New()
	for name, component := range components {
		if err := reg.Register(name, component); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register associates a component with the provided name. Existing entries are
// replaced.
func (r *Registry) Register(name string, component element.Component) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("registry: component name is required")
	}
	if component == nil {
		return fmt.Errorf("registry: component for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.components == nil {
		r.components = make(map[string]element.Component)
	}
	r.components[name] = component
	return nil
}

// MustRegister mirrors Register but panics on error, simplifying init-time
// wiring.
func (r *Registry) MustRegister(name string, component element.Component) {
	if err := r.Register(name, component); err != nil {
		panic(err)
	}
}

// Lookup fetches a component by name.
func (r *Registry) Lookup(name string) (element.Component, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	component, ok := r.components[normalize(name)]
	return component, ok
}

// Has reports whether a component is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Resolve returns the registered component for name, or the trimmed name as a
// primitive tag when nothing is registered.
func (r *Registry) Resolve(name string) element.Type {
	name = normalize(name)
	if component, ok := r.Lookup(name); ok {
		return element.Of(component)
	}
	return element.Tag(name)
}

// Names returns a sorted slice of registered component names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len reports the number of registered components.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

// Clone returns a copy of the registry to allow isolated mutations. Component
// references are shared.
func (r *Registry) Clone() *Registry {
	cloned := New()
	if r == nil {
		return cloned
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, component := range r.components {
		cloned.components[name] = component
	}
	return cloned
}

// Merge copies every entry of other into r, replacing duplicates.
func (r *Registry) Merge(other *Registry) {
	if r == nil || other == nil || r == other {
		return
	}
	snapshot := other.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.components == nil {
		r.components = make(map[string]element.Component)
	}
	for name, component := range snapshot.components {
		r.components[name] = component
	}
}

func normalize(name string) string {
	return strings.TrimSpace(name)
}
