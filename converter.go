package elemgen

import (
	"log/slog"
	"strconv"

	"github.com/goliatone/go-elemgen/pkg/convert"
	"github.com/goliatone/go-elemgen/pkg/element"
	"github.com/goliatone/go-elemgen/pkg/keys"
	"github.com/goliatone/go-elemgen/pkg/registry"
	"github.com/goliatone/go-elemgen/pkg/schema"
)

// DefaultContainerTag wraps sequence results when a list is not requested.
const DefaultContainerTag = "div"

const msgInput = "you must pass in an element object or an element array"

// Option customises the converter configuration.
type Option func(*Converter)

// WithFactory injects the element factory. Nil keeps element.Create.
func WithFactory(factory element.Factory) Option {
	return func(c *Converter) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// WithRegistry resolves base types through the supplied component registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Converter) {
		if reg != nil {
			c.registry = reg
			c.resolver = reg
		}
	}
}

// WithResolver installs a custom resolver, taking precedence over any
// registry configured earlier.
func WithResolver(resolver registry.Resolver) Option {
	return func(c *Converter) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithContainerTag overrides the tag used to wrap sequence results.
func WithContainerTag(tag string) Option {
	return func(c *Converter) {
		if tag != "" {
			c.container = tag
		}
	}
}

// WithKeyGenerator shares a key generator across converters. Pass
// keys.Default() for keys unique across the whole process.
func WithKeyGenerator(gen *keys.Generator) Option {
	return func(c *Converter) {
		if gen != nil {
			c.keys = gen
		}
	}
}

// WithKeyPrefix gives the converter its own generator using prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Converter) {
		c.keys = keys.New(keys.WithPrefix(prefix))
	}
}

// WithMaxDepth limits schema nesting. Zero disables the limit.
func WithMaxDepth(depth int) Option {
	return func(c *Converter) {
		c.maxDepth = depth
	}
}

// WithLogger routes conversion debug traces to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Converter accepts either a single schema node or an ordered sequence of
// nodes and turns them into element factory calls. It owns one key generator
// for its lifetime, so fallback keys never repeat across calls on the same
// converter. A Converter is safe for concurrent use provided the configured
// factory and resolver are.
type Converter struct {
	factory   element.Factory
	resolver  registry.Resolver
	registry  *registry.Registry
	container string
	keys      *keys.Generator
	maxDepth  int
	logger    *slog.Logger
}

// New constructs a Converter applying any provided options. Missing
// dependencies are initialised with the defaults: element.Create, an empty
// registry, a "div" container and a private key generator.
func New(options ...Option) *Converter {
	c := &Converter{
		factory:   element.Create,
		container: DefaultContainerTag,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.registry == nil {
		c.registry = registry.New()
	}
	if c.resolver == nil {
		c.resolver = c.registry
	}
	if c.keys == nil {
		c.keys = keys.New()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Registry returns the component registry backing the converter.
func (c *Converter) Registry() *registry.Registry {
	return c.registry
}

// Keys returns the converter's fallback key generator.
func (c *Converter) Keys() *keys.Generator {
	return c.keys
}

// Convert converts input, which must be a single node (a mapping, a
// schema.Node or *schema.Node) or a sequence of nodes.
//
// A single node returns the factory result, or a one-element []any when
// asList is set. A sequence assigns positional keys (".0", ".1", ...) to
// entries without one and returns []any when asList is set; otherwise the
// results become the children of a single container element.
func (c *Converter) Convert(input any, asList bool) (any, error) {
	if single, ok := singleNode(input); ok {
		value, err := c.one(single)
		if err != nil {
			return nil, err
		}
		if asList {
			return []any{value}, nil
		}
		return value, nil
	}

	items, ok := schema.AsSequence(input)
	if !ok {
		return nil, schema.NewShapeError("", input, msgInput)
	}

	results, err := c.sequence(items)
	if err != nil {
		return nil, err
	}
	if asList {
		return results, nil
	}
	return c.factory(element.Tag(c.container), nil, results), nil
}

// ConvertList is Convert(input, true) with the result typed as a slice.
func (c *Converter) ConvertList(input any) ([]any, error) {
	out, err := c.Convert(input, true)
	if err != nil {
		return nil, err
	}
	list, _ := out.([]any)
	return list, nil
}

// ConvertOne is Convert(input, false).
func (c *Converter) ConvertOne(input any) (any, error) {
	return c.Convert(input, false)
}

func (c *Converter) one(raw any) (any, error) {
	value, err := schema.Decode(raw)
	if err != nil {
		return nil, err
	}
	return convert.Convert(c.resolver, c.factory, value, c.convertOptions()...)
}

func (c *Converter) sequence(items []any) ([]any, error) {
	results := make([]any, len(items))
	for idx, item := range items {
		derived, err := positional(item, idx)
		if err != nil {
			return nil, err
		}
		value, err := convert.Convert(c.resolver, c.factory, derived, c.convertOptions()...)
		if err != nil {
			return nil, err
		}
		results[idx] = value
	}
	return results, nil
}

// positional decodes a sequence entry and seeds its props with the entry key,
// or the positional fallback. Entry props are merged on top and win.
func positional(item any, idx int) (*schema.Node, error) {
	value, err := schema.Decode(item)
	if err != nil {
		return nil, prefixPath(err, idx)
	}
	node, ok := value.(*schema.Node)
	if !ok || node == nil {
		return nil, &schema.ValidationError{
			Path:    indexLabel(idx),
			Field:   "baseType",
			Message: "baseType must be a non-empty string",
		}
	}

	key := node.Key
	if key == "" {
		key = keys.Positional(idx)
	}
	props := make(map[string]any, len(node.Props)+1)
	props[element.KeyProp] = key
	for name, v := range node.Props {
		props[name] = v
	}
	node.Props = props
	node.Key = key
	return node, nil
}

func prefixPath(err error, idx int) error {
	prefix := indexLabel(idx)
	switch e := err.(type) {
	case *schema.ValidationError:
		e.Path = joinIndexed(prefix, e.Path)
	case *schema.ShapeError:
		e.Path = joinIndexed(prefix, e.Path)
	}
	return err
}

func indexLabel(idx int) string {
	return "[" + strconv.Itoa(idx) + "]"
}

func joinIndexed(prefix, path string) string {
	if path == "" {
		return prefix
	}
	return prefix + "." + path
}

func (c *Converter) convertOptions() []convert.Option {
	return []convert.Option{
		convert.WithKeys(c.keys),
		convert.WithMaxDepth(c.maxDepth),
		convert.WithLogger(c.logger),
	}
}

func singleNode(input any) (any, bool) {
	if schema.IsFalsy(input) {
		return nil, false
	}
	switch v := input.(type) {
	case *schema.Node:
		return v, true
	case schema.Node:
		return v, true
	}
	if _, ok := schema.AsMapping(input); ok {
		return input, true
	}
	return nil, false
}

// Convert builds a throw-away Converter from options and converts input.
func Convert(input any, asList bool, options ...Option) (any, error) {
	return New(options...).Convert(input, asList)
}
