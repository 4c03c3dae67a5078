package convert

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-elemgen/pkg/element"
	"github.com/goliatone/go-elemgen/pkg/keys"
	"github.com/goliatone/go-elemgen/pkg/registry"
	"github.com/goliatone/go-elemgen/pkg/schema"
)

const msgMaxDepth = "schema nesting exceeds max depth"

// Option customises a conversion.
type Option func(*config)

type config struct {
	keys     *keys.Generator
	maxDepth int
	logger   *slog.Logger
}

// WithKeys supplies the generator used for fallback keys. Without it every
// Convert call starts a fresh generator, so keys are deterministic per call.
func WithKeys(gen *keys.Generator) Option {
	return func(cfg *config) {
		if gen != nil {
			cfg.keys = gen
		}
	}
}

// WithMaxDepth rejects schemas nested deeper than depth levels. Zero disables
// the limit.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth >= 0 {
			cfg.maxDepth = depth
		}
	}
}

// WithLogger routes debug traces (component resolution, minted keys) to
// logger. The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.keys == nil {
		cfg.keys = keys.New()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// Convert turns value into factory calls, resolving base types through
// resolver. A nil value yields nil; leaves yield their raw string or number;
// nodes yield whatever factory returns. A nil resolver treats every base type
// as a primitive tag and a nil factory defaults to element.Create.
//
// Errors abort the whole conversion; no partial result is returned.
func Convert(resolver registry.Resolver, factory element.Factory, value schema.Value, options ...Option) (any, error) {
	cfg := newConfig(options)
	run := &session{
		resolver: resolver,
		factory:  factory,
		config:   cfg,
	}
	if run.factory == nil {
		run.factory = element.Create
	}
	return run.value(value, "", 1)
}

// ConvertRaw decodes raw with schema.Decode and converts the result.
func ConvertRaw(resolver registry.Resolver, factory element.Factory, raw any, options ...Option) (any, error) {
	value, err := schema.Decode(raw)
	if err != nil {
		return nil, err
	}
	return Convert(resolver, factory, value, options...)
}

type session struct {
	resolver registry.Resolver
	factory  element.Factory
	config
}

func (s *session) value(value schema.Value, path string, depth int) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case schema.Leaf:
		if schema.IsFalsy(v.Raw) {
			return nil, nil
		}
		if !v.IsText() && !schema.IsNumber(v.Raw) {
			return nil, schema.NewShapeError(path, v.Raw, "")
		}
		return v.Raw, nil
	case schema.Rendered:
		return v.Value, nil
	case *schema.Node:
		if v == nil {
			return nil, nil
		}
		return s.node(v, path, depth)
	default:
		return nil, schema.NewShapeError(path, value, "")
	}
}

func (s *session) node(node *schema.Node, path string, depth int) (any, error) {
	if s.maxDepth > 0 && depth > s.maxDepth {
		return nil, &schema.ValidationError{Path: path, Message: msgMaxDepth}
	}
	if err := node.ValidateAt(path); err != nil {
		return nil, err
	}

	baseType := strings.TrimSpace(node.BaseType)
	typ := s.resolve(baseType)
	if typ.IsComponent() {
		s.logger.Debug("convert: resolved component", "baseType", baseType, "path", path)
	}

	var children []any
	if node.Children != nil {
		children = make([]any, len(node.Children))
		for idx, child := range node.Children {
			converted, err := s.value(child, childPath(path, idx), depth+1)
			if err != nil {
				return nil, err
			}
			children[idx] = converted
		}
	}

	props := element.Props(node.Props).Clone()
	if props == nil {
		props = make(element.Props, 1)
	}
	if _, ok := props.Key(); !ok {
		key := node.Key
		if key == "" {
			key = s.keys.Next()
			s.logger.Debug("convert: minted fallback key", "key", key, "baseType", baseType)
		}
		props[element.KeyProp] = key
	}

	return s.factory(typ, props, children), nil
}

func (s *session) resolve(baseType string) element.Type {
	if s.resolver == nil {
		return element.Tag(baseType)
	}
	typ := s.resolver.Resolve(baseType)
	if typ.Component == nil && typ.Tag == "" {
		return element.Tag(baseType)
	}
	return typ
}

func childPath(path string, idx int) string {
	if path == "" {
		return fmt.Sprintf("children[%d]", idx)
	}
	return fmt.Sprintf("%s.children[%d]", path, idx)
}
