package loader

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-elemgen/pkg/schema"
)

// Document wraps a parsed schema payload and its origin.
type Document struct {
	source Source
	format Format
	raw    []byte
	value  any
}

// NewDocument parses raw using the format implied by the source location and
// returns the wrapped document.
func NewDocument(src Source, raw []byte, options ...Option) (Document, error) {
	cfg := newConfig(options)
	return cfg.document(src, raw)
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte, options ...Option) Document {
	doc, err := NewDocument(src, raw, options...)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format reports how the payload was parsed.
func (d Document) Format() Format {
	return d.format
}

// Raw returns a copy of the payload bytes.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Value returns the generic parsed payload (maps, slices, scalars).
func (d Document) Value() any {
	return d.value
}

// Decode validates the payload and returns a *schema.Node for a single node
// document or []schema.Value for a list document, ready for
// elemgen.Converter.Convert.
func (d Document) Decode() (any, error) {
	if d.value == nil {
		return nil, errors.New("loader: document is empty")
	}
	if _, ok := schema.AsSequence(d.value); ok {
		values, err := schema.DecodeList(d.value)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", d.Location(), err)
		}
		return values, nil
	}
	value, err := schema.Decode(d.value)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", d.Location(), err)
	}
	return value, nil
}

// IsList reports whether the document holds a sequence of nodes.
func (d Document) IsList() bool {
	_, ok := schema.AsSequence(d.value)
	return ok
}
