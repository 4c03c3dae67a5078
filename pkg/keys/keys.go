// Package keys mints identity tokens for converted elements.
package keys

import (
	"strconv"
	"sync/atomic"
)

// DefaultPrefix is prepended to every fallback key.
const DefaultPrefix = "s2r-"

// Option customises a Generator.
type Option func(*Generator)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		g.prefix = prefix
	}
}

// Generator produces sequential fallback keys. Next is safe for concurrent
// use; keys from one generator are unique for its lifetime.
type Generator struct {
	prefix  string
	counter atomic.Uint64
}

// New constructs a generator starting at zero, so the first key is
// "<prefix>1".
func New(options ...Option) *Generator {
	g := &Generator{prefix: DefaultPrefix}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

var process = New()

// Default returns the process-wide generator. Keys minted through it are
// unique across the whole run but not stable across runs.
func Default() *Generator {
	return process
}

// Next pre-increments the counter and returns the formatted key.
func (g *Generator) Next() string {
	n := g.counter.Add(1)
	return g.prefix + strconv.FormatUint(n, 10)
}

// Count returns how many keys have been minted since creation or Reset.
func (g *Generator) Count() uint64 {
	return g.counter.Load()
}

// Reset rewinds the counter. Keys minted afterwards may repeat earlier ones.
func (g *Generator) Reset() {
	g.counter.Store(0)
}

// Prefix reports the configured prefix.
func (g *Generator) Prefix() string {
	return g.prefix
}

// Positional returns the key used for the element at index within a
// top-level sequence.
func Positional(index int) string {
	return "." + strconv.Itoa(index)
}
