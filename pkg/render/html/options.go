package html

import (
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxExpansion bounds nested component expansion.
const DefaultMaxExpansion = 64

// Option customises the renderer.
type Option func(*config)

type config struct {
	policy       *bluemonday.Policy
	theme        *theme.RendererConfig
	maxExpansion int
}

// WithPolicy sanitises dangerouslySetInnerHTML markup with policy instead of
// the default UGC policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithTheme emits the theme's CSS variables and name on every top-level
// element.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithMaxExpansion limits how many Expander components may nest before
// rendering fails.
func WithMaxExpansion(depth int) Option {
	return func(cfg *config) {
		if depth > 0 {
			cfg.maxExpansion = depth
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{maxExpansion: DefaultMaxExpansion}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.policy == nil {
		cfg.policy = defaultPolicy()
	}
	return cfg
}
