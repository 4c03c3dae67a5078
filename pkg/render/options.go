package render

import (
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-elemgen/pkg/render/html"
)

// RenderOptions describe per-call presentation settings shared by the
// built-in renderers. Renderers ignore fields that do not apply to them.
type RenderOptions struct {
	// Theme decorates top-level HTML elements with token CSS variables and
	// data-theme attributes. Build it with html.ThemeConfig.
	Theme *theme.RendererConfig
	// Policy replaces the sanitiser applied to dangerouslySetInnerHTML.
	Policy *bluemonday.Policy
	// MaxExpansion bounds nested component expansion; zero keeps the default.
	MaxExpansion int
	// Indent controls JSON indentation. Empty emits compact JSON.
	Indent string
}

func (o RenderOptions) htmlOptions() []html.Option {
	var out []html.Option
	if o.Theme != nil {
		out = append(out, html.WithTheme(o.Theme))
	}
	if o.Policy != nil {
		out = append(out, html.WithPolicy(o.Policy))
	}
	if o.MaxExpansion > 0 {
		out = append(out, html.WithMaxExpansion(o.MaxExpansion))
	}
	return out
}
