package render

import (
	"context"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-elemgen/pkg/render/html"
	"github.com/goliatone/go-elemgen/pkg/render/markdown"
)

// Built-in renderer names.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// NewDefaultRegistry returns a registry holding the HTML, Markdown and JSON
// renderers.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(HTML())
	reg.MustRegister(Markdown())
	reg.MustRegister(JSON())
	return reg
}

// HTML renders trees as HTML fragments.
func HTML() Renderer { return htmlRenderer{} }

// Markdown renders trees to HTML and converts the markup to Markdown.
func Markdown() Renderer { return markdownRenderer{} }

// JSON encodes trees with the element JSON shape
// ({type, component, key, props, children}).
func JSON() Renderer { return jsonRenderer{} }

type htmlRenderer struct{}

func (htmlRenderer) Name() string        { return FormatHTML }
func (htmlRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (htmlRenderer) Render(ctx context.Context, tree any, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := html.Render(tree, options.htmlOptions()...)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

type markdownRenderer struct{}

func (markdownRenderer) Name() string        { return FormatMarkdown }
func (markdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

func (markdownRenderer) Render(ctx context.Context, tree any, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := markdown.Render(tree, options.htmlOptions()...)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

type jsonRenderer struct{}

func (jsonRenderer) Name() string        { return FormatJSON }
func (jsonRenderer) ContentType() string { return "application/json" }

func (jsonRenderer) Render(ctx context.Context, tree any, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if options.Indent != "" {
		return json.MarshalIndent(tree, "", options.Indent)
	}
	return json.Marshal(tree)
}
