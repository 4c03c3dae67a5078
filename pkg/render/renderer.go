package render

import (
	"context"
)

// Renderer encodes a converted element tree into a byte representation
// (HTML, Markdown, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree any, options RenderOptions) ([]byte, error)
}
