package components

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-elemgen/pkg/element"
	rendertemplate "github.com/goliatone/go-elemgen/pkg/render/template"
)

// Template is a component rendered by a TemplateRenderer. Templates receive
// "props" (defaults merged under the element props, key removed) and
// "children" (the children pre-rendered to HTML; output it with the safe
// filter).
type Template struct {
	name     string
	template string
	source   string
	defaults map[string]any
	renderer rendertemplate.TemplateRenderer
}

// TemplateOption customises a template component.
type TemplateOption func(*Template)

// WithTemplateName renders the named template (resolved by the renderer).
func WithTemplateName(name string) TemplateOption {
	return func(t *Template) {
		t.template = strings.TrimSpace(name)
	}
}

// WithSource renders inline template content.
func WithSource(source string) TemplateOption {
	return func(t *Template) {
		t.source = source
	}
}

// WithDefaults supplies props applied when the element does not set them.
func WithDefaults(defaults map[string]any) TemplateOption {
	return func(t *Template) {
		if len(defaults) == 0 {
			return
		}
		t.defaults = make(map[string]any, len(defaults))
		for key, value := range defaults {
			t.defaults[key] = value
		}
	}
}

// NewTemplate returns a template component. Exactly one of WithTemplateName or
// WithSource must be supplied.
func NewTemplate(name string, renderer rendertemplate.TemplateRenderer, options ...TemplateOption) (*Template, error) {
	tpl := &Template{name: strings.TrimSpace(name), renderer: renderer}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(tpl)
	}

	switch {
	case tpl.name == "":
		return nil, errors.New("components: template component name is required")
	case renderer == nil:
		return nil, fmt.Errorf("components: template component %s has no renderer", tpl.name)
	case tpl.template == "" && strings.TrimSpace(tpl.source) == "":
		return nil, fmt.Errorf("components: template component %s needs a template or a source", tpl.name)
	case tpl.template != "" && tpl.source != "":
		return nil, fmt.Errorf("components: template component %s sets both template and source", tpl.name)
	}
	return tpl, nil
}

// ComponentName implements element.Component.
func (t *Template) ComponentName() string {
	return t.name
}

// RenderHTML renders the component with pre-rendered children markup.
func (t *Template) RenderHTML(props element.Props, children string) (string, error) {
	data := map[string]any{
		"name":     t.name,
		"props":    t.props(props),
		"children": children,
	}

	var (
		out string
		err error
	)
	if t.source != "" {
		out, err = t.renderer.RenderString(t.source, data)
	} else {
		out, err = t.renderer.RenderTemplate(t.template, data)
	}
	if err != nil {
		return "", fmt.Errorf("components: render %s: %w", t.name, err)
	}
	return out, nil
}

func (t *Template) props(props element.Props) map[string]any {
	out := make(map[string]any, len(t.defaults)+len(props))
	for key, value := range t.defaults {
		out[key] = value
	}
	for key, value := range props {
		if key == element.KeyProp {
			continue
		}
		out[key] = value
	}
	return out
}
