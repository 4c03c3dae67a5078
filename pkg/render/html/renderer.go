package html

import (
	"errors"
	"fmt"
	stdhtml "html"
	"io"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-elemgen/pkg/element"
)

// Expander is implemented by components that expand into another rendered
// value (see components.Func).
type Expander interface {
	Expand(props element.Props, children []any) (any, error)
}

// HTMLComponent is implemented by components that render their own markup
// from props and pre-rendered children (see components.Template). Their
// output is written verbatim.
type HTMLComponent interface {
	RenderHTML(props element.Props, children string) (string, error)
}

// Renderer serialises rendered values produced by element.Create.
type Renderer struct {
	cfg config
}

// New constructs a Renderer applying any provided options.
func New(options ...Option) *Renderer {
	return &Renderer{cfg: newConfig(options)}
}

// Render returns the markup for value: an *element.Element, a string or
// number, a slice of those, or nil.
func (r *Renderer) Render(value any) (string, error) {
	w := &writer{cfg: &r.cfg}
	if err := w.value(value, true, 0); err != nil {
		return "", err
	}
	return w.sb.String(), nil
}

// RenderTo writes the markup for value to out. Nothing is written when
// rendering fails.
func (r *Renderer) RenderTo(out io.Writer, value any) error {
	if out == nil {
		return errors.New("html: writer is nil")
	}
	markup, err := r.Render(value)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, markup)
	return err
}

// Render is shorthand for New(options...).Render(value).
func Render(value any, options ...Option) (string, error) {
	return New(options...).Render(value)
}

// RenderTo is shorthand for New(options...).RenderTo(out, value).
func RenderTo(out io.Writer, value any, options ...Option) error {
	return New(options...).RenderTo(out, value)
}

type writer struct {
	cfg *config
	sb  strings.Builder
}

func (w *writer) value(value any, top bool, expansion int) error {
	switch v := value.(type) {
	case nil, bool:
		return nil
	case string:
		w.sb.WriteString(stdhtml.EscapeString(v))
		return nil
	case []any:
		for _, item := range v {
			if err := w.value(item, top, expansion); err != nil {
				return err
			}
		}
		return nil
	case *element.Element:
		if v == nil {
			return nil
		}
		return w.element(v, top, expansion)
	case element.Element:
		return w.element(&v, top, expansion)
	case json.Number:
		w.sb.WriteString(v.String())
		return nil
	}
	if text, ok := numberText(value); ok {
		w.sb.WriteString(text)
		return nil
	}
	return fmt.Errorf("html: unsupported rendered value %T", value)
}

func (w *writer) element(el *element.Element, top bool, expansion int) error {
	if !el.Type.IsComponent() {
		tag := strings.TrimSpace(el.Type.Tag)
		if !validTagName(tag) {
			return fmt.Errorf("html: invalid tag name %q", tag)
		}
		return w.tag(tag, el.Props, el.Children, top, expansion)
	}

	name := el.Type.Name()
	switch component := el.Type.Component.(type) {
	case Expander:
		if expansion >= w.cfg.maxExpansion {
			return fmt.Errorf("html: component %s exceeds max expansion depth %d", name, w.cfg.maxExpansion)
		}
		expanded, err := component.Expand(el.Props.Clone(), el.Children)
		if err != nil {
			return fmt.Errorf("html: expand %s: %w", name, err)
		}
		return w.value(expanded, top, expansion+1)
	case HTMLComponent:
		children, err := w.fragment(el.Children, expansion)
		if err != nil {
			return err
		}
		markup, err := component.RenderHTML(el.Props.Clone(), children)
		if err != nil {
			return fmt.Errorf("html: render %s: %w", name, err)
		}
		w.sb.WriteString(markup)
		return nil
	default:
		if !validTagName(name) {
			return fmt.Errorf("html: component name %q is not a valid element name", name)
		}
		return w.tag(name, el.Props, el.Children, top, expansion)
	}
}

func (w *writer) tag(tag string, props element.Props, children []any, top bool, expansion int) error {
	attrs, inner, err := w.attributes(props, top)
	if err != nil {
		return fmt.Errorf("html: <%s>: %w", tag, err)
	}

	w.sb.WriteByte('<')
	w.sb.WriteString(tag)
	for _, attr := range attrs {
		w.sb.WriteByte(' ')
		w.sb.WriteString(attr.name)
		if attr.bare {
			continue
		}
		w.sb.WriteString(`="`)
		w.sb.WriteString(stdhtml.EscapeString(attr.value))
		w.sb.WriteByte('"')
	}
	w.sb.WriteByte('>')

	if isVoid(tag) {
		return nil
	}
	if inner != nil {
		w.sb.WriteString(*inner)
	} else {
		for _, child := range children {
			if err := w.value(child, false, expansion); err != nil {
				return err
			}
		}
	}
	w.sb.WriteString("</")
	w.sb.WriteString(tag)
	w.sb.WriteByte('>')
	return nil
}

func (w *writer) fragment(children []any, expansion int) (string, error) {
	sub := &writer{cfg: w.cfg}
	for _, child := range children {
		if err := sub.value(child, false, expansion); err != nil {
			return "", err
		}
	}
	return sub.sb.String(), nil
}

func numberText(value any) (string, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "source": {}, "track": {}, "wbr": {},
}

func isVoid(tag string) bool {
	_, ok := voidElements[strings.ToLower(tag)]
	return ok
}

func validTagName(name string) bool {
	if name == "" {
		return false
	}
	for idx, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case idx > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.' || r == '_'):
		default:
			return false
		}
	}
	return true
}
