package html

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-elemgen/pkg/element"
)

const innerHTMLProp = "dangerouslySetInnerHTML"

var attributeAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

var skippedProps = map[string]struct{}{
	element.KeyProp: {},
	"children":      {},
	"ref":           {},
}

type attribute struct {
	name  string
	value string
	bare  bool
}

// attributes maps props to HTML attributes sorted by name and returns the
// sanitised inner markup when dangerouslySetInnerHTML is present.
func (w *writer) attributes(props element.Props, top bool) ([]attribute, *string, error) {
	var (
		attrs []attribute
		inner *string
	)

	var themed map[string]string
	if top && w.cfg.theme != nil {
		themed = make(map[string]string, 3)
		if style := cssVarsStyle(w.cfg.theme.CSSVars); style != "" {
			themed["style"] = style
		}
		if w.cfg.theme.Theme != "" {
			themed["data-theme"] = w.cfg.theme.Theme
		}
		if w.cfg.theme.Variant != "" {
			themed["data-theme-variant"] = w.cfg.theme.Variant
		}
	}

	for name, raw := range props {
		if _, skip := skippedProps[name]; skip {
			continue
		}
		if name == innerHTMLProp {
			markup, err := w.innerHTML(raw)
			if err != nil {
				return nil, nil, err
			}
			inner = &markup
			continue
		}
		if alias, ok := attributeAliases[name]; ok {
			name = alias
		}
		if !validAttributeName(name) {
			return nil, nil, fmt.Errorf("invalid attribute name %q", name)
		}

		value, bare, keep, err := attributeValue(name, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		if !keep {
			continue
		}
		if name == "style" && themed["style"] != "" {
			value = themed["style"] + " " + value
			delete(themed, "style")
		}
		if _, ok := themed[name]; ok && name != "style" {
			delete(themed, name)
		}
		attrs = append(attrs, attribute{name: name, value: value, bare: bare})
	}

	for name, value := range themed {
		attrs = append(attrs, attribute{name: name, value: value})
	}

	slices.SortFunc(attrs, func(a, b attribute) int {
		return strings.Compare(a.name, b.name)
	})
	return attrs, inner, nil
}

func (w *writer) innerHTML(raw any) (string, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		if props, isProps := raw.(element.Props); isProps {
			fields, ok = map[string]any(props), true
		}
	}
	if !ok {
		return "", errors.New(innerHTMLProp + " must be an object with an __html string")
	}
	markup, ok := fields["__html"].(string)
	if !ok {
		return "", errors.New(innerHTMLProp + " must be an object with an __html string")
	}
	return w.cfg.policy.Sanitize(markup), nil
}

// attributeValue reports the serialised value, whether the attribute renders
// bare, and whether it renders at all.
func attributeValue(name string, raw any) (string, bool, bool, error) {
	switch v := raw.(type) {
	case nil:
		return "", false, false, nil
	case bool:
		return "", true, v, nil
	case string:
		return v, false, true, nil
	case json.Number:
		return v.String(), false, true, nil
	case fmt.Stringer:
		return v.String(), false, true, nil
	}

	if text, ok := numberText(raw); ok {
		return text, false, true, nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan:
		return "", false, false, nil
	case reflect.Map:
		if name == "style" {
			if style, ok := raw.(map[string]any); ok {
				return styleString(style), false, true, nil
			}
		}
	case reflect.Slice, reflect.Array:
		if name == "class" {
			return classString(rv), false, true, nil
		}
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return "", false, false, err
	}
	return string(payload), false, true, nil
}

func styleString(style map[string]any) string {
	names := make([]string, 0, len(style))
	for name := range style {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := style[name]
		if value == nil {
			continue
		}
		text, ok := numberText(value)
		if !ok {
			text = fmt.Sprint(value)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, cssPropertyName(name)+": "+text+";")
	}
	return strings.Join(parts, " ")
}

// cssPropertyName converts camelCase style keys to CSS property names.
// Custom properties ("--brand") pass through.
func cssPropertyName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var sb strings.Builder
	for idx, r := range name {
		if unicode.IsUpper(r) {
			if idx > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func classString(rv reflect.Value) string {
	parts := make([]string, 0, rv.Len())
	for idx := 0; idx < rv.Len(); idx++ {
		item := rv.Index(idx).Interface()
		if item == nil {
			continue
		}
		if flag, ok := item.(bool); ok && !flag {
			continue
		}
		parts = append(parts, strings.Fields(fmt.Sprint(item))...)
	}
	return strings.Join(parts, " ")
}

func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for idx, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':', r == '@':
		case idx > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
