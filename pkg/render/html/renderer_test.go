package html

import (
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-elemgen/pkg/element"
)

func el(tag string, props element.Props, children ...any) any {
	return element.Create(element.Tag(tag), props, children)
}

func TestRender_Basics(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "text is escaped", value: "a < b & c", want: "a &lt; b &amp; c"},
		{name: "float", value: 42.0, want: "42"},
		{name: "int", value: 7, want: "7"},
		{name: "booleans render nothing", value: []any{true, false}, want: ""},
		{
			name: "nested tree",
			value: el("div", element.Props{"className": "hero", "key": "root"},
				"Hello & <world>", 42.0, nil, false, el("span", nil)),
			want: `<div class="hero">Hello &amp; &lt;world&gt;42<span></span></div>`,
		},
		{
			name:  "sequence",
			value: []any{el("p", nil, "one"), el("p", nil, "two")},
			want:  "<p>one</p><p>two</p>",
		},
		{
			name:  "void element ignores children",
			value: el("br", nil, "ignored"),
			want:  "<br>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Render(tc.value)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("render mismatch\nwant: %q\n got: %q", tc.want, got)
			}
		})
	}
}

func TestRender_Attributes(t *testing.T) {
	t.Parallel()

	value := []any{
		el("label", element.Props{"htmlFor": "name"}, "Name"),
		el("input", element.Props{
			"type":     "text",
			"disabled": true,
			"readOnly": false,
			"onClick":  func() {},
			"value":    3.5,
			"title":    `say "hi"`,
			"ref":      "ignored",
		}),
	}

	got, err := Render(value)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<label for="name">Name</label><input disabled title="say &#34;hi&#34;" type="text" value="3.5">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRender_StyleAndClassLists(t *testing.T) {
	t.Parallel()

	value := el("div", element.Props{
		"className": []any{"a", nil, false, "b  c"},
		"style": map[string]any{
			"backgroundColor": "red",
			"--gap":           "4px",
			"zIndex":          2,
			"color":           nil,
		},
		"data-config": map[string]any{"a": 1},
	})

	got, err := Render(value)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div class="a b c" data-config="{&#34;a&#34;:1}" style="--gap: 4px; background-color: red; z-index: 2;"></div>`
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRender_InnerHTMLIsSanitised(t *testing.T) {
	t.Parallel()

	value := el("div", element.Props{
		"dangerouslySetInnerHTML": map[string]any{
			"__html": `<p onclick="steal()">hi</p><script>alert(1)</script>`,
		},
	}, "children are replaced")

	got, err := Render(value)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<div><p>hi</p></div>" {
		t.Fatalf("unexpected sanitised output %q", got)
	}

	strict, err := Render(value, WithPolicy(bluemonday.StrictPolicy()))
	if err != nil {
		t.Fatalf("render strict: %v", err)
	}
	if strict != "<div>hi</div>" {
		t.Fatalf("unexpected strict output %q", strict)
	}

	_, err = Render(el("div", element.Props{"dangerouslySetInnerHTML": "<b>raw</b>"}))
	if err == nil || !strings.Contains(err.Error(), "__html") {
		t.Fatalf("expected shape error for raw string, got %v", err)
	}
}

type expander struct {
	name string
	fn   func(props element.Props, children []any) (any, error)
}

func (e expander) ComponentName() string { return e.name }
func (e expander) Expand(props element.Props, children []any) (any, error) {
	return e.fn(props, children)
}

type selfRendering struct{}

func (selfRendering) ComponentName() string { return "Card" }
func (selfRendering) RenderHTML(props element.Props, children string) (string, error) {
	return `<x-card title="` + props["title"].(string) + `">` + children + `</x-card>`, nil
}

type opaque struct{}

func (opaque) ComponentName() string { return "Widget" }

func TestRender_Components(t *testing.T) {
	t.Parallel()

	button := expander{name: "Button", fn: func(props element.Props, children []any) (any, error) {
		return element.Create(element.Tag("button"), element.Props{"className": "btn " + props["variant"].(string)}, children), nil
	}}

	value := element.Create(element.Of(selfRendering{}), element.Props{"title": "T", "key": "c"}, []any{
		element.Create(element.Of(button), element.Props{"variant": "primary"}, []any{"Go <now>"}),
		element.Create(element.Of(opaque{}), element.Props{"id": "w"}, nil),
	})

	got, err := Render(value)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<x-card title="T"><button class="btn primary">Go &lt;now&gt;</button><Widget id="w"></Widget></x-card>`
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRender_ExpansionLimit(t *testing.T) {
	t.Parallel()

	var loop expander
	loop = expander{name: "Loop", fn: func(props element.Props, children []any) (any, error) {
		return element.Create(element.Of(loop), props, children), nil
	}}

	_, err := Render(element.Create(element.Of(loop), nil, nil), WithMaxExpansion(5))
	if err == nil || !strings.Contains(err.Error(), "max expansion depth 5") {
		t.Fatalf("expected expansion limit error, got %v", err)
	}
}

func TestRender_ExpanderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := expander{name: "Fails", fn: func(element.Props, []any) (any, error) {
		return nil, boom
	}}

	_, err := Render(el("div", nil, element.Create(element.Of(failing), nil, nil)))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped expander error, got %v", err)
	}
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "invalid tag", value: el("di v", nil), want: "invalid tag name"},
		{name: "invalid attribute", value: el("div", element.Props{`x"y`: "1"}), want: "invalid attribute name"},
		{name: "unsupported value", value: struct{}{}, want: "unsupported rendered value"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Render(tc.value)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRender_Theme(t *testing.T) {
	t.Parallel()

	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":    "#111111",
			"space.sm": "4px",
		},
		Assets: theme.Assets{
			Prefix: "/assets/acme",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#222222"},
			},
		},
	}

	cfg := ThemeConfig(manifest, "dark")
	if cfg.CSSVars["--brand"] != "#222222" {
		t.Fatalf("variant token not applied: %+v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/acme/theme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}

	value := el("main", element.Props{"style": map[string]any{"color": "red"}}, el("p", nil, "x"))
	got, err := Render(value, WithTheme(cfg))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<main data-theme="acme" data-theme-variant="dark" style="--brand: #222222; --space-sm: 4px; color: red;"><p>x</p></main>`
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}

	base := ThemeConfig(manifest, "")
	if base.CSSVars["--brand"] != "#111111" {
		t.Fatalf("expected base token without variant, got %+v", base.CSSVars)
	}
	if ThemeConfig(nil, "dark") != nil {
		t.Fatalf("expected nil config for nil manifest")
	}
}

func TestRenderTo(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if err := RenderTo(&sb, el("em", nil, "hi")); err != nil {
		t.Fatalf("render to: %v", err)
	}
	if sb.String() != "<em>hi</em>" {
		t.Fatalf("unexpected output %q", sb.String())
	}
	if err := RenderTo(nil, "x"); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestCSSPropertyName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"color":           "color",
		"backgroundColor": "background-color",
		"WebkitTransform": "webkit-transform",
		"--brand":         "--brand",
	}
	for in, want := range cases {
		if got := cssPropertyName(in); got != want {
			t.Fatalf("cssPropertyName(%q) = %q, want %q", in, got, want)
		}
	}
}
