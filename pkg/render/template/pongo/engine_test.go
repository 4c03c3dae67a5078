package pongo_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-elemgen/pkg/render/template/pongo"
	"github.com/goliatone/go-elemgen/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngine_RenderComponentContext(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("card", map[string]any{
		"props":    map[string]any{"classes": []any{"card", "", "wide"}},
		"children": "<p>body</p>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "card.golden"))
	if result != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"site": map[string]any{"title": "  Docs  "},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}

	if err := engine.RegisterFilter(" ", nil); err == nil {
		t.Fatalf("expected error for empty filter registration")
	}
}

func TestEngine_InlineOnly(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.Render("<b>{{ props.label }}</b>", map[string]any{
		"props": map[string]any{"label": "<go>"},
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "<b>&lt;go&gt;</b>" {
		t.Fatalf("expected escaped output, got %q", got)
	}

	if _, err := engine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("expected error rendering a named template without sources")
	}
}

func TestEngine_ParseError(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEngine_StructData(t *testing.T) {
	engine, err := pongo.New(pongo.WithGlobalData(map[string]any{"greeting": "Hi"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type payload struct {
		Name string `json:"name"`
	}
	got, err := engine.RenderString("{{ greeting }} {{ name }}", payload{Name: "Lin"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "Hi Lin" {
		t.Fatalf("unexpected output %q", got)
	}
}

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := pongo.New(pongo.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
