package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-elemgen/pkg/element"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tree := element.Create(element.Tag("article"), nil, []any{
		element.Create(element.Tag("h1"), nil, []any{"Title"}),
		element.Create(element.Tag("p"), nil, []any{
			"Some ",
			element.Create(element.Tag("strong"), nil, []any{"bold"}),
			" text.",
		}),
		element.Create(element.Tag("a"), element.Props{"href": "https://example.com"}, []any{"link"}),
	})

	got, err := Render(tree)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"# Title", "Some **bold** text.", "[link](https://example.com)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in markdown output:\n%s", want, got)
		}
	}
}

func TestRender_PropagatesHTMLErrors(t *testing.T) {
	t.Parallel()

	if _, err := Render(struct{}{}); err == nil {
		t.Fatalf("expected error for unsupported value")
	}
}

func TestConvert_Empty(t *testing.T) {
	t.Parallel()

	got, err := Convert("  ")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
