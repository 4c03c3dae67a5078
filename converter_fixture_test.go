package elemgen

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-elemgen/pkg/element"
	"github.com/goliatone/go-elemgen/pkg/render/html"
	"github.com/goliatone/go-elemgen/pkg/testsupport"
)

func TestConverter_FixtureGolden(t *testing.T) {
	value := testsupport.MustDecode(t, filepath.Join("testdata", "page.yaml"))

	tree, err := New().Convert(value, false)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	out, err := html.Render(tree)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGoldenString(t, filepath.Join("testdata", "page.html.golden"), out)
}

func TestConverter_TypedNode(t *testing.T) {
	node := testsupport.MustNode(t, map[string]any{
		"baseType": "li",
		"key":      "first",
		"children": "one",
	})

	got, err := New().Convert(node, false)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	el, ok := got.(*element.Element)
	if !ok {
		t.Fatalf("expected *element.Element, got %T", got)
	}
	if el.Key != "first" || element.Text(el) != "one" {
		t.Fatalf("unexpected element %+v", el)
	}
}
