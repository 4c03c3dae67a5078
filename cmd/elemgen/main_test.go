package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heroDoc = `{"baseType": "section", "props": {"className": "hero"}, "children": ["Hi ", {"baseType": "b", "children": "there"}]}`

const listDoc = `- baseType: p
  children: a
- baseType: p
  children: b
`

type stubPicker struct {
	pick    func(options []string) []string
	offered []string
}

func (s *stubPicker) Pick(_ string, options []string) ([]string, error) {
	s.offered = append([]string(nil), options...)
	if s.pick == nil {
		return nil, errors.New("cancelled")
	}
	return s.pick(options), nil
}

func execute(ctx context.Context, t *testing.T, choose picker, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	if choose == nil {
		choose = &stubPicker{}
	}
	cmd := newRootCmdWith(choose)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(append([]string{"--env", ""}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender_HTML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hero.json", heroDoc)

	out, err := execute(context.Background(), t, nil, nil, "render", path)
	require.NoError(t, err)
	assert.Equal(t, "<section class=\"hero\">Hi <b>there</b></section>\n", out)
}

func TestRender_ListUsesContainerFromEnv(t *testing.T) {
	t.Setenv(envContainerTag, "main")
	path := writeFile(t, t.TempDir(), "list.yaml", listDoc)

	out, err := execute(context.Background(), t, nil, nil, "render", path)
	require.NoError(t, err)
	assert.Equal(t, "<main><p>a</p><p>b</p></main>\n", out)

	out, err = execute(context.Background(), t, nil, nil, "render", "--container", "ol", path)
	require.NoError(t, err)
	assert.Equal(t, "<ol><p>a</p><p>b</p></ol>\n", out, "flags win over the environment")
}

func TestRender_JSONList(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.yaml", listDoc)

	out, err := execute(context.Background(), t, nil, nil, "render", "--list", "--format", "json", path)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type": "p", "key": ".0", "children": ["a"]},
		{"type": "p", "key": ".1", "children": ["b"]}
	]`, out)
}

func TestRender_KeyPrefix(t *testing.T) {
	path := writeFile(t, t.TempDir(), "node.json", `{"baseType": "hr"}`)

	out, err := execute(context.Background(), t, nil, nil, "render", "--format", "json", "--key-prefix", "k-", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "hr", "key": "k-1"}`, out)
}

func TestRender_Markdown(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.json", `{"baseType": "div", "children": [{"baseType": "h2", "children": "Intro"}, {"baseType": "p", "children": "Body"}]}`)

	out, err := execute(context.Background(), t, nil, nil, "render", "-f", "markdown", path)
	require.NoError(t, err)
	assert.Contains(t, out, "## Intro")
	assert.Contains(t, out, "Body")
}

func TestRender_Stdin(t *testing.T) {
	out, err := execute(context.Background(), t, nil, strings.NewReader(`baseType: em
children: hi
`), "render", "-")
	require.NoError(t, err)
	assert.Equal(t, "<em>hi</em>\n", out)
}

func TestRender_ComponentsAndOutputFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ui/components.yaml", `components:
  Card:
    template: card
`)
	writeFile(t, dir, "ui/card.tpl", `<div class="card">{{ props.title }}: {{ children|safe }}</div>`)
	doc := writeFile(t, dir, "page.json", `{"baseType": "Card", "props": {"title": "News"}, "children": [{"baseType": "i", "children": "fresh"}]}`)
	target := filepath.Join(dir, "out.html")

	out, err := execute(context.Background(), t, nil, nil, "render",
		"--components", filepath.Join(dir, "ui", "components.yaml"),
		"--output", target,
		doc,
	)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<div class=\"card\">News: <i>fresh</i></div>\n", string(written))
}

func TestRender_Theme(t *testing.T) {
	dir := t.TempDir()
	themePath := writeFile(t, dir, "theme.json", `{
		"name": "acme",
		"version": "1.0.0",
		"tokens": {"brand": "#111"},
		"variants": {"dark": {"tokens": {"brand": "#222"}}}
	}`)
	doc := writeFile(t, dir, "page.json", `{"baseType": "main"}`)

	out, err := execute(context.Background(), t, nil, nil, "render", "--theme", themePath, "--variant", "dark", doc)
	require.NoError(t, err)
	assert.Equal(t, "<main data-theme=\"acme\" data-theme-variant=\"dark\" style=\"--brand: #222;\"></main>\n", out)
}

func TestRender_StrictAndRepair(t *testing.T) {
	dir := t.TempDir()
	invalid := writeFile(t, dir, "invalid.json", `{"baseType": "div", "children": [true]}`)

	_, err := execute(context.Background(), t, nil, nil, "render", "--strict", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation:")
	assert.Contains(t, err.Error(), "children[0]")

	broken := writeFile(t, dir, "broken.json", `{'baseType': 'p', 'children': 'fixed'`)
	_, err = execute(context.Background(), t, nil, nil, "render", broken)
	require.Error(t, err)

	out, err := execute(context.Background(), t, nil, nil, "render", "--repair", broken)
	require.NoError(t, err)
	assert.Equal(t, "<p>fixed</p>\n", out)
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.json", `{"baseType": "p"}`)

	_, err := execute(context.Background(), t, nil, nil, "render", "--format", "pdf", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	bad := writeFile(t, dir, "bad.json", `{"baseType": " "}`)
	_, err = execute(context.Background(), t, nil, nil, "render", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseType must be a non-empty string")

	_, err = execute(context.Background(), t, nil, strings.NewReader(`{"baseType": "p"}`), "render", "--watch", "-")
	assert.ErrorContains(t, err, "watch requires a file source")
	require.Error(t, err)
}

func TestRender_Watch(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "page.json", `{"baseType": "p", "children": "v1"}`)
	target := filepath.Join(dir, "out.html")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := execute(ctx, t, nil, nil, "render", "--watch", "--output", target, doc)
		done <- err
	}()

	readOutput := func() string {
		data, _ := os.ReadFile(target)
		return string(data)
	}
	require.Eventually(t, func() bool {
		return readOutput() == "<p>v1</p>\n"
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_ = os.WriteFile(doc, []byte(`{"baseType": "p", "children": "v2"}`), 0o644)
		return readOutput() == "<p>v2</p>\n"
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "schemas/good.yaml", "baseType: div\n")
	bad := writeFile(t, dir, "schemas/nested/bad.json", `{"baseType": "", "props": []}`)
	writeFile(t, dir, "schemas/readme.txt", "not a schema")

	out, err := execute(context.Background(), t, nil, nil, "validate", filepath.Join(dir, "schemas", "**", "*"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents invalid")
	assert.Contains(t, out, good+": ok")
	assert.Contains(t, out, bad+": /baseType:")
	assert.Contains(t, out, bad+": /props:")
	assert.NotContains(t, out, "readme.txt")

	out, err = execute(context.Background(), t, nil, nil, "validate", good)
	require.NoError(t, err)
	assert.Equal(t, good+": ok\n", out)

	out, err = execute(context.Background(), t, nil, nil, "validate", "--json", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, `"valid": false`)
	assert.Contains(t, out, `"pointer": "/baseType"`)

	_, err = execute(context.Background(), t, nil, nil, "validate", filepath.Join(dir, "missing", "*.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents match")
}

func TestPick(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"baseType": "h1", "children": "A"}`)
	writeFile(t, dir, "b.yaml", listDoc)
	writeFile(t, dir, "sub/c.yml", "baseType: footer\n")

	choose := &stubPicker{pick: func(options []string) []string {
		return []string{options[0], options[1]}
	}}
	out, err := execute(context.Background(), t, choose, nil, "pick", "--container", "article", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.yaml", "sub/c.yml"}, choose.offered)
	assert.Equal(t, "<article><h1>A</h1><p>a</p><p>b</p></article>\n", out)

	_, err = execute(context.Background(), t, &stubPicker{}, nil, "pick", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")

	_, err = execute(context.Background(), t, &stubPicker{}, nil, "pick", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema documents")
}

func TestEnvFile(t *testing.T) {
	t.Setenv(envKeyPrefix, "")
	require.NoError(t, os.Unsetenv(envKeyPrefix))

	dir := t.TempDir()
	envPath := writeFile(t, dir, "custom.env", envKeyPrefix+"=env-\n")
	doc := writeFile(t, dir, "node.json", `{"baseType": "hr"}`)

	cmd := newRootCmdWith(&stubPicker{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--env", envPath, "render", "-f", "json", doc})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.JSONEq(t, `{"type": "hr", "key": "env-1"}`, out.String())

	cmd = newRootCmdWith(&stubPicker{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--env", filepath.Join(dir, "missing.env"), "render", doc})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}
