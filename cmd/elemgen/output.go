package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-elemgen"
	"github.com/goliatone/go-elemgen/pkg/components"
	"github.com/goliatone/go-elemgen/pkg/element"
	"github.com/goliatone/go-elemgen/pkg/loader"
	"github.com/goliatone/go-elemgen/pkg/render"
	"github.com/goliatone/go-elemgen/pkg/render/html"
)

// outputSettings are the flags shared by render and pick.
type outputSettings struct {
	container  string
	keyPrefix  string
	format     string
	components string
	theme      string
	variant    string
	output     string
}

func buildConverter(settings outputSettings, root *rootOptions) (*elemgen.Converter, error) {
	options := []elemgen.Option{
		elemgen.WithContainerTag(settings.container),
		elemgen.WithLogger(root.logger),
	}
	if settings.keyPrefix != "" {
		options = append(options, elemgen.WithKeyPrefix(settings.keyPrefix))
	}
	if settings.components != "" {
		reg, err := components.LoadManifest(os.DirFS(filepath.Dir(settings.components)), filepath.Base(settings.components))
		if err != nil {
			return nil, err
		}
		root.logger.Debug("loaded component manifest", "path", settings.components, "components", reg.Len())
		options = append(options, elemgen.WithRegistry(reg))
	}
	return elemgen.New(options...), nil
}

var formats = render.NewDefaultRegistry()

func encodeTree(ctx context.Context, tree any, settings outputSettings) ([]byte, error) {
	options := render.RenderOptions{Indent: "  "}
	if settings.theme != "" {
		manifest, err := loadTheme(settings.theme)
		if err != nil {
			return nil, err
		}
		options.Theme = html.ThemeConfig(manifest, settings.variant)
	}

	name := strings.ToLower(strings.TrimSpace(settings.format))
	switch name {
	case "":
		name = render.FormatHTML
	case "md":
		name = render.FormatMarkdown
	}
	if !formats.Has(name) {
		return nil, fmt.Errorf("unknown format %q (want %s)", settings.format, strings.Join(formats.List(), ", "))
	}
	return formats.MustGet(name).Render(ctx, tree, options)
}

func writeOutput(out io.Writer, settings outputSettings, payload []byte) error {
	if len(payload) > 0 && payload[len(payload)-1] != '\n' {
		payload = append(payload, '\n')
	}
	if settings.output == "" {
		_, err := out.Write(payload)
		return err
	}
	if err := os.WriteFile(settings.output, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func countElements(tree any) int {
	n := 0
	_ = element.Walk(tree, func(*element.Element, int) error {
		n++
		return nil
	})
	return n
}

// loadTheme reads a go-theme manifest from YAML or JSON.
func loadTheme(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	manifest := &theme.Manifest{}
	if loader.DetectFormat(path) == loader.FormatJSON {
		err = json.Unmarshal(data, manifest)
	} else {
		err = yaml.Unmarshal(data, manifest)
	}
	if err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return manifest, nil
}
