package components

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-elemgen/pkg/registry"
	rendertemplate "github.com/goliatone/go-elemgen/pkg/render/template"
	"github.com/goliatone/go-elemgen/pkg/render/template/pongo"
)

// Manifest declares template components.
//
//	extension: .tpl
//	components:
//	  Card:
//	    template: card
//	    defaults: {className: card}
//	  Badge:
//	    source: '<span class="badge">{{ children|safe }}</span>'
type Manifest struct {
	Extension  string                  `json:"extension,omitempty" yaml:"extension,omitempty"`
	Components map[string]ManifestItem `json:"components" yaml:"components"`
}

// ManifestItem describes one component. Template names resolve relative to
// the manifest's directory.
type ManifestItem struct {
	Template string         `json:"template,omitempty" yaml:"template,omitempty"`
	Source   string         `json:"source,omitempty" yaml:"source,omitempty"`
	Defaults map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// ManifestOption customises LoadManifest.
type ManifestOption func(*manifestConfig)

type manifestConfig struct {
	renderer rendertemplate.TemplateRenderer
	registry *registry.Registry
}

// WithRenderer renders the manifest's components through renderer instead of
// a pongo engine rooted at the manifest directory.
func WithRenderer(renderer rendertemplate.TemplateRenderer) ManifestOption {
	return func(cfg *manifestConfig) {
		if renderer != nil {
			cfg.renderer = renderer
		}
	}
}

// WithRegistry registers the manifest's components into reg rather than a new
// registry.
func WithRegistry(reg *registry.Registry) ManifestOption {
	return func(cfg *manifestConfig) {
		if reg != nil {
			cfg.registry = reg
		}
	}
}

// ParseManifest decodes a manifest payload. name selects JSON decoding for a
// ".json" suffix and YAML otherwise.
func ParseManifest(name string, data []byte) (Manifest, error) {
	var manifest Manifest
	var err error
	if strings.EqualFold(path.Ext(name), ".json") {
		err = json.Unmarshal(data, &manifest)
	} else {
		err = yaml.Unmarshal(data, &manifest)
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("components: parse manifest %s: %w", name, err)
	}
	if len(manifest.Components) == 0 {
		return Manifest{}, fmt.Errorf("components: manifest %s declares no components", name)
	}
	return manifest, nil
}

// LoadManifest reads the manifest at file inside fsys and returns a registry
// holding one Template component per entry.
func LoadManifest(fsys fs.FS, file string, options ...ManifestOption) (*registry.Registry, error) {
	if fsys == nil {
		return nil, errors.New("components: manifest fs is nil")
	}
	cfg := manifestConfig{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("components: read manifest: %w", err)
	}
	manifest, err := ParseManifest(file, data)
	if err != nil {
		return nil, err
	}

	renderer := cfg.renderer
	if renderer == nil {
		renderer, err = manifestEngine(fsys, path.Dir(file), manifest.Extension)
		if err != nil {
			return nil, err
		}
	}
	reg := cfg.registry
	if reg == nil {
		reg = registry.New()
	}

	names := make([]string, 0, len(manifest.Components))
	for name := range manifest.Components {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		item := manifest.Components[name]
		tpl, err := NewTemplate(name, renderer,
			WithTemplateName(item.Template),
			WithSource(item.Source),
			WithDefaults(item.Defaults),
		)
		if err != nil {
			return nil, fmt.Errorf("components: manifest %s: %w", file, err)
		}
		if err := reg.Register(name, tpl); err != nil {
			return nil, fmt.Errorf("components: manifest %s: %w", file, err)
		}
	}
	return reg, nil
}

func manifestEngine(fsys fs.FS, dir, extension string) (*pongo.Engine, error) {
	root := fsys
	if dir != "." && dir != "" {
		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("components: manifest dir %s: %w", dir, err)
		}
		root = sub
	}
	engine, err := pongo.New(pongo.WithFS(root), pongo.WithExtension(extension))
	if err != nil {
		return nil, fmt.Errorf("components: configure template engine: %w", err)
	}
	return engine, nil
}
