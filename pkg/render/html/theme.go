package html

import (
	"path"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig flattens a theme manifest and optional variant into the
// renderer configuration consumed by WithTheme. Variant tokens, templates and
// asset files override the base entries; CSS variables are derived from the
// merged tokens ("brand" becomes "--brand").
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}
	variant = strings.TrimSpace(variant)

	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix

	if override, ok := manifest.Variants[variant]; ok && variant != "" {
		tokens = mergeStrings(tokens, override.Tokens)
		partials = mergeStrings(partials, override.Templates)
		files = mergeStrings(files, override.Assets.Files)
		if override.Assets.Prefix != "" {
			prefix = override.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for name, value := range tokens {
		vars[cssVarName(name)] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Tokens:   tokens,
		CSSVars:  vars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func cssVarName(token string) string {
	name := strings.TrimSpace(token)
	name = strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(name)
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// cssVarsStyle renders vars as a sorted declaration list.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	for idx, name := range names {
		if idx > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(vars[name])
		sb.WriteByte(';')
	}
	return sb.String()
}
