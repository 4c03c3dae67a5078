package loader

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a schema document originated so the loader can read
// files, fs.FS entries, URLs or in-memory payloads behind one call.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindInline SourceKind = "inline"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside the loader's
// fs.FS (see WithFS).
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("loader: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("loader: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// InlineSource carries its payload; name drives format detection.
type InlineSource struct {
	Name string
	Data []byte
}

// Location returns the inline name.
func (s InlineSource) Location() string { return s.Name }

// Kind reports SourceKindInline.
func (s InlineSource) Kind() SourceKind { return SourceKindInline }

// SourceFromBytes wraps an in-memory payload. name is used for format
// detection and error messages ("schema.yaml", "stdin.json").
func SourceFromBytes(name string, data []byte) Source {
	return InlineSource{Name: name, Data: append([]byte(nil), data...)}
}
