package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-elemgen/pkg/validation"
)

// Option customises the loader configuration.
type Option func(*config)

type config struct {
	fs         fs.FS
	httpClient *http.Client
	allowHTTP  bool
	timeout    time.Duration
	repair     bool
	strict     bool
}

// WithFS sets the filesystem used by SourceFromFS and LoadGlob.
func WithFS(fsys fs.FS) Option {
	return func(cfg *config) {
		cfg.fs = fsys
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		if client != nil {
			cfg.httpClient = client
			cfg.allowHTTP = true
		}
	}
}

// WithAllowHTTP enables URL sources with a default client.
func WithAllowHTTP(enabled bool) Option {
	return func(cfg *config) {
		cfg.allowHTTP = enabled
	}
}

// WithRequestTimeout bounds each HTTP request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithRepair passes malformed JSON through jsonrepair before failing.
func WithRepair(enabled bool) Option {
	return func(cfg *config) {
		cfg.repair = enabled
	}
}

// WithStrict validates every document against the schema document contract
// and fails with a *validation.Error listing all issues.
func WithStrict(enabled bool) Option {
	return func(cfg *config) {
		cfg.strict = enabled
	}
}

func newConfig(options []Option) config {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.allowHTTP && cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}
	return cfg
}

func (cfg config) document(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("loader: source is required")
	}
	value, format, err := parse(raw, DetectFormat(src.Location()), cfg.repair, src.Location())
	if err != nil {
		return Document{}, err
	}
	if cfg.strict {
		if result := validation.ValidateDocument(value); !result.Valid {
			return Document{}, fmt.Errorf("loader: %s: %w", src.Location(), result.Err())
		}
	}
	return Document{
		source: src,
		format: format,
		raw:    append([]byte(nil), raw...),
		value:  value,
	}, nil
}

// Loader reads schema documents from files, an fs.FS, HTTP endpoints or inline
// payloads.
type Loader struct {
	cfg config
}

// New constructs a Loader applying any provided options.
func New(options ...Option) *Loader {
	return &Loader{cfg: newConfig(options)}
}

// Load fetches a document from the provided source and parses it.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case SourceKindFS:
		data, err = loadFromFS(ctx, l.cfg.fs, src.Location())
	case SourceKindURL:
		if !l.cfg.allowHTTP {
			return Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.cfg.httpClient, src.Location(), l.cfg.timeout)
	case SourceKindInline:
		inline, ok := src.(InlineSource)
		if !ok {
			return Document{}, errors.New("loader: inline source carries no payload")
		}
		data = inline.Data
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, err
	}

	return l.cfg.document(src, data)
}

// Glob lists schema files in the loader's fs.FS matching any of the doublestar
// patterns ("**/*.yaml"), sorted and de-duplicated.
func (l *Loader) Glob(patterns ...string) ([]string, error) {
	if l.cfg.fs == nil {
		return nil, errors.New("loader: fs is nil")
	}
	if len(patterns) == 0 {
		patterns = []string{"**/*.{json,yaml,yml}"}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("loader: invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.Glob(l.cfg.fs, pattern)
		if err != nil {
			return nil, fmt.Errorf("loader: glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !IsSchemaFile(match) {
				continue
			}
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	slices.Sort(out)
	return out, nil
}

// LoadGlob loads every document matched by Glob.
func (l *Loader) LoadGlob(ctx context.Context, patterns ...string) ([]Document, error) {
	paths, err := l.Glob(patterns...)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		doc, err := l.Load(ctx, SourceFromFS(path))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
