package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-elemgen"
	"github.com/goliatone/go-elemgen/pkg/loader"
	"github.com/goliatone/go-elemgen/pkg/render"
)

type renderOptions struct {
	outputSettings
	list   bool
	repair bool
	strict bool
	watch  bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file|url|->",
		Short: "Render a schema document",
		Long: `Render converts one schema document (a node or a list of nodes) and prints
the result. Use "-" to read the document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.container = envDefault(cmd, "container", envContainerTag)
			opts.keyPrefix = envDefault(cmd, "key-prefix", envKeyPrefix)
			opts.format = envDefault(cmd, "format", envFormat)

			job := &renderJob{
				root:   root,
				opts:   opts,
				source: args[0],
				stdin:  cmd.InOrStdin(),
				out:    cmd.OutOrStdout(),
			}
			if err := job.render(cmd.Context()); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return job.watch(cmd.Context())
		},
	}

	addOutputFlags(cmd, &opts.outputSettings)
	cmd.Flags().BoolVar(&opts.list, "list", false, "Return a list instead of wrapping sequences in the container tag")
	cmd.Flags().BoolVar(&opts.repair, "repair", false, "Repair malformed JSON before parsing")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Validate the document against the schema contract before converting")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-render when the document, manifest or theme changes")
	return cmd
}

func addOutputFlags(cmd *cobra.Command, settings *outputSettings) {
	cmd.Flags().StringVar(&settings.container, "container", elemgen.DefaultContainerTag, "Tag wrapping sequence results (env "+envContainerTag+")")
	cmd.Flags().StringVar(&settings.keyPrefix, "key-prefix", "", "Prefix for generated keys (env "+envKeyPrefix+")")
	cmd.Flags().StringVarP(&settings.format, "format", "f", render.FormatHTML, "Output format: html, markdown or json (env "+envFormat+")")
	cmd.Flags().StringVar(&settings.components, "components", "", "Component manifest (YAML or JSON)")
	cmd.Flags().StringVar(&settings.theme, "theme", "", "Theme manifest applied to HTML output")
	cmd.Flags().StringVar(&settings.variant, "variant", "", "Theme variant")
	cmd.Flags().StringVarP(&settings.output, "output", "o", "", "Output file (stdout if empty)")
}

type renderJob struct {
	root   *rootOptions
	opts   *renderOptions
	source string
	stdin  io.Reader
	out    io.Writer
}

func (j *renderJob) render(ctx context.Context) error {
	src, err := parseSource(j.source, j.stdin)
	if err != nil {
		return err
	}

	docs := loader.New(
		loader.WithAllowHTTP(true),
		loader.WithRepair(j.opts.repair),
		loader.WithStrict(j.opts.strict),
	)
	doc, err := docs.Load(ctx, src)
	if err != nil {
		return err
	}
	value, err := doc.Decode()
	if err != nil {
		return err
	}

	converter, err := buildConverter(j.opts.outputSettings, j.root)
	if err != nil {
		return err
	}
	tree, err := converter.Convert(value, j.opts.list)
	if err != nil {
		return fmt.Errorf("convert %s: %w", doc.Location(), err)
	}

	payload, err := encodeTree(ctx, tree, j.opts.outputSettings)
	if err != nil {
		return err
	}
	if err := writeOutput(j.out, j.opts.outputSettings, payload); err != nil {
		return err
	}
	j.root.logger.Debug("rendered document",
		"source", doc.Location(),
		"format", j.opts.format,
		"elements", countElements(tree),
		"bytes", len(payload),
	)
	return nil
}

// watch re-renders on writes to the document or its manifests until ctx is
// cancelled. Parent directories are watched so editors that replace files
// on save are still seen.
func (j *renderJob) watch(ctx context.Context) error {
	if j.source == "-" || isURL(j.source) {
		return errors.New("watch requires a file source")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, path := range []string{j.source, j.opts.components, j.opts.theme} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	logger := j.root.logger
	logger.Info("watching for changes", "source", j.source)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[name]; !ok {
				continue
			}
			logger.Debug("change detected", "path", name, "op", event.Op.String())
			if err := j.render(ctx); err != nil {
				logger.Error("render failed", slog.Any("error", err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func parseSource(raw string, stdin io.Reader) (loader.Source, error) {
	path := strings.TrimSpace(raw)
	switch {
	case path == "":
		return nil, errors.New("source is required")
	case path == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return loader.SourceFromBytes("stdin", data), nil
	case isURL(path):
		if _, err := url.ParseRequestURI(path); err != nil {
			return nil, fmt.Errorf("invalid source url %q: %w", path, err)
		}
		return loader.SourceFromURL(path), nil
	default:
		return loader.SourceFromFile(path), nil
	}
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
