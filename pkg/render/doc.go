// Package render exposes the output formats a converted element tree can be
// encoded into. Renderers are looked up by name through a Registry so callers
// (the CLI, HTTP handlers) can select a format from user input.
package render
