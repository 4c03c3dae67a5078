// Package markdown renders converted element trees as Markdown by serialising
// them to HTML first.
package markdown

import (
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/goliatone/go-elemgen/pkg/render/html"
)

// Render returns the Markdown form of value. Options configure the underlying
// HTML renderer.
func Render(value any, options ...html.Option) (string, error) {
	markup, err := html.Render(value, options...)
	if err != nil {
		return "", err
	}
	return Convert(markup)
}

// RenderTo writes the Markdown form of value to out.
func RenderTo(out io.Writer, value any, options ...html.Option) error {
	text, err := Render(value, options...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

// Convert turns HTML markup into Markdown.
func Convert(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}
	text, err := htmltomarkdown.ConvertString(markup)
	if err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return text, nil
}
