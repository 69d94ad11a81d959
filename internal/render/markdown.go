// Package render turns model output (markdown) into HTML that is safe to
// drop into a page.
package render

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const DefaultStyle = "dracula"

type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	style  *chroma.Style
}

// NewMarkdown returns a renderer highlighting code blocks with the named
// chroma style. Unknown names fall back to chroma's default style.
func NewMarkdown(style string) *Markdown {
	md := goldmark.New(
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.WithLineNumbers(false),
				),
			),
		),
	)

	// raw HTML from the model is allowed through goldmark and cleaned here
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("code", "pre", "span", "div")

	return &Markdown{md: md, policy: p, style: styles.Get(style)}
}

// HTML converts src to sanitized HTML.
func (m *Markdown) HTML(src string) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return m.policy.SanitizeBytes(buf.Bytes()), nil
}

// CSS returns the stylesheet for the highlight classes emitted by HTML.
func (m *Markdown) CSS() ([]byte, error) {
	var buf bytes.Buffer
	f := chromahtml.New(chromahtml.WithClasses(true))
	if err := f.WriteCSS(&buf, m.style); err != nil {
		return nil, fmt.Errorf("render css: %w", err)
	}
	return buf.Bytes(), nil
}
