package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Goldmark converts CommonMark using the goldmark engine. No extensions are
// enabled and raw HTML in the source is omitted from the output.
type Goldmark struct {
	md goldmark.Markdown
}

var _ Converter = (*Goldmark)(nil)

// NewGoldmark returns a goldmark-backed converter. The returned value holds
// no per-call state and may be shared across requests.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
	}
}

// Convert renders md to HTML. A conversion error degrades to the escaped
// source wrapped in <pre>.
func (g *Goldmark) Convert(md string) string {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(md), &buf); err != nil {
		return fallbackHTML(md)
	}
	return buf.String()
}
