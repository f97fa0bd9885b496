// Package markdown converts the common subset of Markdown into HTML.
//
// Two engines are available: a small built-in converter that understands
// headings, paragraphs, emphasis, links, images, lists, blockquotes, rules
// and code, and a goldmark-backed CommonMark converter. Both are pure and
// safe for concurrent use.
package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// ErrUnknownEngine is returned by New for an unsupported engine name.
var ErrUnknownEngine = errors.New("markdown: unknown engine")

// Engine names accepted by New.
const (
	EngineBuiltin  = "builtin"
	EngineGoldmark = "goldmark"
)

// maxDepth bounds nesting of blockquotes and lists.
const maxDepth = 32

// Converter turns Markdown text into HTML. Convert never fails; input it
// cannot make sense of is passed through as escaped text.
type Converter interface {
	Convert(md string) string
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(md string) string

// Convert calls f(md).
func (f ConverterFunc) Convert(md string) string {
	return f(md)
}

// Builtin is the default converter.
var Builtin Converter = ConverterFunc(convertBuiltin)

// New returns the converter registered under engine. An empty name selects
// the built-in converter.
func New(engine string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineBuiltin:
		return Builtin, nil
	case EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, engine)
	}
}

// Component returns a templ.Component that renders md as HTML using conv.
func Component(conv Converter, md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, conv.Convert(md))
		return err
	})
}

func convertBuiltin(md string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fallbackHTML(md)
		}
	}()
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func fallbackHTML(md string) string {
	return "<pre>" + html.EscapeString(md) + "</pre>"
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	md = strings.ReplaceAll(md, "\x00", "\uFFFD")
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")
	r := &renderer{buf: buf}
	r.render(strings.Split(md, "\n"))
}

var (
	reATXHeading = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	reSetextH1   = regexp.MustCompile(`^ {0,3}=+[ \t]*$`)
	reSetextH2   = regexp.MustCompile(`^ {0,3}-+[ \t]*$`)
	reListItem   = regexp.MustCompile(`^( {0,3})([-*+]|(\d{1,9})[.)])(?:[ \t]+(.*))?$`)
	reQuote      = regexp.MustCompile(`^ {0,3}> ?`)
	reFence      = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})[ \t]*([^ \t`]*)")
)

type renderer struct {
	buf   *bytes.Buffer
	tight bool
	depth int
}

func (r *renderer) child(tight bool) *renderer {
	return &renderer{buf: r.buf, tight: tight, depth: r.depth + 1}
}

func (r *renderer) render(lines []string) {
	if r.depth > maxDepth {
		r.paragraph(lines)
		return
	}

	var para []string
	flushPara := func() {
		if len(para) > 0 {
			r.paragraph(para)
			para = nil
		}
	}

	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case isBlank(line):
			flushPara()
			i++
		case reFence.MatchString(line):
			flushPara()
			i = r.fencedCode(lines, i)
		case len(para) == 0 && indentOf(line) >= 4:
			i = r.indentedCode(lines, i)
		case len(para) > 0 && reSetextH1.MatchString(line):
			r.heading(1, strings.Join(trimAll(para), " "))
			para = nil
			i++
		case len(para) > 0 && reSetextH2.MatchString(line):
			r.heading(2, strings.Join(trimAll(para), " "))
			para = nil
			i++
		case isRule(line):
			flushPara()
			r.buf.WriteString("<hr/>")
			i++
		case reATXHeading.MatchString(line):
			flushPara()
			m := reATXHeading.FindStringSubmatch(line)
			r.heading(len(m[1]), m[2])
			i++
		case reQuote.MatchString(line):
			flushPara()
			i = r.blockquote(lines, i)
		case reListItem.MatchString(line):
			flushPara()
			i = r.list(lines, i)
		default:
			para = append(para, line)
			i++
		}
	}
	flushPara()
}

func (r *renderer) heading(level int, text string) {
	tag := "h" + strconv.Itoa(level)
	r.buf.WriteString("<" + tag + ">")
	r.buf.WriteString(FormatInline(strings.TrimSpace(text)))
	r.buf.WriteString("</" + tag + ">")
}

func (r *renderer) paragraph(lines []string) {
	if !r.tight {
		r.buf.WriteString("<p>")
	}
	last := len(lines) - 1
	for i, line := range lines {
		r.buf.WriteString(FormatInline(strings.TrimSpace(line)))
		if i == last {
			break
		}
		if strings.HasSuffix(line, "  ") {
			r.buf.WriteString("<br/>")
		}
		r.buf.WriteString("\n")
	}
	if !r.tight {
		r.buf.WriteString("</p>")
	}
}

func (r *renderer) fencedCode(lines []string, i int) int {
	m := reFence.FindStringSubmatch(lines[i])
	indent, marker, lang := len(m[1]), m[2], m[3]

	if lang != "" {
		r.buf.WriteString(`<pre class="code-block"><code class="language-` + html.EscapeString(lang) + `">`)
	} else {
		r.buf.WriteString(`<pre class="code-block"><code>`)
	}
	for i++; i < len(lines); i++ {
		if closesFence(lines[i], marker) {
			i++
			break
		}
		r.buf.WriteString(html.EscapeString(dedent(lines[i], indent)))
		r.buf.WriteString("\n")
	}
	r.buf.WriteString("</code></pre>")
	return i
}

func closesFence(line, marker string) bool {
	if indentOf(line) >= 4 {
		return false
	}
	t := strings.TrimSpace(line)
	return len(t) >= len(marker) && strings.Trim(t, marker[:1]) == ""
}

func (r *renderer) indentedCode(lines []string, i int) int {
	var code []string
	for i < len(lines) {
		if isBlank(lines[i]) {
			j := nextNonBlank(lines, i)
			if j == len(lines) || indentOf(lines[j]) < 4 {
				break
			}
			for ; i < j; i++ {
				code = append(code, dedent(lines[i], 4))
			}
			continue
		}
		if indentOf(lines[i]) < 4 {
			break
		}
		code = append(code, dedent(lines[i], 4))
		i++
	}
	r.buf.WriteString(`<pre class="code-block"><code>`)
	for _, line := range code {
		r.buf.WriteString(html.EscapeString(line))
		r.buf.WriteString("\n")
	}
	r.buf.WriteString("</code></pre>")
	return i
}

func (r *renderer) blockquote(lines []string, i int) int {
	var body []string
	for i < len(lines) && reQuote.MatchString(lines[i]) {
		body = append(body, reQuote.ReplaceAllString(lines[i], ""))
		i++
	}
	r.buf.WriteString("<blockquote>")
	r.child(false).render(body)
	r.buf.WriteString("</blockquote>")
	return i
}

type listItem struct {
	ordered bool
	start   int
	indent  int
	content string
}

func parseListItem(line string) (listItem, bool) {
	if isRule(line) {
		return listItem{}, false
	}
	m := reListItem.FindStringSubmatch(line)
	if m == nil {
		return listItem{}, false
	}
	it := listItem{content: m[4]}
	if m[3] != "" {
		it.ordered = true
		it.start, _ = strconv.Atoi(m[3])
	}
	if m[4] == "" {
		it.indent = len(m[1]) + len(m[2]) + 1
	} else {
		it.indent = len(line) - len(m[4])
	}
	return it, true
}

func (r *renderer) list(lines []string, i int) int {
	first, _ := parseListItem(lines[i])
	var items [][]string
	loose := false

	for i < len(lines) {
		it, ok := parseListItem(lines[i])
		if !ok || it.ordered != first.ordered {
			break
		}
		body := []string{it.content}
		i++
	item:
		for i < len(lines) {
			line := lines[i]
			if isBlank(line) {
				j := nextNonBlank(lines, i)
				if j == len(lines) {
					i = j
					break
				}
				if indentOf(lines[j]) >= it.indent {
					for ; i < j; i++ {
						body = append(body, "")
					}
					loose = true
					continue
				}
				if next, ok := parseListItem(lines[j]); ok && next.ordered == first.ordered {
					loose = true
					i = j
				}
				break
			}
			switch {
			case indentOf(line) >= it.indent:
				body = append(body, dedent(line, it.indent))
				i++
				continue
			case isRule(line), reListItem.MatchString(line), reQuote.MatchString(line),
				reATXHeading.MatchString(line), reFence.MatchString(line):
				break item
			}
			body = append(body, strings.TrimSpace(line))
			i++
		}
		items = append(items, body)
	}

	tag := "ul"
	if first.ordered {
		tag = "ol"
		if first.start != 1 {
			r.buf.WriteString(`<ol start="` + strconv.Itoa(first.start) + `">`)
		} else {
			r.buf.WriteString("<ol>")
		}
	} else {
		r.buf.WriteString("<ul>")
	}
	for _, body := range items {
		r.buf.WriteString("<li>")
		r.child(!loose).render(body)
		r.buf.WriteString("</li>")
	}
	r.buf.WriteString("</" + tag + ">")
	return i
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isRule reports whether line is a thematic break: three or more of the
// same '-', '*' or '_' characters, optionally separated by spaces.
func isRule(line string) bool {
	if indentOf(line) >= 4 {
		return false
	}
	var mark rune
	n := 0
	for _, c := range line {
		switch c {
		case ' ', '\t':
			continue
		case '-', '*', '_':
			if mark == 0 {
				mark = c
			} else if c != mark {
				return false
			}
			n++
		default:
			return false
		}
	}
	return n >= 3
}

// indentOf returns the width of leading whitespace, counting a tab as four.
func indentOf(line string) int {
	n := 0
	for _, c := range line {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 4 - n%4
		default:
			return n
		}
	}
	return n
}

// dedent removes up to width columns of leading whitespace.
func dedent(line string, width int) string {
	n := 0
	for i, c := range line {
		if n >= width {
			return line[i:]
		}
		switch c {
		case ' ':
			n++
		case '\t':
			n += 4 - n%4
		default:
			return line[i:]
		}
	}
	return ""
}

func nextNonBlank(lines []string, i int) int {
	for i < len(lines) && isBlank(lines[i]) {
		i++
	}
	return i
}

func trimAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
