package markdown

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func render(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func TestFormatInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"text *italic* more", "text <em>italic</em> more"},
		{"snake_case_name", "snake_case_name"},
		{"2 * 3 * 4", "2 * 3 * 4"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineNested(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"__bold _italic_ text__", "<strong>bold <em>italic</em> text</strong>"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineBoldNotMatchedAsItalic(t *testing.T) {
	input := "**bold**"
	got := FormatInline(input)
	if strings.Contains(got, "<em>") {
		t.Errorf("FormatInline(%q) = %q, should not contain <em>", input, got)
	}
}

func TestFormatInlineCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"`code`", "<code>code</code>"},
		{"use `fmt.Println` here", "use <code>fmt.Println</code> here"},
		{"`a` and `b`", "<code>a</code> and <code>b</code>"},
		// formatting inside backticks is left alone
		{"`**not bold**`", "<code>**not bold**</code>"},
		{"`[x](https://example.com)`", "<code>[x](https://example.com)</code>"},
		{"``a ` b``", "<code>a ` b</code>"},
		{"`<div>`", "<code>&lt;div&gt;</code>"},
		{"unclosed `tick", "unclosed `tick"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)",
			`<a href="https://en.wikipedia.org/wiki/Some_Article_Title">Wikipedia</a>`,
		},
		{
			"Visit [link](https://example.com/my_page/sub_path) for info",
			`Visit <a href="https://example.com/my_page/sub_path">link</a> for info`,
		},
		{
			`[home](/ "Home page")`,
			`<a href="/" title="Home page">home</a>`,
		},
		{
			"[next post](next-post)",
			`<a href="next-post">next post</a>`,
		},
		{
			"[**bold** link](#top)",
			`<a href="#top"><strong>bold</strong> link</a>`,
		},
		{
			"<https://example.com/a_b>",
			`<a href="https://example.com/a_b">https://example.com/a_b</a>`,
		},
		{
			"[t](/x \"say `hi`\")",
			`<a href="/x" title="say hi">t</a>`,
		},
		{
			"[t](/`x`)",
			`<a href="/x">t</a>`,
		},
		{
			`<https://example.com/a\_b>`,
			`<a href="https://example.com/a_b">https://example.com/a_b</a>`,
		},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineUnsafeLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[click](javascript:alert)", "click"},
		{"[click](JavaScript:alert)", "click"},
		{"[data](data:text/html;base64,xx)", "data"},
		{"![x](javascript:alert)", "x"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineImage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"![alt text](/img/a.png)", `<img src="/img/a.png" alt="alt text"/>`},
		{`![cat](https://example.com/cat.jpg "A cat")`, `<img src="https://example.com/cat.jpg" alt="cat" title="A cat"/>`},
		{"[![logo](/logo.svg)](/)", `<a href="/"><img src="/logo.svg" alt="logo"/></a>`},
		{"![a](/x.png \"say `hi`\")", `<img src="/x.png" alt="a" title="say hi"/>`},
		{`![a](/x.png "a\"b")`, `<img src="/x.png" alt="a" title="a&#34;b"/>`},
		{"![`a` \\*b](/x.png)", `<img src="/x.png" alt="a *b"/>`},
		{`![a](/a\_b.png)`, `<img src="/a_b.png" alt="a"/>`},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`\*not italic\*`, "*not italic*"},
		{`a \_b\_ c`, "a _b_ c"},
		{`<script>alert(1)</script>`, "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{`Tom & "Jerry"`, "Tom &amp; &#34;Jerry&#34;"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>"},
		{"## Heading 2", "<h2>Heading 2</h2>"},
		{"### Heading 3", "<h3>Heading 3</h3>"},
		{"###### Heading 6", "<h6>Heading 6</h6>"},
		{"## Closed ##", "<h2>Closed</h2>"},
		{"Title\n=====", "<h1>Title</h1>"},
		{"Subtitle\n---", "<h2>Subtitle</h2>"},
		{"#hashtag", "<p>#hashtag</p>"},
		{"####### seven", "<p>####### seven</p>"},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownParagraphs(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "<p>hello</p>"},
		{"one\ntwo", "<p>one\ntwo</p>"},
		{"one  \ntwo", "<p>one<br/>\ntwo</p>"},
		{"first\n\nsecond", "<p>first</p><p>second</p>"},
		{"", ""},
		{"\n\n\n", ""},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownRules(t *testing.T) {
	for _, input := range []string{"---", "***", "___", "- - -", "* * *"} {
		if got := render(input); got != "<hr/>" {
			t.Errorf("RenderMarkdown(%q) = %q, want <hr/>", input, got)
		}
	}
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	input := "```\ncode here\n```"
	got := render(input)
	want := `<pre class="code-block"><code>code here` + "\n" + `</code></pre>`
	if got != want {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, want)
	}
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	input := "```go\nfmt.Println(\"hello\")\n```"
	got := render(input)
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, "fmt.Println(&#34;hello&#34;)") {
		t.Errorf("code block should keep escaped content: %q", got)
	}
}

func TestRenderMarkdownCodeBlockIsLiteral(t *testing.T) {
	input := "```\n# not a heading\n- not a list\n**not bold** <b>tag</b>\n\n[x](https://example.com)\n```"
	got := render(input)
	want := `<pre class="code-block"><code>` +
		"# not a heading\n- not a list\n**not bold** &lt;b&gt;tag&lt;/b&gt;\n\n[x](https://example.com)\n" +
		`</code></pre>`
	if got != want {
		t.Errorf("RenderMarkdown(%q)\n  got:  %q\n  want: %q", input, got, want)
	}
}

func TestRenderMarkdownTildeFence(t *testing.T) {
	input := "~~~\n```\ninner\n```\n~~~"
	got := render(input)
	want := `<pre class="code-block"><code>` + "```\ninner\n```\n" + `</code></pre>`
	if got != want {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, want)
	}
}

func TestRenderMarkdownUnclosedFence(t *testing.T) {
	input := "```\nnever closed\n# still code"
	got := render(input)
	want := `<pre class="code-block"><code>` + "never closed\n# still code\n" + `</code></pre>`
	if got != want {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, want)
	}
}

func TestRenderMarkdownIndentedCode(t *testing.T) {
	input := "    x := 1\n\n    y := 2\n\ntext"
	got := render(input)
	want := `<pre class="code-block"><code>` + "x := 1\n\ny := 2\n" + `</code></pre><p>text</p>`
	if got != want {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, want)
	}
}

func TestRenderMarkdownInlineCodeInParagraph(t *testing.T) {
	input := "Run `go test` to verify."
	got := render(input)
	if !strings.Contains(got, "<code>go test</code>") {
		t.Errorf("RenderMarkdown(%q) = %q, want inline code tags", input, got)
	}
}

func TestRenderMarkdownList(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"- item 1\n- item 2", "<ul><li>item 1</li><li>item 2</li></ul>"},
		{"* a\n* b", "<ul><li>a</li><li>b</li></ul>"},
		{"+ a\n+ b", "<ul><li>a</li><li>b</li></ul>"},
		{"- a\n\n- b", "<ul><li><p>a</p></li><li><p>b</p></li></ul>"},
		{"- a\n  - b\n  - c\n- d", "<ul><li>a<ul><li>b</li><li>c</li></ul></li><li>d</li></ul>"},
		{"- a\ncontinued", "<ul><li>a\ncontinued</li></ul>"},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownOrderedList(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1. first\n2. second\n3. third", "<ol><li>first</li><li>second</li><li>third</li></ol>"},
		{"1. **bold** item\n2. *italic* item", "<ol><li><strong>bold</strong> item</li><li><em>italic</em> item</li></ol>"},
		{"3. three\n4. four", `<ol start="3"><li>three</li><li>four</li></ol>`},
		{"1. one\n- bullet", "<ol><li>one</li></ol><ul><li>bullet</li></ul>"},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownOrderedListFollowedByParagraph(t *testing.T) {
	input := "1. item one\n2. item two\n\nsome text"
	got := render(input)
	want := "<ol><li>item one</li><li>item two</li></ol><p>some text</p>"
	if got != want {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, want)
	}
}

func TestRenderMarkdownBlockquote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"> quoted", "<blockquote><p>quoted</p></blockquote>"},
		{"> one\n> two", "<blockquote><p>one\ntwo</p></blockquote>"},
		{"> # Title\n> - item", "<blockquote><h1>Title</h1><ul><li>item</li></ul></blockquote>"},
		{"> outer\n>> inner", "<blockquote><p>outer</p><blockquote><p>inner</p></blockquote></blockquote>"},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownCRLF(t *testing.T) {
	got := render("# Title\r\n\r\nbody\r\n")
	want := "<h1>Title</h1><p>body</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuiltinNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"\x00",
		"`",
		"```",
		"~~~~",
		"[",
		"](",
		"![",
		"![](",
		"***___***",
		"> > > > >",
		strings.Repeat(">", 10000) + " deep",
		strings.Repeat("- ", 500) + "x",
		strings.Repeat("  ", 200) + "- nested",
		"\t\t\t- tab",
		"1.\n2.\n",
		"-\n-\n-",
		"#",
		"# \n##",
		"<<<>>>&&&",
		"\\",
		"**unclosed",
		"__\n__",
		"\xff\xfe invalid utf8",
		"![a](/x.png \"say `hi`\")",
		`![a](/x.png "a\"b")`,
		"[t](/x \"`code` \\* title\")",
		"![`a`](/`b`.png \"`c`\")",
		`<https://example.com/\*x>`,
	}
	for _, in := range inputs {
		out := Builtin.Convert(in)
		if strings.Contains(out, "\x00") {
			t.Errorf("Convert(%q) leaked a placeholder: %q", in, out)
		}
	}
}

func TestBuiltinIsDeterministic(t *testing.T) {
	input := "# Post\n\nSome *text* with `code`.\n\n- a\n- b\n"
	first := Builtin.Convert(input)
	for i := 0; i < 5; i++ {
		if got := Builtin.Convert(input); got != first {
			t.Fatalf("Convert is not deterministic: %q vs %q", got, first)
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "builtin", "Builtin", "goldmark"} {
		conv, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if conv == nil {
			t.Fatalf("New(%q) returned nil converter", name)
		}
	}
	if _, err := New("pandoc"); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("New(pandoc) error = %v, want ErrUnknownEngine", err)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Component(Builtin, "**hi**").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.String(); got != "<p><strong>hi</strong></p>" {
		t.Errorf("Component rendered %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"/path?a=1&b=2", "/path?a=1&amp;b=2"},
		{"#anchor", "#anchor"},
		{"relative/page", "relative/page"},
		{"javascript:alert(1)", ""},
		{"vbscript:x", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
