package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBold             = regexp.MustCompile(`\*\*([^\s*](?:.*?[^\s*])?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`\b__([^\s_](?:.*?[^\s_])?)__\b`)
	reItalic           = regexp.MustCompile(`\*([^\s*](?:[^*]*[^\s*])?)\*`)
	reItalicUnderscore = regexp.MustCompile(`\b_([^\s_](?:[^_]*[^\s_])?)_\b`)
	reAutolink         = regexp.MustCompile(`&lt;((?:https?://|mailto:)[^\s]*?)&gt;`)
	reImage            = regexp.MustCompile(`!\[([^\]]*)\]\(\s*([^)\s]*)(?:\s+&#34;(.*?)&#34;)?\s*\)`)
	reLink             = regexp.MustCompile(`\[([^\]]*)\]\(\s*([^)\s]*)(?:\s+&#34;(.*?)&#34;)?\s*\)`)
	reSlot             = regexp.MustCompile("\x00(\\d+)\x00")
)

// FormatInline applies inline formatting (code spans, escapes, links, images,
// emphasis) to a single line of text. The result is safe HTML.
func FormatInline(s string) string {
	// Each slot keeps its HTML and the escaped text used inside attributes.
	type slot struct{ html, text string }
	var slots []slot
	hold := func(fragment, text string) string {
		slots = append(slots, slot{fragment, text})
		return "\x00" + strconv.Itoa(len(slots)-1) + "\x00"
	}
	resolve := func(s string, plain bool) string {
		return reSlot.ReplaceAllStringFunc(s, func(m string) string {
			idx, err := strconv.Atoi(m[1 : len(m)-1])
			if err != nil || idx >= len(slots) {
				return ""
			}
			if plain {
				return slots[idx].text
			}
			return slots[idx].html
		})
	}

	// Code spans and backslash escapes are resolved on the raw text so their
	// contents never reach the formatting passes below.
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\x00':
			i++
		case c == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]):
			ch := html.EscapeString(s[i+1 : i+2])
			b.WriteString(hold(ch, ch))
			i += 2
		case c == '`':
			n := runLength(s, i, '`')
			end := closingRun(s, i+n, n)
			if end < 0 {
				b.WriteString(s[i : i+n])
				i += n
				continue
			}
			code := html.EscapeString(trimCodeSpan(s[i+n:end]))
			b.WriteString(hold("<code>"+code+"</code>", code))
			i = end + n
		default:
			b.WriteByte(c)
			i++
		}
	}

	escaped := html.EscapeString(b.String())
	escaped = reAutolink.ReplaceAllStringFunc(escaped, func(m string) string {
		href := SafeURL(resolve(reAutolink.FindStringSubmatch(m)[1], true))
		if href == "" {
			return m
		}
		return hold(`<a href="`+href+`">`+href+`</a>`, href)
	})
	escaped = reImage.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reImage.FindStringSubmatch(m)
		alt := resolve(match[1], true)
		src := SafeURL(resolve(match[2], true))
		if src == "" {
			return alt
		}
		img := `<img src="` + src + `" alt="` + alt + `"`
		if match[3] != "" {
			img += ` title="` + resolve(match[3], true) + `"`
		}
		return hold(img+`/>`, alt)
	})
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(resolve(match[2], true))
		if href == "" {
			return match[1]
		}
		a := `<a href="` + href + `"`
		if match[3] != "" {
			a += ` title="` + resolve(match[3], true) + `"`
		}
		return a + `>` + match[1] + `</a>`
	})
	// Emphasis only outside HTML tags so URLs in href are not corrupted.
	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})
	return resolve(escaped, false)
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// SafeURL validates a URL for use in an HTML attribute and returns it
// escaped. Relative references and http, https, mailto and tel URLs are
// allowed; anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

// closingRun returns the index of the next run of exactly n backticks at or
// after from, or -1.
func closingRun(s string, from, n int) int {
	for j := from; j < len(s); {
		if s[j] != '`' {
			j++
			continue
		}
		k := runLength(s, j, '`')
		if k == n {
			return j
		}
		j += k
	}
	return -1
}

func trimCodeSpan(code string) string {
	if len(code) >= 2 && code[0] == ' ' && code[len(code)-1] == ' ' && strings.Trim(code, " ") != "" {
		return code[1 : len(code)-1]
	}
	return code
}
