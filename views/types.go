package views

// Context carries the named values a page template reads, e.g.
// {{ .title }} or {{ range .blogs }}.
type Context map[string]any

// Site holds site-wide settings passed to every template as "site".
type Site struct {
	Name        string
	URL         string // canonical base URL without trailing slash
	Description string
	Author      string
}

// Template names every site must provide.
const (
	IndexTemplate = "index.html"
	BlogTemplate  = "blog.html"
	ErrorTemplate = "error.html"
)

// Required lists the templates the server cannot run without.
var Required = []string{IndexTemplate, BlogTemplate, ErrorTemplate}
