package mdblog

import (
	"html/template"
	"time"
)

// BlogEntry is one post as listed on the index page. Entries are built
// per request from the storage directory and never persisted.
type BlogEntry struct {
	Name         string    // filename stem, e.g. "hello world"
	Slug         string    // URL path segment, e.g. "hello-world"
	LastModified time.Time // file modification time (UTC)
}

// Post is the raw markdown source of a single entry.
type Post struct {
	BlogEntry
	Source string
}

// RenderedPage is a post converted to HTML, ready for the blog template.
type RenderedPage struct {
	Title        string
	Slug         string
	Body         template.HTML
	LastModified time.Time
}
