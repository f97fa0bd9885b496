package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"strings"
	"time"
)

// Funcs is the function map available to every page template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":    FormatDate,
		"isoDate": ISODate,
		"blogURL": BlogURL,
		"absURL":  AbsURL,
		"jsonLD":  WebsiteJsonLD,
	}
}

// FormatDate renders t for humans, e.g. "Jan 2, 2006 15:04 UTC".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

// ISODate renders t as RFC 3339 for <time datetime> attributes.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// BlogURL returns the site-relative path of the post with the given slug.
func BlogURL(slug string) string {
	return "/blogs/" + url.PathEscape(slug)
}

// AbsURL joins path segments onto a base URL. Segments are escaped when
// the URL is encoded.
func AbsURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for site.
func WebsiteJsonLD(site Site) template.JS {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      AbsURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(strings.TrimSpace(string(b)))
}
