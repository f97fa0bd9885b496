package mdblog

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/eringen/mdblog/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) buildSitemap(entries []BlogEntry) sitemapURLSet {
	base := a.Config.Site.URL
	urls := []sitemapURL{
		{Loc: views.AbsURL(base)},
	}
	for _, e := range entries {
		urls = append(urls, sitemapURL{
			Loc:     views.AbsURL(base, "blogs", e.Slug),
			LastMod: e.LastModified.Format("2006-01-02"),
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, entries []BlogEntry) error {
	return writeXML(c, "application/xml; charset=utf-8", a.buildSitemap(entries))
}
