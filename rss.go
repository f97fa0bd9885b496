package mdblog

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/mdblog/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	GUID    string `xml:"guid"`
}

func (a *App) buildRSS(entries []BlogEntry) rssXML {
	base := a.Config.Site.URL
	items := make([]rssItem, 0, len(entries))
	var newest time.Time
	for _, e := range entries {
		if e.LastModified.After(newest) {
			newest = e.LastModified
		}
		postURL := views.AbsURL(base, "blogs", e.Slug)
		items = append(items, rssItem{
			Title:   e.Name,
			Link:    postURL,
			PubDate: e.LastModified.Format(time.RFC1123Z),
			GUID:    postURL,
		})
	}
	channel := rssChannel{
		Title:       a.Config.Site.Name,
		Link:        views.AbsURL(base),
		Description: a.Config.Site.Description,
		Items:       items,
	}
	if !newest.IsZero() {
		channel.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return rssXML{Version: "2.0", Channel: channel}
}

func (a *App) renderRSS(c echo.Context, entries []BlogEntry) error {
	return writeXML(c, "application/rss+xml; charset=utf-8", a.buildRSS(entries))
}

func writeXML(c echo.Context, contentType string, v interface{}) error {
	out, err := xml.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}
