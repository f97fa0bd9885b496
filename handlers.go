package mdblog

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eringen/mdblog/views"
)

const notFoundMessage = "Page not found"

func (a *App) handleIndex(c echo.Context) error {
	entries, err := a.Store.ListEntries()
	if err != nil {
		return err
	}
	a.Metrics.IndexEntries.Set(float64(len(entries)))
	return Render(c, a.Views.Component(views.IndexTemplate, views.Context{
		"site":  a.site(),
		"blogs": entries,
	}))
}

func (a *App) handleBlog(c echo.Context) error {
	slug, err := pathParam(c, "slug")
	if err != nil {
		a.Metrics.PagesNotFound.Inc()
		return echo.NewHTTPError(http.StatusNotFound, notFoundMessage)
	}
	page, err := a.page(slug)
	if errors.Is(err, ErrNotFound) {
		a.Metrics.PagesNotFound.Inc()
		return echo.NewHTTPError(http.StatusNotFound, notFoundMessage)
	}
	if err != nil {
		return err
	}
	a.Metrics.PagesRendered.Inc()
	return Render(c, a.Views.Component(views.BlogTemplate, views.Context{
		"site":     a.site(),
		"slug":     page.Slug,
		"title":    page.Title,
		"body":     page.Body,
		"modified": page.LastModified,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	entries, err := a.Store.ListEntries()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, entries)
}

func (a *App) handleFeed(c echo.Context) error {
	entries, err := a.Store.ListEntries()
	if err != nil {
		return err
	}
	return a.renderRSS(c, entries)
}

func (a *App) handleHealth(c echo.Context) error {
	if err := a.Store.Check(); err != nil {
		a.log.Warnw("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// page loads the post for slug and converts it to HTML.
func (a *App) page(slug string) (RenderedPage, error) {
	post, err := a.Store.ReadPost(slug)
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{
		Title:        TitleFromSlug(slug),
		Slug:         slug,
		Body:         template.HTML(a.Converter.Convert(post.Source)),
		LastModified: post.LastModified,
	}, nil
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Site.Name,
		URL:         a.Config.Site.URL,
		Description: a.Config.Site.Description,
		Author:      a.Config.Site.Author,
	}
}

// pathParam returns the decoded value of a route parameter. Echo leaves
// parameters percent-encoded when the request path carried escapes the
// default encoding would not produce (such as %2F).
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	switch {
	case code == http.StatusNotFound:
		if msg == http.StatusText(http.StatusNotFound) {
			msg = notFoundMessage
		}
	case code >= http.StatusInternalServerError:
		a.log.Errorw("server error",
			"error", err,
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	a.renderError(c, code, msg)
}

// renderError renders error.html, falling back to a plain text body when
// the template cannot be rendered.
func (a *App) renderError(c echo.Context, code int, msg string) {
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if a.Views != nil {
		err := RenderStatus(c, code, a.Views.Component(views.ErrorTemplate, views.Context{
			"site":        a.site(),
			"error":       msg,
			"status_code": code,
		}))
		if err == nil {
			return
		}
		a.log.Warnw("error page render failed", "error", err, "status", code)
	}
	_ = c.String(code, msg)
}
