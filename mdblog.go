// Package mdblog serves a directory of markdown files as a blog, built with
// Go, Echo, and templ.
//
// The index page lists every post in the content directory and each post is
// converted to HTML on request. Nothing is cached: adding, editing or
// removing a file is visible on the next request.
package mdblog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/views"
)

// App is the central mdblog application. It wires together the store,
// converter, templates, metrics and handlers. All of them are read-only
// once New returns.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Store     *Store
	Views     *views.Renderer
	Converter markdown.Converter
	Metrics   *Metrics

	log          *zap.SugaredLogger
	contentFS    fs.FS
	templatesFS  fs.FS
	customRoutes []func(*App)
}

// New creates an App from cfg. Missing fields take their defaults; the
// result is validated, and the page templates are loaded and checked.
//
// Metrics.Enabled and Security.RateLimit are used as given, so a zero
// SiteConfig serves without /metrics and without rate limiting. Start from
// DefaultConfig or LoadConfig to get both turned on.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mdblog: %w", err)
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		log, err := NewLogger(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("mdblog: %w", err)
		}
		a.log = log
	}

	conv, err := markdown.New(cfg.Markdown.Engine)
	if err != nil {
		return nil, fmt.Errorf("mdblog: %w", err)
	}
	a.Converter = conv

	if a.templatesFS == nil {
		a.templatesFS = DefaultTemplates()
		if cfg.Templates.Dir != "" {
			a.templatesFS = os.DirFS(cfg.Templates.Dir)
		}
	}
	renderer, err := views.New(a.templatesFS)
	if err != nil {
		return nil, fmt.Errorf("mdblog: load templates: %w", err)
	}
	if err := renderer.Require(views.Required...); err != nil {
		return nil, fmt.Errorf("mdblog: %w", err)
	}
	a.Views = renderer

	storeOpts := []StoreOption{
		WithExtension(cfg.Content.Extension),
		WithSortOrder(SortOrder(cfg.Index.Sort)),
		WithStoreLogger(a.log),
	}
	if a.contentFS != nil {
		a.Store = NewStoreFS(a.contentFS, storeOpts...)
	} else {
		a.Store = NewStore(cfg.Content.Dir, storeOpts...)
	}

	a.Metrics = newMetrics()

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	if a.Config.Static.Dir != "" {
		e.Static("/public", a.Config.Static.Dir)
	}

	e.GET("/", a.handleIndex)
	e.GET("/blogs/:slug", a.handleBlog)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/healthz", a.handleHealth)

	if a.Config.Metrics.Enabled {
		e.GET("/metrics", a.Metrics.handler())
	}
}

// Logger returns the application logger.
func (a *App) Logger() *zap.SugaredLogger {
	return a.log
}

// Start listens on server.addr and blocks until the server stops. A clean
// shutdown returns nil.
func (a *App) Start() error {
	srv := &http.Server{
		Addr:         a.Config.Server.Addr,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
	a.log.Infow("starting server",
		"addr", a.Config.Server.Addr,
		"content_dir", a.Config.Content.Dir,
		"engine", a.Config.Markdown.Engine,
	)
	if err := a.Echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run starts the server and shuts it down gracefully once ctx is done,
// waiting at most server.shutdown_timeout for in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Infow("shutting down", "timeout", a.Config.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown stops accepting connections and waits for active requests.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("mdblog: shutdown: %w", err)
	}
	return nil
}

// Close flushes the logger. Call this when the app is shutting down.
func (a *App) Close() error {
	_ = a.log.Sync()
	return nil
}
