package mdblog

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsSubsystem = "mdblog"

// Metrics holds the domain counters. Each App owns its registry so several
// apps (e.g. in tests) never collide on registration.
type Metrics struct {
	Registry      *prometheus.Registry
	PagesRendered prometheus.Counter
	PagesNotFound prometheus.Counter
	IndexEntries  prometheus.Gauge
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		PagesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: metricsSubsystem,
			Name:      "pages_rendered_total",
			Help:      "Blog pages converted from markdown and served.",
		}),
		PagesNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: metricsSubsystem,
			Name:      "pages_not_found_total",
			Help:      "Blog page requests for unknown or invalid slugs.",
		}),
		IndexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: metricsSubsystem,
			Name:      "index_entries",
			Help:      "Entries listed by the most recent index request.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PagesRendered,
		m.PagesNotFound,
		m.IndexEntries,
	)
	return m
}

func (m *Metrics) middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: m.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

func (m *Metrics) handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: m.Registry,
	})
}
