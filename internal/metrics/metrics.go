// Package metrics exposes Prometheus collectors for menu sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the session service updates.
type Metrics struct {
	registry *prometheus.Registry

	SessionsActive  prometheus.Gauge
	SessionsOpened  prometheus.Counter
	SessionsReaped  prometheus.Counter
	CartMutations   *prometheus.CounterVec
	Navigations     *prometheus.CounterVec
	CatalogLoadTime prometheus.Histogram
	CatalogErrors   prometheus.Counter
}

// New registers all collectors, plus Go runtime and process collectors, on
// a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "menu",
			Name:      "sessions_active",
			Help:      "Menu sessions currently mounted.",
		}),
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menu",
			Name:      "sessions_opened_total",
			Help:      "Menu sessions opened.",
		}),
		SessionsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menu",
			Name:      "sessions_reaped_total",
			Help:      "Idle menu sessions closed by the reaper.",
		}),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menu",
			Name:      "cart_mutations_total",
			Help:      "Cart operations by kind.",
		}, []string{"op"}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menu",
			Name:      "navigations_total",
			Help:      "Screen transitions by target screen.",
		}, []string{"screen"}),
		CatalogLoadTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "menu",
			Name:      "catalog_load_seconds",
			Help:      "Time spent loading the catalog on session mount.",
			Buckets:   prometheus.DefBuckets,
		}),
		CatalogErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menu",
			Name:      "catalog_load_errors_total",
			Help:      "Catalog loads that failed.",
		}),
	}
	m.registry.MustRegister(
		m.SessionsActive,
		m.SessionsOpened,
		m.SessionsReaped,
		m.CartMutations,
		m.Navigations,
		m.CatalogLoadTime,
		m.CatalogErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
