// Package metrics exports store activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skotchmaster/storefront/internal/events"
)

const namespace = "storefront"

type Metrics struct {
	registry *prometheus.Registry

	storeEvents    *prometheus.CounterVec
	refreshSeconds prometheus.Histogram
}

// New registers the collectors on a fresh registry. activeSessions is read
// on every scrape.
func New(activeSessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		storeEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_events_total",
			Help:      "Store state changes by store and event type.",
		}, []string{"store", "type"}),
		refreshSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_refresh_seconds",
			Help:      "Duration of catalog fetches from the remote source.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if activeSessions != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Browser sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) })
	}
	return m
}

func (m *Metrics) Listener() events.Listener {
	return func(e events.Event) {
		m.storeEvents.WithLabelValues(e.Store, e.Type).Inc()
		if e.Store != events.StoreCatalog {
			return
		}
		if e.Type == events.CatalogRefreshed || e.Type == events.CatalogRefreshFailed {
			if d, ok := e.Payload["duration_seconds"].(float64); ok {
				m.refreshSeconds.Observe(d)
			}
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
