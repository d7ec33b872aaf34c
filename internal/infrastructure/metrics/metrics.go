// Package metrics provides Prometheus metrics for the shoe search service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shoefinder"

// Metrics owns a private registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// SearchTotal counts searches by outcome.
	SearchTotal *prometheus.CounterVec

	// SearchDuration measures end-to-end search duration.
	SearchDuration *prometheus.HistogramVec

	// CatalogRefreshTotal counts upstream catalog refreshes by status.
	CatalogRefreshTotal *prometheus.CounterVec

	// CatalogRefreshDuration measures upstream catalog refresh duration.
	CatalogRefreshDuration prometheus.Histogram

	// CatalogProducts is the product count of the last successful refresh.
	CatalogProducts prometheus.Gauge

	// ImageFetchTotal counts thumbnail lookups by outcome.
	ImageFetchTotal *prometheus.CounterVec
}

// New creates the collectors and registers them, plus Go runtime collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_total",
				Help:      "Total number of shoe searches",
			},
			[]string{"outcome"},
		),
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of shoe searches in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		CatalogRefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_refresh_total",
				Help:      "Total number of upstream catalog refreshes",
			},
			[]string{"status"},
		),
		CatalogRefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "catalog_refresh_duration_seconds",
				Help:      "Duration of upstream catalog refreshes in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		CatalogProducts: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_products",
				Help:      "Number of products in the current catalog snapshot",
			},
		),
		ImageFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_fetch_total",
				Help:      "Total number of thumbnail lookups",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveSearch records a search outcome
func (m *Metrics) ObserveSearch(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SearchTotal.WithLabelValues(outcome).Inc()
	m.SearchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveRefresh records an upstream catalog refresh
func (m *Metrics) ObserveRefresh(err error, products int, duration time.Duration) {
	if m == nil {
		return
	}
	m.CatalogRefreshDuration.Observe(duration.Seconds())
	if err != nil {
		m.CatalogRefreshTotal.WithLabelValues("error").Inc()
		return
	}
	m.CatalogRefreshTotal.WithLabelValues("success").Inc()
	m.CatalogProducts.Set(float64(products))
}

// ObserveImage records a thumbnail lookup outcome
func (m *Metrics) ObserveImage(outcome string) {
	if m == nil {
		return
	}
	m.ImageFetchTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
