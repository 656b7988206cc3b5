// Package metrics exposes Prometheus counters and latency histograms for
// searches and Notion page creation.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/booknotion/internal/apierrors"
)

const namespace = "booknotion"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec
	pages          *prometheus.CounterVec
	failures       *prometheus.CounterVec
	operationTimes *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Book searches by outcome.",
		}, []string{"outcome"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notion_pages_total",
			Help:      "Notion page creation attempts by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed operations by operation and error kind.",
		}, []string{"operation", "kind"}),
		operationTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of searches and adds, including upstream calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.searches,
		m.pages,
		m.failures,
		m.operationTimes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(results int, err error, elapsed time.Duration) {
	m.operationTimes.WithLabelValues("search").Observe(elapsed.Seconds())

	switch {
	case err != nil:
		m.searches.WithLabelValues(OutcomeError).Inc()
		m.failures.WithLabelValues("search", ErrorKind(err)).Inc()
	case results == 0:
		m.searches.WithLabelValues(OutcomeEmpty).Inc()
	default:
		m.searches.WithLabelValues(OutcomeOK).Inc()
	}
}

// ObserveAdd records one attempt to create a Notion page.
func (m *Metrics) ObserveAdd(err error, elapsed time.Duration) {
	m.operationTimes.WithLabelValues("add").Observe(elapsed.Seconds())

	if err != nil {
		m.pages.WithLabelValues(OutcomeError).Inc()
		m.failures.WithLabelValues("add", ErrorKind(err)).Inc()
		return
	}
	m.pages.WithLabelValues(OutcomeOK).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ErrorKind names the taxonomy class of err for use as a label.
func ErrorKind(err error) string {
	var malformed *apierrors.MalformedResponseError

	switch {
	case apierrors.IsConfiguration(err):
		return "configuration"
	case apierrors.IsValidation(err):
		return "validation"
	case errors.As(err, &malformed):
		return "malformed_response"
	case apierrors.IsTransport(err):
		return "transport"
	default:
		return "other"
	}
}
