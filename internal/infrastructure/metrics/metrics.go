// Package metrics holds the Prometheus instruments for the HTTP surface.
//
// Every Metrics value owns its registry, so tests and multiple servers in one
// process never collide on registration.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
)

const (
	metricsNamespace    = "conservancy"
	appearanceSubsystem = "appearance"
	httpSubsystem       = "http"
	cacheSubsystem      = "cache"
)

// Metrics groups the service's instruments.
type Metrics struct {
	registry *prometheus.Registry

	// CookieFallbacksTotal counts cookies replaced by defaults.
	// Labels: cookie, reason (missing, invalid)
	CookieFallbacksTotal *prometheus.CounterVec

	// PreferenceUpdatesTotal counts accepted preference changes.
	// Labels: field (theme, palette), value
	PreferenceUpdatesTotal *prometheus.CounterVec

	// RequestsTotal counts handled requests.
	// Labels: route, method, status
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures handler latency.
	// Labels: route
	RequestDurationSeconds *prometheus.HistogramVec

	// RevalidationsTotal counts revalidation calls.
	// Labels: result (accepted, unauthorized, invalid, disabled)
	RevalidationsTotal *prometheus.CounterVec
}

// New registers the instruments, plus Go runtime and process collectors, on
// a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CookieFallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: appearanceSubsystem,
				Name:      "cookie_fallbacks_total",
				Help:      "Appearance cookies that were missing or invalid and fell back to a default",
			},
			[]string{"cookie", "reason"},
		),
		PreferenceUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: appearanceSubsystem,
				Name:      "preference_updates_total",
				Help:      "Accepted appearance preference updates by field and value",
			},
			[]string{"field", "value"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "request_duration_seconds",
				Help:      "HTTP handler latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"route"},
		),
		RevalidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: cacheSubsystem,
				Name:      "revalidations_total",
				Help:      "Cache revalidation requests by result",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveFallbacks records cookies that were replaced by defaults, as
// reported by cookie.Fallbacks.
func (m *Metrics) ObserveFallbacks(fallbacks []cookie.Fallback) {
	if m == nil {
		return
	}
	for _, f := range fallbacks {
		m.CookieFallbacksTotal.WithLabelValues(f.Cookie, f.Reason).Inc()
	}
}

// ObserveUpdate records an accepted preference change.
func (m *Metrics) ObserveUpdate(field, value string) {
	if m == nil {
		return
	}
	m.PreferenceUpdatesTotal.WithLabelValues(field, value).Inc()
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveRevalidation records the outcome of a revalidation call.
func (m *Metrics) ObserveRevalidation(result string) {
	if m == nil {
		return
	}
	m.RevalidationsTotal.WithLabelValues(result).Inc()
}
