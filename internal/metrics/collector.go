// Package metrics, Prometheus metriklerini tek bir yerde tanımlar. HTTP
// istek metrikleri request timer'ın ürettiği kayıtlardan beslenir; böylece
// log satırı ile metrik aynı ölçümü paylaşır.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/intelliview/intelliview-api/internal/middleware"
)

// unmatchedRoute, hiçbir route'a uymayan istekler için etikettir. Ham path
// kullanılmaz; aksi halde etiket kardinalitesi sınırsız büyür.
const unmatchedRoute = "unmatched"

// Metrics, uygulama metrik kümesidir.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal, tamamlanan HTTP istekleri.
	// Etiketler: method, route, status
	RequestsTotal *prometheus.CounterVec

	// RequestDuration, istek süresi (milisaniye).
	// Etiketler: method, route
	RequestDuration *prometheus.HistogramVec

	// DependencyUp, health check'te bağımlılık durumu (1 ayakta, 0 değil).
	// Etiketler: dependency
	DependencyUp *prometheus.GaugeVec
}

// New, metrikleri yeni bir registry üzerinde oluşturur ve kaydeder.
// namespace tüm metrik adlarına önek olur.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_ms",
				Help:      "HTTP request duration in milliseconds",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"method", "route"},
		),
		DependencyUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dependency_up",
				Help:      "Whether a dependency answered the last health check",
			},
			[]string{"dependency"},
		),
	}
}

// Registry, metriklerin kayıtlı olduğu registry'dir.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler, /metrics endpoint'i için exposition handler'ıdır.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest, middleware.Observer arayüzünü sağlar.
func (m *Metrics) ObserveRequest(r *http.Request, rec middleware.RequestRecord) {
	route := RoutePattern(r)
	m.RequestsTotal.WithLabelValues(rec.Method, route, statusLabel(rec.Status)).Inc()
	m.RequestDuration.WithLabelValues(rec.Method, route).Observe(rec.ElapsedMilliseconds())
}

// SetDependency, bağımlılık durumunu kaydeder.
func (m *Metrics) SetDependency(name string, up bool) {
	value := 0.0
	if up {
		value = 1
	}
	m.DependencyUp.WithLabelValues(name).Set(value)
}

// RoutePattern, chi'nin eşleştirdiği route pattern'ını döndürür.
func RoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

func statusLabel(status int) string {
	if status == middleware.StatusUnset {
		return "-"
	}
	return strconv.Itoa(status)
}

var _ middleware.Observer = (*Metrics)(nil)
