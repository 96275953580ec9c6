package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "barcode_dispatch"

// Metrics stores Prometheus collectors used by the control API and the
// submission and download services.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal       *prometheus.CounterVec
	httpRequestDuration     *prometheus.HistogramVec
	generationsTotal        *prometheus.CounterVec
	downloadsTotal          *prometheus.CounterVec
	apiRequestDuration      *prometheus.HistogramVec
	operationInflight       *prometheus.GaugeVec
	rejectedOperationsTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "generations_total",
				Help:      "Barcode generation outcomes by submission mode.",
			},
			[]string{"mode", "outcome"},
		),
		downloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "downloads_total",
				Help:      "Barcode download outcomes.",
			},
			[]string{"outcome"},
		),
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "api_request_duration_seconds",
				Help:      "Barcode backend call duration in seconds grouped by endpoint.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"endpoint"},
		),
		operationInflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "operation_inflight",
				Help:      "Whether a submission or bulk download is currently running.",
			},
			[]string{"operation"},
		),
		rejectedOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rejected_operations_total",
				Help:      "Operations rejected because another one was in flight.",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.generationsTotal,
		m.downloadsTotal,
		m.apiRequestDuration,
		m.operationInflight,
		m.rejectedOperationsTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			// Write the error response now so the recorded status matches it.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return nil
		}

		m.recordHTTPRequest(c.Method(), path, responseStatus(c), time.Since(start))
		return nil
	}
}

func (m *Metrics) IncGeneration(mode string, outcome string) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(normalizeLabel(mode), normalizeLabel(outcome)).Inc()
}

func (m *Metrics) IncDownload(outcome string) {
	if m == nil {
		return
	}
	m.downloadsTotal.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *Metrics) ObserveAPIRequestDuration(endpoint string, duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.apiRequestDuration.WithLabelValues(normalizeLabel(endpoint)).Observe(seconds)
}

func (m *Metrics) IncInFlight(operation string) {
	if m == nil {
		return
	}
	m.operationInflight.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *Metrics) DecInFlight(operation string) {
	if m == nil {
		return
	}
	m.operationInflight.WithLabelValues(normalizeLabel(operation)).Dec()
}

func (m *Metrics) IncRejected(operation string) {
	if m == nil {
		return
	}
	m.rejectedOperationsTotal.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func responseStatus(c *fiber.Ctx) int {
	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeLabel(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
