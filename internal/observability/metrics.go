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

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics stores Prometheus collectors for repository calls and the
// operational HTTP surface.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal           *prometheus.CounterVec
	httpRequestDuration         *prometheus.HistogramVec
	repositoryOperationsTotal   *prometheus.CounterVec
	repositoryOperationDuration *prometheus.HistogramVec
	historyAppendedTotal        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifeguard_mongodb",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lifeguard_mongodb",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		repositoryOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifeguard_mongodb",
				Name:      "repository_operations_total",
				Help:      "Total number of repository operations by repository, operation, and outcome.",
			},
			[]string{"repository", "operation", "outcome"},
		),
		repositoryOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lifeguard_mongodb",
				Name:      "repository_operation_duration_seconds",
				Help:      "Document store round trip duration in seconds by repository and operation.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"repository", "operation"},
		),
		historyAppendedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifeguard_mongodb",
				Name:      "history_notifications_appended_total",
				Help:      "Total number of notification occurrences appended to history by notification type.",
			},
			[]string{"notification_type"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.repositoryOperationsTotal,
		m.repositoryOperationDuration,
		m.historyAppendedTotal,
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
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

// ObserveRepositoryOperation records one repository call and its store latency.
func (m *Metrics) ObserveRepositoryOperation(repository string, operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	repositoryLabel := normalizeLabel(repository)
	operationLabel := normalizeLabel(operation)

	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}

	m.repositoryOperationsTotal.WithLabelValues(repositoryLabel, operationLabel, outcome).Inc()
	m.repositoryOperationDuration.WithLabelValues(repositoryLabel, operationLabel).Observe(seconds)
}

func (m *Metrics) IncHistoryAppended(notificationType string) {
	if m == nil {
		return
	}
	m.historyAppendedTotal.WithLabelValues(normalizeLabel(notificationType)).Inc()
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

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

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
