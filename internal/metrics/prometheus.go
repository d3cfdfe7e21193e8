package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)
	listingTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_transitions_total",
			Help: "Listing status transitions applied, by edge.",
		},
		[]string{"from", "to"},
	)
	auditWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_activity_write_failures_total",
			Help: "Activity log writes that failed and were dropped.",
		},
	)
	permissionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "section_permission_cache_total",
			Help: "Section permission cache lookups, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(listingTransitionsTotal)
	prometheus.MustRegister(auditWriteFailuresTotal)
	prometheus.MustRegister(permissionCacheTotal)
}

func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func RecordTransition(from, to string, n int) {
	listingTransitionsTotal.WithLabelValues(from, to).Add(float64(n))
}

func RecordAuditFailure() {
	auditWriteFailuresTotal.Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		permissionCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	permissionCacheTotal.WithLabelValues("miss").Inc()
}

// Middleware records every request under its route pattern, not the raw
// path, so ids do not explode label cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		RecordRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown_" + strconv.Itoa(statusCode)
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
