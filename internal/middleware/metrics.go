package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Remote lexical/news source calls
	sourceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "word_source_calls_total",
			Help: "Total number of calls to remote word sources",
		},
		[]string{"source", "status"},
	)

	sourceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "word_source_call_duration_seconds",
			Help:    "Remote word source call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	aggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "word_aggregations_total",
			Help: "Total number of daily word aggregation runs",
		},
		[]string{"outcome"},
	)

	aggregationPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "word_aggregation_pool_size",
			Help: "Candidate pool size of the last aggregation run",
		},
	)

	aggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "word_aggregation_duration_seconds",
			Help:    "Daily word aggregation duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daily_cache_lookups_total",
			Help: "Total number of daily cache lookups",
		},
		[]string{"cache", "state"},
	)
)

// MetricsMiddleware collects Prometheus metrics for every HTTP request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordSourceCall records one call to a remote word source.
func RecordSourceCall(source string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	sourceCallsTotal.WithLabelValues(source, status).Inc()
	sourceCallDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordAggregation records the outcome of one aggregation run
// (complete, partial, degraded or failed).
func RecordAggregation(outcome string, poolSize int, duration time.Duration) {
	aggregationsTotal.WithLabelValues(outcome).Inc()
	aggregationPoolSize.Set(float64(poolSize))
	aggregationDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records whether a daily cache was fresh when read.
func RecordCacheLookup(cache string, fresh bool) {
	state := "stale"
	if fresh {
		state = "fresh"
	}
	cacheLookupsTotal.WithLabelValues(cache, state).Inc()
}
