// Package metrics exposes Prometheus collectors for HTTP traffic and the
// attempt lifecycle.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)

	// SubmissionTransitions counts lifecycle events by type (started, resumed, answered, expired, submitted).
	SubmissionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_transitions_total",
			Help: "Exam attempt lifecycle events",
		},
		[]string{"type"},
	)

	// SubmissionScores observes final scores of submitted attempts.
	SubmissionScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "submission_score",
			Help:    "Final score of submitted attempts",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// EventsPersisted counts submission events written by the event worker.
	EventsPersisted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "submission_events_persisted_total",
			Help: "Submission events flushed to PostgreSQL",
		},
	)
)

var registerOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			SubmissionTransitions,
			SubmissionScores,
			EventsPersisted,
		)
	})
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
