package monitoring

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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AttemptsSubmitted mode: manual | auto
	AttemptsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_attempts_submitted_total",
			Help: "Exam attempts submitted and graded",
		},
		[]string{"mode"},
	)

	SweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_sweep_runs_total",
			Help: "Scheduler sweep executions",
		},
		[]string{"sweep"},
	)

	SweepFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_sweep_item_failures_total",
			Help: "Entities a scheduler sweep failed to process",
		},
		[]string{"sweep"},
	)

	// GenerationJobs result: completed | failed
	GenerationJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_question_generation_jobs_total",
			Help: "AI question generation jobs by result",
		},
		[]string{"result"},
	)

	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_question_generation_duration_seconds",
			Help:    "Duration of AI question generation jobs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AttemptsSubmitted)
		prometheus.MustRegister(SweepRuns)
		prometheus.MustRegister(SweepFailures)
		prometheus.MustRegister(GenerationJobs)
		prometheus.MustRegister(GenerationDuration)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
