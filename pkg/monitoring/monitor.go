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

	// AttemptCounter 按结果统计作答
	AttemptCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizpath_attempts_total",
			Help: "Recorded attempts by outcome",
		},
		[]string{"topic", "outcome"},
	)

	// TierTransitionCounter 档位变化（晋级/降级）
	TierTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizpath_tier_transitions_total",
			Help: "Difficulty tier changes caused by attempts",
		},
		[]string{"from", "to"},
	)

	LockedAttemptCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quizpath_locked_attempts_total",
			Help: "Attempts rejected because the concept is locked",
		},
	)

	ReviewCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizpath_reviews_total",
			Help: "Flashcard review answers by bucket and outcome",
		},
		[]string{"bucket", "outcome"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			AttemptCounter,
			TierTransitionCounter,
			LockedAttemptCounter,
			ReviewCounter,
		)
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

func Outcome(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
