package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examhall_sessions_started_total",
			Help: "Total number of exam sessions started",
		},
	)

	SessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examhall_sessions_completed_total",
			Help: "Total number of exam sessions finalized",
		},
	)

	SessionsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examhall_sessions_deleted_total",
			Help: "Total number of exam sessions deleted",
		},
	)

	AnswersRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examhall_answers_recorded_total",
			Help: "Total number of answer submissions stored",
		},
	)

	ScorePercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "examhall_score_percentage",
			Help:    "Distribution of final exam scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "examhall_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Middleware records request latency by route template, not raw path, so
// session tokens never become label values.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
