package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facilities",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status class.",
	}, []string{"route", "method", "result"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facilities",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route, method and status class.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "result"})
)

// Metrics records request count and latency keyed by the route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		result := strconv.Itoa(c.Writer.Status()/100) + "xx"
		httpRequests.WithLabelValues(route, c.Request.Method, result).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method, result).Observe(time.Since(start).Seconds())
	}
}
