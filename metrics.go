package gopolls

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gopolls_http_requests_total",
		Help: "Count of handled HTTP requests.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gopolls_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// MetricsMiddleware instruments handled requests by route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.With(prometheus.Labels{
			"method": ctx.Request.Method,
			"path":   path,
			"status": strconv.Itoa(ctx.Writer.Status()),
		}).Inc()

		httpRequestDuration.With(prometheus.Labels{
			"method": ctx.Request.Method,
			"path":   path,
		}).Observe(time.Since(start).Seconds())
	}
}

// SetupMetricsRouter exposes the prometheus scrape endpoint.
func SetupMetricsRouter(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
