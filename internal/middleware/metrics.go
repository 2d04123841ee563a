package middleware

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeinbox_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeinbox_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	inflightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipeinbox_http_inflight_requests",
			Help: "Requests currently being served",
		},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeinbox_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)
)

// Metrics records request count and latency per route template.
// Websocket upgrades are counted but not timed; their duration is the connection lifetime.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/metrics" {
			c.Next()
			return
		}
		if route == "" {
			route = "unmatched"
		}

		start := time.Now()
		inflightRequests.Inc()
		c.Next()
		inflightRequests.Dec()

		method := c.Request.Method
		apiRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		if route != "/ws" {
			apiRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		}
	}
}

// RegisterConnectionGauges exposes the DB pool and live websocket counts, sampled at scrape time.
// Call once per process.
func RegisterConnectionGauges(dbStats func() sql.DBStats, liveSockets func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "recipeinbox_db_connections_in_use",
		Help: "Database connections currently in use",
	}, func() float64 { return float64(dbStats().InUse) })

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "recipeinbox_ws_connections",
		Help: "Live websocket connections on this instance",
	}, func() float64 { return float64(liveSockets()) })
}
