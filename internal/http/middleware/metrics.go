// Package middleware contains shared Gin middleware used by the gateway.
//
// This file exposes Prometheus instrumentation for gateway traffic. The
// Metrics() middleware measures request counts, latencies, in-flight
// concurrency, and response sizes with careful attention to label
// cardinality:
//
//   - method:   HTTP method verb (GET/POST/…)
//   - path:     the registered Gin route (e.g. /course/get/:id); falls back
//     to the raw URL path when no route matched
//   - status:   numeric status code as a string (e.g. "200", "404")
//
// In addition, ObserveUpstreamFailure counts failed backend RPCs by gRPC
// status code so dashboards can separate client mistakes from backend
// trouble. All collectors are safe for concurrent use.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// gwReqs counts requests by method, route path, and status code.
	gwReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of HTTP requests handled by the gateway.",
		},
		[]string{"method", "path", "status"},
	)

	// gwLat records request duration in seconds by method and route path.
	// Status is omitted to keep histogram cardinality lower.
	gwLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Duration of gateway HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// gwInflight gauges the number of in-flight requests.
	gwInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_http_requests_inflight",
			Help: "Current number of in-flight gateway HTTP requests.",
		},
	)

	// gwRespSize captures response sizes in bytes by method and route path.
	// Buckets are tuned for typical JSON API payload sizes.
	gwRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_http_response_size_bytes",
			Help: "Size of gateway HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 2 << 10, 5 << 10,
				10 << 10, 25 << 10, 50 << 10,
				100 << 10, 250 << 10, 500 << 10,
				1 << 20,
			},
		},
		[]string{"method", "path"},
	)

	// gwUpstreamFailures counts backend RPC failures by gRPC status code.
	gwUpstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_failures_total",
			Help: "Total number of failed backend RPC calls by gRPC status code.",
		},
		[]string{"grpc_code"},
	)
)

func init() {
	prometheus.MustRegister(gwReqs, gwLat, gwInflight, gwRespSize, gwUpstreamFailures)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// The "path" label uses the registered route (c.FullPath()) to avoid
// unbounded label cardinality from raw URLs; when no route matched (404) it
// falls back to c.Request.URL.Path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		gwInflight.Inc()
		defer gwInflight.Dec()

		c.Next()

		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		size := c.Writer.Size() // -1 when unknown

		gwReqs.WithLabelValues(method, path, status).Inc()
		gwLat.WithLabelValues(method, path).Observe(dur)
		if size >= 0 {
			gwRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}

// ObserveUpstreamFailure records one failed backend RPC with the given gRPC
// status code string (e.g. "NotFound"). Called by handlers when a forwarded
// call comes back with a non-OK status.
func ObserveUpstreamFailure(code string) {
	gwUpstreamFailures.WithLabelValues(code).Inc()
}
