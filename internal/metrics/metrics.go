// Package metrics exposes the Prometheus collectors of the API.
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
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path", "status"},
	)

	cartRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_cart_recomputes_total",
			Help: "Cart total recomputations by outcome",
		},
		[]string{"status"},
	)

	ordersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_orders_placed_total",
			Help: "Orders submitted by order type and outcome",
		},
		[]string{"order_type", "status"},
	)

	orderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pos_order_final_total",
			Help:    "Final total of placed orders in major currency units",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
	)
)

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func RecordRecompute(success bool) {
	cartRecomputes.WithLabelValues(outcome(success)).Inc()
}

func RecordOrderPlaced(orderType string, finalTotal float64, success bool) {
	ordersPlaced.WithLabelValues(orderType, outcome(success)).Inc()
	if success {
		orderValue.Observe(finalTotal)
	}
}
