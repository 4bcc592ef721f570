package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tea_shop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tea_shop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	FilterQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tea_shop_filter_queries_total",
			Help: "Total number of named product filter queries",
		},
		[]string{"filter"},
	)

	StockReductionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tea_shop_stock_reductions_total",
			Help: "Total number of stock reduction attempts",
		},
		[]string{"outcome"},
	)
)

// Middleware records request counts and latency per route.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		duration := time.Since(start).Seconds()
		method := c.Request().Method
		path := c.Path()
		status := strconv.Itoa(c.Response().Status)

		HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)

		return err
	}
}

func RecordFilterQuery(filter string) {
	FilterQueriesTotal.WithLabelValues(filter).Inc()
}

func RecordStockReduction(outcome string) {
	StockReductionsTotal.WithLabelValues(outcome).Inc()
}
