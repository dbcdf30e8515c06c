// Package metrics exposes Prometheus counters for HTTP traffic and checkouts.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	paymentsTotal       *prometheus.CounterVec
	vouchersIssued      prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		// Route templates keep label cardinality bounded.
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
		paymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wifi_payments_total",
				Help: "Checkout attempts by payment method and outcome.",
			},
			[]string{"method", "status"},
		),
		vouchersIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "wifi_vouchers_issued_total",
			Help: "Vouchers issued after a successful payment.",
		}),
	}
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, code).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, code).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// ObservePayment counts a checkout attempt.
func (m *Metrics) ObservePayment(method, status string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(method, status).Inc()
}

// ObserveVoucherIssued counts an issued voucher.
func (m *Metrics) ObserveVoucherIssued() {
	if m == nil {
		return
	}
	m.vouchersIssued.Inc()
}
