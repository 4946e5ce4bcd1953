// Package metrics exposes POS counters on a dedicated prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of the API. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ordersPlaced      prometheus.Counter
	orderValue        prometheus.Histogram
	statusChanges     *prometheus.CounterVec
	kotsPrinted       prometheus.Counter
	mirrorFailures    *prometheus.CounterVec
	activeOrders      prometheus.Gauge
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	dashboardFallback prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_orders_placed_total",
			Help: "Orders placed",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_order_total_amount",
			Help:    "Order totals including tax",
			Buckets: prometheus.LinearBuckets(0, 250, 12),
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_order_status_changes_total",
			Help: "Order status transitions by target status",
		}, []string{"status"}),
		kotsPrinted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_kots_printed_total",
			Help: "Kitchen order tickets printed",
		}),
		mirrorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_mirror_failures_total",
			Help: "Relational mirror writes that failed",
		}, []string{"operation"}),
		activeOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_kitchen_active_orders",
			Help: "Pending and processing orders seen by the last kitchen read",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		dashboardFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_dashboard_placeholder_total",
			Help: "Dashboard responses served with placeholder data",
		}),
	}

	registry.MustRegister(
		m.ordersPlaced,
		m.orderValue,
		m.statusChanges,
		m.kotsPrinted,
		m.mirrorFailures,
		m.activeOrders,
		m.httpRequests,
		m.httpDuration,
		m.dashboardFallback,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// OrderPlaced records a new order and its total.
func (m *Metrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderValue.Observe(total)
}

// StatusChanged records a transition to status.
func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// KOTPrinted records a printed ticket.
func (m *Metrics) KOTPrinted() {
	if m == nil {
		return
	}
	m.kotsPrinted.Inc()
}

// MirrorFailed records a failed mirror write.
func (m *Metrics) MirrorFailed(operation string) {
	if m == nil {
		return
	}
	m.mirrorFailures.WithLabelValues(operation).Inc()
}

// SetActiveOrders records the size of the kitchen queue.
func (m *Metrics) SetActiveOrders(n int) {
	if m == nil {
		return
	}
	m.activeOrders.Set(float64(n))
}

// DashboardFallback records a placeholder dashboard response.
func (m *Metrics) DashboardFallback() {
	if m == nil {
		return
	}
	m.dashboardFallback.Inc()
}

// Middleware counts requests and observes latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
