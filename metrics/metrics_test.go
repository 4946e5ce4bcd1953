package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.OrderPlaced(341.25)
	m.OrderPlaced(100)
	m.KOTPrinted()
	m.StatusChanged("completed")
	m.StatusChanged("completed")
	m.MirrorFailed("save")
	m.SetActiveOrders(4)
	m.DashboardFallback()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.kotsPrinted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mirrorFailures.WithLabelValues("save")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeOrders))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dashboardFallback))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderPlaced(10)
		m.KOTPrinted()
		m.StatusChanged("pending")
		m.MirrorFailed("delete")
		m.SetActiveOrders(1)
		m.DashboardFallback()
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/ping/:id", "GET", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pos_http_requests_total")
	assert.Contains(t, w.Body.String(), "pos_orders_placed_total")
}
