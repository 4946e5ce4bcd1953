package controllers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/Debjit29092022/resto-kot-creator/metrics"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/gin-gonic/gin"
)

// DashboardController serves the sales dashboard
type DashboardController struct {
	analytics *services.AnalyticsService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewDashboardController creates the controller. mtr may be nil.
func NewDashboardController(analytics *services.AnalyticsService, mtr *metrics.Metrics, logger *slog.Logger) *DashboardController {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DashboardController{analytics: analytics, metrics: mtr, logger: logger.With("component", "dashboard")}
}

// GetAnalytics handles GET /api/v1/dashboard/analytics
// When the orders cannot be read the demo snapshot is returned, flagged with placeholder=true.
func (dc *DashboardController) GetAnalytics(c *gin.Context) {
	analytics, err := dc.analytics.SalesAnalytics(c.Request.Context())
	if err != nil {
		dc.logger.Warn("Falling back to placeholder analytics", "error", err)
		dc.metrics.DashboardFallback()
		placeholder := services.PlaceholderAnalytics()
		analytics = &placeholder
	}
	respondSuccess(c, http.StatusOK, analytics)
}
