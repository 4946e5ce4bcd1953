package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/config"
	"github.com/Debjit29092022/resto-kot-creator/controllers"
	"github.com/Debjit29092022/resto-kot-creator/middleware"
	"github.com/Debjit29092022/resto-kot-creator/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Restaurant POS API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := newImageService(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up image storage: %v", err)
	}

	a, err := newApp(ctx, cfg, images, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := setupRouter(cfg, a, logger)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}

// setupRouter registers every route of the POS API
func setupRouter(cfg *config.Config, a *app, logger *slog.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger), a.metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || slices.Contains(cfg.CORSAllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	menuController := controllers.NewMenuController(a.menu)
	orderController := controllers.NewOrderController(a.orders)
	kitchenController := controllers.NewKitchenController(a.kitchen, cfg.KitchenPollInterval, logger)
	dashboardController := controllers.NewDashboardController(a.analytics, a.metrics, logger)
	profileController := controllers.NewProfileController(a.profile)
	settingsController := controllers.NewSettingsController(a.settings)
	uploadController := controllers.NewUploadController(cfg.UploadDir)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", a.databaseStatus)
		v1.GET("/uploads/:filename", uploadController.GetUploadedImage)
	}

	api := v1.Group("")
	admin := []gin.HandlerFunc{}
	if cfg.AuthEnabled() {
		guard, err := middleware.EnsureValidToken(cfg, logger)
		if err != nil {
			return nil, err
		}
		api.Use(guard)
		admin = append(admin, middleware.RequireScope(middleware.AdminScope))
	} else {
		logger.Warn("AUTH0_DOMAIN is not set, API routes are unauthenticated")
	}

	adminOnly := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), h)
	}

	{
		api.GET("/menu", menuController.ListMenuItems)
		api.GET("/menu/categories", menuController.ListCategories)
		api.GET("/menu/:id", menuController.GetMenuItem)
		api.POST("/menu", adminOnly(menuController.CreateMenuItem)...)
		api.PUT("/menu/:id", adminOnly(menuController.UpdateMenuItem)...)
		api.DELETE("/menu/:id", adminOnly(menuController.DeleteMenuItem)...)

		api.GET("/orders", orderController.ListOrders)
		api.POST("/orders", orderController.CreateOrder)
		api.GET("/orders/:id", orderController.GetOrder)
		api.DELETE("/orders/:id", adminOnly(orderController.DeleteOrder)...)
		api.PATCH("/orders/:id/status", orderController.UpdateOrderStatus)
		api.GET("/orders/:id/kot", orderController.GetKOT)
		api.POST("/orders/:id/kot/print", orderController.PrintKOT)

		api.GET("/kitchen/orders", kitchenController.ListActiveOrders)
		api.POST("/kitchen/orders/:id/complete", kitchenController.CompleteOrder)
		api.GET("/kitchen/stream", kitchenController.Stream)

		api.GET("/dashboard/analytics", dashboardController.GetAnalytics)

		api.GET("/profile", profileController.GetProfile)
		api.PUT("/profile", adminOnly(profileController.UpdateProfile)...)
		api.POST("/profile/logo", adminOnly(profileController.UploadLogo)...)
		api.DELETE("/profile/logo", adminOnly(profileController.DeleteLogo)...)

		api.GET("/settings", settingsController.GetSettings)
		api.PUT("/settings", adminOnly(settingsController.UpdateSettings)...)
	}

	return router, nil
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Restaurant POS API is running",
	})
}

// databaseStatus reports the record store and mirror state
func (a *app) databaseStatus(c *gin.Context) {
	ctx := c.Request.Context()

	if err := a.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Local store is unavailable",
			},
		})
		return
	}

	version, err := a.store.SchemaVersion(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to read schema version",
			},
		})
		return
	}

	mirrorStatus := "disabled"
	if a.mirror.Enabled() {
		mirrorStatus = "connected"
		if err := a.mirror.Ping(ctx); err != nil {
			mirrorStatus = "unreachable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Database connected",
		"schema_version": version,
		"tables":         store.CollectionNames(),
		"mirror":         mirrorStatus,
	})
}
