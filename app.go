package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Debjit29092022/resto-kot-creator/config"
	"github.com/Debjit29092022/resto-kot-creator/metrics"
	"github.com/Debjit29092022/resto-kot-creator/mirror"
	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/Debjit29092022/resto-kot-creator/store"
)

// app holds the opened storage and the services built on it
type app struct {
	store   *store.Store
	mirror  *mirror.Mirror
	metrics *metrics.Metrics

	menu      *services.MenuService
	orders    *services.OrderService
	kitchen   *services.KitchenService
	analytics *services.AnalyticsService
	profile   *services.ProfileService
	settings  *services.SettingsService
}

// newApp opens the record store and the optional mirror and wires the services.
// An unreachable mirror is logged and left disabled.
func newApp(ctx context.Context, cfg *config.Config, images services.ImageService, logger *slog.Logger) (*app, error) {
	var catalog []models.MenuItem
	if cfg.MenuCatalogFile != "" {
		var err error
		if catalog, err = store.LoadCatalogFile(cfg.MenuCatalogFile); err != nil {
			return nil, err
		}
		logger.Info("Loaded menu catalog", "file", cfg.MenuCatalogFile, "items", len(catalog))
	}

	s, err := store.Open(ctx, cfg.StorePath, store.Options{Catalog: catalog, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", cfg.StorePath, err)
	}

	var m *mirror.Mirror
	if cfg.MirrorEnabled() {
		if m, err = mirror.Open(ctx, cfg.MirrorDatabaseURL, logger); err != nil {
			logger.Warn("Relational mirror unavailable, continuing without it", "error", err)
			m = nil
		} else {
			logger.Info("Relational mirror connected")
		}
	}

	mtr := metrics.New()
	settings := services.NewSettingsService(s, logger)
	profile := services.NewProfileService(s, images, logger)
	orders := services.NewOrderService(s, m, settings, profile, mtr, logger)

	return &app{
		store:     s,
		mirror:    m,
		metrics:   mtr,
		menu:      services.NewMenuService(s, logger),
		orders:    orders,
		kitchen:   services.NewKitchenService(s, orders, mtr),
		analytics: services.NewAnalyticsService(s, cfg.Location(), logger),
		profile:   profile,
		settings:  settings,
	}, nil
}

// newImageService stores logos in S3 when a bucket is configured, otherwise on local disk
func newImageService(ctx context.Context, cfg *config.Config) (services.ImageService, error) {
	if !cfg.S3Enabled() {
		return services.NewLocalImageService(cfg.UploadDir), nil
	}
	s3Service, err := services.NewS3Service(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return services.NewS3ImageService(s3Service), nil
}

// Close releases the store and the mirror
func (a *app) Close() error {
	return errors.Join(a.mirror.Close(), a.store.Close())
}
