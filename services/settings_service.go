package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
)

// SettingsService reads and writes the settings singleton
type SettingsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSettingsService creates the service
func NewSettingsService(s *store.Store, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SettingsService{store: s, logger: logger.With("component", "settings_service")}
}

// Get returns the settings, creating the defaults on first use
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := store.GetByID[models.Settings](ctx, s.store, models.SingletonKey)
	if err != nil || settings != nil {
		return settings, err
	}

	defaults := models.DefaultSettings()
	if err := s.store.Create(ctx, &defaults); err != nil {
		if errors.Is(err, store.ErrConstraintViolation) {
			return store.GetByID[models.Settings](ctx, s.store, models.SingletonKey)
		}
		return nil, err
	}
	s.logger.Info("Created default settings", "tax_rate", defaults.TaxRate)
	return &defaults, nil
}

// Update replaces the settings. The key is always "main".
func (s *SettingsService) Update(ctx context.Context, settings models.Settings) (*models.Settings, error) {
	settings.ID = models.SingletonKey
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &settings); err != nil {
		return nil, err
	}
	s.logger.Info("Updated settings", "tax_rate", settings.TaxRate)
	return &settings, nil
}
