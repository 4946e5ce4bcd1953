// Package store is the local record store: named collections persisted in a
// SQLite file through gorm, with per-call transactions and no retries.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Debjit29092022/resto-kot-creator/config"
	"github.com/Debjit29092022/resto-kot-creator/models"
	"gorm.io/gorm"
)

// Store persists every collection of the POS.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Options tune Open.
type Options struct {
	// Catalog seeds an empty menu. Nil means DefaultCatalog.
	Catalog []models.MenuItem
	Logger  *slog.Logger
}

// Open opens the store at path, provisions collections and seeds the menu if
// it is empty. Open failures are reported as ErrStorageUnavailable.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	db, err := config.OpenDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s := New(db, opts.Logger)
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if _, err := s.Init(ctx, catalog); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened handle. Call Init before use.
func New(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{db: db, logger: logger.With("component", "store")}
}

// Init provisions every collection and its indexes, records the schema
// version on first run and seeds the menu when it is empty. It is idempotent.
// Returns the number of seeded menu items.
func (s *Store) Init(ctx context.Context, catalog []models.MenuItem) (int, error) {
	db := s.db.WithContext(ctx)

	migrations := []interface{}{&schemaMeta{}}
	for _, c := range collections {
		migrations = append(migrations, c.model)
	}
	if err := db.AutoMigrate(migrations...); err != nil {
		return 0, fmt.Errorf("%w: migrate: %v", ErrStorageUnavailable, err)
	}

	var meta schemaMeta
	res := db.Limit(1).Find(&meta, 1)
	switch {
	case res.Error != nil:
		return 0, wrapErr("get", "schema_meta", res.Error)
	case res.RowsAffected == 0:
		if err := db.Create(&schemaMeta{ID: 1, Version: models.SchemaVersion}).Error; err != nil {
			return 0, wrapErr("create", "schema_meta", err)
		}
		s.logger.Info("Provisioned store", "schema_version", models.SchemaVersion, "collections", len(collections))
	case meta.Version != models.SchemaVersion:
		if err := db.Model(&meta).Update("version", models.SchemaVersion).Error; err != nil {
			return 0, wrapErr("update", "schema_meta", err)
		}
		s.logger.Info("Upgraded store schema", "from", meta.Version, "to", models.SchemaVersion)
	}

	count, err := Count[models.MenuItem](ctx, s)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeded, err := Seed(ctx, s, catalog)
	if err != nil {
		return seeded, fmt.Errorf("seed menu: %w", err)
	}
	s.logger.Info("Seeded menu", "items", seeded)
	return seeded, nil
}

// SchemaVersion returns the version recorded at provisioning.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var meta schemaMeta
	if err := s.db.WithContext(ctx).Take(&meta, 1).Error; err != nil {
		return 0, wrapErr("get", "schema_meta", err)
	}
	return meta.Version, nil
}

// Ping verifies the underlying handle is usable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the handle. Later calls fail with ErrStorageUnavailable.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
