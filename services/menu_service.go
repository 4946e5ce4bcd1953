package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
)

var (
	// ErrMenuItemNotFound is returned when a menu item id does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrInvalidMenuItem wraps menu item validation failures.
	ErrInvalidMenuItem = errors.New("invalid menu item")
)

// MenuService manages the menu catalog
type MenuService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewMenuService creates the service
func NewMenuService(s *store.Store, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MenuService{store: s, logger: logger.With("component", "menu_service")}
}

// List returns every menu item, or only those of category when it is set.
func (s *MenuService) List(ctx context.Context, category string) ([]models.MenuItem, error) {
	if category != "" {
		return store.GetByIndex[models.MenuItem](ctx, s.store, "category", category)
	}
	return store.GetAll[models.MenuItem](ctx, s.store)
}

// Categories returns the distinct categories in menu order.
func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	items, err := store.GetAll[models.MenuItem](ctx, s.store)
	if err != nil {
		return nil, err
	}

	categories := []string{}
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories, nil
}

// Get returns the menu item with id
func (s *MenuService) Get(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := store.GetByID[models.MenuItem](ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %d", ErrMenuItemNotFound, id)
	}
	return item, nil
}

// Create adds a new item. Any id on item is ignored.
func (s *MenuService) Create(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	item.ID = 0
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMenuItem, err)
	}
	if err := s.store.Create(ctx, &item); err != nil {
		return nil, err
	}
	s.logger.Info("Created menu item", "id", item.ID, "name", item.Name)
	return &item, nil
}

// Update replaces the item with id. Orders keep their copy of the old name and price.
func (s *MenuService) Update(ctx context.Context, id uint, item models.MenuItem) (*models.MenuItem, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	item.ID = id
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMenuItem, err)
	}
	if err := s.store.Update(ctx, &item); err != nil {
		return nil, err
	}
	s.logger.Info("Updated menu item", "id", item.ID, "name", item.Name)
	return &item, nil
}

// Delete removes the item with id. Deleting a missing item is not an error.
func (s *MenuService) Delete(ctx context.Context, id uint) error {
	if err := store.Delete[models.MenuItem](ctx, s.store, id); err != nil {
		return err
	}
	s.logger.Info("Deleted menu item", "id", id)
	return nil
}
