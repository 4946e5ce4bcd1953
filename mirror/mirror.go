// Package mirror keeps a normalized copy of orders in a relational database
// (orders and order_items tables). It is best-effort: callers log its errors
// and carry on.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/config"
	"github.com/Debjit29092022/resto-kot-creator/models"
	"gorm.io/gorm"
)

// ErrDisabled is returned by reads on a mirror that was never configured.
var ErrDisabled = errors.New("relational mirror is not configured")

type orderRow struct {
	ID          uint      `gorm:"primaryKey;autoIncrement:false"`
	OrderNumber string    `gorm:"type:varchar(32)"`
	TableNumber string    `gorm:"not null"`
	Subtotal    float64   `gorm:"not null"`
	Tax         float64   `gorm:"not null"`
	Total       float64   `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(16);not null"`
	WaiterName  string
}

func (orderRow) TableName() string {
	return "orders"
}

type orderItemRow struct {
	ID           uint   `gorm:"primaryKey"`
	OrderID      uint   `gorm:"not null;index"`
	LineID       int64  `gorm:"not null"`
	MenuItemID   uint   `gorm:"not null"`
	MenuItemName string `gorm:"not null"`
	Quantity     int    `gorm:"not null"`
	Size         string
	UnitPrice    float64 `gorm:"not null"`
	TotalPrice   float64 `gorm:"not null"`
	Notes        string
}

func (orderItemRow) TableName() string {
	return "order_items"
}

// Mirror writes orders to its own database handle. A nil *Mirror is inert.
type Mirror struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New wraps an opened handle. Call Migrate before use.
func New(db *gorm.DB, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Mirror{db: db, logger: logger.With("component", "mirror")}
}

// Open connects to url (postgres URL or SQLite path) and creates the tables.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Mirror, error) {
	db, err := config.OpenDatabase(url)
	if err != nil {
		return nil, err
	}
	m := New(db, logger)
	if err := m.Migrate(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// Enabled reports whether writes reach a database.
func (m *Mirror) Enabled() bool {
	return m != nil && m.db != nil
}

// Migrate creates the orders and order_items tables.
func (m *Mirror) Migrate(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	if err := m.db.WithContext(ctx).AutoMigrate(&orderRow{}, &orderItemRow{}); err != nil {
		return fmt.Errorf("failed to migrate mirror tables: %w", err)
	}
	return nil
}

// SaveOrder upserts the order row and replaces its items in one transaction.
func (m *Mirror) SaveOrder(ctx context.Context, order models.Order) error {
	if !m.Enabled() {
		return nil
	}
	if order.ID == 0 {
		return fmt.Errorf("mirror order: missing id")
	}

	row := orderRow{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		TableNumber: order.TableNumber,
		Subtotal:    order.Subtotal,
		Tax:         order.Tax,
		Total:       order.Total,
		Timestamp:   order.Timestamp,
		Status:      string(order.Status),
		WaiterName:  order.WaiterName,
	}
	items := make([]orderItemRow, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRow{
			OrderID:      order.ID,
			LineID:       item.ID,
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
			Size:         item.Size,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
			Notes:        item.Notes,
		})
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&orderItemRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear order items: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Mirrored order", "order_id", order.ID, "items", len(items))
	return nil
}

// DeleteOrder removes the order and its items. Missing orders are ignored.
func (m *Mirror) DeleteOrder(ctx context.Context, id uint) error {
	if !m.Enabled() {
		return nil
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&orderRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// Orders reads every mirrored order, newest first, with its items in
// insertion order.
func (m *Mirror) Orders(ctx context.Context) ([]models.Order, error) {
	if !m.Enabled() {
		return nil, ErrDisabled
	}
	db := m.db.WithContext(ctx)

	var rows []orderRow
	if err := db.Order("timestamp DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read mirrored orders: %w", err)
	}
	orders := make([]models.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	var itemRows []orderItemRow
	if err := db.Where("order_id IN ?", ids).Order("id ASC").Find(&itemRows).Error; err != nil {
		return nil, fmt.Errorf("failed to read mirrored order items: %w", err)
	}
	itemsByOrder := make(map[uint][]models.OrderItem, len(rows))
	for _, ir := range itemRows {
		itemsByOrder[ir.OrderID] = append(itemsByOrder[ir.OrderID], models.OrderItem{
			ID:           ir.LineID,
			MenuItemID:   ir.MenuItemID,
			MenuItemName: ir.MenuItemName,
			Quantity:     ir.Quantity,
			Size:         ir.Size,
			UnitPrice:    ir.UnitPrice,
			TotalPrice:   ir.TotalPrice,
			Notes:        ir.Notes,
		})
	}

	for _, r := range rows {
		items := itemsByOrder[r.ID]
		if items == nil {
			items = []models.OrderItem{}
		}
		orders = append(orders, models.Order{
			ID:          r.ID,
			OrderNumber: r.OrderNumber,
			TableNumber: r.TableNumber,
			Items:       items,
			Subtotal:    r.Subtotal,
			Tax:         r.Tax,
			Total:       r.Total,
			Timestamp:   r.Timestamp,
			Status:      models.OrderStatus(r.Status),
			WaiterName:  r.WaiterName,
		})
	}
	return orders, nil
}

// Ping checks the mirror connection.
func (m *Mirror) Ping(ctx context.Context) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the handle.
func (m *Mirror) Close() error {
	if !m.Enabled() {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
