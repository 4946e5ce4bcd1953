package models

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderNumberPrefix prefixes the cosmetic order number.
const OrderNumberPrefix = "LBW-"

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
// Completed and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCompleted || next == StatusCancelled
	case StatusProcessing:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// OrderItem is one line of an order, copied from the menu when added to the cart
type OrderItem struct {
	ID           int64   `json:"id"`
	MenuItemID   uint    `json:"menu_item_id"`
	MenuItemName string  `json:"menu_item_name"`
	Quantity     int     `json:"quantity"`
	Size         string  `json:"size,omitempty"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
	Notes        string  `json:"notes,omitempty"`
}

// SetQuantity clamps q to at least 1 and recomputes the line total.
func (i *OrderItem) SetQuantity(q int) {
	if q < 1 {
		q = 1
	}
	i.Quantity = q
	i.TotalPrice = i.UnitPrice * float64(q)
}

// Order represents a single table's transaction
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `json:"order_number,omitempty"`
	TableNumber string      `gorm:"not null" json:"table_number"`
	Items       []OrderItem `gorm:"serializer:json;type:text" json:"items"`
	Subtotal    float64     `gorm:"not null" json:"subtotal"`
	Tax         float64     `gorm:"not null" json:"tax"`
	Total       float64     `gorm:"not null" json:"total"`
	Timestamp   time.Time   `gorm:"not null;index" json:"timestamp"`
	Status      OrderStatus `gorm:"type:varchar(16);not null;index" json:"status"` // pending, processing, completed, cancelled
	WaiterName  string      `json:"waiter_name,omitempty"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return CollectionOrders
}

// RecordKey returns the store key of the order
func (o Order) RecordKey() any {
	return o.ID
}

// BeforeSave stores the timestamp in UTC so index lookups match the same
// instant given in any zone.
func (o *Order) BeforeSave(*gorm.DB) error {
	o.Timestamp = o.Timestamp.UTC()
	return nil
}

// DisplayName is the order number, or "Order #id" when there is none.
func (o Order) DisplayName() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return fmt.Sprintf("Order #%d", o.ID)
}

// OrderNumberFor derives the cosmetic order number from the last six digits
// of the millisecond timestamp. Two orders in the same millisecond collide.
func OrderNumberFor(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return OrderNumberPrefix + ms
}

// ComputeTotals returns subtotal, tax and total for items at taxRate percent.
func ComputeTotals(items []OrderItem, taxRate float64) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.TotalPrice
	}
	tax = subtotal * taxRate / 100
	total = subtotal + tax
	return subtotal, tax, total
}
