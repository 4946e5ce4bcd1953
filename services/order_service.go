package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/metrics"
	"github.com/Debjit29092022/resto-kot-creator/mirror"
	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
)

var (
	// ErrOrderNotFound is returned when an order id does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrTableRequired is returned when an order has no table number.
	ErrTableRequired = errors.New("table number is required")
	// ErrEmptyOrder is returned when an order has no items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderLine is one requested line of a new order
type OrderLine struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Size       string `json:"size"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// PlaceOrderRequest is the input of PlaceOrder
type PlaceOrderRequest struct {
	TableNumber string      `json:"table_number"`
	WaiterName  string      `json:"waiter_name"`
	Items       []OrderLine `json:"items"`
}

// OrderFilter narrows ListOrders
type OrderFilter struct {
	Status     models.OrderStatus
	Search     string // matched against table and order number, case-insensitive
	FromMirror bool
}

// KOT is the kitchen order ticket of an order
type KOT struct {
	Order          models.Order `json:"order"`
	RestaurantName string       `json:"restaurant_name"`
	Tagline        string       `json:"tagline,omitempty"`
	Address        string       `json:"address,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	GST            string       `json:"gst,omitempty"`
	ReceiptHeader  string       `json:"receipt_header,omitempty"`
	ReceiptFooter  string       `json:"receipt_footer,omitempty"`
	PrinterName    string       `json:"printer_name,omitempty"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// OrderService places orders and moves them through their lifecycle
type OrderService struct {
	store    *store.Store
	mirror   *mirror.Mirror
	settings *SettingsService
	profile  *ProfileService
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderService creates the service. mirror and m may be nil.
func NewOrderService(s *store.Store, m *mirror.Mirror, settings *SettingsService, profile *ProfileService, mtr *metrics.Metrics, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &OrderService{
		store:    s,
		mirror:   m,
		settings: settings,
		profile:  profile,
		metrics:  mtr,
		logger:   logger.With("component", "order_service"),
		now:      time.Now,
	}
}

// PlaceOrder prices the requested lines from the current menu, applies the
// current tax rate and stores the order as pending.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	tableNumber := strings.TrimSpace(req.TableNumber)
	if tableNumber == "" {
		return nil, ErrTableRequired
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	cart := models.NewCart()
	for _, line := range req.Items {
		item, err := store.GetByID[models.MenuItem](ctx, s.store, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: %d", ErrMenuItemNotFound, line.MenuItemID)
		}
		if _, err := cart.Add(*item, line.Size, line.Quantity, line.Notes); err != nil {
			return nil, fmt.Errorf("%s: %w", item.Name, err)
		}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	subtotal, tax, total := models.ComputeTotals(cart.Items, settings.TaxRate)
	order := &models.Order{
		OrderNumber: models.OrderNumberFor(now),
		TableNumber: tableNumber,
		Items:       cart.Items,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
		Timestamp:   now,
		Status:      models.StatusPending,
		WaiterName:  strings.TrimSpace(req.WaiterName),
	}
	if err := s.store.Create(ctx, order); err != nil {
		s.logger.Error("Failed to store order", "table", tableNumber, "error", err)
		return nil, err
	}

	s.mirrorSave(ctx, *order)
	s.metrics.OrderPlaced(order.Total)
	s.logger.Info("Order placed", "order_id", order.ID, "order_number", order.OrderNumber, "table", order.TableNumber, "total", order.Total)
	return order, nil
}

// GetOrder returns the order with id
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := store.GetByID[models.Order](ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	return order, nil
}

// ListOrders returns orders newest first, narrowed by filter
func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}

	var (
		orders []models.Order
		err    error
	)
	switch {
	case filter.FromMirror:
		orders, err = s.mirror.Orders(ctx)
	case filter.Status != "":
		orders, err = store.GetByIndex[models.Order](ctx, s.store, "status", filter.Status)
	default:
		orders, err = store.GetAll[models.Order](ctx, s.store)
	}
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(order.TableNumber), search) &&
			!strings.Contains(strings.ToLower(order.OrderNumber), search) {
			continue
		}
		result = append(result, order)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.After(result[j].Timestamp)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// UpdateStatus moves an order to status. Setting the current status again is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	previous := order.Status
	order.Status = status
	if err := s.store.Update(ctx, order); err != nil {
		return nil, err
	}

	s.mirrorSave(ctx, *order)
	s.metrics.StatusChanged(string(status))
	s.logger.Info("Order status changed", "order_id", order.ID, "from", previous, "to", status)
	return order, nil
}

// GetKOT builds the ticket of an order without changing it
func (s *OrderService) GetKOT(ctx context.Context, id uint) (*KOT, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildKOT(ctx, *order)
}

// PrintKOT builds the ticket and moves a pending order to processing
func (s *OrderService) PrintKOT(ctx context.Context, id uint) (*KOT, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == models.StatusPending {
		if order, err = s.UpdateStatus(ctx, id, models.StatusProcessing); err != nil {
			return nil, err
		}
	}

	kot, err := s.buildKOT(ctx, *order)
	if err != nil {
		return nil, err
	}
	s.metrics.KOTPrinted()
	s.logger.Info("KOT printed", "order_id", order.ID, "order", order.DisplayName(), "printer", kot.PrinterName)
	return kot, nil
}

// DeleteOrder removes an order. Deleting a missing order is not an error.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := store.Delete[models.Order](ctx, s.store, id); err != nil {
		return err
	}
	if err := s.mirror.DeleteOrder(ctx, id); err != nil {
		s.metrics.MirrorFailed("delete")
		s.logger.Warn("Failed to delete mirrored order", "order_id", id, "error", err)
	}
	s.logger.Info("Order deleted", "order_id", id)
	return nil
}

func (s *OrderService) buildKOT(ctx context.Context, order models.Order) (*KOT, error) {
	profile, err := s.profile.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	return &KOT{
		Order:          order,
		RestaurantName: profile.RestaurantName,
		Tagline:        profile.Tagline,
		Address:        profile.Address,
		Phone:          profile.Phone,
		GST:            profile.GST,
		ReceiptHeader:  settings.ReceiptHeader,
		ReceiptFooter:  settings.ReceiptFooter,
		PrinterName:    settings.PrinterName,
		GeneratedAt:    s.now(),
	}, nil
}

// mirrorSave copies the order to the relational mirror. Failures are logged only.
func (s *OrderService) mirrorSave(ctx context.Context, order models.Order) {
	if err := s.mirror.SaveOrder(ctx, order); err != nil {
		s.metrics.MirrorFailed("save")
		s.logger.Warn("Failed to mirror order", "order_id", order.ID, "error", err)
	}
}
