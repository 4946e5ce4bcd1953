package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/metrics"
	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
)

// KitchenService serves the kitchen display
type KitchenService struct {
	store   *store.Store
	orders  *OrderService
	metrics *metrics.Metrics
}

// NewKitchenService creates the service
func NewKitchenService(s *store.Store, orders *OrderService, mtr *metrics.Metrics) *KitchenService {
	return &KitchenService{store: s, orders: orders, metrics: mtr}
}

// ActiveOrders returns pending and processing orders, pending first, then
// oldest first.
func (k *KitchenService) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	pending, err := store.GetByIndex[models.Order](ctx, k.store, "status", models.StatusPending)
	if err != nil {
		return nil, err
	}
	processing, err := store.GetByIndex[models.Order](ctx, k.store, "status", models.StatusProcessing)
	if err != nil {
		return nil, err
	}

	active := append(pending, processing...)
	sort.SliceStable(active, func(i, j int) bool {
		pi, pj := active[i].Status == models.StatusPending, active[j].Status == models.StatusPending
		if pi != pj {
			return pi
		}
		return active[i].Timestamp.Before(active[j].Timestamp)
	})

	k.metrics.SetActiveOrders(len(active))
	return active, nil
}

// Complete marks an order as done from the kitchen display
func (k *KitchenService) Complete(ctx context.Context, id uint) (*models.Order, error) {
	return k.orders.UpdateStatus(ctx, id, models.StatusCompleted)
}

// ActiveOrderSource is what the poller reads
type ActiveOrderSource interface {
	ActiveOrders(ctx context.Context) ([]models.Order, error)
}

// KitchenPoller re-reads the active orders on a fixed interval
type KitchenPoller struct {
	source ActiveOrderSource
	logger *slog.Logger
}

// NewKitchenPoller creates a poller over source
func NewKitchenPoller(source ActiveOrderSource, logger *slog.Logger) *KitchenPoller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &KitchenPoller{source: source, logger: logger.With("component", "kitchen_poller")}
}

// Run reads immediately and then every interval, passing each result to fn,
// until ctx is done. fn is never called once ctx is cancelled, even for a
// read that was already in flight. Failed reads are logged and skipped.
func (p *KitchenPoller) Run(ctx context.Context, interval time.Duration, fn func([]models.Order)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.poll(ctx, fn)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *KitchenPoller) poll(ctx context.Context, fn func([]models.Order)) {
	if ctx.Err() != nil {
		return
	}
	orders, err := p.source.ActiveOrders(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.logger.Warn("Kitchen poll failed", "error", err)
		return
	}
	fn(orders)
}
