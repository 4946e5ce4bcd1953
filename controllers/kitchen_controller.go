package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait = 10 * time.Second
	streamReadLimit = 512
)

// KitchenController serves the kitchen display
type KitchenController struct {
	kitchen      *services.KitchenService
	pollInterval time.Duration
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewKitchenController creates the controller. The stream pushes the active
// orders every pollInterval.
func NewKitchenController(kitchen *services.KitchenService, pollInterval time.Duration, logger *slog.Logger) *KitchenController {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &KitchenController{
		kitchen:      kitchen,
		pollInterval: pollInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS middleware does not cover websocket upgrades; the display runs on the LAN
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With("component", "kitchen_stream"),
	}
}

// ListActiveOrders handles GET /api/v1/kitchen/orders
func (kc *KitchenController) ListActiveOrders(c *gin.Context) {
	orders, err := kc.kitchen.ActiveOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

// CompleteOrder handles POST /api/v1/kitchen/orders/:id/complete
func (kc *KitchenController) CompleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := kc.kitchen.Complete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// Stream handles GET /api/v1/kitchen/stream - a websocket that receives the
// active orders on connect and after every poll. Polling stops when the
// client disconnects.
func (kc *KitchenController) Stream(c *gin.Context) {
	conn, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		kc.logger.Warn("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client only sends close frames; any read error ends the stream
	go func() {
		defer cancel()
		conn.SetReadLimit(streamReadLimit)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					kc.logger.Warn("Kitchen stream read failed", "error", err)
				}
				return
			}
		}
	}()

	kc.logger.Info("Kitchen display connected", "remote", c.ClientIP())
	poller := services.NewKitchenPoller(kc.kitchen, kc.logger)
	poller.Run(ctx, kc.pollInterval, func(orders []models.Order) {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(gin.H{"success": true, "data": orders, "count": len(orders)}); err != nil {
			kc.logger.Warn("Kitchen stream write failed", "error", err)
			cancel()
		}
	})

	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	kc.logger.Info("Kitchen display disconnected", "remote", c.ClientIP())
}
