package controllers

import (
	"errors"
	"net/http"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/gin-gonic/gin"
)

// UpdateStatusRequest represents the request body for changing an order status
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// OrderController serves order entry, order history and KOTs
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates the controller
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder handles POST /api/v1/orders - places a new order from menu item ids
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	order, err := oc.orders.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		// An unknown item in the request body is a client error, not a missing resource
		if errors.Is(err, services.ErrMenuItemNotFound) {
			respondError(c, http.StatusBadRequest, "UNKNOWN_MENU_ITEM", err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders
// Query parameters: status, search, source=mirror
func (oc *OrderController) ListOrders(c *gin.Context) {
	source := c.DefaultQuery("source", "local")
	if source != "local" && source != "mirror" {
		respondError(c, http.StatusBadRequest, "INVALID_SOURCE", "source must be local or mirror")
		return
	}

	filter := services.OrderFilter{
		Status:     models.OrderStatus(c.Query("status")),
		Search:     c.Query("search"),
		FromMirror: source == "mirror",
	}

	orders, err := oc.orders.ListOrders(c.Request.Context(), filter)
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

// GetOrder handles GET /api/v1/orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := oc.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	order, err := oc.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// GetKOT handles GET /api/v1/orders/:id/kot - returns the ticket without changing the order
func (oc *OrderController) GetKOT(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	kot, err := oc.orders.GetKOT(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, kot)
}

// PrintKOT handles POST /api/v1/orders/:id/kot/print - a pending order moves to processing
func (oc *OrderController) PrintKOT(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	kot, err := oc.orders.PrintKOT(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, kot)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := oc.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}
