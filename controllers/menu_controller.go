package controllers

import (
	"net/http"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/gin-gonic/gin"
)

// MenuController serves the menu catalog
type MenuController struct {
	menu *services.MenuService
}

// NewMenuController creates the controller
func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{menu: menu}
}

// ListMenuItems handles GET /api/v1/menu - lists items, optionally by ?category=
func (mc *MenuController) ListMenuItems(c *gin.Context) {
	items, err := mc.menu.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

// ListCategories handles GET /api/v1/menu/categories
func (mc *MenuController) ListCategories(c *gin.Context) {
	categories, err := mc.menu.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, categories)
}

// GetMenuItem handles GET /api/v1/menu/:id
func (mc *MenuController) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := mc.menu.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, item)
}

// CreateMenuItem handles POST /api/v1/menu
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req models.MenuItem
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	item, err := mc.menu.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, item)
}

// UpdateMenuItem handles PUT /api/v1/menu/:id
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.MenuItem
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	item, err := mc.menu.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, item)
}

// DeleteMenuItem handles DELETE /api/v1/menu/:id
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := mc.menu.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item deleted",
	})
}
