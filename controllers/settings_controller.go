package controllers

import (
	"net/http"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/gin-gonic/gin"
)

// SettingsController serves the tax and printer settings
type SettingsController struct {
	settings *services.SettingsService
}

// NewSettingsController creates the controller
func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetSettings handles GET /api/v1/settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.settings.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/settings
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	settings, err := sc.settings.Update(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, settings)
}
