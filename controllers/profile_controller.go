package controllers

import (
	"net/http"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/gin-gonic/gin"
)

// ProfileController serves the restaurant profile and its logo
type ProfileController struct {
	profile *services.ProfileService
}

// NewProfileController creates the controller
func NewProfileController(profile *services.ProfileService) *ProfileController {
	return &ProfileController{profile: profile}
}

// GetProfile handles GET /api/v1/profile
func (pc *ProfileController) GetProfile(c *gin.Context) {
	profile, err := pc.profile.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req models.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	profile, err := pc.profile.Update(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, profile)
}

// UploadLogo handles POST /api/v1/profile/logo - multipart form with a PNG in the "logo" field
func (pc *ProfileController) UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A PNG file is required in the logo field")
		return
	}

	profile, err := pc.profile.UploadLogo(c.Request.Context(), fileHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, profile)
}

// DeleteLogo handles DELETE /api/v1/profile/logo
func (pc *ProfileController) DeleteLogo(c *gin.Context) {
	profile, err := pc.profile.RemoveLogo(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, profile)
}
