package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Debjit29092022/resto-kot-creator/mirror"
	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/Debjit29092022/resto-kot-creator/store"
	"github.com/Debjit29092022/resto-kot-creator/utils"
	"github.com/gin-gonic/gin"
)

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps service and store errors to an HTTP status and error code
func respondServiceError(c *gin.Context, err error) {
	var fileErr *utils.FileUploadError
	switch {
	case errors.As(err, &fileErr):
		respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrMenuItemNotFound):
		respondError(c, http.StatusNotFound, "MENU_ITEM_NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrTableRequired),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidMenuItem),
		errors.Is(err, services.ErrRestaurantNameRequired),
		errors.Is(err, models.ErrUnknownSize),
		errors.Is(err, models.ErrInvalidTaxRate):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, store.ErrConstraintViolation):
		respondError(c, http.StatusConflict, "CONSTRAINT_VIOLATION", err.Error())
	case errors.Is(err, store.ErrStorageUnavailable):
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Local storage is unavailable")
	case errors.Is(err, mirror.ErrDisabled):
		respondError(c, http.StatusServiceUnavailable, "MIRROR_DISABLED", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// parseID reads the :id path parameter, answering 400 when it is not a positive integer
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "ID must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
