package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Debjit29092022/resto-kot-creator/utils"
	"github.com/gin-gonic/gin"
)

// UploadController serves logos stored by the local image service
type UploadController struct {
	dir string
}

// NewUploadController serves files from dir
func NewUploadController(dir string) *UploadController {
	return &UploadController{dir: dir}
}

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves uploaded PNG logos
func (uc *UploadController) GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	if strings.ToLower(filepath.Ext(filename)) != utils.AllowedImageFormat {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG files are supported")
		return
	}

	filePath := filepath.Join(uc.dir, filename)
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", utils.PNGContentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(filePath)
}
