package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
)

// UploadController handles generic admin uploads
type UploadController struct {
	uploadService services.UploadService
}

// NewUploadController creates a new UploadController
func NewUploadController(uploadService services.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// Upload stores the "file" part under ?subfolder= (default "general")
// @Summary Upload file
// @Tags admin-site
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Param subfolder query string false "Target subfolder" default(general)
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid file or subfolder"
// @Failure 403 {object} dto.ErrorResponse "Reserved subfolder"
// @Router /admin/upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.uploadService.Upload(ctx.Request.Context(), ctx.DefaultQuery("subfolder", "general"), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
