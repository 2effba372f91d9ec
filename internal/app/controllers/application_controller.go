package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
)

// ApplicationController handles membership intake, the public lookup and admin review
type ApplicationController struct {
	applicationService services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// Submit handles the multipart membership application form
// @Summary Submit membership application
// @Description Multipart intake form. mbbs_certificate, orthopedic_certificate and state_registration_certificate are required; aadhar and specialisation_certificate are optional.
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param email formData string true "Email"
// @Param mobile formData string true "Indian mobile number"
// @Param mbbs_certificate formData file true "MBBS certificate"
// @Param orthopedic_certificate formData file true "Orthopaedic certificate"
// @Param state_registration_certificate formData file true "State registration certificate"
// @Success 200 {object} dto.SubmitApplicationResponse "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or invalid document"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [post]
func (c *ApplicationController) Submit(ctx *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid membership application payload")
		middleware.HandleBindError(ctx, err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.logger.Warn().Err(err).Msg("Unreadable multipart form")
		middleware.HandleBindError(ctx, err)
		return
	}

	files := make(map[string]*multipart.FileHeader, len(models.DocumentSlots))
	if form != nil {
		for _, slot := range models.DocumentSlots {
			if fhs := form.File[slot.Field]; len(fhs) > 0 {
				files[slot.Field] = fhs[0]
			}
		}
	}

	resp, err := c.applicationService.Submit(ctx.Request.Context(), &req, files)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetPublic returns the public projection of an application
// @Summary Application status lookup
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} dto.PublicApplicationView
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (c *ApplicationController) GetPublic(ctx *gin.Context) {
	view, err := c.applicationService.GetPublic(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// List returns applications for the admin panel, newest first
// @Summary List applications
// @Tags admin-applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(submitted, under_review, approved, rejected)
// @Success 200 {array} dto.ApplicationDetail
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /admin/applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	apps, err := c.applicationService.List(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, apps)
}

// Get returns the full application record
// @Summary Get application
// @Tags admin-applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.ApplicationDetail
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /admin/applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	app, err := c.applicationService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, app)
}

// UpdateStatus reviews an application. status and admin_notes are read from
// the query string; a JSON body supplies whichever of them the query omits.
// @Summary Update application status
// @Description Approving allocates a membership number, issues the certificate and creates the member.
// @Tags admin-applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param status query string false "Target status" Enums(submitted, under_review, approved, rejected)
// @Param admin_notes query string false "Reviewer notes"
// @Param request body dto.UpdateStatusRequest false "Status and notes"
// @Success 200 {object} dto.UpdateStatusResponse "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Membership number conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/applications/{id}/status [put]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdateStatusRequest
	if ctx.Request.ContentLength != 0 && ctx.ContentType() == gin.MIMEJSON {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
	}
	if status, ok := ctx.GetQuery("status"); ok {
		req.Status = status
	}
	if notes, ok := ctx.GetQuery("admin_notes"); ok {
		req.AdminNotes = &notes
	}

	resp, err := c.applicationService.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), req, middleware.CurrentEmail(ctx))
	if err != nil {
		c.logger.Warn().Err(err).Str("applicationID", ctx.Param("id")).Str("status", req.Status).Msg("Status update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
