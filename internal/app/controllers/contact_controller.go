package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
	"github.com/sesi/membership/internal/pkg/helpers"
)

const defaultContactLimit = 50

// ContactController handles the public contact form and the admin inbox
type ContactController struct {
	contactService services.ContactService
}

// NewContactController creates a new ContactController
func NewContactController(contactService services.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

// Submit stores a contact form message
// @Summary Submit contact form
// @Tags society
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /contact [post]
func (c *ContactController) Submit(ctx *gin.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	if _, err := c.contactService.Submit(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Contact form submitted successfully"))
}

// List returns inbox messages, newest first
func (c *ContactController) List(ctx *gin.Context) {
	var q dto.ContactQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	filter := models.ContactFilter{Limit: uint64(helpers.ParseLimit(ctx, defaultContactLimit))}
	if q.Status != "" {
		status := models.ContactStatus(q.Status)
		filter.Status = &status
	}

	messages, err := c.contactService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

// UpdateStatus marks a message read or replied
func (c *ContactController) UpdateStatus(ctx *gin.Context) {
	var req dto.ContactStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	if err := c.contactService.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), models.ContactStatus(req.Status)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Status updated"))
}
