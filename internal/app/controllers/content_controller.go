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

const (
	defaultNewsLimit  = 10
	defaultEventLimit = 20
)

// ContentController handles news and events
type ContentController struct {
	contentService services.ContentService
}

// NewContentController creates a new ContentController
func NewContentController(contentService services.ContentService) *ContentController {
	return &ContentController{contentService: contentService}
}

// ListNews returns published news, newest first
// @Summary Published news
// @Tags content
// @Produce json
// @Param category query string false "Category"
// @Param limit query int false "Maximum items" default(10)
// @Success 200 {array} models.News
// @Router /news [get]
func (c *ContentController) ListNews(ctx *gin.Context) {
	c.listNews(ctx, true)
}

// ListAllNews includes drafts
func (c *ContentController) ListAllNews(ctx *gin.Context) {
	c.listNews(ctx, false)
}

func (c *ContentController) listNews(ctx *gin.Context, publishedOnly bool) {
	var q dto.NewsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	news, err := c.contentService.ListNews(ctx.Request.Context(), models.NewsFilter{
		PublishedOnly: publishedOnly,
		Category:      q.Category,
		Limit:         uint64(helpers.ParseLimit(ctx, defaultNewsLimit)),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, news)
}

// GetNews returns a published item; admins also see drafts
func (c *ContentController) GetNews(ctx *gin.Context) {
	includeDrafts := middleware.CurrentRole(ctx) != ""
	n, err := c.contentService.GetNews(ctx.Request.Context(), ctx.Param("id"), includeDrafts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, n)
}

// CreateNews publishes or drafts a news item
func (c *ContentController) CreateNews(ctx *gin.Context) {
	var req dto.NewsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	n, err := c.contentService.CreateNews(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, n)
}

// UpdateNews replaces a news item
func (c *ContentController) UpdateNews(ctx *gin.Context) {
	var req dto.NewsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	n, err := c.contentService.UpdateNews(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, n)
}

// DeleteNews removes a news item
func (c *ContentController) DeleteNews(ctx *gin.Context) {
	if err := c.contentService.DeleteNews(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("News deleted successfully"))
}

// ListEvents returns events by start date, newest first
// @Summary List events
// @Tags content
// @Produce json
// @Param status query string false "Event status" Enums(upcoming, ongoing, completed)
// @Param event_type query string false "Event type"
// @Param limit query int false "Maximum items" default(20)
// @Success 200 {array} models.Event
// @Router /events [get]
func (c *ContentController) ListEvents(ctx *gin.Context) {
	var q dto.EventQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	events, err := c.contentService.ListEvents(ctx.Request.Context(), q, helpers.ParseLimit(ctx, defaultEventLimit))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, events)
}

// GetEvent returns one event
func (c *ContentController) GetEvent(ctx *gin.Context) {
	e, err := c.contentService.GetEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, e)
}

// CreateEvent schedules an event
func (c *ContentController) CreateEvent(ctx *gin.Context) {
	var req dto.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	e, err := c.contentService.CreateEvent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, e)
}

// UpdateEvent replaces an event
func (c *ContentController) UpdateEvent(ctx *gin.Context) {
	var req dto.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	e, err := c.contentService.UpdateEvent(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, e)
}

// DeleteEvent removes an event
func (c *ContentController) DeleteEvent(ctx *gin.Context) {
	if err := c.contentService.DeleteEvent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Event deleted successfully"))
}
