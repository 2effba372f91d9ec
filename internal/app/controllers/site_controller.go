package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
)

// SiteController serves reference data, page SEO and statistics
type SiteController struct {
	referenceService services.ReferenceService
	seoService       services.SEOService
	statsService     services.StatsService
}

// NewSiteController creates a new SiteController
func NewSiteController(referenceService services.ReferenceService, seoService services.SEOService, statsService services.StatsService) *SiteController {
	return &SiteController{
		referenceService: referenceService,
		seoService:       seoService,
		statsService:     statsService,
	}
}

// ListStates returns all states ordered by name
// @Summary List states
// @Tags reference
// @Produce json
// @Success 200 {array} models.State
// @Router /states [get]
func (c *SiteController) ListStates(ctx *gin.Context) {
	states, err := c.referenceService.ListStates(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, states)
}

// ListDistricts returns the districts of one state
// @Summary List districts of a state
// @Tags reference
// @Produce json
// @Param id path string true "State ID"
// @Success 200 {array} models.District
// @Failure 404 {object} dto.ErrorResponse "State not found"
// @Router /states/{id}/districts [get]
func (c *SiteController) ListDistricts(ctx *gin.Context) {
	districts, err := c.referenceService.ListDistricts(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, districts)
}

// GetSEO returns the meta tags of a page, or the site defaults
// @Summary Page SEO
// @Tags site
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} models.PageSEO
// @Router /seo/{page} [get]
func (c *SiteController) GetSEO(ctx *gin.Context) {
	entry, err := c.seoService.Get(ctx.Request.Context(), ctx.Param("page"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// ListSEO returns every stored entry
func (c *SiteController) ListSEO(ctx *gin.Context) {
	entries, err := c.seoService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// UpsertSEO stores the meta tags of a page
func (c *SiteController) UpsertSEO(ctx *gin.Context) {
	var req dto.SEORequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	entry, err := c.seoService.Upsert(ctx.Request.Context(), ctx.Param("page"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// PublicStatistics returns the landing page counters
// @Summary Public statistics
// @Tags site
// @Produce json
// @Success 200 {object} dto.PublicStatistics
// @Router /statistics [get]
func (c *SiteController) PublicStatistics(ctx *gin.Context) {
	stats, err := c.statsService.Public(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// Dashboard returns the admin overview counters
func (c *SiteController) Dashboard(ctx *gin.Context) {
	stats, err := c.statsService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
