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

const defaultPublicationLimit = 20

// SocietyController handles the committee roster and publications
type SocietyController struct {
	societyService services.SocietyService
}

// NewSocietyController creates a new SocietyController
func NewSocietyController(societyService services.SocietyService) *SocietyController {
	return &SocietyController{societyService: societyService}
}

// ListCommittee returns the committee, current members by default
// @Summary Committee members
// @Tags society
// @Produce json
// @Param year query int false "Committee year"
// @Param is_current query bool false "Current committee only" default(true)
// @Success 200 {array} models.CommitteeMember
// @Router /committee [get]
func (c *SocietyController) ListCommittee(ctx *gin.Context) {
	var q dto.CommitteeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	current := true
	if q.IsCurrent != nil {
		current = *q.IsCurrent
	}

	members, err := c.societyService.ListCommittee(ctx.Request.Context(), models.CommitteeFilter{Year: q.Year, IsCurrent: &current})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, members)
}

// ListAllCommittee returns every committee member, past and present
func (c *SocietyController) ListAllCommittee(ctx *gin.Context) {
	members, err := c.societyService.ListCommittee(ctx.Request.Context(), models.CommitteeFilter{})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, members)
}

// GetCommitteeMember returns a profile by slug
// @Summary Committee member profile
// @Tags society
// @Produce json
// @Param slug path string true "Profile slug"
// @Success 200 {object} models.CommitteeMember
// @Failure 404 {object} dto.ErrorResponse
// @Router /committee/{slug} [get]
func (c *SocietyController) GetCommitteeMember(ctx *gin.Context) {
	m, err := c.societyService.GetCommitteeMemberBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, m)
}

// CreateCommitteeMember adds a committee member
func (c *SocietyController) CreateCommitteeMember(ctx *gin.Context) {
	var req dto.CommitteeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	m, err := c.societyService.CreateCommitteeMember(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, m)
}

// UpdateCommitteeMember replaces a committee member
func (c *SocietyController) UpdateCommitteeMember(ctx *gin.Context) {
	var req dto.CommitteeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	m, err := c.societyService.UpdateCommitteeMember(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, m)
}

// DeleteCommitteeMember removes a committee member
func (c *SocietyController) DeleteCommitteeMember(ctx *gin.Context) {
	if err := c.societyService.DeleteCommitteeMember(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Committee member deleted successfully"))
}

// ListPublications returns publications, newest first
// @Summary Publications
// @Tags society
// @Produce json
// @Param publication_type query string false "Publication type"
// @Param limit query int false "Maximum items" default(20)
// @Success 200 {array} models.Publication
// @Router /publications [get]
func (c *SocietyController) ListPublications(ctx *gin.Context) {
	var q dto.PublicationQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	pubs, err := c.societyService.ListPublications(ctx.Request.Context(), models.PublicationFilter{
		PublicationType: q.PublicationType,
		Limit:           uint64(helpers.ParseLimit(ctx, defaultPublicationLimit)),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pubs)
}

// GetPublication returns one publication
func (c *SocietyController) GetPublication(ctx *gin.Context) {
	p, err := c.societyService.GetPublication(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

// CreatePublication adds a publication
func (c *SocietyController) CreatePublication(ctx *gin.Context) {
	var req dto.PublicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	p, err := c.societyService.CreatePublication(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, p)
}

// UpdatePublication replaces a publication
func (c *SocietyController) UpdatePublication(ctx *gin.Context) {
	var req dto.PublicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	p, err := c.societyService.UpdatePublication(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

// DeletePublication removes a publication
func (c *SocietyController) DeletePublication(ctx *gin.Context) {
	if err := c.societyService.DeletePublication(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Publication deleted successfully"))
}
