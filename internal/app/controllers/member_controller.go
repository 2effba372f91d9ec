package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
	"github.com/sesi/membership/internal/pkg/helpers"
)

// MemberController serves the member directory
type MemberController struct {
	memberService services.MemberService
}

// NewMemberController creates a new MemberController
func NewMemberController(memberService services.MemberService) *MemberController {
	return &MemberController{memberService: memberService}
}

type memberLister func(ctx context.Context, q dto.MemberListQuery, page, size int) (*dto.PaginatedResponse, error)

// ListPublic returns active members, filtered by state, city and search
// @Summary Member directory
// @Tags members
// @Produce json
// @Param state query string false "State name"
// @Param city query string false "City"
// @Param search query string false "Name, hospital or qualification"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.PaginatedResponse{items=[]dto.PublicMember}
// @Router /members [get]
func (c *MemberController) ListPublic(ctx *gin.Context) {
	c.list(ctx, c.memberService.ListPublic)
}

// ListAll returns every member for the admin panel, ordered by name
// @Summary List all members
// @Tags admin-members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PaginatedResponse{items=[]models.Member}
// @Router /admin/members [get]
func (c *MemberController) ListAll(ctx *gin.Context) {
	c.list(ctx, c.memberService.ListAll)
}

func (c *MemberController) list(ctx *gin.Context, fetch memberLister) {
	var q dto.MemberListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := fetch(ctx.Request.Context(), q, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Get returns one member
func (c *MemberController) Get(ctx *gin.Context) {
	member, err := c.memberService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, member)
}

// Create adds a member by hand
// @Summary Create member
// @Tags admin-members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MemberRequest true "Member"
// @Success 201 {object} models.Member
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Member already exists"
// @Router /admin/members [post]
func (c *MemberController) Create(ctx *gin.Context) {
	var req dto.MemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	member, err := c.memberService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, member)
}

// Update replaces a member's editable fields
// @Summary Update member
// @Tags admin-members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param request body dto.MemberRequest true "Member"
// @Success 200 {object} models.Member
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id} [put]
func (c *MemberController) Update(ctx *gin.Context) {
	var req dto.MemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	member, err := c.memberService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, member)
}

// Delete removes a member
// @Summary Delete member
// @Tags admin-members
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id} [delete]
func (c *MemberController) Delete(ctx *gin.Context) {
	if err := c.memberService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Member deleted successfully"))
}
