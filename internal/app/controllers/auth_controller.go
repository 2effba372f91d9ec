// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login exchanges credentials for a bearer token
// @Summary Back-office login
// @Description Authenticates an admin or editor and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleBindError(ctx, err)
		return
	}

	tokenResponse, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tokenResponse)
}

// Verify echoes the identity behind the bearer token
// @Summary Verify token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.VerifyResponse
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /auth/verify [get]
func (c *AuthController) Verify(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.VerifyResponse{
		Valid: true,
		Email: middleware.CurrentEmail(ctx),
		Role:  middleware.CurrentRole(ctx),
	})
}
