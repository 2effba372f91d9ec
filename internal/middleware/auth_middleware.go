package middleware

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	UserIDKey = "userID"
	EmailKey  = "email"
	RoleKey   = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for bearer token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWith(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}

// RoleRequired lets the request through when the caller holds one of roles.
// It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleKey)
		if !exists {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		roleStr, ok := role.(string)
		if !ok || !slices.Contains(roles, models.RoleType(roleStr)) {
			abortWith(c, http.StatusForbidden, dto.ErrorCodeForbidden, "You don't have sufficient permissions for this operation")
			return
		}

		c.Next()
	}
}

// CurrentEmail returns the authenticated caller's email, or "" on public routes
func CurrentEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// CurrentRole returns the authenticated caller's role
func CurrentRole(c *gin.Context) string {
	return c.GetString(RoleKey)
}
