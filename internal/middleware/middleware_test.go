package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/auth"
	"github.com/sesi/membership/internal/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not found", apperrors.ErrApplicationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "membership application not found"},
		{"invalid status", apperrors.ErrInvalidStatus, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "status must be one of: submitted, under_review, approved, rejected"},
		{"file", apperrors.NewFieldValidationError(apperrors.ErrInvalidFile, "mbbs_certificate", "mbbs_certificate: file type .exe is not allowed"),
			http.StatusBadRequest, dto.ErrorCodeInvalidFile, "mbbs_certificate: file type .exe is not allowed"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
		{"forbidden", apperrors.NewForbiddenError("subfolder is reserved"), http.StatusForbidden, dto.ErrorCodeForbidden, "subfolder is reserved"},
		{"conflict", fmt.Errorf("create: %w", apperrors.ErrMemberAlreadyExists), http.StatusConflict, dto.ErrorCodeConflict,
			"member already exists for this membership number or application"},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "email already exists"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.Equal(t, tc.message, resp.Error.Message)
			assert.Equal(t, tc.message, resp.Detail)
		})
	}
}

func TestHandleAPIErrorIncludesField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	HandleAPIError(c, apperrors.NewFieldValidationError(apperrors.ErrMissingDocument, "orthopedic_certificate", "orthopedic_certificate is required"))

	resp := decodeError(t, w)
	assert.Equal(t, "orthopedic_certificate", resp.Error.Field)
	assert.Nil(t, resp.Error.Details)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	HandleAPIError(c, apperrors.NewFieldValidationError(apperrors.ErrMissingDocument, "aadhar", "aadhar is required").
		WithDetails(map[string]interface{}{"required": []string{"aadhar"}}))

	resp = decodeError(t, w)
	assert.Equal(t, map[string]interface{}{"required": []interface{}{"aadhar"}}, resp.Error.Details)
}

func newAuthRouter(t *testing.T, jwtService *auth.JWTService) *gin.Engine {
	t.Helper()
	m := NewAuthMiddleware(jwtService)
	r := gin.New()
	admin := r.Group("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin))
	admin.GET("/only", func(c *gin.Context) { c.String(http.StatusOK, CurrentEmail(c)) })
	content := r.Group("/content", m.JWTAuth(), m.RoleRequired(models.RoleAdmin, models.RoleEditor))
	content.GET("", func(c *gin.Context) { c.String(http.StatusOK, CurrentRole(c)) })
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "sesi"})
	r := newAuthRouter(t, jwtService)

	adminToken, _, err := jwtService.GenerateToken(auth.Subject{UserID: "1", Email: "admin@sesi.co.in", Role: "admin"})
	require.NoError(t, err)
	editorToken, _, err := jwtService.GenerateToken(auth.Subject{UserID: "2", Email: "editor@sesi.co.in", Role: "editor"})
	require.NoError(t, err)
	otherIssuer := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"})
	foreignToken, _, err := otherIssuer.GenerateToken(auth.Subject{UserID: "3", Email: "x@y.z", Role: "admin"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing token", "/admin/only", "", http.StatusUnauthorized, ""},
		{"malformed header", "/admin/only", "Token abc", http.StatusUnauthorized, ""},
		{"foreign issuer", "/admin/only", "Bearer " + foreignToken, http.StatusUnauthorized, ""},
		{"editor on admin route", "/admin/only", "Bearer " + editorToken, http.StatusForbidden, ""},
		{"admin", "/admin/only", "Bearer " + adminToken, http.StatusOK, "admin@sesi.co.in"},
		{"editor on content", "/content", "Bearer " + editorToken, http.StatusOK, "editor"},
		{"admin on content", "/content", "bearer " + adminToken, http.StatusOK, "admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf strings.Builder
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.New(&buf)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Contains(t, buf.String(), generated)
	assert.Contains(t, buf.String(), `"status":200`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/v1/applications/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/applications/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/applications/:id", "404")))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://sesi.co.in"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://sesi.co.in")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://sesi.co.in", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

type bindTarget struct {
	Email   string `json:"email" binding:"required,email"`
	Mobile  string `json:"mobile" binding:"required,mobile"`
	Pincode string `json:"pincode" binding:"omitempty,pincode"`
}

func TestHandleBindError(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"email":"a@b.co","mobile":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "mobile", resp.Error.Field)
	assert.Equal(t, "mobile must be a valid Indian mobile number", resp.Error.Message)

	w = post(`{"email":"a@b.co","mobile":"9876543210","pincode":"012345"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "pincode", decodeError(t, w).Error.Field)

	w = post(`{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, w).Error.Code)

	w = post(`{"email":"a@b.co","mobile":"+91 9876543210","pincode":"560001"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
