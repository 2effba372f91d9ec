package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/logger"
)

// --- Central Error Handling ---

// apiError is one row of the error taxonomy
type apiError struct {
	status   int
	code     dto.ErrorCode
	fallback string
}

// classify maps an error onto its status code. Order matters: a field
// validation error for an invalid file matches both the file and the
// validation sentinel.
func classify(err error) apiError {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidFile, apperrors.ErrFileTooLarge, apperrors.ErrMissingDocument):
		return apiError{http.StatusBadRequest, dto.ErrorCodeInvalidFile, "Invalid file"}
	case apperrors.Is(err, apperrors.ErrValidationFailed):
		return apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}
	case errors.Is(err, apperrors.ErrBadRequest):
		return apiError{http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"}
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired"}
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return apiError{http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return apiError{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"}
	case errors.Is(err, apperrors.ErrConflict):
		return apiError{http.StatusConflict, dto.ErrorCodeConflict, "Conflict"}
	default:
		return apiError{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}
	}
}

// HandleAPIError writes the error response for err. Client errors carry the
// message of the innermost CustomError; server errors are logged and answered
// with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	e := classify(err)

	detail := dto.NewErrorDetail(e.code, e.fallback)
	if e.status < http.StatusInternalServerError {
		if ce, ok := apperrors.AsCustom(err); ok {
			detail.Message = ce.Error()
			if ce.Field != "" {
				detail = detail.WithField(ce.Field)
			}
			if ce.Details != nil {
				detail = detail.WithDetails(ce.Details)
			}
		}
	} else {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(RequestIDKey)).
			Msg("Unhandled error")
	}

	c.AbortWithStatusJSON(e.status, dto.NewErrorResponse(detail))
}

// abortWith writes a client error that did not come from a service
func abortWith(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
