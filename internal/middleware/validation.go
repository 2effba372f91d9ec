package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/pkg/validation"
)

// RegisterValidators installs the custom binding tags on gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	// Report form and json names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return validation.RegisterRules(v)
}

// HandleBindError answers a failed ShouldBind with 400. Validator failures
// name the first offending field; anything else is a malformed body.
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, formatValidationError(first)).
			WithField(first.Field())
		if len(verrs) > 1 {
			all := dto.NewValidationErrors()
			for _, fe := range verrs {
				all.AddError(fe.Field(), formatValidationError(fe))
			}
			detail = detail.WithDetails(all.Errors)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	abortWith(c, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Invalid request format")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "mobile":
		return e.Field() + " must be a valid Indian mobile number"
	case "pincode":
		return e.Field() + " must be a 6 digit pincode"
	case "url":
		return e.Field() + " must be a valid URL"
	case "gtefield":
		return e.Field() + " must not be before " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
