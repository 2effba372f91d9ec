package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// Upload limits
const (
	// MaxUploadSize is the per-file limit for applicant documents and admin uploads
	MaxUploadSize int64 = 5 << 20
)

// AllowedExtensions is the upload allow-list, lower-case with leading dot
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}

// ImageExtensions is the subset of AllowedExtensions accepted for gallery photos
var ImageExtensions = []string{".jpg", ".jpeg", ".png"}

// Validation rule patterns
var (
	// Indian mobile numbers, optionally prefixed with +91 or 0
	MobilePattern = `^(\+91[\-\s]?|0)?[6-9]\d{9}$`

	// Six digit PIN code, first digit non-zero
	PincodePattern = `^[1-9]\d{5}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Mobile  *regexp.Regexp
	Pincode *regexp.Regexp
}{
	Mobile:  regexp.MustCompile(MobilePattern),
	Pincode: regexp.MustCompile(PincodePattern),
}

// IsAllowedExtension reports whether the file name carries an allow-listed extension
func IsAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateUpload checks a single upload against the extension allow-list and
// the size limit. field names the form part so the error can point at it.
func ValidateUpload(field, filename string, size int64) error {
	if !IsAllowedExtension(filename) {
		ext := filepath.Ext(filename)
		if ext == "" {
			ext = "(none)"
		}
		return apperrors.NewFieldValidationError(apperrors.ErrInvalidFile, field,
			fmt.Sprintf("%s: file type %s is not allowed, allowed types: %s",
				field, ext, strings.Join(AllowedExtensions, ", ")))
	}

	if size > MaxUploadSize {
		return apperrors.NewFieldValidationError(apperrors.ErrFileTooLarge, field,
			fmt.Sprintf("%s: file size %d bytes exceeds the %d MB limit", field, size, MaxUploadSize>>20))
	}

	return nil
}

// ValidateImageUpload is ValidateUpload restricted to ImageExtensions
func ValidateImageUpload(field, filename string, size int64) error {
	if err := ValidateUpload(field, filename, size); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return nil
		}
	}
	return apperrors.NewFieldValidationError(apperrors.ErrInvalidFile, field,
		fmt.Sprintf("%s: file type %s is not an image, allowed types: %s",
			field, ext, strings.Join(ImageExtensions, ", ")))
}

// RegisterRules adds the custom `mobile` and `pincode` tags to a validator
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Mobile.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return fmt.Errorf("register mobile rule: %w", err)
	}

	if err := v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Pincode.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return fmt.Errorf("register pincode rule: %w", err)
	}

	return nil
}
