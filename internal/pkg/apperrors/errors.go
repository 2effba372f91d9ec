package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Membership application errors
var (
	ErrApplicationNotFound   = NewResourceNotFoundError("membership application not found")
	ErrInvalidStatus         = NewValidationError("status must be one of: submitted, under_review, approved, rejected")
	ErrAlreadyApproved       = NewConflictError("application is already approved")
	ErrMembershipNumberTaken = NewConflictError("membership number already allocated")
)

// Upload errors
var (
	ErrInvalidFile     = errors.New("invalid file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrMissingDocument = errors.New("required document missing")
)

// Directory and content errors
var (
	ErrMemberNotFound        = NewResourceNotFoundError("member not found")
	ErrNewsNotFound          = NewResourceNotFoundError("news not found")
	ErrEventNotFound         = NewResourceNotFoundError("event not found")
	ErrStateNotFound         = NewResourceNotFoundError("state not found")
	ErrDistrictNotFound      = NewResourceNotFoundError("district not found")
	ErrUserNotFound          = NewResourceNotFoundError("user not found")
	ErrSEONotFound           = NewResourceNotFoundError("seo entry not found")
	ErrEmailAlreadyExists    = NewCustomError(ErrResourceAlreadyExists, "email already exists")
	ErrMemberAlreadyExists   = NewConflictError("member already exists for this membership number or application")
	ErrApplicationIDConflict = NewConflictError("application id already exists")
)

// Society site errors
var (
	ErrCommitteeMemberNotFound = NewResourceNotFoundError("committee member not found")
	ErrCommitteeSlugTaken      = NewConflictError("committee slug already in use")
	ErrAlbumNotFound           = NewResourceNotFoundError("album not found")
	ErrPhotoNotFound           = NewResourceNotFoundError("photo not found")
	ErrPublicationNotFound     = NewResourceNotFoundError("publication not found")
	ErrContactNotFound         = NewResourceNotFoundError("contact message not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error that names the violated constraint
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewFieldValidationError is NewValidationError with the offending field attached
func NewFieldValidationError(cause error, field, message string) *CustomError {
	return &CustomError{
		Err:     errors.Join(ErrValidationFailed, cause),
		Message: message,
		Field:   field,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// AsCustom extracts the outermost CustomError from an error chain.
func AsCustom(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
