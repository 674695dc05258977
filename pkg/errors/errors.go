package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"creative-tools-api/internal/domain"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypePaymentRequired ErrorType = "payment_required"
	ErrorTypeUnavailable     ErrorType = "unavailable"
	ErrorTypeInternal        ErrorType = "internal"
)

// UpgradeURL is where clients send users whose quota ran out.
const UpgradeURL = "/subscriptions"

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	UpgradeURL string    `json:"upgrade_url,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewPaymentRequiredError is returned when a plan's quota is spent.
func NewPaymentRequiredError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePaymentRequired,
		Message:    message,
		UpgradeURL: UpgradeURL,
		StatusCode: http.StatusPaymentRequired,
		Cause:      cause,
	}
}

// NewUnavailableError creates a new upstream unavailable error
func NewUnavailableError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// FromDomain maps a service error onto an AppError. Unrecognised errors become
// a generic internal error; the cause is kept for logging only.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var validationErr *domain.ValidationError
	if stderrors.As(err, &validationErr) {
		return NewValidationError(validationErr.Error())
	}

	var backendErr *domain.BackendError
	switch {
	case stderrors.Is(err, domain.ErrNotAuthenticated), stderrors.Is(err, domain.ErrInvalidToken):
		return NewUnauthorizedError("User not authenticated")
	case stderrors.Is(err, domain.ErrSubscriptionNotFound):
		return NewNotFoundError("Subscription not found for this user")
	case stderrors.Is(err, domain.ErrInsufficientCredit):
		return NewPaymentRequiredError("Insufficient credit. Please upgrade your plan.", err)
	case stderrors.As(err, &backendErr):
		return NewUnavailableError(backendErr.Message, err)
	case stderrors.Is(err, domain.ErrBackendUnavailable):
		return NewUnavailableError(domain.BackendUnavailableMessage, err)
	case stderrors.Is(err, domain.ErrUnknownTool):
		return NewValidationError("Unknown tool", err.Error())
	case stderrors.Is(err, domain.ErrInvalidPlan):
		return NewValidationError("Invalid plan", "expected one of Free, Monthly, Yearly")
	case stderrors.Is(err, domain.ErrInvalidMedia):
		return NewValidationError("Invalid media data URI")
	case stderrors.Is(err, domain.ErrGalleryItemNotFound):
		return NewNotFoundError("Gallery item not found")
	default:
		return NewInternalError("An unexpected error occurred", err)
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
