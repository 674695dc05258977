package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotAuthenticated     = errors.New("user not authenticated")
	ErrSubscriptionNotFound = errors.New("subscription not found for this user")
	ErrInsufficientCredit   = errors.New("insufficient credit, please upgrade your plan")
	ErrBackendUnavailable   = errors.New("the AI service is currently unavailable, please try again later")
	ErrStore                = errors.New("document store error")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnknownTool          = errors.New("unknown tool")
	ErrInvalidPlan          = errors.New("invalid plan")
	ErrGalleryItemNotFound  = errors.New("gallery item not found")
	ErrInvalidMedia         = errors.New("invalid media data URI")
)

// BackendUnavailableMessage is shown when the backend gave no better explanation.
const BackendUnavailableMessage = "The AI service is currently unavailable. Please try again later."

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// QuotaError is returned when a tool's usage has reached the plan limit.
// It matches ErrInsufficientCredit with errors.Is.
type QuotaError struct {
	Tool  ToolID
	Plan  Plan
	Used  int
	Limit Limit
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("usage limit reached for %s (%d/%s on %s plan)", e.Tool, e.Used, e.Limit, e.Plan)
}

func (e *QuotaError) Unwrap() error { return ErrInsufficientCredit }

// BackendError wraps a generation backend failure. Message is the most specific
// user-facing explanation available.
type BackendError struct {
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Is lets errors.Is(err, ErrBackendUnavailable) match.
func (e *BackendError) Is(target error) bool { return target == ErrBackendUnavailable }

func (e *BackendError) Unwrap() error { return e.Cause }

// NewBackendError builds a BackendError, keeping message when the backend supplied one.
func NewBackendError(message string, cause error) *BackendError {
	if message == "" {
		message = BackendUnavailableMessage
	}
	return &BackendError{Message: message, Cause: cause}
}

// StoreError wraps a document store failure. It matches ErrStore with errors.Is.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
