// Package services implements the bot, flow, template and account operations
// on top of the persistence layer.
package services

import (
	"errors"
	"fmt"

	"github.com/teleboot/teleboot/pkg/codec"
	"github.com/teleboot/teleboot/pkg/ownership"
	"github.com/teleboot/teleboot/pkg/persistence"
)

// Error kinds returned by every service. Callers match them with errors.Is.
var (
	// ErrNotFound covers missing entities and entities owned by another user (404).
	ErrNotFound = ownership.ErrNotFound

	// ErrValidation marks invalid input (400).
	ErrValidation = errors.New("validation failed")

	// ErrMalformedPayload marks a flow payload that cannot be decoded (400).
	ErrMalformedPayload = codec.ErrMalformedPayload

	// ErrConflict marks a uniqueness conflict such as a registered email (409).
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated marks missing or invalid credentials (401).
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrStorage marks a failure of the underlying store (500).
	ErrStorage = persistence.ErrStorage
)

// Validation causes.
var (
	ErrNameRequired         = errors.New("name is required")
	ErrFlowDataRequired     = errors.New("flow_data is required")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
	ErrCredentialsRequired  = errors.New("email and password are required")
	ErrRegistrationRequired = errors.New("all fields are required")
	ErrPasswordTooShort     = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a validation error whose message is the cause.
func NewValidationError(op string, cause error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "VALIDATION_ERROR",
		Message: cause.Error(),
		Err:     fmt.Errorf("%w: %w", ErrValidation, cause),
	}
}

func newConflictError(op, message string, cause error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "CONFLICT",
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrConflict, cause),
	}
}

func newUnauthenticatedError(op, message string, cause error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "UNAUTHENTICATED",
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrUnauthenticated, cause),
	}
}

// IsNotFound checks if an error should return HTTP 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMalformedPayload checks if an error is an undecodable flow payload.
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

// IsConflictError checks if an error is a conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnauthenticated checks if an error should return HTTP 401.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsStorageError checks if an error is a store failure that should return HTTP 500.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
