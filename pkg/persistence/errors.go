// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrUserNotFound indicates a user was not found by the given identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a user with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrBotNotFound indicates a bot was not found by the given identifier.
	ErrBotNotFound = errors.New("bot not found")

	// ErrFlowNotFound indicates a flow was not found by the given identifier.
	ErrFlowNotFound = errors.New("flow not found")

	// ErrTemplateNotFound indicates a public template was not found by the given identifier.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrStorage indicates the underlying store failed to execute an operation.
	ErrStorage = errors.New("storage failure")
)

// StorageError wraps a driver failure with the operation that caused it.
type StorageError struct {
	Op  string // Operation being performed (e.g., "bots.GetByID", "flows.Update")
	Err error  // Underlying driver error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorage, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports StorageError as ErrStorage in addition to its wrapped error.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps a driver error. It returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}

	return &StorageError{Op: op, Err: err}
}

// EntityError wraps a lookup failure with the entity identifier.
type EntityError struct {
	Op  string // Operation being performed
	ID  string // Identifier of the entity
	Err error  // One of the not-found sentinels
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s operation failed for %s: %v", e.Op, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// NewEntityError creates a new entity error with context.
func NewEntityError(op, id string, err error) *EntityError {
	return &EntityError{Op: op, ID: id, Err: err}
}

// IsStorageError checks if an error is an underlying store failure.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsBotNotFound checks if an error indicates a bot was not found.
func IsBotNotFound(err error) bool {
	return errors.Is(err, ErrBotNotFound)
}

// IsFlowNotFound checks if an error indicates a flow was not found.
func IsFlowNotFound(err error) bool {
	return errors.Is(err, ErrFlowNotFound)
}

// IsTemplateNotFound checks if an error indicates a template was not found.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsUserNotFound checks if an error indicates a user was not found.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
