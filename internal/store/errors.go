package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store, or exists but belongs to a different owner. This is a generic
	// version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. a tag with an existing name).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrTaskNotFound indicates that the requested task does not exist for
	// the calling owner.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrTagNotFound indicates that the requested tag does not exist.
	ErrTagNotFound = fmt.Errorf("%w: tag", ErrNotFound)

	// ErrConversationNotFound indicates that the requested conversation does
	// not exist for the calling owner.
	ErrConversationNotFound = fmt.Errorf("%w: conversation", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
