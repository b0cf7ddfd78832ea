package service

import (
	"errors"
	"fmt"

	"site-catalog/internal/repository"
)

var (
	// ErrValidation marks input the caller must fix.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden marks an authenticated caller lacking the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries a message safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError names what collided with an existing document.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == repository.ErrConflict }

// conflict replaces a store conflict, whose text comes from the database,
// with a client-facing message.
func conflict(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrConflict) {
		return &ConflictError{Message: fmt.Sprintf(format, args...) + " already exists"}
	}
	return err
}
