// Package apperr defines the error taxonomy shared by the record store, the
// aggregate builder and the layout engine. The HTTP layer translates these
// into status codes.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a required scalar is missing on creation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on field '%s': %s", e.Field, e.Message)
}

// NotFoundError is returned for operations addressing an unknown resume id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resume with ID %s not found", e.ID)
}

// StorageError wraps an I/O failure inside the record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RenderError is returned when draw instructions or the output stream cannot
// be produced.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render error: %s: %v", e.Reason, e.Err)
	}
	return "render error: " + e.Reason
}

func (e *RenderError) Unwrap() error { return e.Err }

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NotFound(id string) error {
	return &NotFoundError{ID: id}
}

// Storage wraps err as a StorageError unless it already carries one of the
// taxonomy types.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsNotFound(err) || IsStorage(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func Render(reason string, err error) error {
	return &RenderError{Reason: reason, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

func IsRender(err error) bool {
	var target *RenderError
	return errors.As(err, &target)
}
