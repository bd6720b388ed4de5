package domain

import (
	"errors"
	"fmt"
)

// ErrSyncTimeout is returned when the caller-imposed deadline elapses while
// a sync is being processed. The attempt is still recorded as a failed sync.
var ErrSyncTimeout = errors.New("sync processing deadline exceeded")

// ErrAlertNotFound is returned when an acknowledgement targets an unknown
// alert id.
var ErrAlertNotFound = errors.New("alert not found")

// ValidationError rejects a malformed or out-of-range payload before any
// persistence happens. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid sync payload: %s", e.Message)
	}
	return fmt.Sprintf("invalid sync payload: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError indicates an unknown employee reference. Aborts processing
// and is recorded as a failed sync.
type NotFoundError struct {
	EmployeeID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee not found: %s", e.EmployeeID)
}

// NewNotFoundError creates a NotFoundError for the given employee id.
func NewNotFoundError(employeeID string) *NotFoundError {
	return &NotFoundError{EmployeeID: employeeID}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StoreError wraps an adapter failure during a read or write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the failing operation name.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
