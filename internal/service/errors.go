package service

import (
	"errors"
	"fmt"
)

// TaskErrorType categorizes task operation failures
type TaskErrorType string

const (
	ValidationError TaskErrorType = "validation"
	StorageError    TaskErrorType = "storage"
)

// Sentinels for errors.Is.
var (
	ErrDescriptionRequired = errors.New("description required")
	ErrEndBeforeStart      = errors.New("end before start")
	ErrInvalidDate         = errors.New("invalid date")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// TaskError is a rejected or failed task operation. Message is safe to show
// to the user.
type TaskError struct {
	Type    TaskErrorType
	Message string
	Err     error
	Cause   error
}

func (e *TaskError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *TaskError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func newValidationError(sentinel error, message string) *TaskError {
	if message == "" {
		message = sentinel.Error()
	}
	return &TaskError{
		Type:    ValidationError,
		Message: message,
		Err:     sentinel,
	}
}

func newStorageError(cause error) *TaskError {
	return &TaskError{
		Type:    StorageError,
		Message: ErrStorageUnavailable.Error(),
		Err:     ErrStorageUnavailable,
		Cause:   cause,
	}
}

// IsTaskError checks if an error is a TaskError and returns it
func IsTaskError(err error) (*TaskError, bool) {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr, true
	}
	return nil, false
}
