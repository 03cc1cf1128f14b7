package errors

import (
	"errors"
	"fmt"
)

// StoreError represents a structured error with a machine-readable code
type StoreError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches StoreErrors by code so the predefined values work with errors.Is
func (e *StoreError) Is(target error) bool {
	var se *StoreError
	if !errors.As(target, &se) {
		return false
	}
	return e.Code == se.Code
}

// WithError wraps an underlying error
func (e *StoreError) WithError(err error) *StoreError {
	return &StoreError{Code: e.Code, Message: e.Message, Err: err}
}

// Predefined errors
var (
	ErrEmptyIdentifier = &StoreError{
		Code:    "EMPTY_IDENTIFIER",
		Message: "Identifier is empty after normalization",
	}

	ErrAlreadyExists = &StoreError{
		Code:    "ALREADY_EXISTS",
		Message: "Identifier is already whitelisted",
	}

	ErrNotFound = &StoreError{
		Code:    "NOT_FOUND",
		Message: "Identifier is not whitelisted",
	}

	ErrIO = &StoreError{
		Code:    "IO_FAILURE",
		Message: "Whitelist file operation failed",
	}
)

// Helper functions for creating errors with context
func NewIOError(message string, err error) *StoreError {
	return &StoreError{
		Code:    "IO_FAILURE",
		Message: message,
		Err:     err,
	}
}

func NewConfigError(message string, err error) *StoreError {
	return &StoreError{
		Code:    "CONFIG_ERROR",
		Message: message,
		Err:     err,
	}
}
