package domain

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes domain errors for programmatic handling
type ErrorCode string

const (
	// ErrCodeValidation marks invalid caller input (paths, targets, limits)
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeConfig marks configuration loading or parsing problems
	ErrCodeConfig ErrorCode = "config"

	// ErrCodeIO marks file system access failures
	ErrCodeIO ErrorCode = "io"

	// ErrCodeInternal marks unexpected internal failures
	ErrCodeInternal ErrorCode = "internal"
)

// DomainError is the error type returned across package boundaries
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error
func NewValidationError(message string, err error) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message, Err: err}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, err error) *DomainError {
	return &DomainError{Code: ErrCodeConfig, Message: message, Err: err}
}

// NewIOError creates a file system error
func NewIOError(message string, err error) *DomainError {
	return &DomainError{Code: ErrCodeIO, Message: message, Err: err}
}

// NewInternalError creates an internal error
func NewInternalError(message string, err error) *DomainError {
	return &DomainError{Code: ErrCodeInternal, Message: message, Err: err}
}

// IsValidationError reports whether err is a validation DomainError
func IsValidationError(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeValidation
}

// IsConfigError reports whether err is a configuration DomainError
func IsConfigError(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeConfig
}
