package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")

	// ErrUnsupportedDocType is returned for a document kind outside the five
	// supported categories. This is caller misuse, never dirty data.
	ErrUnsupportedDocType = errors.New("unsupported document kind")

	// ErrUnsupportedFormat is returned for source files the tabular reader
	// cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoDataForPeriod is returned when a monthly statistic is requested
	// for a (year, month) with no bank records. Distinct from a computed
	// zero match rate, which is a valid value.
	ErrNoDataForPeriod = errors.New("no data for requested period")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
