package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Fetch errors
	ErrNetwork          ErrorCode = "NETWORK"
	ErrTimeout          ErrorCode = "TIMEOUT"
	ErrHTTPStatus       ErrorCode = "HTTP_STATUS"
	ErrTooManyRedirects ErrorCode = "TOO_MANY_REDIRECTS"

	// FileSystem errors
	ErrFileWrite ErrorCode = "FILE_WRITE"
)

// RulesplitError represents a structured error with code and details
type RulesplitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RulesplitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RulesplitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RulesplitError) Is(target error) bool {
	var targetErr *RulesplitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RulesplitError with the given code and message
func New(code ErrorCode, message string) *RulesplitError {
	return &RulesplitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RulesplitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RulesplitError {
	return &RulesplitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RulesplitError
func Wrap(err error, code ErrorCode, message string) *RulesplitError {
	if err == nil {
		return nil
	}
	return &RulesplitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RulesplitError {
	if err == nil {
		return nil
	}
	return &RulesplitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RulesplitError) WithDetail(key string, value interface{}) *RulesplitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RulesplitError) WithDetails(details map[string]interface{}) *RulesplitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rsErr *RulesplitError
	if errors.As(err, &rsErr) {
		return rsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RulesplitError
func GetErrorCode(err error) ErrorCode {
	var rsErr *RulesplitError
	if errors.As(err, &rsErr) {
		return rsErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RulesplitError
func GetErrorDetails(err error) map[string]interface{} {
	var rsErr *RulesplitError
	if errors.As(err, &rsErr) {
		return rsErr.Details
	}
	return nil
}
