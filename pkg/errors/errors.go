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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Host / context errors
	ErrNoPackageManager ErrorCode = "NO_PACKAGE_MANAGER"
	ErrContextInit      ErrorCode = "CONTEXT_INIT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// List file errors
	ErrListRead ErrorCode = "LIST_READ"

	// Command errors
	ErrCommandStart  ErrorCode = "COMMAND_START"
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"

	// Task errors
	ErrTaskCheck   ErrorCode = "TASK_CHECK"
	ErrTaskExecute ErrorCode = "TASK_EXECUTE"

	// Remote errors
	ErrGitHubAPI ErrorCode = "GITHUB_API"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// HostprepError represents a structured error with code and details
type HostprepError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HostprepError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HostprepError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HostprepError) Is(target error) bool {
	var targetErr *HostprepError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HostprepError with the given code and message
func New(code ErrorCode, message string) *HostprepError {
	return &HostprepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HostprepError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HostprepError {
	return &HostprepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HostprepError
func Wrap(err error, code ErrorCode, message string) *HostprepError {
	if err == nil {
		return nil
	}
	return &HostprepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HostprepError {
	if err == nil {
		return nil
	}
	return &HostprepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HostprepError) WithDetail(key string, value interface{}) *HostprepError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var hpErr *HostprepError
	if errors.As(err, &hpErr) {
		return hpErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HostprepError
func GetErrorCode(err error) ErrorCode {
	var hpErr *HostprepError
	if errors.As(err, &hpErr) {
		return hpErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HostprepError
func GetErrorDetails(err error) map[string]interface{} {
	var hpErr *HostprepError
	if errors.As(err, &hpErr) {
		return hpErr.Details
	}
	return nil
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
