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
	ErrPermission    ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConditionInvalid ErrorCode = "CONDITION_INVALID"
	ErrSpecInvalid      ErrorCode = "SPEC_INVALID"

	// Module errors
	ErrModuleUnknown   ErrorCode = "MODULE_UNKNOWN"
	ErrModuleDuplicate ErrorCode = "MODULE_DUPLICATE"
	ErrModuleExecute   ErrorCode = "MODULE_EXECUTE"

	// Reconciliation errors
	ErrBackupExists  ErrorCode = "BACKUP_EXISTS"
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// SyncsmithError represents a structured error with code and details
type SyncsmithError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SyncsmithError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SyncsmithError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SyncsmithError) Is(target error) bool {
	var targetErr *SyncsmithError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SyncsmithError with the given code and message
func New(code ErrorCode, message string) *SyncsmithError {
	return &SyncsmithError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SyncsmithError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SyncsmithError {
	return &SyncsmithError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SyncsmithError
func Wrap(err error, code ErrorCode, message string) *SyncsmithError {
	if err == nil {
		return nil
	}
	return &SyncsmithError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SyncsmithError {
	if err == nil {
		return nil
	}
	return &SyncsmithError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SyncsmithError) WithDetail(key string, value interface{}) *SyncsmithError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var syncErr *SyncsmithError
	if errors.As(err, &syncErr) {
		return syncErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SyncsmithError
func GetErrorCode(err error) ErrorCode {
	var syncErr *SyncsmithError
	if errors.As(err, &syncErr) {
		return syncErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SyncsmithError
func GetErrorDetails(err error) map[string]interface{} {
	var syncErr *SyncsmithError
	if errors.As(err, &syncErr) {
		return syncErr.Details
	}
	return nil
}
