package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigLoadFailed ErrorCode = "CONFIG_LOAD_FAILED"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Watch rule errors
	ErrCodeRuleMalformed        ErrorCode = "RULE_MALFORMED"
	ErrCodeRuleDuplicateName    ErrorCode = "RULE_DUPLICATE_NAME"
	ErrCodeRuleConflictingPaths ErrorCode = "RULE_CONFLICTING_PATHS"

	// Agent daemon errors
	ErrCodeAgentAlreadyRunning ErrorCode = "AGENT_ALREADY_RUNNING"
	ErrCodeAgentNotRunning     ErrorCode = "AGENT_NOT_RUNNING"
	ErrCodeSocketFailed        ErrorCode = "SOCKET_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// WardenError represents a structured error with context
type WardenError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *WardenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WardenError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *WardenError) WithDetail(key string, value interface{}) *WardenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *WardenError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new WardenError
func New(code ErrorCode, message string) *WardenError {
	return &WardenError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a WardenError
func Wrap(err error, code ErrorCode, message string) *WardenError {
	return &WardenError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific WardenError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	wardenErr, ok := err.(*WardenError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return wardenErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	wardenErr, ok := err.(*WardenError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return wardenErr.Code
}
