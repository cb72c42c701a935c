// Package errors provides coded errors shared by the engine, its stores and its adapters.
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an error so callers can branch without string matching
type Code string

const (
	// CodeUnknown is used for errors that did not originate in this module
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument means the caller passed something unusable
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound means a lookup had no result
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists means a create collided with an existing record
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal means an invariant inside the engine was broken
	CodeInternal Code = "internal"

	// CodeValidation means a record failed validation
	CodeValidation Code = "validation"

	// CodeConfiguration means ruleset or environment data is malformed.
	// These are fatal at startup.
	CodeConfiguration Code = "configuration"
)

// Error is an error with a code, an optional cause and free-form metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a key/value pair and returns the same error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with the given code and a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap adds context to err. The code and metadata of a wrapped *Error are kept.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var coded *Error
	if errors.As(err, &coded) {
		return &Error{
			Code:    coded.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(coded.Meta),
		}
	}

	return &Error{Code: CodeUnknown, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and forces the resulting code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// NotFound creates a not found error
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error { return New(CodeAlreadyExists, message) }

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Internal creates an internal error
func Internal(message string) *Error { return New(CodeInternal, message) }

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error { return Newf(CodeInternal, format, args...) }

// Validation creates a validation error
func Validation(message string) *Error { return New(CodeValidation, message) }

// Validationf creates a formatted validation error
func Validationf(format string, args ...any) *Error { return Newf(CodeValidation, format, args...) }

// Configuration creates a configuration error
func Configuration(message string) *Error { return New(CodeConfiguration, message) }

// Configurationf creates a formatted configuration error
func Configurationf(format string, args ...any) *Error {
	return Newf(CodeConfiguration, format, args...)
}

// Is reports whether err carries the given code anywhere in its chain
func Is(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

// IsInvalidArgument reports whether err is an invalid argument error
func IsInvalidArgument(err error) bool { return Is(err, CodeInvalidArgument) }

// IsAlreadyExists reports whether err is an already exists error
func IsAlreadyExists(err error) bool { return Is(err, CodeAlreadyExists) }

// IsInternal reports whether err is an internal error
func IsInternal(err error) bool { return Is(err, CodeInternal) }

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return Is(err, CodeValidation) }

// IsConfiguration reports whether err is a configuration error
func IsConfiguration(err error) bool { return Is(err, CodeConfiguration) }

// GetCode returns the code of err, or CodeUnknown
func GetCode(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of err, if any
func GetMeta(err error) map[string]any {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
