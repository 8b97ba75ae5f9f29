// Package errors provides structured error handling for csfs.
//
// Every failure the library reports is an *Error carrying a broad Type
// (parse, normalization, io, ...) and a precise Kind (length_mismatch,
// bad_token, not_found, ...). Callers inspect failures with IsType and
// IsKind instead of matching message strings:
//
//	desc, err := gen.Parse(occ, mid, fin)
//	if errors.IsKind(err, errors.KindBadToken) {
//	    // skip the record
//	}
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid arguments or options
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeParse represents malformed CSF records
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeNormalization represents descriptor normalization failures
	ErrorTypeNormalization ErrorType = "normalization"
	// ErrorTypeIO represents file system and encoding failures
	ErrorTypeIO ErrorType = "io"
)

// Kind pinpoints a failure inside its ErrorType.
type Kind string

const (
	// KindNone is used when no finer classification applies
	KindNone Kind = ""
	// KindLengthMismatch: occupation line or descriptor has the wrong length
	KindLengthMismatch Kind = "length_mismatch"
	// KindBadToken: a coupling token or electron count cannot be decoded
	KindBadToken Kind = "bad_token"
	// KindUnknownColumn: a token lies outside every subshell column
	KindUnknownColumn Kind = "unknown_column"
	// KindUnknownSubshell: subshell code absent from the subshell table
	KindUnknownSubshell Kind = "unknown_subshell"
	// KindDivideByZero: a normalization property is zero
	KindDivideByZero Kind = "divide_by_zero"
	// KindNotFound: input path does not exist
	KindNotFound Kind = "not_found"
	// KindWriteFailed: output cannot be created or written
	KindWriteFailed Kind = "write_failed"
	// KindReadFailed: input exists but cannot be read or decoded
	KindReadFailed Kind = "read_failed"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Kind    Kind
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithKind sets the failure kind
func (e *Error) WithKind(kind Kind) *Error {
	e.Kind = kind
	return e
}

// Detail returns a detail value previously attached with WithDetail
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error of the given type and kind with a formatted message
func Newf(errType ErrorType, kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context. The kind of a
// wrapped *Error is inherited so IsKind keeps working through layers.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Kind:    existingErr.Kind,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsKind reports whether any *Error in err's chain has the given kind
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return KindNone
	}
	return e.Kind
}

// Is forwards to the standard library so callers need a single import
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As forwards to the standard library so callers need a single import
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
