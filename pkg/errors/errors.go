// Package errors provides structured error types for the panelboard editor.
//
// Every failure the CLI, the terminal editor and the HTTP API can report
// carries a [Code]. Callers branch on the code, the HTTP layer maps it to a
// status, and notifications show [UserMessage].
//
// # Error Taxonomy
//
// The editor distinguishes three outcomes that are not plain successes:
//   - FORMAT_ERROR: a persisted document is malformed or references an
//     unknown enclosure. Loading is all-or-nothing; the in-memory document
//     is left untouched.
//   - ENGINE_INIT: the diagram engine could not be initialized. No diagram
//     functionality is available until it is.
//   - PLACEMENT_REJECTED: a move or drop violated the membership rules or
//     the top-level placement setting. This is an expected interaction
//     outcome, reported through placement results rather than returned as
//     a failure by the designer.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFormat, "node %d: missing key", i)
//	if errors.Is(err, errors.ErrCodeFormat) {
//	    // Notify the user; keep the current document
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFormat, jsonErr, "decode document")
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an [Error].
type Code string

const (
	// Invalid arguments
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidKey   Code = "INVALID_KEY"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeInvalidColor Code = "INVALID_COLOR"

	// Document errors
	ErrCodeFormat            Code = "FORMAT_ERROR"
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeDuplicateKey      Code = "DUPLICATE_KEY"
	ErrCodePlacementRejected Code = "PLACEMENT_REJECTED"

	// Engine errors
	ErrCodeEngineInit Code = "ENGINE_INIT"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a [Code], a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns a coded error without a cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns a coded error around cause. The message is formatted with
// [fmt.Sprintf].
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any coded error in err's chain has code. A load
// failure wrapped as INVALID_PATH around a FORMAT_ERROR matches both.
func Is(err error, code Code) bool {
	for e := (*Error)(nil); errors.As(err, &e); err = e.Cause {
		if e.Code == code {
			return true
		}
	}
	return false
}

// IsFormat reports whether err is a FORMAT_ERROR.
func IsFormat(err error) bool { return Is(err, ErrCodeFormat) }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return Is(err, ErrCodeNotFound) }

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for a notification or terminal line: the
// messages of every coded error in the chain joined by ": ", codes left
// out. Uncoded errors are printed as they are.
func UserMessage(err error) string {
	e := (*Error)(nil)
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
