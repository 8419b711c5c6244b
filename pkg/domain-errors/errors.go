// Package domainerrors defines coded errors that services return to transport
// adapters. Stores return sentinel facts; services translate those facts into
// one of these codes so handlers can map them onto a response status.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, client-visible error identifier.
type Code string

const (
	CodeBadRequest     Code = "bad_request"
	CodeValidation     Code = "validation_error"
	CodeInvalidInput   Code = "invalid_input"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodeStaleState     Code = "stale_state"
	CodeTerminalState  Code = "terminal_state"
	CodeImmutableField Code = "immutable_field"
	CodeConfiguration  Code = "configuration_error"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeInternal       Code = "internal_error"
	CodeUnavailable    Code = "unavailable"
	CodeTimeout        Code = "timeout"
)

// Error carries a code, a safe message and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// From returns the outermost coded error in the chain, if any.
func From(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost coded error in the chain has the given code.
func HasCode(err error, code Code) bool {
	de, ok := From(err)
	return ok && de.Code == code
}

// Is is shorthand for HasCode, kept for readability in tests.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// IsConflict reports whether err is one of the codes a caller may resolve by
// re-reading state and retrying.
func IsConflict(err error) bool {
	de, ok := From(err)
	if !ok {
		return false
	}
	switch de.Code {
	case CodeConflict, CodeStaleState, CodeImmutableField:
		return true
	default:
		return false
	}
}
