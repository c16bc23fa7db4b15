// Package domainerrors provides the error taxonomy shared by services and
// transports. Services attach a Code to every error they return; transports
// map codes to protocol statuses without inspecting error strings.
//
// Stores do not use this package directly — they return sentinel errors
// (pkg/platform/sentinel) and services translate them into coded errors.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers.
type Code string

const (
	// CodeInvalidInput marks malformed input caught at a trust boundary
	// (bad identifier shape, oversized field).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a structurally invalid request (missing body,
	// wrong content type).
	CodeBadRequest Code = "bad_request"

	// CodeValidation marks a request that parsed but violates field rules.
	CodeValidation Code = "validation_error"

	// CodeUnauthorized marks missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks an authenticated caller lacking permission,
	// including operations on disabled accounts.
	CodeForbidden Code = "forbidden"

	// CodeNotFound marks a referenced entity that does not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a business-rule violation against current state:
	// duplicate subscription, cancelling an absent membership,
	// insufficient balance.
	CodeConflict Code = "conflict"

	// CodeInternal marks infrastructure faults. Transports must not leak
	// the underlying detail for this code.
	CodeInternal Code = "internal_error"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the classification of the error.
func (e *Error) Code() Code { return e.code }

// Message returns the caller-facing description without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{code: code, msg: msg}
}

// Wrap annotates err with a code and message. The cause remains reachable
// through errors.Unwrap for logging; transports surface only code and message.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, err: err}
}

// CodeOf extracts the code from err, walking the wrap chain. Uncoded errors
// report CodeInternal so unexpected failures never leak as client errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability in tests.
func Is(err error, code Code) bool { return HasCode(err, code) }
