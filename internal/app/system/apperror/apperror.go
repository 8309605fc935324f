// internal/app/system/apperror/apperror.go
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel categories. Stores and services wrap these so handlers can map
// them to HTTP status codes with errors.Is without knowing the details.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Named identity-provider error codes surfaced to the client verbatim.
const (
	CodeInvalidCredential = "invalid_credential"
	CodeUserNotFound      = "user_not_found"
	CodeEmailInUse        = "email_already_in_use"
	CodeUsernameTaken     = "username_taken"
)

// Error is a typed application error carrying a machine-readable code and a
// human-readable message alongside the sentinel category.
type Error struct {
	Err     error  // sentinel category (ErrNotFound, ErrConflict, ...)
	Code    string // stable machine-readable code, e.g. "username_taken"
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports that the named resource does not exist.
func NotFound(resource string) *Error {
	return &Error{
		Err:     ErrNotFound,
		Code:    "not_found",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Validation reports malformed input caught before any store call.
func Validation(message string) *Error {
	return &Error{Err: ErrValidation, Code: "validation_error", Message: message}
}

// Conflict reports a uniqueness conflict with a named code.
func Conflict(code, message string) *Error {
	return &Error{Err: ErrConflict, Code: code, Message: message}
}

// Forbidden reports that the caller is not allowed to perform the operation.
func Forbidden(message string) *Error {
	return &Error{Err: ErrForbidden, Code: "forbidden", Message: message}
}

// Unauthorized reports a failed or missing sign-in with a named code.
func Unauthorized(code, message string) *Error {
	return &Error{Err: ErrUnauthorized, Code: code, Message: message}
}
