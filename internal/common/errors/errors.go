// Package errors provides the coded errors surfaced by the persistence layer.
package errors

import "fmt"

// ErrorCode identifies the failure class of a repository operation.
type ErrorCode string

const (
	// ErrCodeStoreUnavailable means a connection could not be acquired.
	// Fatal to the calling operation, never retried internally.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// ErrCodeNotFound means a referenced entity is absent, such as an
	// unknown franchise name or an admin email with no matching user.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidCredentials means a password mismatch during
	// authentication.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// ErrCodeFranchiseDeleteFailed covers any statement failure inside the
	// franchise deletion transaction. The underlying cause is kept wrapped
	// for logs but the message is fixed.
	ErrCodeFranchiseDeleteFailed ErrorCode = "FRANCHISE_DELETE_FAILED"

	// ErrCodeStoreError is the generic class for all other statement
	// failures.
	ErrCodeStoreError ErrorCode = "STORE_ERROR"
)

// Error is a structured application error with a stable code.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewStoreUnavailable wraps a connection acquisition failure.
func NewStoreUnavailable(err error) *Error {
	return &Error{
		Code:    ErrCodeStoreUnavailable,
		Message: "database unavailable",
		Err:     err,
	}
}

// NewNotFound reports an absent entity. what names the entity for the
// caller, e.g. "admin user must already exist".
func NewNotFound(what string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: what,
	}
}

// NewInvalidCredentials reports a password mismatch.
func NewInvalidCredentials() *Error {
	return &Error{
		Code:    ErrCodeInvalidCredentials,
		Message: "invalid credentials",
	}
}

// NewFranchiseDeleteFailed reports a rolled-back franchise deletion with a
// fixed outward message.
func NewFranchiseDeleteFailed(err error) *Error {
	return &Error{
		Code:    ErrCodeFranchiseDeleteFailed,
		Message: "unable to delete franchise",
		Err:     err,
	}
}

// NewStoreError wraps any other statement failure.
func NewStoreError(message string, err error) *Error {
	return &Error{
		Code:    ErrCodeStoreError,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

func IsStoreUnavailable(err error) bool { return CodeOf(err) == ErrCodeStoreUnavailable }
func IsNotFound(err error) bool         { return CodeOf(err) == ErrCodeNotFound }
func IsInvalidCredentials(err error) bool {
	return CodeOf(err) == ErrCodeInvalidCredentials
}
func IsFranchiseDeleteFailed(err error) bool {
	return CodeOf(err) == ErrCodeFranchiseDeleteFailed
}
func IsStoreError(err error) bool { return CodeOf(err) == ErrCodeStoreError }
