// Package apperr defines the domain error taxonomy. Every failure a service
// reports carries a stable Kind; the HTTP boundary maps kinds to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidationFailed   Kind = "VALIDATION_FAILED"
	KindConflict           Kind = "CONFLICT"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindInvalidCode        Kind = "INVALID_CODE"
	KindExpired            Kind = "EXPIRED"
	KindAlreadyVerified    Kind = "ALREADY_VERIFIED"
	KindSameAsOldSecret    Kind = "SAME_AS_OLD_SECRET"
	KindInternal           Kind = "INTERNAL"
)

// Error is a classified domain error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err. Unclassified errors are Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the message of a classified error, or a generic message
// for unclassified failures so internal detail never leaks to callers.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
