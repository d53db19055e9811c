package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a tracker failure independently of how it is surfaced
// (HTTP status, CLI exit message).
type ErrorCode string

const (
	// ErrCodeNotFound: the task or stored record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalid: the caller sent something unusable (bad title, bad backup).
	ErrCodeInvalid ErrorCode = "INVALID"
	// ErrCodeConflict: the request is well formed but not valid for the task's current shape.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInternal: storage or any other unclassified failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error is a classified tracker error. Err, when set, is the underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified error without a cause.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError classifies err, e.g. a JSON decode failure as ErrCodeInvalid.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	// ErrTaskNotFound is returned by every task operation given an unknown id.
	ErrTaskNotFound = NewError(ErrCodeNotFound, "task not found")
	// ErrRecordNotFound is returned by record stores for a key never written.
	// The state repository treats it as "use the default".
	ErrRecordNotFound = NewError(ErrCodeNotFound, "record not found")
	// ErrInvalidPayload is returned when there is no state to save.
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")
	// ErrInvalidBackup is returned by ParseSnapshot when a backup document has
	// no tasks array. Nothing is applied in that case.
	ErrInvalidBackup = NewError(ErrCodeInvalid, "invalid backup: missing tasks")
	// ErrNoTimer is returned when a timer is started or paused on a task
	// created without a duration.
	ErrNoTimer = NewError(ErrCodeConflict, "task has no timer")
)

// CodeOf returns the classification of err, or ErrCodeInternal when err
// carries none.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) && dErr != nil {
		return dErr.Code
	}
	return ErrCodeInternal
}

// IsDomainError reports whether err is classified with code.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
