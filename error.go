package harvest

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// EUNAVAILABLE marks transient transport failures: the Poller swallows
// these and keeps polling until its timeout elapses. Every other code is
// permanent and short-circuits the operation that produced it.
const (
	EINVALID      = "invalid"      // validation or configuration error
	ENOTFOUND     = "not_found"    // entity does not exist
	ENOTREADY     = "not_ready"    // fetch attempted before the job is ready
	EUNAUTHORIZED = "unauthorized" // invalid or insufficient API token
	EUNAVAILABLE  = "unavailable"  // transient transport failure, retryable
	EINTERNAL     = "internal"     // unexpected internal or remote error
)

// Error represents an application error with a machine-readable code
// and a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("harvest error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the error, if available.
// Returns EINTERNAL for non-application errors and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if available.
// Returns a generic message for non-application errors and "" for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// IsTransient reports whether err is a transient transport failure that
// a poll loop may retry on its next interval.
func IsTransient(err error) bool {
	return ErrorCode(err) == EUNAVAILABLE
}
