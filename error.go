package typcheck

import (
	"errors"
	"fmt"
)

// Error codes used across the module. Callers branch on codes, never on
// message text.
const (
	EINTERNAL    = "internal"    // unexpected failure
	EINVALID     = "invalid"     // validation failed (bad config, bad input)
	ENOTFOUND    = "not_found"   // entity does not exist
	EPARSE       = "parse"       // document could not be parsed or assembled
	ETIMEOUT     = "timeout"     // backend call exceeded its deadline
	EUNAVAILABLE = "unavailable" // backend could not be reached or started
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code identifies the error class.
	Code string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("typcheck error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns a new Error with the given code and formatted message.
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
	} else if errors.As(err, &e) {
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
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
