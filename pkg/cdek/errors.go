package cdek

import (
	"errors"
	"fmt"
)

// Error represents an error reported by the CDEK API or by the client itself.
// Provider-reported errors carry the code and message from the response body;
// client-assigned codes (see the constants below) mark contract violations
// detected on our side. Callers disambiguate via Code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Client-assigned error codes.
const (
	// CodeNoSettings marks missing required configuration at construction time.
	CodeNoSettings = "notsettings"
	// CodeNoUUID marks a response missing the expected entity.uuid field.
	CodeNoUUID = "nouuid"
	// CodeNoEntity marks a response missing the expected entity payload.
	CodeNoEntity = "noentity"
	// CodeTransport marks a normalized transport-level failure
	// (DNS, connect, timeout, unparseable body).
	CodeTransport = "transport"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause attaches an underlying cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// IsTransport reports whether the error is a normalized transport failure.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == CodeTransport
}
