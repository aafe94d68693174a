package connection

import (
	"errors"
	"fmt"
)

// Connection error values. Use WithMessage or WithCause to attach context;
// errors.Is matches on the code.
var (
	// ErrInvalidConfig indicates that no connection target could be
	// resolved from the call arguments or the process configuration.
	ErrInvalidConfig = &Error{
		Code:    "INVALID_CONFIG",
		Message: "no MongoDB connection target configured",
	}

	// ErrConnectionFailed indicates that a connect attempt failed.
	ErrConnectionFailed = &Error{
		Code:    "CONNECTION_FAILED",
		Message: "failed to connect to MongoDB",
	}

	// ErrNotConnected indicates that an operation requiring a live
	// connection was attempted while disconnected.
	ErrNotConnected = &Error{
		Code:    "NOT_CONNECTED",
		Message: "not connected to MongoDB",
	}

	// ErrTransportFault indicates a connection loss detected
	// asynchronously by the health monitor. It is recorded into state
	// rather than returned to a caller at detection time.
	ErrTransportFault = &Error{
		Code:    "TRANSPORT_FAULT",
		Message: "MongoDB connection fault detected",
	}
)

// Error is a connection-related error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so wrapped instances compare equal to the
// package-level values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy with a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Cause: e.Cause}
}

// WithCause returns a copy wrapping the underlying error.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Cause: cause}
}

// IsConnectionError reports whether err is a connection Error.
func IsConnectionError(err error) bool {
	var connErr *Error
	return errors.As(err, &connErr)
}
