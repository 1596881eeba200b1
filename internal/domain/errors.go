package domain

import "fmt"

// Error types for consistent error handling across the console.

// RequestError is the single error kind every failed backend call
// surfaces as: precondition failures, transport errors, non-2xx
// responses, business failures signalled inside a 2xx payload, and
// parse errors all collapse into it. Message is display-ready; views
// never branch on the failure class, only show the message.
type RequestError struct {
	Message string
	Status  int // HTTP status when one was received, 0 otherwise
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError builds a RequestError with a pre-formatted message.
func NewRequestError(message string, status int, cause error) *RequestError {
	return &RequestError{Message: message, Status: status, Err: cause}
}

// ErrNoActiveCompany is the local precondition failure raised before any
// network I/O when a tenant-scoped call is made with no company selected.
func ErrNoActiveCompany() *RequestError {
	return &RequestError{Message: "select a company first"}
}

// GenericRequestFailed is the fallback message when the backend gives
// no usable message/error/details field.
func GenericRequestFailed(status int) string {
	return fmt.Sprintf("request failed (%d)", status)
}

// ErrDecode indicates a response shape the client does not accept.
type ErrDecode struct {
	Endpoint string
	Reason   string
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %s response: %s", e.Endpoint, e.Reason)
}

// ErrValidation indicates a locally rejected input (bad payload shape
// before any request is built).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
