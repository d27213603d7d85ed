package errx

import (
	"errors"
	"fmt"
)

// Error is a rich error carrying a stable code, a category and the HTTP
// status the transport layer should answer with. The wrapped cause never
// reaches the client; handlers render only Code/Message.
type Error struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"http_status"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches additional context and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error whose code is derived from its type.
func New(message string, errType Type) *Error {
	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: typeToHTTPStatus(errType),
	}
}

// Wrap annotates an underlying error with a message and category. A nil err
// yields nil. If err is already an *Error its code and status are preserved.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:       existing.Code,
			Message:    message,
			Type:       errType,
			HTTPStatus: existing.HTTPStatus,
			Details:    existing.Details,
			Err:        err,
		}
	}

	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: typeToHTTPStatus(errType),
		Err:        err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, errType Type, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...), errType)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
