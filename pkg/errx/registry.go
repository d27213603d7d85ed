package errx

import (
	"fmt"
	"sync"
)

// ErrorCode is a registered, prefixed error definition.
type ErrorCode struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry holds the error codes of one module under a common prefix,
// e.g. "IDENTITY_NOT_FOUND".
type Registry struct {
	prefix string
	codes  map[string]*ErrorCode
	mu     sync.RWMutex
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]*ErrorCode),
	}
}

// Register adds an error code to the registry and returns it for use with
// New/NewWithCause. Meant to be called from package-level var blocks.
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) *ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	ec := &ErrorCode{
		Code:       fmt.Sprintf("%s_%s", r.prefix, code),
		Type:       errType,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	r.codes[code] = ec
	return ec
}

// New instantiates an Error from a registered code.
func (r *Registry) New(code *ErrorCode) *Error {
	return &Error{
		Code:       code.Code,
		Message:    code.Message,
		Type:       code.Type,
		HTTPStatus: code.HTTPStatus,
	}
}

// NewWithMessage instantiates an Error with a message overriding the
// registered default.
func (r *Registry) NewWithMessage(code *ErrorCode, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// NewWithCause instantiates an Error wrapping an underlying cause.
func (r *Registry) NewWithCause(code *ErrorCode, cause error) *Error {
	e := r.New(code)
	e.Err = cause
	return e
}
