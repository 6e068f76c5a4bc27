// Package errx provides typed application errors with stable codes,
// HTTP status mapping and structured details.
package errx

import (
	"fmt"
	"net/http"
)

// Type classifies an error for transport mapping and handling policy.
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeUnavailable   Type = "UNAVAILABLE"
	TypeInternal      Type = "INTERNAL"
)

// Error is the canonical application error.
type Error struct {
	Code       string
	Type       Type
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
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

// WithDetail attaches a key/value pair to the error and returns it.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches an underlying error and returns it.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Wrap builds an Error around an underlying error.
func Wrap(err error, message string, t Type) *Error {
	return &Error{
		Code:       string(t),
		Type:       t,
		Message:    message,
		HTTPStatus: statusFor(t),
		Err:        err,
	}
}

func statusFor(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode identifies a registered error template.
type ErrorCode struct {
	code       string
	errType    Type
	httpStatus int
	message    string
}

// Registry namespaces error codes for one feature area.
type Registry struct {
	prefix string
}

// NewRegistry creates a registry whose codes carry the given prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix}
}

// Register declares an error template under the registry prefix.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) ErrorCode {
	return ErrorCode{
		code:       r.prefix + "_" + code,
		errType:    t,
		httpStatus: httpStatus,
		message:    message,
	}
}

// New instantiates a fresh Error from a registered template.
func (r *Registry) New(code ErrorCode) *Error {
	return &Error{
		Code:       code.code,
		Type:       code.errType,
		Message:    code.message,
		HTTPStatus: code.httpStatus,
	}
}

// IsCode reports whether err is an *Error created from the given template.
func IsCode(err error, code ErrorCode) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code.code
}
