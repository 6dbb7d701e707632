package errx

import (
	"fmt"
	"net/http"
)

// Type categorizes errors for handling and HTTP mapping
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
	TypeAuthorization Type = "AUTHORIZATION"
)

// ErrorCode is a registered, namespaced error code (e.g. "MATCHING.MODEL_UNAVAILABLE")
type ErrorCode string

// Error is the standard application error carrying a code, type and HTTP status
type Error struct {
	Code       ErrorCode      `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a single key/value detail and returns the error for chaining
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails attaches multiple details at once
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// ToHTTPResponse returns the wire shape used by the global error handler
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"error": e.Message,
		"type":  e.Type,
		"code":  e.Code,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}

type registration struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error codes of one domain under a common prefix
type Registry struct {
	prefix string
	codes  map[ErrorCode]registration
}

// NewRegistry creates an error registry for a domain prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[ErrorCode]registration),
	}
}

// Register adds an error code to the registry and returns its namespaced code
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) ErrorCode {
	full := ErrorCode(r.prefix + "." + code)
	r.codes[full] = registration{errType: errType, httpStatus: httpStatus, message: message}
	return full
}

// New creates an error from a registered code
func (r *Registry) New(code ErrorCode) *Error {
	reg, ok := r.codes[code]
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Code:       code,
		Type:       reg.errType,
		Message:    reg.message,
		HTTPStatus: reg.httpStatus,
	}
}

// NewWithCause creates an error from a registered code wrapping an underlying cause
func (r *Registry) NewWithCause(code ErrorCode, cause error) *Error {
	e := r.New(code)
	e.Cause = cause
	return e
}

// Wrap converts an arbitrary error into an *Error with the given message and type
func Wrap(err error, message string, errType Type) *Error {
	status := http.StatusInternalServerError
	switch errType {
	case TypeValidation:
		status = http.StatusBadRequest
	case TypeNotFound:
		status = http.StatusNotFound
	case TypeConflict:
		status = http.StatusConflict
	case TypeBusiness:
		status = http.StatusUnprocessableEntity
	case TypeAuthorization:
		status = http.StatusForbidden
	case TypeExternal:
		status = http.StatusBadGateway
	}
	return &Error{
		Code:       ErrorCode("GENERIC." + string(errType)),
		Type:       errType,
		Message:    message,
		HTTPStatus: status,
		Cause:      err,
	}
}
