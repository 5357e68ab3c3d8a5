package waypost

import (
	"fmt"
	"net/http"
)

// BuildErrorCode classifies the fatal errors raised while the route table is
// being constructed.
type BuildErrorCode int

const (
	ErrCodeUnknown BuildErrorCode = iota
	ErrCodeInvalidVerb
	ErrCodeHandlerShape
	ErrCodeUploadVerb
	ErrCodeUploadDisabled
	ErrCodeUnsupportedExport
	ErrCodeRouteConflict
	ErrCodeOptionConflict
	ErrCodeDirective
	ErrCodeScan
	ErrCodeInternal
)

// String returns the string representation of the error code
func (c BuildErrorCode) String() string {
	switch c {
	case ErrCodeInvalidVerb:
		return "InvalidVerb"
	case ErrCodeHandlerShape:
		return "HandlerShape"
	case ErrCodeUploadVerb:
		return "UploadVerb"
	case ErrCodeUploadDisabled:
		return "UploadDisabled"
	case ErrCodeUnsupportedExport:
		return "UnsupportedExport"
	case ErrCodeRouteConflict:
		return "RouteConflict"
	case ErrCodeOptionConflict:
		return "OptionConflict"
	case ErrCodeDirective:
		return "Directive"
	case ErrCodeScan:
		return "Scan"
	case ErrCodeInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// BuildError is a fatal startup error raised during route discovery,
// validation, or registration. It carries enough context to point at the
// offending file, handler, route, and verb.
type BuildError struct {
	Code       BuildErrorCode
	Message    string
	SourcePath string // file the offending entity was loaded from
	Handler    string // entity member the error refers to, if any
	Route      string // synthesized route path, if known
	Verb       string // offending verb, if known
	Cause      error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	msg := e.Message
	if e.Handler != "" {
		msg = fmt.Sprintf("%s (handler %s)", msg, e.Handler)
	}
	if e.SourcePath != "" {
		return fmt.Sprintf("%s: %s", e.SourcePath, msg)
	}
	return msg
}

// Unwrap returns the underlying error cause
func (e *BuildError) Unwrap() error {
	return e.Cause
}

func buildErrorf(code BuildErrorCode, source, handler, format string, args ...any) *BuildError {
	return &BuildError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		SourcePath: source,
		Handler:    handler,
	}
}

// HttpError represents an HTTP error with a specific status code and message.
// Adapters translate it into their framework's native error response.
type HttpError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHttpError creates a new HttpError with the given status code and message
func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message)
}

// ErrPayloadTooLarge creates a 413 Request Entity Too Large error
func ErrPayloadTooLarge(message string) *HttpError {
	return NewHttpError(http.StatusRequestEntityTooLarge, message)
}

// ErrUnsupportedMediaType creates a 415 Unsupported Media Type error
func ErrUnsupportedMediaType(message string) *HttpError {
	return NewHttpError(http.StatusUnsupportedMediaType, message)
}

// ErrInternalServerError creates a 500 Internal Server Error
func ErrInternalServerError(message string) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message)
}
