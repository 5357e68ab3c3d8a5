package waypost

import (
	"io"
)

// HandlerFunc is the normalized handler shape carried by a RouteDefinition
// and registered, after dispatch wrapping, with the external router.
type HandlerFunc func(c Context) error

// ErrorHandlerFunc handles failures that were already routed into the error
// pipeline by a dispatcher-wrapped handler.
type ErrorHandlerFunc func(err error, c Context) error

// MiddlewareFunc decorates a handler. Middleware attached to a route runs in
// declaration order, outermost first.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// Router is the registration surface the registrar needs from the external
// HTTP router. Adapters for concrete frameworks live in the adapters package.
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PUT(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	DELETE(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PATCH(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	OPTIONS(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	HEAD(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Any registers a handler that matches every verb for the given path.
	Any(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
}

// Context provides framework-agnostic access to one HTTP request. It is
// deliberately small: handlers that need framework-specific features can
// type-assert the concrete adapter context.
type Context interface {
	// Request data
	Method() string
	Path() string
	RealIP() string

	// Parameters and query
	Param(name string) string
	QueryParam(name string) string

	// Headers
	Header(name string) string
	SetHeader(name, value string)

	// Body access
	ContentType() string
	ContentLength() int64
	Body() ([]byte, error)
	FormValue(name string) string
	FormParams() (map[string][]string, error)
	MultipartForm() (MultipartForm, error)

	// Per-request key/value bag
	Get(key string) any
	Set(key string, value any)

	// Response writing
	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
}

// FileHeader describes one uploaded file in a multipart form.
type FileHeader interface {
	Filename() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// MultipartForm is a parsed multipart request body.
type MultipartForm interface {
	Value() map[string][]string
	File() map[string][]FileHeader
}

// Context bag keys populated by the body-parsing middleware.
const (
	// BodyContextKey holds the decoded JSON or url-encoded request body.
	BodyContextKey = "waypost:body"

	// FormContextKey holds the parsed multipart form.
	FormContextKey = "waypost:form"
)

// RouteDefinition is one entry of the route table: a fully synthesized path,
// a canonical verb, the middleware chain selected for the handler, and the
// bound handler itself. Definitions are immutable once accumulated and are
// consumed exactly once by the registrar.
type RouteDefinition struct {
	// SourcePath is the discovered file the route came from, used in
	// diagnostics and conflict reports.
	SourcePath string

	// EntityName names the controller or function the handler belongs to.
	EntityName string

	// HandlerName is the member name the route was derived from.
	HandlerName string

	// Path is the synthesized route path. It always starts with "/" and,
	// except for the root route, never ends with "/".
	Path string

	// Verb is one of the allowed HTTP verbs or the wildcard "all".
	Verb string

	// Middleware runs before the handler: body-parsing middleware first,
	// then any middleware declared on the route.
	Middleware []MiddlewareFunc

	// Handler is the bound callable in one of the accepted shapes. It is
	// dispatch-wrapped at registration time.
	Handler any
}

// Controller is the chain boundary for member discovery. Embedding it marks a
// struct as route-bearing; the walker never descends past it, so helpers on
// deeper bases cannot leak into the route table.
type Controller struct{}

// RouteConfigurer is implemented by controllers that stage routing metadata.
// ConfigureRoutes runs once per build session, before the controller's
// members are walked, and is itself never treated as a route.
type RouteConfigurer interface {
	ConfigureRoutes(r *RouteSet)
}
