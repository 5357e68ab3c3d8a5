package adapters

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waypost/waypost/pkg/waypost"
)

// EchoRouter implements waypost.Router for Echo v4.
type EchoRouter struct {
	engine *echo.Echo
}

// NewEchoRouter creates an adapter over an existing Echo instance.
func NewEchoRouter(e *echo.Echo) *EchoRouter {
	return &EchoRouter{engine: e}
}

// NewDefaultEchoRouter creates an adapter with a fresh Echo instance.
func NewDefaultEchoRouter() *EchoRouter {
	return &EchoRouter{engine: echo.New()}
}

// Engine returns the underlying Echo instance.
func (r *EchoRouter) Engine() *echo.Echo {
	return r.engine
}

func (r *EchoRouter) GET(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodGet, path, h, mw)
}

func (r *EchoRouter) POST(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPost, path, h, mw)
}

func (r *EchoRouter) PUT(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPut, path, h, mw)
}

func (r *EchoRouter) DELETE(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodDelete, path, h, mw)
}

func (r *EchoRouter) PATCH(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPatch, path, h, mw)
}

func (r *EchoRouter) OPTIONS(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodOptions, path, h, mw)
}

func (r *EchoRouter) HEAD(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodHead, path, h, mw)
}

// Any registers the handler for every verb on the path.
func (r *EchoRouter) Any(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.engine.Any(echoPath(path), r.convert(waypost.Compose(h, mw...)))
}

func (r *EchoRouter) add(method, path string, h waypost.HandlerFunc, mw []waypost.MiddlewareFunc) {
	r.engine.Add(method, echoPath(path), r.convert(waypost.Compose(h, mw...)))
}

// convert bridges the handler into Echo. A returned error flows into Echo's
// HTTPErrorHandler, which is the adapter's error pipeline; waypost HTTP
// errors keep their status code on the way through.
func (r *EchoRouter) convert(h waypost.HandlerFunc) echo.HandlerFunc {
	return func(ec echo.Context) error {
		err := h(&echoContext{ec: ec})
		if httpErr, ok := err.(*waypost.HttpError); ok {
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
		}
		return err
	}
}

// echoPath converts {name:type} placeholders to Echo's :name syntax.
func echoPath(path string) string {
	var out bytes.Buffer
	for _, part := range waypost.RoutePath(path).Parts() {
		switch part.Type {
		case waypost.ParameterPart:
			out.WriteString(":" + part.Value)
		case waypost.WildcardPart:
			out.WriteString("*")
		default:
			out.WriteString(part.Value)
		}
	}
	return out.String()
}

// echoContext implements waypost.Context over echo.Context.
type echoContext struct {
	ec echo.Context
}

func (c *echoContext) Method() string { return c.ec.Request().Method }
func (c *echoContext) Path() string   { return c.ec.Request().URL.Path }
func (c *echoContext) RealIP() string { return c.ec.RealIP() }

func (c *echoContext) Param(name string) string      { return c.ec.Param(name) }
func (c *echoContext) QueryParam(name string) string { return c.ec.QueryParam(name) }

func (c *echoContext) Header(name string) string {
	return c.ec.Request().Header.Get(name)
}

func (c *echoContext) SetHeader(name, value string) {
	c.ec.Response().Header().Set(name, value)
}

func (c *echoContext) ContentType() string {
	return c.ec.Request().Header.Get(echo.HeaderContentType)
}

func (c *echoContext) ContentLength() int64 {
	return c.ec.Request().ContentLength
}

// Body reads the request body and resets it so later middleware and the
// handler can read it again.
func (c *echoContext) Body() ([]byte, error) {
	req := c.ec.Request()
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func (c *echoContext) FormValue(name string) string {
	return c.ec.FormValue(name)
}

func (c *echoContext) FormParams() (map[string][]string, error) {
	values, err := c.ec.FormParams()
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (c *echoContext) MultipartForm() (waypost.MultipartForm, error) {
	form, err := c.ec.MultipartForm()
	if err != nil {
		return nil, err
	}
	return &stdMultipartForm{form: form}, nil
}

func (c *echoContext) Get(key string) any        { return c.ec.Get(key) }
func (c *echoContext) Set(key string, value any) { c.ec.Set(key, value) }

func (c *echoContext) JSON(code int, v any) error      { return c.ec.JSON(code, v) }
func (c *echoContext) String(code int, s string) error { return c.ec.String(code, s) }
func (c *echoContext) NoContent(code int) error        { return c.ec.NoContent(code) }
