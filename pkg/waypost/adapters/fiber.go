package adapters

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waypost/waypost/pkg/waypost"
)

// FiberRouter implements waypost.Router for Fiber v2. Fiber runs on fasthttp,
// which is why waypost.Context never exposes *http.Request directly.
type FiberRouter struct {
	app *fiber.App
}

// NewFiberRouter creates an adapter over an existing Fiber app.
func NewFiberRouter(app *fiber.App) *FiberRouter {
	return &FiberRouter{app: app}
}

// NewDefaultFiberRouter creates an adapter with a fresh Fiber app.
func NewDefaultFiberRouter() *FiberRouter {
	return &FiberRouter{app: fiber.New()}
}

// App returns the underlying Fiber app.
func (r *FiberRouter) App() *fiber.App {
	return r.app
}

func (r *FiberRouter) GET(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodGet, path, h, mw)
}

func (r *FiberRouter) POST(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPost, path, h, mw)
}

func (r *FiberRouter) PUT(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPut, path, h, mw)
}

func (r *FiberRouter) DELETE(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodDelete, path, h, mw)
}

func (r *FiberRouter) PATCH(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPatch, path, h, mw)
}

func (r *FiberRouter) OPTIONS(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodOptions, path, h, mw)
}

func (r *FiberRouter) HEAD(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodHead, path, h, mw)
}

// Any registers the handler for every verb on the path.
func (r *FiberRouter) Any(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.app.All(fiberPath(path), r.convert(waypost.Compose(h, mw...)))
}

func (r *FiberRouter) add(method, path string, h waypost.HandlerFunc, mw []waypost.MiddlewareFunc) {
	r.app.Add(method, fiberPath(path), r.convert(waypost.Compose(h, mw...)))
}

// convert bridges the handler into Fiber. A returned error flows into
// Fiber's ErrorHandler; waypost HTTP errors keep their status code.
func (r *FiberRouter) convert(h waypost.HandlerFunc) fiber.Handler {
	return func(fc *fiber.Ctx) error {
		err := h(&fiberContext{fc: fc})
		if httpErr, ok := err.(*waypost.HttpError); ok {
			return fiber.NewError(httpErr.StatusCode, httpErr.Message)
		}
		return err
	}
}

// fiberPath converts {name:type} placeholders to Fiber's :name syntax.
func fiberPath(path string) string {
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

// fiberContext implements waypost.Context over *fiber.Ctx.
type fiberContext struct {
	fc *fiber.Ctx
}

func (c *fiberContext) Method() string { return c.fc.Method() }
func (c *fiberContext) Path() string   { return c.fc.Path() }
func (c *fiberContext) RealIP() string { return c.fc.IP() }

func (c *fiberContext) Param(name string) string      { return c.fc.Params(name) }
func (c *fiberContext) QueryParam(name string) string { return c.fc.Query(name) }

func (c *fiberContext) Header(name string) string {
	return c.fc.Get(name)
}

func (c *fiberContext) SetHeader(name, value string) {
	c.fc.Set(name, value)
}

func (c *fiberContext) ContentType() string {
	return c.fc.Get(fiber.HeaderContentType)
}

func (c *fiberContext) ContentLength() int64 {
	return int64(c.fc.Request().Header.ContentLength())
}

// Body returns the request body. Fiber keeps it buffered, so no reset is
// needed for later readers.
func (c *fiberContext) Body() ([]byte, error) {
	return c.fc.Body(), nil
}

func (c *fiberContext) FormValue(name string) string {
	return c.fc.FormValue(name)
}

func (c *fiberContext) FormParams() (map[string][]string, error) {
	values := make(map[string][]string)
	c.fc.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		values[k] = append(values[k], string(value))
	})
	return values, nil
}

func (c *fiberContext) MultipartForm() (waypost.MultipartForm, error) {
	form, err := c.fc.MultipartForm()
	if err != nil {
		return nil, err
	}
	return &stdMultipartForm{form: form}, nil
}

func (c *fiberContext) Get(key string) any {
	return c.fc.Locals(key)
}

func (c *fiberContext) Set(key string, value any) {
	c.fc.Locals(key, value)
}

func (c *fiberContext) JSON(code int, v any) error {
	return c.fc.Status(code).JSON(v)
}

func (c *fiberContext) String(code int, s string) error {
	return c.fc.Status(code).SendString(s)
}

func (c *fiberContext) NoContent(code int) error {
	return c.fc.SendStatus(code)
}
