package adapters

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waypost/waypost/pkg/waypost"
)

// GinRouter implements waypost.Router for Gin.
type GinRouter struct {
	engine *gin.Engine
}

// NewGinRouter creates an adapter over an existing Gin engine.
func NewGinRouter(e *gin.Engine) *GinRouter {
	return &GinRouter{engine: e}
}

// NewDefaultGinRouter creates an adapter with a fresh Gin engine.
func NewDefaultGinRouter() *GinRouter {
	return &GinRouter{engine: gin.New()}
}

// Engine returns the underlying Gin engine.
func (r *GinRouter) Engine() *gin.Engine {
	return r.engine
}

func (r *GinRouter) GET(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodGet, path, h, mw)
}

func (r *GinRouter) POST(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPost, path, h, mw)
}

func (r *GinRouter) PUT(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPut, path, h, mw)
}

func (r *GinRouter) DELETE(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodDelete, path, h, mw)
}

func (r *GinRouter) PATCH(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodPatch, path, h, mw)
}

func (r *GinRouter) OPTIONS(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodOptions, path, h, mw)
}

func (r *GinRouter) HEAD(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.add(http.MethodHead, path, h, mw)
}

// Any registers the handler for every verb on the path.
func (r *GinRouter) Any(path string, h waypost.HandlerFunc, mw ...waypost.MiddlewareFunc) {
	r.engine.Any(ginPath(path), r.convert(waypost.Compose(h, mw...)))
}

func (r *GinRouter) add(method, path string, h waypost.HandlerFunc, mw []waypost.MiddlewareFunc) {
	r.engine.Handle(method, ginPath(path), r.convert(waypost.Compose(h, mw...)))
}

// convert bridges the handler into Gin. Failures are attached to the Gin
// context's error list, which is Gin's error pipeline, and the request is
// aborted with the matching status.
func (r *GinRouter) convert(h waypost.HandlerFunc) gin.HandlerFunc {
	return func(gc *gin.Context) {
		err := h(&ginContext{gc: gc})
		if err == nil {
			return
		}
		_ = gc.Error(err)
		if httpErr, ok := err.(*waypost.HttpError); ok {
			gc.AbortWithStatusJSON(httpErr.StatusCode, gin.H{"message": httpErr.Message})
			return
		}
		gc.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// ginPath converts {name:type} placeholders to Gin's :name syntax. Wildcards
// become a named catch-all because Gin requires one.
func ginPath(path string) string {
	var out bytes.Buffer
	for _, part := range waypost.RoutePath(path).Parts() {
		switch part.Type {
		case waypost.ParameterPart:
			out.WriteString(":" + part.Value)
		case waypost.WildcardPart:
			out.WriteString("*rest")
		default:
			out.WriteString(part.Value)
		}
	}
	return out.String()
}

// ginContext implements waypost.Context over *gin.Context.
type ginContext struct {
	gc *gin.Context
}

func (c *ginContext) Method() string { return c.gc.Request.Method }
func (c *ginContext) Path() string   { return c.gc.Request.URL.Path }
func (c *ginContext) RealIP() string { return c.gc.ClientIP() }

func (c *ginContext) Param(name string) string      { return c.gc.Param(name) }
func (c *ginContext) QueryParam(name string) string { return c.gc.Query(name) }

func (c *ginContext) Header(name string) string {
	return c.gc.GetHeader(name)
}

func (c *ginContext) SetHeader(name, value string) {
	c.gc.Header(name, value)
}

func (c *ginContext) ContentType() string {
	return c.gc.GetHeader("Content-Type")
}

func (c *ginContext) ContentLength() int64 {
	return c.gc.Request.ContentLength
}

// Body reads the request body and resets it so later middleware and the
// handler can read it again.
func (c *ginContext) Body() ([]byte, error) {
	req := c.gc.Request
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

func (c *ginContext) FormValue(name string) string {
	return c.gc.PostForm(name)
}

func (c *ginContext) FormParams() (map[string][]string, error) {
	if err := c.gc.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.gc.Request.PostForm, nil
}

func (c *ginContext) MultipartForm() (waypost.MultipartForm, error) {
	form, err := c.gc.MultipartForm()
	if err != nil {
		return nil, err
	}
	return &stdMultipartForm{form: form}, nil
}

func (c *ginContext) Get(key string) any {
	value, _ := c.gc.Get(key)
	return value
}

func (c *ginContext) Set(key string, value any) { c.gc.Set(key, value) }

func (c *ginContext) JSON(code int, v any) error {
	c.gc.JSON(code, v)
	return nil
}

func (c *ginContext) String(code int, s string) error {
	c.gc.String(code, "%s", s)
	return nil
}

func (c *ginContext) NoContent(code int) error {
	c.gc.Status(code)
	return nil
}
