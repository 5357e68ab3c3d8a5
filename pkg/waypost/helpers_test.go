package waypost

import (
	"fmt"
	"strings"
	"sync"
)

// fakeContext is an in-memory Context for exercising handlers and middleware
// without a live HTTP framework.
type fakeContext struct {
	mu sync.Mutex

	method      string
	path        string
	ip          string
	params      map[string]string
	query       map[string]string
	headers     map[string]string
	contentType string
	body        []byte
	bodyErr     error
	form        map[string][]string
	multipart   MultipartForm

	bag map[string]any

	status  int
	payload any
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		method:  "GET",
		path:    "/",
		params:  map[string]string{},
		query:   map[string]string{},
		headers: map[string]string{},
		bag:     map[string]any{},
	}
}

func (c *fakeContext) Method() string                { return c.method }
func (c *fakeContext) Path() string                  { return c.path }
func (c *fakeContext) RealIP() string                { return c.ip }
func (c *fakeContext) Param(name string) string      { return c.params[name] }
func (c *fakeContext) QueryParam(name string) string { return c.query[name] }
func (c *fakeContext) Header(name string) string     { return c.headers[strings.ToLower(name)] }
func (c *fakeContext) SetHeader(name, value string)  { c.headers[strings.ToLower(name)] = value }
func (c *fakeContext) ContentType() string           { return c.contentType }
func (c *fakeContext) ContentLength() int64          { return int64(len(c.body)) }
func (c *fakeContext) Body() ([]byte, error)         { return c.body, c.bodyErr }

func (c *fakeContext) FormValue(name string) string {
	if v := c.form[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c *fakeContext) FormParams() (map[string][]string, error) { return c.form, nil }
func (c *fakeContext) MultipartForm() (MultipartForm, error)    { return c.multipart, nil }

func (c *fakeContext) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bag[key]
}

func (c *fakeContext) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bag[key] = value
}

func (c *fakeContext) JSON(code int, v any) error {
	c.status, c.payload = code, v
	return nil
}

func (c *fakeContext) String(code int, s string) error {
	c.status, c.payload = code, s
	return nil
}

func (c *fakeContext) NoContent(code int) error {
	c.status, c.payload = code, nil
	return nil
}

// registration is one recorded router call.
type registration struct {
	verb       string
	path       string
	handler    HandlerFunc
	middleware []MiddlewareFunc
}

// recordingRouter captures what the registrar would hand a real framework.
type recordingRouter struct {
	registered []registration
}

func (r *recordingRouter) add(verb, path string, h HandlerFunc, mw []MiddlewareFunc) {
	r.registered = append(r.registered, registration{verb: verb, path: path, handler: h, middleware: mw})
}

func (r *recordingRouter) GET(p string, h HandlerFunc, mw ...MiddlewareFunc)     { r.add("get", p, h, mw) }
func (r *recordingRouter) POST(p string, h HandlerFunc, mw ...MiddlewareFunc)    { r.add("post", p, h, mw) }
func (r *recordingRouter) PUT(p string, h HandlerFunc, mw ...MiddlewareFunc)     { r.add("put", p, h, mw) }
func (r *recordingRouter) DELETE(p string, h HandlerFunc, mw ...MiddlewareFunc)  { r.add("delete", p, h, mw) }
func (r *recordingRouter) PATCH(p string, h HandlerFunc, mw ...MiddlewareFunc)   { r.add("patch", p, h, mw) }
func (r *recordingRouter) OPTIONS(p string, h HandlerFunc, mw ...MiddlewareFunc) { r.add("options", p, h, mw) }
func (r *recordingRouter) HEAD(p string, h HandlerFunc, mw ...MiddlewareFunc)    { r.add("head", p, h, mw) }
func (r *recordingRouter) Any(p string, h HandlerFunc, mw ...MiddlewareFunc)     { r.add("all", p, h, mw) }

func (r *recordingRouter) find(verb, path string) (registration, bool) {
	for _, reg := range r.registered {
		if reg.verb == verb && reg.path == path {
			return reg, true
		}
	}
	return registration{}, false
}

func (r *recordingRouter) String() string {
	var b strings.Builder
	for _, reg := range r.registered {
		fmt.Fprintf(&b, "%s %s\n", reg.verb, reg.path)
	}
	return b.String()
}
