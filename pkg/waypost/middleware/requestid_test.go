package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypost/waypost/pkg/waypost"
)

type stubContext struct {
	waypost.Context

	headers map[string]string
	bag     map[string]any
}

func newStubContext() *stubContext {
	return &stubContext{headers: map[string]string{}, bag: map[string]any{}}
}

func (c *stubContext) Header(name string) string    { return c.headers[strings.ToLower(name)] }
func (c *stubContext) SetHeader(name, value string) { c.headers[strings.ToLower(name)] = value }
func (c *stubContext) Get(key string) any           { return c.bag[key] }
func (c *stubContext) Set(key string, value any)    { c.bag[key] = value }

func TestRequestID_AssignsWhenMissing(t *testing.T) {
	ctx := newStubContext()
	h := RequestID()(func(c waypost.Context) error { return nil })

	require.NoError(t, h(ctx))

	id, _ := ctx.Get(RequestIDContextKey).(string)
	require.NotEmpty(t, id)
	assert.Equal(t, id, ctx.Header(RequestIDHeader))
}

func TestRequestID_KeepsClientSuppliedID(t *testing.T) {
	ctx := newStubContext()
	ctx.SetHeader(RequestIDHeader, "client-id-123")

	h := RequestID()(func(c waypost.Context) error { return nil })
	require.NoError(t, h(ctx))

	assert.Equal(t, "client-id-123", ctx.Get(RequestIDContextKey))
	assert.Equal(t, "client-id-123", ctx.Header(RequestIDHeader))
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	h := RequestID()(func(c waypost.Context) error { return nil })

	first := newStubContext()
	second := newStubContext()
	require.NoError(t, h(first))
	require.NoError(t, h(second))

	assert.NotEqual(t, first.Get(RequestIDContextKey), second.Get(RequestIDContextKey))
}
