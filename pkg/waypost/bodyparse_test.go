package waypost

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passThrough(c Context) error { return nil }

func TestJSONParser_DecodesIntoBag(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "application/json; charset=utf-8"
	ctx.body = []byte(`{"name":"widget","qty":3}`)

	h := JSONParser(DefaultBodyLimit)(passThrough)
	require.NoError(t, h(ctx))

	decoded, ok := ctx.Get(BodyContextKey).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "widget", decoded["name"])
	assert.Equal(t, float64(3), decoded["qty"])
}

func TestJSONParser_IgnoresOtherContentTypes(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "text/plain"
	ctx.body = []byte(`{"name":"widget"}`)

	h := JSONParser(DefaultBodyLimit)(passThrough)
	require.NoError(t, h(ctx))
	assert.Nil(t, ctx.Get(BodyContextKey))
}

func TestJSONParser_MalformedBody(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "application/json"
	ctx.body = []byte(`{not json`)

	err := JSONParser(DefaultBodyLimit)(passThrough)(ctx)
	requireHTTPStatus(t, err, 400)
}

func TestJSONParser_OversizedBody(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "application/json"
	ctx.body = []byte(`{"k":"0123456789"}`)

	err := JSONParser(8)(passThrough)(ctx)
	requireHTTPStatus(t, err, 413)
}

func TestJSONParser_UnreadableBody(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "application/json"
	ctx.bodyErr = errors.New("connection reset")

	err := JSONParser(DefaultBodyLimit)(passThrough)(ctx)
	requireHTTPStatus(t, err, 400)
}

func TestFormParser_DecodesIntoBag(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "application/x-www-form-urlencoded"
	ctx.body = []byte("name=widget&tag=a&tag=b")

	h := FormParser(DefaultBodyLimit)(passThrough)
	require.NoError(t, h(ctx))

	values, ok := ctx.Get(BodyContextKey).(map[string][]string)
	require.True(t, ok)
	assert.Equal(t, []string{"widget"}, values["name"])
	assert.Equal(t, []string{"a", "b"}, values["tag"])
}

func TestFormParser_EmptyBodyPassesThrough(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "application/x-www-form-urlencoded"

	require.NoError(t, FormParser(DefaultBodyLimit)(passThrough)(ctx))
	assert.Nil(t, ctx.Get(BodyContextKey))
}

func TestMultipartParser_NonMultipartPassesThrough(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "application/json"
	ctx.body = []byte(`{}`)

	require.NoError(t, MultipartParser(1)(passThrough)(ctx))
	assert.Nil(t, ctx.Get(FormContextKey))
}

func TestMultipartParser_EnforcesLimit(t *testing.T) {
	ctx := newFakeContext()
	ctx.contentType = "multipart/form-data; boundary=x"
	ctx.body = make([]byte, 32)

	err := MultipartParser(16)(passThrough)(ctx)
	requireHTTPStatus(t, err, 413)
}

func requireHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var httpErr *HttpError
	require.True(t, errors.As(err, &httpErr), "expected *HttpError, got %T", err)
	require.Equal(t, status, httpErr.StatusCode)
}
