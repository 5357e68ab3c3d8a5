package waypost

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHandler(t *testing.T) {
	testCases := []struct {
		name string
		fn   any
		ok   bool
	}{
		{"error-returning", func(c Context) error { return nil }, true},
		{"void", func(c Context) {}, true},
		{"deferred", func(c Context) <-chan error { return nil }, true},
		{"no parameters", func() error { return nil }, false},
		{"wrong parameter type", func(s string) error { return nil }, false},
		{"two parameters", func(c Context, s string) error { return nil }, false},
		{"too many parameters", func(a, b, c, d int) error { return nil }, false},
		{"variadic", func(c ...Context) error { return nil }, false},
		{"wrong result", func(c Context) string { return "" }, false},
		{"two results", func(c Context) (string, error) { return "", nil }, false},
		{"bidirectional channel result", func(c Context) chan error { return nil }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateHandler(reflect.TypeOf(tc.fn), "routes/x.go", "Handler")
			if tc.ok {
				assert.NoError(t, err)
			} else {
				requireBuildError(t, err, ErrCodeHandlerShape)
			}
		})
	}
}

func TestValidateHandler_ArityMessageForOverloadedSignatures(t *testing.T) {
	err := validateHandler(reflect.TypeOf(func(a, b, c, d, e int) {}), "routes/x.go", "Big")
	assert.Contains(t, err.Error(), "at most 3")
}

func TestFileBase(t *testing.T) {
	assert.Equal(t, "order", fileBase("routes/api/sales/order.go"))
	assert.Equal(t, "index", fileBase("routes/index.go"))
	assert.Equal(t, "plain", fileBase("plain"))
}
