package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathConversion(t *testing.T) {
	testCases := []struct {
		name  string
		path  string
		echo  string
		gin   string
		fiber string
	}{
		{
			name:  "static",
			path:  "/orders",
			echo:  "/orders",
			gin:   "/orders",
			fiber: "/orders",
		},
		{
			name:  "typed parameter",
			path:  "/orders/{id:int}",
			echo:  "/orders/:id",
			gin:   "/orders/:id",
			fiber: "/orders/:id",
		},
		{
			name:  "untyped parameter",
			path:  "/orders/{id}",
			echo:  "/orders/:id",
			gin:   "/orders/:id",
			fiber: "/orders/:id",
		},
		{
			name:  "multiple parameters",
			path:  "/orders/{id:int}/items/{sku}",
			echo:  "/orders/:id/items/:sku",
			gin:   "/orders/:id/items/:sku",
			fiber: "/orders/:id/items/:sku",
		},
		{
			name:  "wildcard",
			path:  "/files/{*}",
			echo:  "/files/*",
			gin:   "/files/*rest",
			fiber: "/files/*",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.echo, echoPath(tc.path), "echo")
			assert.Equal(t, tc.gin, ginPath(tc.path), "gin")
			assert.Equal(t, tc.fiber, fiberPath(tc.path), "fiber")
		})
	}
}
