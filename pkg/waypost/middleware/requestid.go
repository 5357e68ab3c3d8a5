// Package middleware holds configuration-time conveniences that are not part
// of the discovery core but share its middleware contract.
package middleware

import (
	"github.com/google/uuid"

	"github.com/waypost/waypost/pkg/waypost"
)

// RequestIDHeader is the header the request-id middleware reads and writes.
const RequestIDHeader = "X-Request-Id"

// RequestIDContextKey is the context bag key the request id is stored under.
const RequestIDContextKey = "waypost:request-id"

// RequestID assigns every request a UUID unless the client already sent one,
// stores it in the context bag, and echoes it in the response headers.
func RequestID() waypost.MiddlewareFunc {
	return func(next waypost.HandlerFunc) waypost.HandlerFunc {
		return func(c waypost.Context) error {
			id := c.Header(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(RequestIDContextKey, id)
			c.SetHeader(RequestIDHeader, id)
			return next(c)
		}
	}
}
