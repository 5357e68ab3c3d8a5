package waypost

import (
	"fmt"
)

// Dispatch wraps a bound handler so that no failure can escape it: a
// synchronous panic is recovered into an error, a deferred handler's channel
// is awaited and its failure surfaced, and either is returned into the
// adapter's error pipeline instead of propagating up the call stack. A nil
// return means the handler wrote its own response.
func Dispatch(handler any) (HandlerFunc, error) {
	switch h := handler.(type) {
	case HandlerFunc:
		return guard(h), nil
	case func(Context) error:
		return guard(h), nil
	case func(Context):
		return guard(func(c Context) error {
			h(c)
			return nil
		}), nil
	case func(Context) <-chan error:
		return guard(func(c Context) error {
			done := h(c)
			if done == nil {
				return nil
			}
			return <-done
		}), nil
	default:
		return nil, buildErrorf(ErrCodeInternal, "", "",
			"cannot dispatch handler of type %T", handler)
	}
}

// DispatchError wraps an error-pipeline handler the same way Dispatch wraps
// a route handler.
func DispatchError(handler ErrorHandlerFunc) ErrorHandlerFunc {
	return func(err error, c Context) (out error) {
		defer func() {
			if r := recover(); r != nil {
				out = recoveredError(r)
			}
		}()
		return handler(err, c)
	}
}

func guard(h HandlerFunc) HandlerFunc {
	return func(c Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recoveredError(r)
			}
		}()
		return h(c)
	}
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("handler panic: %w", err)
	}
	return fmt.Errorf("handler panic: %v", r)
}

// Compose applies middleware to a handler, first middleware outermost, and is
// what adapters use to flatten a route's chain into a single handler.
func Compose(handler HandlerFunc, middleware ...MiddlewareFunc) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}
