package waypost

import (
	"encoding/json"
	"net/url"
	"strings"
)

// JSONParser returns middleware that decodes an application/json body, up to
// limit bytes, into the context bag under BodyContextKey. Requests with other
// content types pass through untouched.
func JSONParser(limit int64) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			if !hasContentType(c, "application/json") {
				return next(c)
			}
			body, err := readLimited(c, limit)
			if err != nil {
				return err
			}
			if len(body) == 0 {
				return next(c)
			}
			var value any
			if err := json.Unmarshal(body, &value); err != nil {
				return ErrBadRequest("malformed JSON body")
			}
			c.Set(BodyContextKey, value)
			return next(c)
		}
	}
}

// FormParser returns middleware that decodes an
// application/x-www-form-urlencoded body, up to limit bytes, into the context
// bag under BodyContextKey.
func FormParser(limit int64) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			if !hasContentType(c, "application/x-www-form-urlencoded") {
				return next(c)
			}
			body, err := readLimited(c, limit)
			if err != nil {
				return err
			}
			if len(body) == 0 {
				return next(c)
			}
			values, err := url.ParseQuery(string(body))
			if err != nil {
				return ErrBadRequest("malformed url-encoded body")
			}
			c.Set(BodyContextKey, map[string][]string(values))
			return next(c)
		}
	}
}

// MultipartParser returns middleware that enforces the upload byte limit and
// stores the parsed multipart form under FormContextKey. Non-multipart
// requests pass through untouched.
func MultipartParser(limit int64) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			if !hasContentType(c, "multipart/") {
				return next(c)
			}
			if limit > 0 && c.ContentLength() > limit {
				return ErrPayloadTooLarge("upload exceeds the configured size limit")
			}
			form, err := c.MultipartForm()
			if err != nil {
				return ErrBadRequest("malformed multipart body")
			}
			c.Set(FormContextKey, form)
			return next(c)
		}
	}
}

func hasContentType(c Context, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(c.ContentType()), prefix)
}

func readLimited(c Context, limit int64) ([]byte, error) {
	if limit > 0 && c.ContentLength() > limit {
		return nil, ErrPayloadTooLarge("request body exceeds the configured size limit")
	}
	body, err := c.Body()
	if err != nil {
		return nil, ErrBadRequest("unreadable request body")
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, ErrPayloadTooLarge("request body exceeds the configured size limit")
	}
	return body, nil
}
