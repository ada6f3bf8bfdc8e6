package dispatch

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

const rawBodyKey = "dispatch.rawBody"

// CaptureBody reads the request body up front and re-arms it, keeping
// the raw bytes on the context. Request bodies can be read only once,
// so anything that peeks at the payload before the handler runs must
// hand its copy forward instead of letting the handler re-read.
func CaptureBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := c.Request().Body
		if body != nil && body != http.NoBody {
			raw, err := io.ReadAll(body)
			if err == nil {
				c.Set(rawBodyKey, raw)
				c.Request().Body = io.NopCloser(bytes.NewReader(raw))
			}
		}
		return next(c)
	}
}

// Fields resolves the canonical field map for the request. Sources are
// tried in order and the first successful decode wins: the raw body
// captured by CaptureBody, the live body as JSON, then form-encoded
// fields.
func Fields(c echo.Context) FieldMap {
	raw, captured := c.Get(rawBodyKey).([]byte)
	if !captured {
		if body := c.Request().Body; body != nil && body != http.NoBody {
			raw, _ = io.ReadAll(body)
		}
	}

	if len(raw) > 0 {
		var m FieldMap
		if err := json.Unmarshal(raw, &m); err == nil && m != nil {
			return m
		}
		// Not JSON: re-arm the body so form parsing can consume it.
		c.Request().Body = io.NopCloser(bytes.NewReader(raw))
	}

	if form, err := c.FormParams(); err == nil && len(form) > 0 {
		m := make(FieldMap, len(form))
		for k, v := range form {
			if len(v) > 0 {
				m[k] = v[0]
			}
		}
		return m
	}

	return FieldMap{}
}
