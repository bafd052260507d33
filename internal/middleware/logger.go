package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	maxLoggedBody = 4 << 10
	redacted      = "[REDACTED]"
)

var sensitiveHeaders = map[string]struct{}{
	"Authorization":       {},
	"Cookie":              {},
	"Set-Cookie":          {},
	"Proxy-Authorization": {},
	"X-Api-Key":           {},
}

// Logger logs one line per request. Bodies of non-GET requests are included
// up to 4 KiB; the handler still sees the complete body.
func Logger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		method := c.Request.Method

		var requestBody []byte
		if method != http.MethodGet && c.Request.Body != nil {
			requestBody = peekBody(c.Request)
		}

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		var event *zerolog.Event
		switch {
		case statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case statusCode >= http.StatusBadRequest:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event = event.
			Str("request_id", GetRequestID(c)).
			Str("client_ip", c.ClientIP()).
			Str("method", method).
			Str("path", path).
			Str("origin", c.GetHeader("Origin")).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent()).
			Interface("headers", redactHeaders(c.Request.Header))

		if len(requestBody) > 0 {
			event = event.Str("request", string(requestBody))
		}

		switch {
		case statusCode >= http.StatusInternalServerError:
			event.Msg("Server error")
		case statusCode >= http.StatusBadRequest:
			event.Msg("Client error")
		default:
			event.Msg("Request processed")
		}
	}
}

// peekBody reads at most maxLoggedBody bytes and puts them back in front of
// whatever is left of the body
func peekBody(r *http.Request) []byte {
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return head
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if _, ok := sensitiveHeaders[http.CanonicalHeaderKey(name)]; ok {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}
