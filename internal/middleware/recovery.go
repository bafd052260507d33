package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aaronjt12/bw-sms-backend/pkg/httputil"
)

// Recovery turns a panic into the generic 500. The panic value is only sent
// to the client when showDetails is set.
func Recovery(logger zerolog.Logger, showDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("error", r).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Str("request_id", GetRequestID(c)).
					Msg("Request panic recovered")

				httputil.RespondWithInternalError(c, fmt.Errorf("%v", r), showDetails)
			}
		}()
		c.Next()
	}
}
