package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse is the body of every non-validation error
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NotFoundResponse echoes what was asked for
type NotFoundResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

// RespondWithError aborts the request with {"error": message}
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// RespondWithValidationError sends the 400 that names the failing field
func RespondWithValidationError(c *gin.Context, err *errors.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, err)
}

// RespondWithInternalError sends a generic 500. The cause is only included
// when showDetails is set, which callers tie to non-production mode.
func RespondWithInternalError(c *gin.Context, err error, showDetails bool) {
	resp := ErrorResponse{Error: internalErrorMessage}
	if showDetails && err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}

func RespondNotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, NotFoundResponse{
		Error:  "Not found",
		Path:   c.Request.URL.Path,
		Method: c.Request.Method,
	})
}
