package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, method, path string, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)

	h(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondWithInternalError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")

	w, body := perform(t, http.MethodGet, "/", func(c *gin.Context) {
		RespondWithInternalError(c, cause, false)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, body, "details")

	_, body = perform(t, http.MethodGet, "/", func(c *gin.Context) {
		RespondWithInternalError(c, cause, true)
	})
	assert.Equal(t, cause.Error(), body["details"])
}

func TestRespondWithValidationError(t *testing.T) {
	w, body := perform(t, http.MethodPost, "/send-sms", func(c *gin.Context) {
		RespondWithValidationError(c, errors.InvalidPhoneNumbers([]string{"bad-number"}))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidPhoneNumbers", body["code"])
	assert.Equal(t, "phoneNumbers", body["field"])
	assert.Equal(t, []interface{}{"bad-number"}, body["invalidNumbers"])
	assert.NotEmpty(t, body["error"])
}

func TestRespondNotFound(t *testing.T) {
	w, body := perform(t, http.MethodDelete, "/nope", RespondNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Not found", "path": "/nope", "method": "DELETE"}, body)
}

func TestRespondWithError(t *testing.T) {
	w, body := perform(t, http.MethodGet, "/users", func(c *gin.Context) {
		RespondWithError(c, http.StatusInternalServerError, "Failed to fetch users")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Failed to fetch users"}, body)
}
