package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronjt12/bw-sms-backend/internal/middleware"
	"github.com/aaronjt12/bw-sms-backend/internal/model"
	"github.com/aaronjt12/bw-sms-backend/internal/service/notification"
	"github.com/aaronjt12/bw-sms-backend/internal/sms"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

type stubSender struct {
	calls    int32
	failures map[string]error
}

func (s *stubSender) Send(ctx context.Context, msg sms.Message) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	if err := s.failures[msg.To]; err != nil {
		return "", err
	}
	return "msg-" + strings.TrimPrefix(msg.To, "+"), nil
}

type memoryStore struct {
	mu        sync.Mutex
	records   []*model.NotificationRecord
	appendErr error
	users     model.UserSnapshot
	usersErr  error
}

func (m *memoryStore) Append(ctx context.Context, r *model.NotificationRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *memoryStore) All(ctx context.Context) (model.UserSnapshot, error) {
	return m.users, m.usersErr
}

type testEnv struct {
	router *gin.Engine
	sender *stubSender
	store  *memoryStore
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		sender: &stubSender{failures: map[string]error{}},
		store:  &memoryStore{},
	}
	svc := notification.NewService(env.sender, env.store, notification.Config{SenderNumber: "+15550000000"}, nil, zerolog.Nop())
	h := NewHandler(svc, env.store, zerolog.Nop())

	r := gin.New()
	r.Use(middleware.SizeLimit(1 << 10))
	h.RegisterRoutes(r)
	r.NoRoute(h.NotFound)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestWelcome(t *testing.T) {
	code, body := setup(t).do(t, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, welcomeMessage, body["message"])
}

func TestNotFound(t *testing.T) {
	code, body := setup(t).do(t, http.MethodPut, "/nowhere", "")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]interface{}{"error": "Not found", "path": "/nowhere", "method": "PUT"}, body)
}

func TestListUsers(t *testing.T) {
	env := setup(t)
	env.store.users = model.UserSnapshot{
		"u1": json.RawMessage(`{"name":"Ada","phone":"+15551234567"}`),
	}

	code, body := env.do(t, http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{
		"u1": map[string]interface{}{"name": "Ada", "phone": "+15551234567"},
	}, body)
}

func TestListUsers_StoreError(t *testing.T) {
	env := setup(t)
	env.store.usersErr = apperrors.NewStore("read users", errors.New("connection reset"))

	code, body := env.do(t, http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]interface{}{"error": "Failed to fetch users"}, body)
}

func TestSendSMS_SingleRecipient(t *testing.T) {
	env := setup(t)

	code, body := env.do(t, http.MethodPost, "/send-sms", `{"phoneNumbers":["+15551234567"],"message":"hi"}`)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	result := results[0].(map[string]interface{})
	assert.Equal(t, "+15551234567", result["phoneNumber"])
	assert.Equal(t, "success", result["status"])
	assert.NotEmpty(t, result["messageId"])
	assert.NotContains(t, result, "error")

	require.Len(t, env.store.records, 1)
	assert.Equal(t, "hi", env.store.records[0].Body)
	assert.Equal(t, model.DefaultOriginLabel, env.store.records[0].OriginLabel)
}

func TestSendSMS_InvalidNumberMakesNoCalls(t *testing.T) {
	env := setup(t)

	code, body := env.do(t, http.MethodPost, "/send-sms", `{"phoneNumbers":["+15551234567","bad-number"],"message":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidPhoneNumbers", body["code"])
	assert.Equal(t, []interface{}{"bad-number"}, body["invalidNumbers"])
	assert.Contains(t, body["error"], "E.164")
	assert.Zero(t, atomic.LoadInt32(&env.sender.calls))
	assert.Empty(t, env.store.records)
}

func TestSendSMS_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"empty body", "", "MissingOrInvalidRecipients"},
		{"empty recipients", `{"phoneNumbers":[],"message":"hi"}`, "MissingOrInvalidRecipients"},
		{"recipients not a list", `{"phoneNumbers":"+15551234567","message":"hi"}`, "MissingOrInvalidRecipients"},
		{"missing message", `{"phoneNumbers":["+15551234567"]}`, "MissingOrInvalidMessage"},
		{"malformed json", `{"phoneNumbers":`, "InvalidRequestBody"},
		{"not an object", `["+15551234567"]`, "InvalidRequestBody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)

			code, body := env.do(t, http.MethodPost, "/send-sms", tt.body)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Zero(t, atomic.LoadInt32(&env.sender.calls))
		})
	}
}

func TestSendSMS_EmptyBody(t *testing.T) {
	env := setup(t)

	code, body := env.do(t, http.MethodPost, "/send-sms", "")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MissingOrInvalidRecipients", body["code"])
	assert.Equal(t, "phoneNumbers", body["field"])
}

func TestSendSMS_DecodeErrorNotEchoed(t *testing.T) {
	env := setup(t)

	code, body := env.do(t, http.MethodPost, "/send-sms", `["+15551234567"]`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "request body must be a JSON object", body["error"])
	assert.NotContains(t, body["error"], "Go value")
	assert.NotContains(t, body["error"], "RawSendRequest")
}

func TestSendSMS_AllFail(t *testing.T) {
	env := setup(t)
	env.sender.failures["+15551234567"] = errors.New("opted out")
	env.sender.failures["+15557654321"] = errors.New("unreachable")

	code, body := env.do(t, http.MethodPost, "/send-sms", `{"phoneNumbers":["+15551234567","+15557654321"],"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
	results := body["results"].([]interface{})
	require.Len(t, results, 2)
	for _, r := range results {
		result := r.(map[string]interface{})
		assert.Equal(t, "failed", result["status"])
		assert.NotEmpty(t, result["error"])
		assert.NotContains(t, result, "messageId")
	}
	assert.Empty(t, env.store.records)
}

func TestSendSMS_PartialSuccess(t *testing.T) {
	env := setup(t)
	env.sender.failures["+15557654321"] = errors.New("unreachable")

	code, body := env.do(t, http.MethodPost, "/send-sms",
		`{"phoneNumbers":["+15557654321","+15551234567"],"message":"Lot A closes at 9","parkingLot":"Lot A"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	results := body["results"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, "+15557654321", results[0].(map[string]interface{})["phoneNumber"])
	assert.Equal(t, "failed", results[0].(map[string]interface{})["status"])
	assert.Equal(t, "success", results[1].(map[string]interface{})["status"])

	require.Len(t, env.store.records, 1)
	assert.Equal(t, "+15551234567", env.store.records[0].Recipient)
	assert.Equal(t, "Lot A", env.store.records[0].OriginLabel)
}

func TestSendSMS_StoreFailureKeepsSuccess(t *testing.T) {
	env := setup(t)
	env.store.appendErr = errors.New("store unavailable")

	code, body := env.do(t, http.MethodPost, "/send-sms", `{"phoneNumbers":["+15551234567"],"message":"hi"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "success", body["results"].([]interface{})[0].(map[string]interface{})["status"])
}

func TestSendSMS_BodyTooLarge(t *testing.T) {
	env := setup(t)
	big := `{"phoneNumbers":["+15551234567"],"message":"` + strings.Repeat("x", 2<<10) + `"}`

	code, _ := env.do(t, http.MethodPost, "/send-sms", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Zero(t, atomic.LoadInt32(&env.sender.calls))
}
