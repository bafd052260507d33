package notification

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

func rawRequest(t *testing.T, body string) RawSendRequest {
	t.Helper()
	var raw RawSendRequest
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    apperrors.ValidationCode
		wantInvalid []string
	}{
		{"missing recipients", `{"message":"hi"}`, apperrors.CodeMissingOrInvalidRecipients, nil},
		{"null recipients", `{"phoneNumbers":null,"message":"hi"}`, apperrors.CodeMissingOrInvalidRecipients, nil},
		{"empty recipients", `{"phoneNumbers":[],"message":"hi"}`, apperrors.CodeMissingOrInvalidRecipients, nil},
		{"recipients not an array", `{"phoneNumbers":"+15551234567","message":"hi"}`, apperrors.CodeMissingOrInvalidRecipients, nil},
		{"non-string recipient", `{"phoneNumbers":["+15551234567",15551234567],"message":"hi"}`, apperrors.CodeMissingOrInvalidRecipients, nil},
		{"recipients checked before message", `{"phoneNumbers":[]}`, apperrors.CodeMissingOrInvalidRecipients, nil},
		{"missing message", `{"phoneNumbers":["+15551234567"]}`, apperrors.CodeMissingOrInvalidMessage, nil},
		{"empty message", `{"phoneNumbers":["+15551234567"],"message":""}`, apperrors.CodeMissingOrInvalidMessage, nil},
		{"blank message", `{"phoneNumbers":["+15551234567"],"message":"   "}`, apperrors.CodeMissingOrInvalidMessage, nil},
		{"message not a string", `{"phoneNumbers":["+15551234567"],"message":42}`, apperrors.CodeMissingOrInvalidMessage, nil},
		{"message checked before numbers", `{"phoneNumbers":["bad"]}`, apperrors.CodeMissingOrInvalidMessage, nil},
		{
			"one bad number",
			`{"phoneNumbers":["+15551234567","bad-number"],"message":"hi"}`,
			apperrors.CodeInvalidPhoneNumbers,
			[]string{"bad-number"},
		},
		{
			"every bad number listed in order",
			`{"phoneNumbers":["15551234567","+15551234567","+05551234567","+1","+1234567890123456",""],"message":"hi"}`,
			apperrors.CodeInvalidPhoneNumbers,
			[]string{"15551234567", "+05551234567", "+1", "+1234567890123456", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Validate(rawRequest(t, tt.body))
			assert.Nil(t, req)

			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.wantCode, verr.Code)
			assert.Equal(t, tt.wantInvalid, verr.InvalidNumbers)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidate_Success(t *testing.T) {
	req, err := Validate(rawRequest(t, `{"phoneNumbers":["+15551234567","+447911123456"],"message":"Lot B is full","parkingLot":"Lot B"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"+15551234567", "+447911123456"}, req.Recipients)
	assert.Equal(t, "Lot B is full", req.Body)
	assert.Equal(t, "Lot B", req.OriginLabel)
}

func TestValidate_DefaultOriginLabel(t *testing.T) {
	for _, body := range []string{
		`{"phoneNumbers":["+15551234567"],"message":"hi"}`,
		`{"phoneNumbers":["+15551234567"],"message":"hi","parkingLot":""}`,
		`{"phoneNumbers":["+15551234567"],"message":"hi","parkingLot":7}`,
	} {
		req, err := Validate(rawRequest(t, body))
		require.NoError(t, err)
		assert.Equal(t, model.DefaultOriginLabel, req.OriginLabel)
	}
}

func TestIsE164(t *testing.T) {
	valid := []string{"+12", "+15551234567", "+123456789012345"}
	invalid := []string{"", "+", "+1", "+0123", "15551234567", "+1234567890123456", "+1555-123-4567", " +15551234567"}

	for _, n := range valid {
		assert.True(t, IsE164(n), n)
	}
	for _, n := range invalid {
		assert.False(t, IsE164(n), n)
	}
}
