package notification

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// RawSendRequest keeps the fields undecoded so that a wrong JSON type is
// reported against the field instead of as a body decoding failure.
type RawSendRequest struct {
	PhoneNumbers json.RawMessage `json:"phoneNumbers"`
	Message      json.RawMessage `json:"message"`
	ParkingLot   json.RawMessage `json:"parkingLot"`
}

// IsE164 reports whether number is a '+' followed by 2 to 15 digits with a
// non-zero leading digit
func IsE164(number string) bool {
	return e164.MatchString(number)
}

// Validate applies the request rules in order and returns the first failure.
// Phone number format errors list every offending entry.
func Validate(raw RawSendRequest) (*model.SendRequest, error) {
	recipients, ok := decodeStrings(raw.PhoneNumbers)
	if !ok || len(recipients) == 0 {
		return nil, apperrors.MissingOrInvalidRecipients()
	}

	body, ok := decodeString(raw.Message)
	if !ok || strings.TrimSpace(body) == "" {
		return nil, apperrors.MissingOrInvalidMessage()
	}

	var invalid []string
	for _, r := range recipients {
		if !IsE164(r) {
			invalid = append(invalid, r)
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.InvalidPhoneNumbers(invalid)
	}

	origin, ok := decodeString(raw.ParkingLot)
	if !ok || strings.TrimSpace(origin) == "" {
		origin = model.DefaultOriginLabel
	}

	return &model.SendRequest{
		Recipients:  recipients,
		Body:        body,
		OriginLabel: origin,
	}, nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeStrings(raw json.RawMessage) ([]string, bool) {
	if isAbsent(raw) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := decodeString(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
