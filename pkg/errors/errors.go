package errors

import (
	"fmt"
	"strings"
)

// ValidationCode identifies which request rule rejected the payload
type ValidationCode string

const (
	CodeInvalidRequestBody         ValidationCode = "InvalidRequestBody"
	CodeMissingOrInvalidRecipients ValidationCode = "MissingOrInvalidRecipients"
	CodeMissingOrInvalidMessage    ValidationCode = "MissingOrInvalidMessage"
	CodeInvalidPhoneNumbers        ValidationCode = "InvalidPhoneNumbers"
)

// ValidationError represents malformed client input. It always maps to a 400.
type ValidationError struct {
	Code           ValidationCode `json:"code"`
	Field          string         `json:"field,omitempty"`
	Message        string         `json:"error"`
	InvalidNumbers []string       `json:"invalidNumbers,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.InvalidNumbers) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.InvalidNumbers, ", "))
	}
	return e.Message
}

// InvalidRequestBody carries a fixed message. The decoder error belongs in the
// server log, not in the response.
func InvalidRequestBody() *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidRequestBody,
		Message: "request body must be a JSON object",
	}
}

func MissingOrInvalidRecipients() *ValidationError {
	return &ValidationError{
		Code:    CodeMissingOrInvalidRecipients,
		Field:   "phoneNumbers",
		Message: "phoneNumbers must be a non-empty array of strings",
	}
}

func MissingOrInvalidMessage() *ValidationError {
	return &ValidationError{
		Code:    CodeMissingOrInvalidMessage,
		Field:   "message",
		Message: "message must be a non-empty string",
	}
}

func InvalidPhoneNumbers(numbers []string) *ValidationError {
	return &ValidationError{
		Code:           CodeInvalidPhoneNumbers,
		Field:          "phoneNumbers",
		Message:        "phone numbers must be in E.164 format (e.g. +15551234567)",
		InvalidNumbers: numbers,
	}
}

// ConfigurationError is fatal at startup
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Message, e.Err)
	}
	return "configuration: " + e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func NewConfiguration(message string, err error) *ConfigurationError {
	return &ConfigurationError{Message: message, Err: err}
}

// ProviderError is a per-recipient dispatch failure. It never aborts a batch.
type ProviderError struct {
	Recipient string
	Reason    string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("send to %s: %s", e.Recipient, e.Reason)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProvider(recipient, reason string, err error) *ProviderError {
	return &ProviderError{Recipient: recipient, Reason: reason, Err: err}
}

// StoreError wraps a document store failure
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
