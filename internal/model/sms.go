package model

// OutcomeStatus is the per-recipient result of a dispatch attempt
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// SendRequest is a validated bulk send. It is never persisted.
type SendRequest struct {
	Recipients  []string
	Body        string
	OriginLabel string
}

// SendOutcome carries ProviderMessageID iff Status is success and
// FailureReason iff Status is failed.
type SendOutcome struct {
	Recipient         string        `json:"phoneNumber"`
	Status            OutcomeStatus `json:"status"`
	ProviderMessageID string        `json:"messageId,omitempty"`
	FailureReason     string        `json:"error,omitempty"`
}

// SendReport holds one outcome per recipient, in request order
type SendReport struct {
	OverallSuccess bool          `json:"success"`
	Outcomes       []SendOutcome `json:"results"`
}

// Succeeded counts the successful outcomes
func (r *SendReport) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSuccess {
			n++
		}
	}
	return n
}
