package domain

// PushMessage is a single notification addressed to one device.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Notification is the recipient-independent part of a push message.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// To addresses the notification to a device token.
func (n Notification) To(token string) *PushMessage {
	return &PushMessage{Token: token, Title: n.Title, Body: n.Body, Data: n.Data}
}

// OutcomeStatus is the per-recipient result of a send attempt.
type OutcomeStatus string

const (
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome records what happened to a single recipient. Recipient is an opaque
// redacted identifier, never the raw push address.
type Outcome struct {
	Recipient string        `json:"recipient,omitempty"`
	Status    OutcomeStatus `json:"status"`
	MessageID string        `json:"messageId,omitempty"`
	Error     string        `json:"error,omitempty"`
	// Stale is set when the provider rejected the address itself, so
	// retrying with the same address cannot succeed.
	Stale bool `json:"stale,omitempty"`
}

// Delivered reports whether the provider accepted the message.
func (o Outcome) Delivered() bool {
	return o.Status == OutcomeSucceeded
}

// DeliveryState is the terminal state of a fan-out call.
//
//	PREPARING → SENDING → SUCCEEDED | PARTIAL | FAILED
type DeliveryState string

const (
	DeliveryPreparing DeliveryState = "preparing"
	DeliverySending   DeliveryState = "sending"
	DeliverySucceeded DeliveryState = "succeeded"
	DeliveryPartial   DeliveryState = "partial"
	DeliveryFailed    DeliveryState = "failed"
)

// DeliveryResult aggregates a fan-out call. The zero value means no recipient
// was attempted.
type DeliveryResult struct {
	BatchID      string        `json:"batchId,omitempty"`
	State        DeliveryState `json:"state,omitempty"`
	Attempted    int           `json:"attempted"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	Outcomes     []Outcome     `json:"outcomes,omitempty"`
}

// TerminalState derives the final state from the counters.
func (r *DeliveryResult) TerminalState() DeliveryState {
	switch {
	case r.FailureCount == 0:
		return DeliverySucceeded
	case r.SuccessCount == 0:
		return DeliveryFailed
	default:
		return DeliveryPartial
	}
}
