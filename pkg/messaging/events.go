package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventVerificationCompleted = "identity.verification.completed"
)

// Exchange names
const (
	ExchangeVerificationEvents = "verification.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// VerificationCompletedEvent is published when an identity verification
// attempt reaches a terminal state. Marketplace services subscribe to it to
// gate listing creation and to notify the user.
type VerificationCompletedEvent struct {
	VerificationID string     `json:"verification_id"`
	UserID         string     `json:"user_id"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
}
