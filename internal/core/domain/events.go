package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a notification event
type EventType string

const (
	EventCertificateIssued EventType = "certificate.issued"
	EventReferralCreated   EventType = "referral.created"
	EventReferralApproved  EventType = "referral.approved"
)

// Event is an outbound notification addressed to one user
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	UserID     uint                   `json:"user_id"`
	Email      string                 `json:"email,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// NewEvent stamps a new event with a random id and the current time
func NewEvent(eventType EventType, userID uint, email string, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
