package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/userdir/directory-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRecordCreated EventType = "record_created"
	EventRecordUpdated EventType = "record_updated"
	EventRecordDeleted EventType = "record_deleted"
	EventViewChanged   EventType = "view_changed"
)

// Event represents a change emitted by the directory engine.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType EventType, email string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// RecordCreatedPayload payload.
type RecordCreatedPayload struct {
	Record domain.UserRecord `json:"record"`
}

// RecordUpdatedPayload payload.
type RecordUpdatedPayload struct {
	OriginalEmail string            `json:"original_email"`
	Record        domain.UserRecord `json:"record"`
}

// RecordDeletedPayload payload.
type RecordDeletedPayload struct {
	Email string `json:"email"`
}
