package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventParcelRegistered    EventType = "parcel_registered"
	EventParcelStatusChanged EventType = "parcel_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TrackingID string      `json:"tracking_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// New stamps an event with a fresh ID.
func New(eventType EventType, trackingID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		TrackingID: trackingID,
		Timestamp:  at,
		Payload:    payload,
	}
}

// ParcelRegisteredPayload carries the parcel as persisted.
type ParcelRegisteredPayload struct {
	Parcel domain.Parcel `json:"parcel"`
}

// ParcelStatusChangedPayload carries the parcel after the move.
type ParcelStatusChangedPayload struct {
	Parcel    domain.Parcel       `json:"parcel"`
	OldStatus domain.ParcelStatus `json:"old_status"`
	NewStatus domain.ParcelStatus `json:"new_status"`
	Location  string              `json:"location,omitempty"`
	Notes     string              `json:"notes,omitempty"`
}
