package dispatch

import (
	"time"

	"service-dispatch/internal/domain"
)

// EventType identifies a dispatch lifecycle notification.
type EventType string

// List of dispatch event types
const (
	EventSearchStarted    EventType = "search_started"
	EventOfferSent        EventType = "offer_sent"
	EventOfferExpired     EventType = "offer_expired"
	EventSearching        EventType = "searching"
	EventOfferDeclined    EventType = "offer_declined"
	EventCourierAssigned  EventType = "courier_assigned"
	EventSearchTimeout    EventType = "search_timeout"
	EventNoCouriers       EventType = "no_couriers"
	EventAssignmentFailed EventType = "assignment_failed"
)

// Audience tells downstream consumers who the event is addressed to.
type Audience string

// List of event audiences
const (
	AudienceCustomer Audience = "customer"
	AudienceCourier  Audience = "courier"
	AudienceOps      Audience = "ops"
)

// Failure reasons carried by terminal events and Status.
const (
	ReasonNoCouriers    = "no couriers available"
	ReasonMaxAttempts   = "maximum retry attempts reached"
	ReasonTimeout       = "search timed out"
	ReasonPersistFailed = "assignment not persisted"
)

// Event is a dispatch lifecycle notification fanned out to customers,
// couriers and operations.
type Event struct {
	Type      EventType       `json:"type"`
	BookingID string          `json:"booking_id"`
	CourierID int64           `json:"courier_id,omitempty"`
	Attempt   int             `json:"attempt,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	CanRetry  bool            `json:"can_retry,omitempty"`
	Offer     *domain.Offer   `json:"offer,omitempty"`
	Courier   *domain.Courier `json:"courier,omitempty"`
	Audiences []Audience      `json:"audiences"`
	At        time.Time       `json:"at"`
}
