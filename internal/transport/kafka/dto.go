package kafka

import (
	"strings"
	"time"

	"service-dispatch/internal/service/bookings"
)

// EventDTO is the wire form of a booking event.
type EventDTO struct {
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to bookings.Event
func ToDomain(dto EventDTO) bookings.Event {
	return bookings.Event{
		BookingID: strings.TrimSpace(dto.BookingID),
		Status:    strings.TrimSpace(dto.Status),
		CreatedAt: dto.CreatedAt,
	}
}
