package bookings

import "time"

// Event is a single booking lifecycle event from the bookings topic.
type Event struct {
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
