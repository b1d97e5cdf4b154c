package domain

import "time"

// BookingStatus represents the lifecycle state of a booking. The booking
// lifecycle is owned by the bookings table; the dispatch core only reads it
// and, on acceptance, moves it to assigned.
type BookingStatus string

// List of possible booking statuses
const (
	BookingCreated   BookingStatus = "created"
	BookingSearching BookingStatus = "searching"
	BookingAssigned  BookingStatus = "assigned"
	BookingCancelled BookingStatus = "cancelled"
	BookingFailed    BookingStatus = "failed"
)

// Booking represents a delivery booking awaiting a courier.
type Booking struct {
	ID            string
	CustomerID    string
	Pickup        Point
	TransportType CourierTransportType
	Status        BookingStatus
	CreatedAt     time.Time
}

// Assignment - struct representing a persisted courier-to-booking assignment.
type Assignment struct {
	ID         int64
	BookingID  string
	CourierID  int64
	AssignedAt time.Time
}

// CandidateScore is a ranked candidate for one booking: the courier, the
// great-circle distance from the pickup point and the composite score.
// Candidates are ephemeral; they live only for the duration of one query.
type CandidateScore struct {
	Courier    Courier
	DistanceKm float64
	Score      float64
}
