package domain

import "time"

// OfferState represents the state of a courier offer.
type OfferState string

// List of possible offer states
const (
	OfferPending  OfferState = "pending"
	OfferAccepted OfferState = "accepted"
	OfferDeclined OfferState = "declined"
	OfferExpired  OfferState = "expired"
)

// Terminal reports whether the state is final for an offer.
func (s OfferState) Terminal() bool {
	return s == OfferAccepted || s == OfferDeclined || s == OfferExpired
}

// Offer is a time-bounded proposal of one booking to one courier.
// At most one pending offer exists per booking at any instant.
type Offer struct {
	ID        string
	BookingID string
	CourierID int64
	State     OfferState
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ExpiredAt reports whether the offer deadline has passed at the given time.
func (o Offer) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
