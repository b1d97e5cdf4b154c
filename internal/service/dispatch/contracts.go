package dispatch

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
)

// Finder selects ranked courier candidates around a pickup point.
type Finder interface {
	FindCandidates(ctx context.Context, pickup domain.Point, t domain.CourierTransportType, radiusKm float64, exclude map[int64]struct{}) ([]domain.CandidateScore, error)
}

// OfferManager owns offer records and enforces the single-pending-offer rule.
type OfferManager interface {
	Create(bookingID string, courierID int64, ttl time.Duration) (domain.Offer, error)
	Get(offerID string) (domain.Offer, bool)
	Accept(offerID string, courierID int64) (domain.Offer, error)
	Decline(offerID string, courierID int64) (domain.Offer, error)
	Expire(offerID string) (domain.Offer, bool)
	CancelPending(bookingID string) (domain.Offer, bool)
}

// BookingSource loads bookings that dispatch was asked to serve.
type BookingSource interface {
	Get(ctx context.Context, id string) (*domain.Booking, error)
}

// CourierSource loads courier profiles for assignment summaries.
type CourierSource interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
}

// Notifier publishes dispatch lifecycle events.
type Notifier interface {
	Publish(ctx context.Context, e Event) error
}
