package bookingtx

import (
	"context"

	"service-dispatch/internal/domain"
)

// Repository is the transactional view of booking persistence used when an
// accepted offer is turned into a durable assignment.
type Repository interface {
	GetBookingForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
