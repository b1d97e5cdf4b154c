package bookings

import (
	"context"
	"time"
)

// DispatchPort is the subset of orchestrator operations the Processor drives
// from booking events.
type DispatchPort interface {
	Start(ctx context.Context, bookingID string) error
	Cancel(ctx context.Context, bookingID string) error
}

// AssignmentCloser finalizes an assignment when the booking completes, which
// frees the courier for new offers.
type AssignmentCloser interface {
	CompleteAssignment(ctx context.Context, bookingID string, at time.Time) error
}
