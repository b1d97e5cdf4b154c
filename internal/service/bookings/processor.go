package bookings

import (
	"context"
	"errors"
	"time"

	"service-dispatch/internal/apperr"
)

// Processor maps booking lifecycle events onto dispatch operations.
type Processor struct {
	dispatch    DispatchPort
	assignments AssignmentCloser
	factory     *actionFactory
}

// NewProcessor creates a Processor handling booking events.
func NewProcessor(dispatch DispatchPort, assignments AssignmentCloser) *Processor {
	p := &Processor{
		dispatch:    dispatch,
		assignments: assignments,
	}
	p.factory = newActionFactory(p.onCreated, p.onCanceled, p.onCompleted)
	return p
}

// Handle processes a single booking Event. Events with an unknown status are
// skipped so the consumer can commit and move on.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if e.BookingID == "" {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	err := p.dispatch.Start(ctx, e.BookingID)
	// redelivered event for a live search
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	return err
}

func (p *Processor) onCanceled(ctx context.Context, e Event) error {
	err := p.dispatch.Cancel(ctx, e.BookingID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

func (p *Processor) onCompleted(ctx context.Context, e Event) error {
	at := e.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return p.assignments.CompleteAssignment(ctx, e.BookingID, at)
}
