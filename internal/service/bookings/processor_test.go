package bookings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
)

type mockDispatch struct {
	startFn  func(ctx context.Context, bookingID string) error
	cancelFn func(ctx context.Context, bookingID string) error
}

func (m *mockDispatch) Start(ctx context.Context, bookingID string) error {
	if m.startFn == nil {
		return nil
	}
	return m.startFn(ctx, bookingID)
}

func (m *mockDispatch) Cancel(ctx context.Context, bookingID string) error {
	if m.cancelFn == nil {
		return nil
	}
	return m.cancelFn(ctx, bookingID)
}

type mockCloser struct {
	completeFn func(ctx context.Context, bookingID string, at time.Time) error
}

func (m *mockCloser) CompleteAssignment(ctx context.Context, bookingID string, at time.Time) error {
	if m.completeFn == nil {
		return nil
	}
	return m.completeFn(ctx, bookingID, at)
}

func TestHandle_CreatedStartsDispatch(t *testing.T) {
	t.Parallel()

	var started string
	p := NewProcessor(&mockDispatch{startFn: func(_ context.Context, id string) error {
		started = id
		return nil
	}}, &mockCloser{})

	require.NoError(t, p.Handle(context.Background(), Event{BookingID: "bk-1", Status: "created"}))
	require.Equal(t, "bk-1", started)
}

func TestHandle_CreatedConflictSwallowed(t *testing.T) {
	t.Parallel()

	p := NewProcessor(&mockDispatch{startFn: func(_ context.Context, id string) error {
		return fmt.Errorf("%w: already running", apperr.ErrConflict)
	}}, &mockCloser{})

	require.NoError(t, p.Handle(context.Background(), Event{BookingID: "bk-1", Status: "created"}))
}

func TestHandle_CanceledVariants(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"canceled", "CANCELLED", " deleted "} {
		var cancelled string
		p := NewProcessor(&mockDispatch{cancelFn: func(_ context.Context, id string) error {
			cancelled = id
			return nil
		}}, &mockCloser{})

		require.NoError(t, p.Handle(context.Background(), Event{BookingID: "bk-2", Status: status}))
		require.Equal(t, "bk-2", cancelled, status)
	}
}

func TestHandle_CompletedClosesAssignment(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var gotID string
	var gotAt time.Time
	p := NewProcessor(&mockDispatch{}, &mockCloser{completeFn: func(_ context.Context, id string, ts time.Time) error {
		gotID, gotAt = id, ts
		return nil
	}})

	require.NoError(t, p.Handle(context.Background(), Event{BookingID: "bk-3", Status: "completed", CreatedAt: at}))
	require.Equal(t, "bk-3", gotID)
	require.Equal(t, at, gotAt)
}

func TestHandle_UnknownStatusSkipped(t *testing.T) {
	t.Parallel()

	p := NewProcessor(&mockDispatch{startFn: func(_ context.Context, _ string) error {
		return errors.New("must not be called")
	}}, &mockCloser{})

	require.NoError(t, p.Handle(context.Background(), Event{BookingID: "bk-4", Status: "cooking"}))
	require.NoError(t, p.Handle(context.Background(), Event{Status: "created"}))
}

func TestHandle_ErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("store down")
	p := NewProcessor(&mockDispatch{startFn: func(_ context.Context, _ string) error {
		return boom
	}}, &mockCloser{})

	err := p.Handle(context.Background(), Event{BookingID: "bk-5", Status: "created"})
	require.ErrorIs(t, err, boom)
}
