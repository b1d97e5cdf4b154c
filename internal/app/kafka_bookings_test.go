package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/service/bookings"
	"service-dispatch/internal/transport/kafka"
)

type spyDispatch struct {
	started   []string
	cancelled []string
}

func (s *spyDispatch) Start(_ context.Context, bookingID string) error {
	s.started = append(s.started, bookingID)
	return nil
}

func (s *spyDispatch) Cancel(_ context.Context, bookingID string) error {
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

type spyCloser struct {
	completed []string
}

func (s *spyCloser) CompleteAssignment(_ context.Context, bookingID string, _ time.Time) error {
	s.completed = append(s.completed, bookingID)
	return nil
}

func TestMakeBookingsHandler_DelegatesToProcessor(t *testing.T) {
	t.Parallel()

	disp := &spyDispatch{}
	closer := &spyCloser{}
	h := makeBookingsHandler(bookings.NewProcessor(disp, closer))

	err := h(context.Background(), bookings.Event{BookingID: "bk-1", Status: "created"})
	require.NoError(t, err)
	require.Equal(t, []string{"bk-1"}, disp.started)

	err = h(context.Background(), bookings.Event{BookingID: "bk-1", Status: "completed"})
	require.NoError(t, err)
	require.Equal(t, []string{"bk-1"}, closer.completed)
}

func TestNewBookingsConsumer_NilWithoutKafka(t *testing.T) {
	t.Parallel()

	consumer, err := newBookingsConsumer(testConfig(), func(context.Context, bookings.Event) error {
		return nil
	}, nil)
	require.NoError(t, err)
	require.Nil(t, consumer)
}

func TestRegisterWorker_ProvidesNilConsumerWithoutKafka(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t)
	require.NoError(t, registerWorker(c))

	err := c.Invoke(func(consumer *kafka.Consumer) {
		require.Nil(t, consumer)
	})
	require.NoError(t, err)
}
