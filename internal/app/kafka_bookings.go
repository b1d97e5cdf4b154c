package app

import (
	"context"

	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/bookings"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/transport/kafka"
)

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(o *dispatch.Orchestrator, repo *repository.BookingRepo) *bookings.Processor {
			return bookings.NewProcessor(o, repo)
		},
		makeBookingsHandler,
		newBookingsConsumer,
	)
}

func makeBookingsHandler(p *bookings.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event bookings.Event) error {
		return p.Handle(ctx, event)
	}
}

// newBookingsConsumer returns a nil consumer when Kafka is not configured;
// the worker runner treats that as a misconfiguration.
func newBookingsConsumer(cfg *config.Config, h kafka.HandleFunc, logger logx.Logger) (*kafka.Consumer, error) {
	k := cfg.Kafka
	return kafka.NewConsumer(k.Brokers, k.GroupID, k.BookingsTopic, h, logger)
}
