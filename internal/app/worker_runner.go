package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-dispatch/internal/logx"
	"service-dispatch/internal/transport/kafka"
)

// WorkerRunner runs the booking-event consumer
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the consumer using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	rdb *redis.Client,
	logger logx.Logger,
	consumer *kafka.Consumer,
	closeNotify notifierCloser,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(pool, rdb, logger, consumer, closeNotify)

	logger.Info("service-dispatch-worker started")
	return consumer.Run(ctx)
}

func closeWorker(
	pool *pgxpool.Pool,
	rdb *redis.Client,
	logger logx.Logger,
	consumer *kafka.Consumer,
	closeNotify notifierCloser,
) {
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka close error", logx.Any("err", err))
		}
	}
	if closeNotify != nil {
		if err := closeNotify(); err != nil {
			logger.Error("notifier close error", logx.Any("err", err))
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", logx.Any("err", err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
