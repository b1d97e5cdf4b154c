package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/notify"
	"service-dispatch/internal/service/dispatch"
)

// notifierCloser releases the Kafka producer behind the notifier. It is a
// no-op when Kafka is not configured.
type notifierCloser func() error

type notifierIn struct {
	dig.In

	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"notify_retries_total"`
}

// newNotifier builds the dispatch event publisher. Without Kafka brokers the
// orchestrator still runs, events are simply dropped.
func newNotifier(in notifierIn) (dispatch.Notifier, notifierCloser, error) {
	if !in.Cfg.Kafka.Enabled() {
		in.Logger.Info("kafka not configured, dispatch events disabled")
		return notify.Nop(), func() error { return nil }, nil
	}

	producer, err := notify.NewSyncProducer(in.Cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, fmt.Errorf("notify producer: %w", err)
	}

	publisher := notify.NewKafkaPublisher(producer, in.Cfg.Kafka.NotificationsTopic)
	retrying := notify.NewRetryingPublisher(publisher, in.Logger, in.Retries, notify.RetryConfig{
		MaxAttempts: in.Cfg.NotifyRetry.MaxAttempts,
		BaseDelay:   in.Cfg.NotifyRetry.BaseDelay,
		MaxDelay:    in.Cfg.NotifyRetry.MaxDelay,
	})
	return retrying, producer.Close, nil
}
