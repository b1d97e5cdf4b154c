package notify

import (
	"context"
	"errors"
	"time"

	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/dispatch"
)

// RetryConfig tunes the retry behaviour of RetryingPublisher.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingPublisher wraps a Publisher with exponential backoff. Broker
// hiccups are retried; context cancellation stops the loop immediately.
type RetryingPublisher struct {
	next    Publisher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

func NewRetryingPublisher(next Publisher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingPublisher {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingPublisher{next: next, logger: logger, retries: retries, cfg: cfg}
}

func (p *RetryingPublisher) Publish(ctx context.Context, e dispatch.Event) error {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := p.next.Publish(ctx, e)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("notify publish retry",
			logx.String("event", string(e.Type)),
			logx.String("booking_id", e.BookingID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
