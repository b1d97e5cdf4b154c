package app

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-dispatch/internal/metrics"
)

type appMetrics struct {
	offersSent        prometheus.Counter
	assignments       prometheus.Counter
	failures          *prometheus.CounterVec
	notifyRetries     prometheus.Counter
	rateLimitExceeded prometheus.Counter
}

var (
	metricsOnce   sync.Once
	sharedMetrics appMetrics
)

// newAppMetrics registers the collectors exactly once per process so that
// building more than one container does not panic on MustRegister.
func newAppMetrics() appMetrics {
	metricsOnce.Do(func() {
		sharedMetrics = appMetrics{
			offersSent:        metrics.NewOffersSentTotal(),
			assignments:       metrics.NewAssignmentsTotal(),
			failures:          metrics.NewDispatchFailuresTotal(),
			notifyRetries:     metrics.NewNotifyRetriesTotal(),
			rateLimitExceeded: metrics.NewRateLimitExceededTotal(),
		}
		prometheus.MustRegister(
			sharedMetrics.offersSent,
			sharedMetrics.assignments,
			sharedMetrics.failures,
			sharedMetrics.notifyRetries,
			sharedMetrics.rateLimitExceeded,
		)
	})
	return sharedMetrics
}

type metricsOut struct {
	dig.Out

	OffersSent        prometheus.Counter `name:"offers_sent_total"`
	Assignments       prometheus.Counter `name:"assignments_total"`
	NotifyRetries     prometheus.Counter `name:"notify_retries_total"`
	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	Failures          *prometheus.CounterVec
}

func provideMetrics() metricsOut {
	m := newAppMetrics()
	return metricsOut{
		OffersSent:        m.offersSent,
		Assignments:       m.assignments,
		NotifyRetries:     m.notifyRetries,
		RateLimitExceeded: m.rateLimitExceeded,
		Failures:          m.failures,
	}
}
