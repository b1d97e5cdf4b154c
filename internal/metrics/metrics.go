package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewOffersSentTotal returns a Prometheus counter for offers sent to couriers.
func NewOffersSentTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_offers_sent_total",
		Help: "Total number of offers sent to couriers",
	})
}

// NewAssignmentsTotal returns a Prometheus counter for successful assignments.
func NewAssignmentsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of bookings successfully assigned to a courier",
	})
}

// NewDispatchFailuresTotal returns a Prometheus counter vector for terminal
// dispatch failures, labelled by failure reason.
func NewDispatchFailuresTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_failures_total",
		Help: "Total number of dispatch jobs that ended in a terminal failure",
	}, []string{"reason"})
}

// NewNotifyRetriesTotal returns a Prometheus counter for the number of retry
// attempts performed by the notification publisher.
func NewNotifyRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_retries_total",
		Help: "Total number of retry attempts performed by the notification publisher",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
