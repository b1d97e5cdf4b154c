package dispatch

import (
	"sync"
	"time"

	"service-dispatch/internal/domain"
)

// JobState represents the state of an assignment job.
type JobState string

// List of possible job states
const (
	JobSearching JobState = "searching"
	JobOffered   JobState = "offered"
	JobAssigned  JobState = "assigned"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// Terminal reports whether the job no longer self-transitions.
func (s JobState) Terminal() bool {
	return s == JobAssigned || s == JobFailed || s == JobCancelled
}

// Job is the per-booking assignment state machine record. All fields are
// guarded by mu; every operation and timer callback for one booking locks it,
// so transitions never interleave.
type Job struct {
	mu sync.Mutex

	BookingID     string
	CustomerID    string
	Pickup        domain.Point
	TransportType domain.CourierTransportType
	CreatedAt     time.Time
	// StartedAt is reset by Retry; Status elapsed counts from it.
	StartedAt time.Time

	State          JobState
	FailReason     string
	Tried          map[int64]struct{}
	RadiusKm       float64
	CurrentOfferID string

	// at most one of the two timers is armed per phase: the offer timer
	// while Offered, the deadline timer while the job is live
	offerTimer    *time.Timer
	deadlineTimer *time.Timer
}

func newJob(b *domain.Booking, initialRadiusKm float64, now time.Time) *Job {
	return &Job{
		BookingID:     b.ID,
		CustomerID:    b.CustomerID,
		Pickup:        b.Pickup,
		TransportType: b.TransportType,
		CreatedAt:     now,
		StartedAt:     now,
		State:         JobSearching,
		Tried:         make(map[int64]struct{}),
		RadiusKm:      initialRadiusKm,
	}
}

// stopOfferTimer stops and clears the offer timer. Callers hold mu.
func (j *Job) stopOfferTimer() {
	if j.offerTimer != nil {
		j.offerTimer.Stop()
		j.offerTimer = nil
	}
}

// stopTimers stops and clears both timers. Callers hold mu.
func (j *Job) stopTimers() {
	j.stopOfferTimer()
	if j.deadlineTimer != nil {
		j.deadlineTimer.Stop()
		j.deadlineTimer = nil
	}
}

// Status is a read-only snapshot of a job for polling.
type Status struct {
	Exists     bool          `json:"exists"`
	State      JobState      `json:"state,omitempty"`
	FailReason string        `json:"fail_reason,omitempty"`
	TriedCount int           `json:"tried_count"`
	Elapsed    time.Duration `json:"elapsed"`
}
