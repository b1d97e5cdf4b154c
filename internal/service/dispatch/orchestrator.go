package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/ports/bookingtx"
	"service-dispatch/internal/service/candidates"
)

const defaultOpTimeout = 5 * time.Second

// Config tunes the assignment lifecycle.
type Config struct {
	OfferTimeout   time.Duration
	SearchDeadline time.Duration
	MaxAttempts    int
	Radius         candidates.Ladder
}

func (c *Config) normalize() {
	if c.OfferTimeout <= 0 {
		c.OfferTimeout = 30 * time.Second
	}
	if c.SearchDeadline <= 0 {
		c.SearchDeadline = 2 * time.Minute
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	if c.Radius.InitialKm <= 0 || c.Radius.StepKm <= 0 {
		c.Radius = candidates.Ladder{InitialKm: 5, StepKm: 2, MaxKm: 15}
	}
}

// Counters groups the orchestrator's metrics. Nil fields are skipped, so
// tests can construct an orchestrator without a registry.
type Counters struct {
	OffersSent  prometheus.Counter
	Assignments prometheus.Counter
	Failures    *prometheus.CounterVec
}

func (c Counters) offerSent() {
	if c.OffersSent != nil {
		c.OffersSent.Inc()
	}
}

func (c Counters) assigned() {
	if c.Assignments != nil {
		c.Assignments.Inc()
	}
}

func (c Counters) failed(reason string) {
	if c.Failures != nil {
		c.Failures.WithLabelValues(failureLabel(reason)).Inc()
	}
}

func failureLabel(reason string) string {
	switch reason {
	case ReasonNoCouriers:
		return "no_couriers"
	case ReasonMaxAttempts:
		return "max_attempts"
	case ReasonTimeout:
		return "timeout"
	case ReasonPersistFailed:
		return "persist"
	default:
		return "other"
	}
}

// Deps lists the orchestrator's collaborators.
type Deps struct {
	Jobs     JobStore
	Finder   Finder
	Offers   OfferManager
	Bookings BookingSource
	Couriers CourierSource
	Tx       bookingtx.Runner
	Notifier Notifier
	Logger   logx.Logger
	Counters Counters
}

// Orchestrator runs one assignment job per booking: it searches for
// candidates, offers the booking to one courier at a time and persists the
// winning assignment. Timer callbacks and API calls for the same booking are
// serialized on the job mutex.
type Orchestrator struct {
	cfg      Config
	jobs     JobStore
	finder   Finder
	offers   OfferManager
	bookings BookingSource
	couriers CourierSource
	tx       bookingtx.Runner
	notifier Notifier
	logger   logx.Logger
	counters Counters

	// startMu makes the lookup-then-insert in Start atomic across bookings
	startMu sync.Mutex

	now       func() time.Time
	opTimeout time.Duration
}

func NewOrchestrator(cfg Config, d Deps) *Orchestrator {
	cfg.normalize()
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	return &Orchestrator{
		cfg:       cfg,
		jobs:      d.Jobs,
		finder:    d.Finder,
		offers:    d.Offers,
		bookings:  d.Bookings,
		couriers:  d.Couriers,
		tx:        d.Tx,
		notifier:  d.Notifier,
		logger:    d.Logger,
		counters:  d.Counters,
		now:       time.Now,
		opTimeout: defaultOpTimeout,
	}
}

// Start creates an assignment job for the booking and runs the first offer
// cycle. A live job for the same booking is a conflict; a terminal one left
// over from a failed search is replaced.
func (o *Orchestrator) Start(ctx context.Context, bookingID string) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return fmt.Errorf("%w: empty booking id", apperr.ErrInvalid)
	}

	o.startMu.Lock()
	if prev, ok := o.jobs.Get(bookingID); ok {
		prev.mu.Lock()
		live := !prev.State.Terminal()
		prev.mu.Unlock()
		if live {
			o.startMu.Unlock()
			return fmt.Errorf("%w: dispatch already running for booking %s", apperr.ErrConflict, bookingID)
		}
		o.jobs.Delete(bookingID)
	}

	b, err := o.bookings.Get(ctx, bookingID)
	if err != nil {
		o.startMu.Unlock()
		return fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		o.startMu.Unlock()
		return fmt.Errorf("%w: booking %s", apperr.ErrNotFound, bookingID)
	}
	if b.Status != domain.BookingCreated && b.Status != domain.BookingSearching {
		o.startMu.Unlock()
		return fmt.Errorf("%w: booking %s is %s", apperr.ErrConflict, bookingID, b.Status)
	}
	if !b.Pickup.Valid() {
		o.startMu.Unlock()
		return fmt.Errorf("%w: booking %s has no valid pickup point", apperr.ErrInvalid, bookingID)
	}

	j := newJob(b, o.cfg.Radius.InitialKm, o.now())
	o.jobs.Put(j)
	o.startMu.Unlock()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State.Terminal() {
		// cancelled between Put and here
		return nil
	}
	o.armDeadline(j)
	o.publish(ctx, Event{
		Type:      EventSearchStarted,
		BookingID: j.BookingID,
		Audiences: []Audience{AudienceCustomer},
	})
	o.offerCycle(ctx, j)
	return nil
}

// OnCourierAccept handles a courier accepting an offer: it closes the offer,
// persists the assignment transactionally and retires the job.
func (o *Orchestrator) OnCourierAccept(ctx context.Context, offerID string, courierID int64) error {
	off, ok := o.offers.Get(offerID)
	if !ok {
		return fmt.Errorf("%w: offer %s", apperr.ErrNotFound, offerID)
	}
	j, ok := o.jobs.Get(off.BookingID)
	if !ok {
		return fmt.Errorf("%w: no dispatch job for booking %s", apperr.ErrNotFound, off.BookingID)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State != JobOffered || j.CurrentOfferID != offerID {
		return fmt.Errorf("%w: offer %s is no longer current", apperr.ErrConflict, offerID)
	}
	if _, err := o.offers.Accept(offerID, courierID); err != nil {
		return err
	}
	j.stopTimers()
	j.CurrentOfferID = ""

	assignedAt := o.now()
	err := o.tx.WithTx(ctx, func(tx bookingtx.Repository) error {
		b, err := tx.GetBookingForUpdate(ctx, j.BookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: booking %s", apperr.ErrNotFound, j.BookingID)
		}
		if b.Status == domain.BookingAssigned || b.Status == domain.BookingCancelled {
			return fmt.Errorf("%w: booking %s is %s", apperr.ErrConflict, j.BookingID, b.Status)
		}
		if err := tx.InsertAssignment(ctx, &domain.Assignment{
			BookingID:  j.BookingID,
			CourierID:  courierID,
			AssignedAt: assignedAt,
		}); err != nil {
			return err
		}
		return tx.UpdateBookingStatus(ctx, j.BookingID, domain.BookingAssigned)
	})
	if err != nil {
		o.logger.Error("persist assignment",
			logx.String("booking_id", j.BookingID),
			logx.Int64("courier_id", courierID),
			logx.Any("err", err),
		)
		o.failLocked(ctx, j, ReasonPersistFailed)
		return fmt.Errorf("persist assignment: %w", err)
	}

	j.State = JobAssigned
	o.counters.assigned()

	ev := Event{
		Type:      EventCourierAssigned,
		BookingID: j.BookingID,
		CourierID: courierID,
		Audiences: []Audience{AudienceCustomer, AudienceOps},
	}
	if c, err := o.couriers.Get(ctx, courierID); err == nil {
		ev.Courier = c
	}
	o.publish(ctx, ev)

	o.jobs.Delete(j.BookingID)
	return nil
}

// OnCourierDecline records a decline and immediately moves to the next
// candidate.
func (o *Orchestrator) OnCourierDecline(ctx context.Context, offerID string, courierID int64) error {
	off, ok := o.offers.Get(offerID)
	if !ok {
		return fmt.Errorf("%w: offer %s", apperr.ErrNotFound, offerID)
	}
	j, ok := o.jobs.Get(off.BookingID)
	if !ok {
		return fmt.Errorf("%w: no dispatch job for booking %s", apperr.ErrNotFound, off.BookingID)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State != JobOffered || j.CurrentOfferID != offerID {
		return fmt.Errorf("%w: offer %s is no longer current", apperr.ErrConflict, offerID)
	}
	if _, err := o.offers.Decline(offerID, courierID); err != nil {
		return err
	}
	j.stopOfferTimer()
	j.CurrentOfferID = ""
	j.State = JobSearching

	o.publish(ctx, Event{
		Type:      EventOfferDeclined,
		BookingID: j.BookingID,
		CourierID: courierID,
		Audiences: []Audience{AudienceCustomer},
	})
	o.offerCycle(ctx, j)
	return nil
}

// Cancel stops the job and drops it from the store. Unknown bookings and
// leftover terminal jobs are cleaned up silently.
func (o *Orchestrator) Cancel(ctx context.Context, bookingID string) error {
	j, ok := o.jobs.Get(bookingID)
	if !ok {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State.Terminal() {
		o.jobs.Delete(bookingID)
		return nil
	}
	j.stopTimers()
	o.retireOffer(ctx, j)
	j.State = JobCancelled
	o.jobs.Delete(bookingID)
	o.logger.Info("dispatch cancelled", logx.String("booking_id", bookingID))
	return nil
}

// Retry restarts the search for a failed job: tried couriers and the radius
// are reset and the deadline is re-armed. For a booking with no job it
// behaves as Start.
func (o *Orchestrator) Retry(ctx context.Context, bookingID string) error {
	j, ok := o.jobs.Get(bookingID)
	if !ok {
		return o.Start(ctx, bookingID)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State != JobFailed {
		return fmt.Errorf("%w: dispatch for booking %s is %s", apperr.ErrConflict, bookingID, j.State)
	}
	j.stopTimers()
	o.retireOffer(ctx, j)
	j.Tried = make(map[int64]struct{})
	j.RadiusKm = o.cfg.Radius.InitialKm
	j.FailReason = ""
	j.State = JobSearching
	j.StartedAt = o.now()
	o.armDeadline(j)
	o.publish(ctx, Event{
		Type:      EventSearching,
		BookingID: j.BookingID,
		Audiences: []Audience{AudienceCustomer},
	})
	o.offerCycle(ctx, j)
	return nil
}

// Status reports a snapshot of the job, or Exists=false when none is held.
func (o *Orchestrator) Status(bookingID string) Status {
	j, ok := o.jobs.Get(bookingID)
	if !ok {
		return Status{}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return Status{
		Exists:     true,
		State:      j.State,
		FailReason: j.FailReason,
		TriedCount: len(j.Tried),
		Elapsed:    o.now().Sub(j.StartedAt),
	}
}

// offerCycle picks the best untried candidate, widening the radius stepwise
// when a ring comes back empty, and sends the offer. Callers hold j.mu and
// guarantee State is Searching.
func (o *Orchestrator) offerCycle(ctx context.Context, j *Job) {
	if len(j.Tried) >= o.cfg.MaxAttempts {
		o.failLocked(ctx, j, ReasonMaxAttempts)
		return
	}

	radius := j.RadiusKm
	var pick domain.CandidateScore
	for {
		cands, err := o.finder.FindCandidates(ctx, j.Pickup, j.TransportType, radius, j.Tried)
		if err != nil {
			// transient lookup failure: stay in Searching, the
			// deadline timer bounds how long we can stall
			o.logger.Error("candidate lookup failed",
				logx.String("booking_id", j.BookingID),
				logx.Float64("radius_km", radius),
				logx.Any("err", err),
			)
			return
		}
		if len(cands) > 0 {
			pick = cands[0]
			break
		}
		next, ok := o.cfg.Radius.Next(radius)
		if !ok {
			o.failLocked(ctx, j, ReasonNoCouriers)
			return
		}
		radius = next
	}
	j.RadiusKm = radius

	off, err := o.offers.Create(j.BookingID, pick.Courier.ID, o.cfg.OfferTimeout)
	if err != nil {
		o.logger.Error("create offer",
			logx.String("booking_id", j.BookingID),
			logx.Int64("courier_id", pick.Courier.ID),
			logx.Any("err", err),
		)
		return
	}
	j.Tried[pick.Courier.ID] = struct{}{}
	j.State = JobOffered
	j.CurrentOfferID = off.ID

	bookingID, offerID := j.BookingID, off.ID
	j.offerTimer = time.AfterFunc(o.cfg.OfferTimeout, func() {
		o.onOfferTimeout(bookingID, offerID)
	})
	o.counters.offerSent()

	courier := pick.Courier
	o.publish(ctx, Event{
		Type:      EventOfferSent,
		BookingID: bookingID,
		CourierID: courier.ID,
		Attempt:   len(j.Tried),
		Offer:     &off,
		Courier:   &courier,
		Audiences: []Audience{AudienceCustomer, AudienceCourier},
	})
	o.logger.Info("offer sent",
		logx.String("booking_id", bookingID),
		logx.Int64("courier_id", courier.ID),
		logx.Int("attempt", len(j.Tried)),
		logx.Float64("radius_km", radius),
	)
}

// onOfferTimeout runs when an offer's clock runs out. It is a no-op when the
// offer already resolved: the timer raced with accept, decline or cancel.
func (o *Orchestrator) onOfferTimeout(bookingID, offerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), o.opTimeout)
	defer cancel()

	j, ok := o.jobs.Get(bookingID)
	if !ok {
		o.offers.Expire(offerID)
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State != JobOffered || j.CurrentOfferID != offerID {
		return
	}
	off, ok := o.offers.Expire(offerID)
	if !ok {
		return
	}
	j.offerTimer = nil
	j.CurrentOfferID = ""
	j.State = JobSearching

	o.publish(ctx, Event{
		Type:      EventOfferExpired,
		BookingID: bookingID,
		CourierID: off.CourierID,
		Audiences: []Audience{AudienceCourier},
	})
	o.publish(ctx, Event{
		Type:      EventSearching,
		BookingID: bookingID,
		Audiences: []Audience{AudienceCustomer},
	})
	o.offerCycle(ctx, j)
}

// onSearchDeadline fails the job when the overall search window closes. The
// deadline wins over any offer still pending.
func (o *Orchestrator) onSearchDeadline(bookingID string) {
	ctx, cancel := context.WithTimeout(context.Background(), o.opTimeout)
	defer cancel()

	j, ok := o.jobs.Get(bookingID)
	if !ok {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State.Terminal() {
		return
	}
	j.deadlineTimer = nil
	o.failLocked(ctx, j, ReasonTimeout)
}

func (o *Orchestrator) armDeadline(j *Job) {
	bookingID := j.BookingID
	j.deadlineTimer = time.AfterFunc(o.cfg.SearchDeadline, func() {
		o.onSearchDeadline(bookingID)
	})
}

// retireOffer drops the job's pending offer, if any, and tells the courier.
// Callers hold j.mu.
func (o *Orchestrator) retireOffer(ctx context.Context, j *Job) {
	if j.CurrentOfferID == "" {
		return
	}
	j.CurrentOfferID = ""
	off, ok := o.offers.CancelPending(j.BookingID)
	if !ok {
		return
	}
	o.publish(ctx, Event{
		Type:      EventOfferExpired,
		BookingID: j.BookingID,
		CourierID: off.CourierID,
		Audiences: []Audience{AudienceCourier},
	})
}

// failLocked moves the job to Failed and emits the terminal event. A failed
// job stays in the store so a caller can retry or cancel it. Callers hold
// j.mu.
func (o *Orchestrator) failLocked(ctx context.Context, j *Job, reason string) {
	j.stopTimers()
	o.retireOffer(ctx, j)
	j.State = JobFailed
	j.FailReason = reason
	o.counters.failed(reason)

	var typ EventType
	switch reason {
	case ReasonTimeout:
		typ = EventSearchTimeout
	case ReasonPersistFailed:
		typ = EventAssignmentFailed
	default:
		typ = EventNoCouriers
	}
	o.publish(ctx, Event{
		Type:      typ,
		BookingID: j.BookingID,
		Reason:    reason,
		CanRetry:  true,
		Audiences: []Audience{AudienceCustomer, AudienceOps},
	})
	o.logger.Info("dispatch failed",
		logx.String("booking_id", j.BookingID),
		logx.String("reason", reason),
		logx.Int("tried", len(j.Tried)),
	)
}

func (o *Orchestrator) publish(ctx context.Context, e Event) {
	e.At = o.now()
	if err := o.notifier.Publish(ctx, e); err != nil {
		o.logger.Error("publish event",
			logx.String("event", string(e.Type)),
			logx.String("booking_id", e.BookingID),
			logx.Any("err", err),
		)
	}
}
