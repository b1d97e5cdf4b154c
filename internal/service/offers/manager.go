package offers

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// maxRetired bounds how many resolved offers stay readable before the oldest
// are evicted.
const maxRetired = 1024

// Manager owns the set of outstanding offers. It enforces that a booking has
// at most one pending offer and validates courier ownership on every
// response. A resolved offer is retired: it stays readable in its terminal
// state until evicted, and responding to it is a caller error, never a
// crash.
type Manager struct {
	mu               sync.Mutex
	byID             map[string]*domain.Offer
	pendingByBooking map[string]string
	retired          []string
	retiredCap       int
	now              func() time.Time
}

// NewManager creates a new offer Manager.
func NewManager() *Manager {
	return &Manager{
		byID:             make(map[string]*domain.Offer),
		pendingByBooking: make(map[string]string),
		retiredCap:       maxRetired,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Create issues a pending offer of bookingID to courierID valid for ttl.
// It fails with ErrConflict while another offer for the booking is pending.
func (m *Manager) Create(bookingID string, courierID int64, ttl time.Duration) (domain.Offer, error) {
	if bookingID == "" || courierID <= 0 || ttl <= 0 {
		return domain.Offer{}, apperr.ErrInvalid
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.pendingByBooking[bookingID]; ok {
		return domain.Offer{}, fmt.Errorf("%w: booking %s already has pending offer %s", apperr.ErrConflict, bookingID, id)
	}

	now := m.now()
	o := &domain.Offer{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		CourierID: courierID,
		State:     domain.OfferPending,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	m.byID[o.ID] = o
	m.pendingByBooking[bookingID] = o.ID
	return *o, nil
}

// Get returns a snapshot of an offer by id.
func (m *Manager) Get(offerID string) (domain.Offer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.byID[offerID]
	if !ok {
		return domain.Offer{}, false
	}
	return *o, true
}

// Accept resolves a pending offer as accepted by courierID.
func (m *Manager) Accept(offerID string, courierID int64) (domain.Offer, error) {
	return m.resolve(offerID, courierID, domain.OfferAccepted)
}

// Decline resolves a pending offer as declined by courierID.
func (m *Manager) Decline(offerID string, courierID int64) (domain.Offer, error) {
	return m.resolve(offerID, courierID, domain.OfferDeclined)
}

func (m *Manager) resolve(offerID string, courierID int64, to domain.OfferState) (domain.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.byID[offerID]
	if !ok {
		return domain.Offer{}, fmt.Errorf("%w: offer %s", apperr.ErrNotFound, offerID)
	}
	if o.CourierID != courierID {
		return domain.Offer{}, fmt.Errorf("%w: offer %s does not belong to courier %d", apperr.ErrInvalid, offerID, courierID)
	}
	if o.State != domain.OfferPending {
		return domain.Offer{}, fmt.Errorf("%w: offer %s already %s", apperr.ErrConflict, offerID, o.State)
	}
	if to == domain.OfferAccepted && o.ExpiredAt(m.now()) {
		m.retire(o, domain.OfferExpired)
		return domain.Offer{}, fmt.Errorf("%w: offer %s expired", apperr.ErrConflict, offerID)
	}

	m.retire(o, to)
	return *o, nil
}

// Expire marks a pending offer expired. It reports false when the offer is
// unknown or already resolved, so a late timer is a harmless no-op.
func (m *Manager) Expire(offerID string) (domain.Offer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.byID[offerID]
	if !ok || o.State != domain.OfferPending {
		return domain.Offer{}, false
	}
	m.retire(o, domain.OfferExpired)
	return *o, true
}

// CancelPending expires whatever offer is pending for the booking, if any.
// Used when the job is cancelled or the search deadline fires while an offer
// is outstanding: the offer becomes moot and any late response is rejected.
func (m *Manager) CancelPending(bookingID string) (domain.Offer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.pendingByBooking[bookingID]
	if !ok {
		return domain.Offer{}, false
	}
	o := m.byID[id]
	m.retire(o, domain.OfferExpired)
	return *o, true
}

// retire moves the offer to a terminal state and frees the booking for a new
// offer. The offer itself stays in byID so late responses are rejected with
// its terminal state; the oldest retired offers are evicted past retiredCap.
// Callers hold m.mu.
func (m *Manager) retire(o *domain.Offer, to domain.OfferState) {
	o.State = to
	delete(m.pendingByBooking, o.BookingID)

	m.retired = append(m.retired, o.ID)
	for len(m.retired) > m.retiredCap {
		delete(m.byID, m.retired[0])
		m.retired = m.retired[1:]
	}
}
