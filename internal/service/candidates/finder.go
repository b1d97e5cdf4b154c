package candidates

import (
	"context"
	"fmt"
	"sort"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// Finder selects and ranks couriers near a pickup point. It is read-only and
// stateless between calls; concurrent use for different bookings needs no
// extra locking.
type Finder struct {
	locations locationIndex
	couriers  courierSource
}

// NewFinder creates a new Finder.
func NewFinder(locations locationIndex, couriers courierSource) *Finder {
	return &Finder{locations: locations, couriers: couriers}
}

// FindCandidates returns online, active, idle couriers holding a verified
// transport of type t within radiusKm of pickup, annotated with distance and
// composite score and sorted best-first. Couriers in exclude are skipped.
// An empty result is not an error.
func (f *Finder) FindCandidates(
	ctx context.Context,
	pickup domain.Point,
	t domain.CourierTransportType,
	radiusKm float64,
	exclude map[int64]struct{},
) ([]domain.CandidateScore, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", apperr.ErrInvalid)
	}
	if !pickup.Valid() {
		return nil, fmt.Errorf("%w: bad pickup point", apperr.ErrInvalid)
	}
	if !t.Valid() {
		// unknown transport type matches no courier
		return nil, nil
	}

	nearby, err := f.locations.Nearby(ctx, pickup, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("location index: %w", err)
	}

	positions := make(map[int64]domain.Point, len(nearby))
	ids := make([]int64, 0, len(nearby))
	for _, n := range nearby {
		if _, tried := exclude[n.CourierID]; tried {
			continue
		}
		positions[n.CourierID] = n.Location
		ids = append(ids, n.CourierID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	eligible, err := f.couriers.EligibleByIDs(ctx, ids, t)
	if err != nil {
		return nil, fmt.Errorf("courier storage: %w", err)
	}

	scored := make([]domain.CandidateScore, 0, len(eligible))
	for _, c := range eligible {
		pos, ok := positions[c.ID]
		if !ok {
			continue
		}
		// the geo index is a pre-filter; admission uses the true
		// great-circle distance
		d := domain.HaversineKm(pickup, pos)
		if d > radiusKm {
			continue
		}
		loc := pos
		c.Location = &loc
		scored = append(scored, domain.CandidateScore{
			Courier:    c,
			DistanceKm: d,
			Score:      Score(d, radiusKm, c.Rating, c.CompletedDeliveries),
		})
	}

	sortCandidates(scored)
	return scored, nil
}

// sortCandidates orders by score descending, then by distance ascending, then
// by courier id so results are deterministic.
func sortCandidates(cs []domain.CandidateScore) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Score != cs[j].Score {
			return cs[i].Score > cs[j].Score
		}
		if cs[i].DistanceKm != cs[j].DistanceKm {
			return cs[i].DistanceKm < cs[j].DistanceKm
		}
		return cs[i].Courier.ID < cs[j].Courier.ID
	})
}
