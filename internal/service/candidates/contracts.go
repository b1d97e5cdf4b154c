package candidates

import (
	"context"

	"service-dispatch/internal/domain"
)

// locationIndex abstracts the courier geo index queried for nearby couriers.
type locationIndex interface {
	Nearby(ctx context.Context, p domain.Point, radiusKm float64) ([]domain.NearbyCourier, error)
}

// courierSource abstracts courier profile storage. EligibleByIDs applies the
// online/active/transport/not-busy admission filters on the storage side.
type courierSource interface {
	EligibleByIDs(ctx context.Context, ids []int64, t domain.CourierTransportType) ([]domain.Courier, error)
}
