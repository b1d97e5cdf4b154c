package courier

import (
	"context"

	"service-dispatch/internal/domain"
)

// Repository is the courier profile persistence used by the service.
type Repository interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	Create(ctx context.Context, c *domain.Courier) (int64, error)
	UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error)
}

// LocationIndex is the live-position index couriers report into.
type LocationIndex interface {
	Update(ctx context.Context, courierID int64, p domain.Point) error
	Remove(ctx context.Context, courierID int64) error
}
