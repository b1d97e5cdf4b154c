package repository

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"service-dispatch/internal/domain"
)

const courierGeoKey = "dispatch:courier_locations"

// LocationStore keeps courier live locations in a Redis GEO set. Courier apps
// report positions frequently, so the hot path stays out of PostgreSQL.
type LocationStore struct {
	redis *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(rdb *redis.Client) *LocationStore {
	return &LocationStore{redis: rdb}
}

// Update records the current position of a courier.
func (s *LocationStore) Update(ctx context.Context, courierID int64, p domain.Point) error {
	return s.redis.GeoAdd(ctx, courierGeoKey, &redis.GeoLocation{
		Name:      memberKey(courierID),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
}

// Remove drops a courier from the index (went offline or location unknown).
func (s *LocationStore) Remove(ctx context.Context, courierID int64) error {
	return s.redis.ZRem(ctx, courierGeoKey, memberKey(courierID)).Err()
}

// Nearby returns couriers within radiusKm of p, closest first, with their
// distance from p and last known position.
func (s *LocationStore) Nearby(ctx context.Context, p domain.Point, radiusKm float64) ([]domain.NearbyCourier, error) {
	results, err := s.redis.GeoSearchLocation(ctx, courierGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.NearbyCourier, 0, len(results))
	for _, r := range results {
		id, err := strconv.ParseInt(r.Name, 10, 64)
		if err != nil {
			// stale or foreign member, skip
			continue
		}
		out = append(out, domain.NearbyCourier{
			CourierID:  id,
			DistanceKm: r.Dist,
			Location:   domain.Point{Lat: r.Latitude, Lng: r.Longitude},
		})
	}
	return out, nil
}

func memberKey(courierID int64) string {
	return strconv.FormatInt(courierID, 10)
}
