package candidates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

type mockLocationIndex struct {
	nearbyFn func(ctx context.Context, p domain.Point, radiusKm float64) ([]domain.NearbyCourier, error)
}

func (m *mockLocationIndex) Nearby(ctx context.Context, p domain.Point, radiusKm float64) ([]domain.NearbyCourier, error) {
	return m.nearbyFn(ctx, p, radiusKm)
}

type mockCourierSource struct {
	eligibleFn func(ctx context.Context, ids []int64, t domain.CourierTransportType) ([]domain.Courier, error)
}

func (m *mockCourierSource) EligibleByIDs(ctx context.Context, ids []int64, t domain.CourierTransportType) ([]domain.Courier, error) {
	return m.eligibleFn(ctx, ids, t)
}

var pickup = domain.Point{Lat: 55.7558, Lng: 37.6173}

// nearPickup returns a point approximately km kilometres east of pickup.
func nearPickup(km float64) domain.Point {
	// 1 degree of longitude at 55.75N is about 62.6 km
	return domain.Point{Lat: pickup.Lat, Lng: pickup.Lng + km/62.6}
}

func activeCourier(id int64, rating float64, completed int64) domain.Courier {
	return domain.Courier{
		ID:                  id,
		Name:                "c",
		Status:              domain.StatusActive,
		TransportTypes:      []domain.CourierTransportType{domain.TransportTypeScooter},
		Rating:              rating,
		CompletedDeliveries: completed,
		Online:              true,
	}
}

func TestFindCandidates_InvalidRadius(t *testing.T) {
	t.Parallel()

	f := NewFinder(&mockLocationIndex{}, &mockCourierSource{})
	_, err := f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, 0, nil)
	require.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, -3, nil)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestFindCandidates_UnknownTransportTypeEmpty(t *testing.T) {
	t.Parallel()

	f := NewFinder(&mockLocationIndex{}, &mockCourierSource{})
	got, err := f.FindCandidates(context.Background(), pickup, "hovercraft", 5, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindCandidates_EmptyIndexIsNotAnError(t *testing.T) {
	t.Parallel()

	idx := &mockLocationIndex{nearbyFn: func(context.Context, domain.Point, float64) ([]domain.NearbyCourier, error) {
		return nil, nil
	}}
	f := NewFinder(idx, &mockCourierSource{})

	got, err := f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, 5, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindCandidates_ExcludesTriedCouriers(t *testing.T) {
	t.Parallel()

	idx := &mockLocationIndex{nearbyFn: func(context.Context, domain.Point, float64) ([]domain.NearbyCourier, error) {
		return []domain.NearbyCourier{
			{CourierID: 1, DistanceKm: 1, Location: nearPickup(1)},
			{CourierID: 2, DistanceKm: 2, Location: nearPickup(2)},
		}, nil
	}}
	var requested []int64
	src := &mockCourierSource{eligibleFn: func(_ context.Context, ids []int64, _ domain.CourierTransportType) ([]domain.Courier, error) {
		requested = ids
		return []domain.Courier{activeCourier(2, 4, 10)}, nil
	}}
	f := NewFinder(idx, src)

	got, err := f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, 5,
		map[int64]struct{}{1: {}})
	require.NoError(t, err)
	require.Equal(t, []int64{2}, requested)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].Courier.ID)
}

func TestFindCandidates_AdmissionUsesTrueDistance(t *testing.T) {
	t.Parallel()

	// the index may return borderline hits; anything past the radius by
	// haversine must be dropped
	idx := &mockLocationIndex{nearbyFn: func(context.Context, domain.Point, float64) ([]domain.NearbyCourier, error) {
		return []domain.NearbyCourier{
			{CourierID: 1, DistanceKm: 4, Location: nearPickup(4)},
			{CourierID: 2, DistanceKm: 5.8, Location: nearPickup(5.8)},
		}, nil
	}}
	src := &mockCourierSource{eligibleFn: func(_ context.Context, ids []int64, _ domain.CourierTransportType) ([]domain.Courier, error) {
		out := make([]domain.Courier, 0, len(ids))
		for _, id := range ids {
			out = append(out, activeCourier(id, 4, 10))
		}
		return out, nil
	}}
	f := NewFinder(idx, src)

	got, err := f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, 5, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].Courier.ID)
	require.InDelta(t, 4, got[0].DistanceKm, 0.1)
}

func TestFindCandidates_SortedBestFirstWithDeterministicTies(t *testing.T) {
	t.Parallel()

	idx := &mockLocationIndex{nearbyFn: func(context.Context, domain.Point, float64) ([]domain.NearbyCourier, error) {
		return []domain.NearbyCourier{
			{CourierID: 1, Location: nearPickup(3)},
			{CourierID: 2, Location: nearPickup(1)},
			{CourierID: 3, Location: nearPickup(1)},
			{CourierID: 4, Location: nearPickup(1)},
		}, nil
	}}
	src := &mockCourierSource{eligibleFn: func(_ context.Context, ids []int64, _ domain.CourierTransportType) ([]domain.Courier, error) {
		return []domain.Courier{
			activeCourier(1, 5, 100), // far but top rated
			activeCourier(2, 3, 10),
			activeCourier(3, 3, 10), // identical to 2 except id
			activeCourier(4, 5, 10),
		}, nil
	}}
	f := NewFinder(idx, src)

	got, err := f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, 5, nil)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// best score first
	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	// couriers 2 and 3 are exact ties: lower id wins
	pos2, pos3 := -1, -1
	for i, c := range got {
		switch c.Courier.ID {
		case 2:
			pos2 = i
		case 3:
			pos3 = i
		}
	}
	require.Less(t, pos2, pos3)
	// the closest top-rated courier beats the far top-rated one
	require.Equal(t, int64(4), got[0].Courier.ID)
}

func TestFindCandidates_IndexError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("redis down")
	idx := &mockLocationIndex{nearbyFn: func(context.Context, domain.Point, float64) ([]domain.NearbyCourier, error) {
		return nil, sentinel
	}}
	f := NewFinder(idx, &mockCourierSource{})

	_, err := f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, 5, nil)
	require.ErrorIs(t, err, sentinel)
}

func TestFindCandidates_AllExcludedSkipsStorage(t *testing.T) {
	t.Parallel()

	idx := &mockLocationIndex{nearbyFn: func(context.Context, domain.Point, float64) ([]domain.NearbyCourier, error) {
		return []domain.NearbyCourier{{CourierID: 7, Location: nearPickup(1)}}, nil
	}}
	src := &mockCourierSource{eligibleFn: func(context.Context, []int64, domain.CourierTransportType) ([]domain.Courier, error) {
		t.Fatal("storage must not be queried when every hit is excluded")
		return nil, nil
	}}
	f := NewFinder(idx, src)

	got, err := f.FindCandidates(context.Background(), pickup, domain.TransportTypeScooter, 5,
		map[int64]struct{}{7: {}})
	require.NoError(t, err)
	require.Empty(t, got)
}
