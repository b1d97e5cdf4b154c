package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineKm_ZeroDistance(t *testing.T) {
	t.Parallel()

	p := Point{Lat: 55.7558, Lng: 37.6173}
	require.InDelta(t, 0, HaversineKm(p, p), 1e-9)
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	t.Parallel()

	// Moscow -> Saint Petersburg, roughly 634 km.
	moscow := Point{Lat: 55.7558, Lng: 37.6173}
	spb := Point{Lat: 59.9311, Lng: 30.3609}

	d := HaversineKm(moscow, spb)
	require.InDelta(t, 634, d, 5)
}

func TestHaversineKm_Symmetric(t *testing.T) {
	t.Parallel()

	a := Point{Lat: 40.7128, Lng: -74.0060}
	b := Point{Lat: 51.5074, Lng: -0.1278}
	require.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 1e-9)
}

func TestPoint_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, Point{Lat: 0, Lng: 0}.Valid())
	require.True(t, Point{Lat: -90, Lng: 180}.Valid())
	require.False(t, Point{Lat: 91, Lng: 0}.Valid())
	require.False(t, Point{Lat: 0, Lng: -181}.Valid())
}
