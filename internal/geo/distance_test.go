package geo

import (
	"testing"

	"bloodlink-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	points := []domain.Coordinate{
		{Lon: 0, Lat: 0},
		{Lon: -73.97, Lat: 40.78},
		{Lon: 180, Lat: -90},
	}
	for _, p := range points {
		assert.Zero(t, DistanceKm(p, p))
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	a := domain.Coordinate{Lon: 4.9, Lat: 52.37}  // Amsterdam
	b := domain.Coordinate{Lon: 13.4, Lat: 52.52} // Berlin
	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
}

func TestDistanceKm_OneDegreeOfLatitude(t *testing.T) {
	a := domain.Coordinate{Lon: 0, Lat: 0}
	b := domain.Coordinate{Lon: 0, Lat: 1}
	assert.InDelta(t, 111.2, DistanceKm(a, b), 0.5)
}

func TestInRange_InclusiveBoundary(t *testing.T) {
	a := domain.Coordinate{Lon: 0, Lat: 0}
	b := domain.Coordinate{Lon: 0, Lat: 1}
	d := DistanceKm(a, b)

	assert.True(t, InRange(a, b, d))
	assert.True(t, InRange(a, b, d+1))
	assert.False(t, InRange(a, b, d-1))
}

func TestRoundKm(t *testing.T) {
	cases := []struct {
		in, out float64
	}{
		{0, 0},
		{5.04, 5.0},
		{5.05, 5.1},
		{111.19492664455873, 111.2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, RoundKm(tc.in))
	}
}
