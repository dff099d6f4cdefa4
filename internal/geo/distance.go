package geo

import (
	"math"

	"bloodlink-backend/internal/domain"
)

// Mean Earth radius in kilometers.
const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two coordinates using
// the haversine formula on a spherical Earth. Symmetric, zero for identical
// points.
func DistanceKm(a, b domain.Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// InRange reports whether b lies within radiusKm of a. The boundary is
// inclusive: a donor exactly at the radius counts as in range.
func InRange(a, b domain.Coordinate, radiusKm float64) bool {
	return DistanceKm(a, b) <= radiusKm
}

// RoundKm rounds a distance to one decimal place for display.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
