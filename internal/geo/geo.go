// Package geo provides the small amount of geometry needed to find nearby
// listings and disposal centers.
package geo

import "github.com/golang/geo/s2"

// EarthRadiusKm is the mean Earth radius used for distance calculations.
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// DistanceKm returns the great-circle distance between a and b on a sphere
// of radius EarthRadiusKm.
func DistanceKm(a, b Point) float64 {
	return a.latLng().Distance(b.latLng()).Radians() * EarthRadiusKm
}

// Within reports whether p lies within radiusKm of origin.
func Within(origin, p Point, radiusKm float64) bool {
	return DistanceKm(origin, p) <= radiusKm
}
