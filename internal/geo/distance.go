// Package geo holds great-circle helpers for catalog search.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between two points
// given in degrees. Inputs are not range-checked.
func Haversine(lonA, latA, lonB, latB float64) float64 {
	lonA, latA, lonB, latB = radians(lonA), radians(latA), radians(lonB), radians(latB)

	dLon := lonB - lonA
	dLat := latB - latA
	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(latA)*math.Cos(latB)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return EarthRadiusKm * c
}

// ValidCoordinates reports whether lat is in [-90, 90] and lon in [-180, 180].
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
