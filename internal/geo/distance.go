package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used for great-circle distances.
	EarthRadiusKm = 6371.0

	degToRad = math.Pi / 180
)

// Point is a WGS84 position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within latitude/longitude bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Distance returns the great-circle distance between a and b in kilometers
// using the Haversine formula. Inputs are not bounds checked.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 near antipodes.
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// EstimateFlightMinutes returns the flight time in whole minutes (rounded up,
// at least 1) for a distance flown at the given speed. Returns 0 when the
// speed is not positive.
func EstimateFlightMinutes(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		return 0
	}

	minutes := int(math.Ceil(distanceKm / speedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
