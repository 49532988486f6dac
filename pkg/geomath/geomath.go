package geomath

import (
	"math"
)

// Mean earth radius used for all great-circle calculations
const EarthRadiusMeters = 6371000.0

// LatLon is a position in floating point degrees
type LatLon struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

func (l LatLon) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) || math.IsInf(l.Latitude, 0) || math.IsInf(l.Longitude, 0) {
		return false
	}

	return math.Abs(l.Latitude) <= 90 && math.Abs(l.Longitude) <= 180
}

func ToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func ToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// HaversineDistance returns the great-circle distance in meters between two positions.
// Invalid positions give NaN.
func HaversineDistance(from LatLon, to LatLon) float64 {
	if !from.Valid() || !to.Valid() {
		return math.NaN()
	}

	lat1 := ToRadians(from.Latitude)
	lat2 := ToRadians(to.Latitude)
	deltaLat := ToRadians(math.Abs(to.Latitude - from.Latitude))
	deltaLon := ToRadians(math.Abs(to.Longitude - from.Longitude))

	sinLat := math.Sin(deltaLat / 2)
	sinLon := math.Sin(deltaLon / 2)

	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(a))
}

// SignedBearing returns the initial bearing from one position to another in (-180, 180],
// clockwise from north. Identical positions give 0.
func SignedBearing(from LatLon, to LatLon) float64 {
	if !from.Valid() || !to.Valid() {
		return math.NaN()
	}

	lat1 := ToRadians(from.Latitude)
	lat2 := ToRadians(to.Latitude)
	deltaLon := ToRadians(to.Longitude - from.Longitude)

	y := math.Sin(deltaLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(deltaLon)

	return ToDegrees(math.Atan2(y, x))
}

// InitialBearing is SignedBearing normalised to [0, 360)
func InitialBearing(from LatLon, to LatLon) float64 {
	return NormaliseHeading(SignedBearing(from, to))
}

func NormaliseHeading(degrees float64) float64 {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return math.NaN()
	}

	normalised := math.Mod(degrees, 360)
	if normalised < 0 {
		normalised += 360
	}
	if normalised == 360 {
		normalised = 0
	}

	return normalised
}

// AngularDifference is the smallest angle between two headings, in [0, 180]
func AngularDifference(a float64, b float64) float64 {
	diff := math.Abs(NormaliseHeading(a) - NormaliseHeading(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
