package geomath

import (
	"fmt"
	"math"
)

// Precision is the number of fixed point units in one degree
type Precision float64

const (
	MicroDegree      Precision = 1e6
	TenthMicroDegree Precision = 1e7
)

func (p Precision) Valid() bool {
	return p > 0 && !math.IsInf(float64(p), 0) && !math.IsNaN(float64(p))
}

// GeoPoint is a fixed point position. The unit is chosen by the caller through a Precision
// and is never implied by the value itself.
type GeoPoint struct {
	Latitude  int64 `json:"latitude" yaml:"latitude" bson:"latitude" groups:"basic"`
	Longitude int64 `json:"longitude" yaml:"longitude" bson:"longitude" groups:"basic"`
}

func (g GeoPoint) LatLon(precision Precision) LatLon {
	if !precision.Valid() {
		return LatLon{Latitude: math.NaN(), Longitude: math.NaN()}
	}

	return LatLon{
		Latitude:  float64(g.Latitude) / float64(precision),
		Longitude: float64(g.Longitude) / float64(precision),
	}
}

func (g GeoPoint) Valid(precision Precision) bool {
	return g.LatLon(precision).Valid()
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("%d,%d", g.Latitude, g.Longitude)
}

func FromLatLon(l LatLon, precision Precision) GeoPoint {
	return GeoPoint{
		Latitude:  int64(math.Round(l.Latitude * float64(precision))),
		Longitude: int64(math.Round(l.Longitude * float64(precision))),
	}
}
