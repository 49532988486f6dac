package geomath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRadians(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, ToRadians(0))
	assert.InDelta(math.Pi, ToRadians(180), 1e-12)
	assert.InDelta(-math.Pi/2, ToRadians(-90), 1e-12)
	assert.InDelta(90.0, ToDegrees(ToRadians(90)), 1e-12)
}

func TestHaversineDistance(t *testing.T) {
	assert := assert.New(t)

	host := LatLon{Latitude: 17.5941, Longitude: 78.1252}
	alert := LatLon{Latitude: 17.5951, Longitude: 78.1252}

	assert.Equal(0.0, HaversineDistance(host, host))
	assert.InDelta(111.19, HaversineDistance(host, alert), 0.05)
	assert.Equal(HaversineDistance(host, alert), HaversineDistance(alert, host))

	london := LatLon{Latitude: 51.5074, Longitude: -0.1278}
	paris := LatLon{Latitude: 48.8566, Longitude: 2.3522}
	assert.InDelta(343_500, HaversineDistance(london, paris), 1000)

	// Antipodal points must not produce NaN from rounding
	assert.InDelta(math.Pi*EarthRadiusMeters, HaversineDistance(LatLon{0, 0}, LatLon{0, 180}), 1)
}

func TestHaversineDistanceInvalid(t *testing.T) {
	assert := assert.New(t)

	valid := LatLon{Latitude: 10, Longitude: 10}

	assert.True(math.IsNaN(HaversineDistance(valid, LatLon{Latitude: math.NaN(), Longitude: 0})))
	assert.True(math.IsNaN(HaversineDistance(LatLon{Latitude: 91, Longitude: 0}, valid)))
	assert.True(math.IsNaN(HaversineDistance(valid, LatLon{Latitude: 0, Longitude: math.Inf(1)})))
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		name     string
		to       LatLon
		expected float64
		signed   float64
	}{
		{"north", LatLon{Latitude: 1, Longitude: 0}, 0, 0},
		{"east", LatLon{Latitude: 0, Longitude: 1}, 90, 90},
		{"south", LatLon{Latitude: -1, Longitude: 0}, 180, 180},
		{"west", LatLon{Latitude: 0, Longitude: -1}, 270, -90},
	}

	origin := LatLon{}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.expected, InitialBearing(origin, test.to), 1e-9)
			assert.InDelta(t, test.signed, SignedBearing(origin, test.to), 1e-9)
		})
	}
}

func TestInitialBearingIdenticalPoints(t *testing.T) {
	point := LatLon{Latitude: 17.5941, Longitude: 78.1252}

	assert.Equal(t, 0.0, InitialBearing(point, point))
	assert.True(t, math.IsNaN(InitialBearing(point, LatLon{Latitude: 100})))
}

func TestAngularDifference(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, AngularDifference(10, 10))
	assert.Equal(20.0, AngularDifference(350, 10))
	assert.Equal(20.0, AngularDifference(10, 350))
	assert.Equal(180.0, AngularDifference(0, 180))
	assert.Equal(90.0, AngularDifference(-45, 45))
	assert.Equal(0.0, AngularDifference(0, 360))
}

func TestGeoPointPrecision(t *testing.T) {
	assert := assert.New(t)

	point := GeoPoint{Latitude: 175941000, Longitude: 781252000}

	position := point.LatLon(TenthMicroDegree)
	assert.InDelta(17.5941, position.Latitude, 1e-9)
	assert.InDelta(78.1252, position.Longitude, 1e-9)

	position = point.LatLon(MicroDegree)
	assert.InDelta(175.941, position.Latitude, 1e-9)
	assert.False(point.Valid(MicroDegree))
	assert.True(point.Valid(TenthMicroDegree))

	assert.Equal(point, FromLatLon(LatLon{Latitude: 17.5941, Longitude: 78.1252}, TenthMicroDegree))

	assert.False(point.Valid(Precision(0)))
}

func TestFromGridReference(t *testing.T) {
	position, err := FromGridReference("530080,180500")
	require.NoError(t, err)

	assert.InDelta(t, 51.5, position.Latitude, 0.1)
	assert.InDelta(t, -0.12, position.Longitude, 0.1)

	_, err = FromGridReference("not a grid reference")
	assert.Error(t, err)
}
