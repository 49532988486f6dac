package hazard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/geomath"
)

var hostPosition = geomath.LatLon{Latitude: 17.5941, Longitude: 78.1252}

func point(latitude float64, longitude float64) geomath.GeoPoint {
	return geomath.FromLatLon(geomath.LatLon{Latitude: latitude, Longitude: longitude}, geomath.TenthMicroDegree)
}

func host(heading float64, speed float64) denm.VehicleState {
	return denm.VehicleState{
		StationID: "host",
		Position:  point(hostPosition.Latitude, hostPosition.Longitude),
		Heading:   heading,
		Speed:     speed,
	}
}

// alertAt places an alert at an offset in degrees from the host position
func alertAt(deltaLatitude float64, deltaLongitude float64, heading float64) denm.AlertEvent {
	return denm.AlertEvent{
		ActionID: denm.ActionID{OriginatingStationID: "peer", SequenceNumber: 1},
		Position: point(hostPosition.Latitude+deltaLatitude, hostPosition.Longitude+deltaLongitude),
		Heading:  heading,
	}
}

func emergencyConfig() Config {
	return Config{
		Metric:        MetricDistance,
		Tiers:         DistanceTiers(50, 200, 400),
		BearingWindow: 30,
		ForwardOnly:   true,
		Opposite:      &OppositeConfig{HeadingWindow: 30, MinDelta: 155, MaxDelta: 205},
	}
}

func collisionConfig() Config {
	return Config{
		Metric:        MetricTimeToCollision,
		Tiers:         DistanceTiers(3, 5, 9),
		BearingWindow: 20,
		ForwardOnly:   true,
	}
}

func newClassifier(t *testing.T, config Config, options ...Option) *Classifier {
	classifier, err := NewClassifier(config, options...)
	require.NoError(t, err)
	return classifier
}

func TestClassifyAlignedAhead(t *testing.T) {
	classifier := newClassifier(t, emergencyConfig())

	geometry, decision := classifier.Classify(host(0, 10), alertAt(0.001, 0, 0), geomath.TenthMicroDegree)

	assert.InDelta(t, 111.19, geometry.DistanceMeters, 0.1)
	assert.InDelta(t, 0, geometry.BearingDegrees, 1e-9)
	assert.True(t, decision.Triggered)
	assert.Equal(t, denm.HazardLevel1, decision.Level)
	assert.Equal(t, denm.BranchAligned, decision.Branch)
}

func TestClassifyAlertBehind(t *testing.T) {
	classifier := newClassifier(t, emergencyConfig())

	_, decision := classifier.Classify(host(180, 10), alertAt(0.001, 0, 0), geomath.TenthMicroDegree)

	assert.False(t, decision.Triggered)
	assert.Equal(t, denm.HazardLevelNone, decision.Level)
	assert.Equal(t, denm.BranchNone, decision.Branch)
}

func TestClassifyDistanceTiers(t *testing.T) {
	tests := []struct {
		name          string
		deltaLatitude float64
		hostHeading   float64
		level         denm.HazardLevel
		branch        denm.Branch
	}{
		{"coincident", 0, 90, denm.HazardLevel0, denm.BranchProximity},
		{"proximity ignores bearing", 0.0003, 180, denm.HazardLevel0, denm.BranchProximity},
		{"level1", 0.001, 0, denm.HazardLevel1, denm.BranchAligned},
		{"level2", 0.003, 0, denm.HazardLevel2, denm.BranchAligned},
		{"beyond tiers", 0.005, 0, denm.HazardLevelNone, denm.BranchNone},
		{"beyond tiers outside window", 0.005, 90, denm.HazardLevelNone, denm.BranchNone},
	}

	classifier := newClassifier(t, emergencyConfig())

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, decision := classifier.Classify(host(test.hostHeading, 10), alertAt(test.deltaLatitude, 0, 90), geomath.TenthMicroDegree)

			assert.Equal(t, test.level, decision.Level)
			assert.Equal(t, test.branch, decision.Branch)
			assert.Equal(t, test.level != denm.HazardLevelNone, decision.Triggered)
		})
	}
}

func TestClassifyForwardOnly(t *testing.T) {
	classifier := newClassifier(t, emergencyConfig())

	// Slightly west of north, within the bearing window but on the negative side
	geometry, decision := classifier.Classify(host(0, 10), alertAt(0.002, -0.0005, 0), geomath.TenthMicroDegree)

	assert.Less(t, geometry.HeadingDelta, 30.0)
	assert.Less(t, geometry.SignedBearing, 0.0)
	assert.False(t, decision.Triggered)
}

func TestClassifyOpposite(t *testing.T) {
	classifier := newClassifier(t, emergencyConfig())

	// Same direction of travel, alert coming up from behind
	_, decision := classifier.Classify(host(0, 10), alertAt(-0.001, 0, 0), geomath.TenthMicroDegree)

	assert.True(t, decision.Triggered)
	assert.Equal(t, denm.HazardLevel1, decision.Level)
	assert.Equal(t, denm.BranchOpposite, decision.Branch)

	// Alert heading the other way is not matched
	_, decision = classifier.Classify(host(0, 10), alertAt(-0.001, 0, 180), geomath.TenthMicroDegree)
	assert.False(t, decision.Triggered)
}

func TestClassifyProximityRequiresForward(t *testing.T) {
	config := Config{
		Metric:                   MetricDistance,
		Tiers:                    DistanceTiers(50, 200, 400),
		BearingWindow:            45,
		ForwardOnly:              true,
		ProximityRequiresForward: true,
	}
	classifier := newClassifier(t, config)

	// 30m to the west
	_, decision := classifier.Classify(host(270, 5), alertAt(0, -0.000283, 0), geomath.TenthMicroDegree)
	assert.False(t, decision.Triggered)

	// 30m to the east
	_, decision = classifier.Classify(host(270, 5), alertAt(0, 0.000283, 0), geomath.TenthMicroDegree)
	assert.True(t, decision.Triggered)
	assert.Equal(t, denm.HazardLevel0, decision.Level)
}

func TestClassifyIgnoreBearing(t *testing.T) {
	config := Config{
		Metric:        MetricDistance,
		Tiers:         DistanceTiers(50, 200, 500),
		IgnoreBearing: true,
	}
	classifier := newClassifier(t, config)

	_, decision := classifier.Classify(host(0, 5), alertAt(-0.003, 0, 0), geomath.TenthMicroDegree)
	assert.True(t, decision.Triggered)
	assert.Equal(t, denm.HazardLevel2, decision.Level)

	_, decision = classifier.Classify(host(0, 5), alertAt(-0.005, 0, 0), geomath.TenthMicroDegree)
	assert.False(t, decision.Triggered)
}

func TestTimeToCollisionBoundary(t *testing.T) {
	classifier := newClassifier(t, collisionConfig())

	atBoundary := denm.RelativeGeometry{
		DistanceMeters:  30,
		TimeToCollision: 3,
	}

	// Exactly three seconds is not Level0, the aligned branch picks it up
	decision := classifier.Evaluate(0, atBoundary)
	assert.True(t, decision.Triggered)
	assert.Equal(t, denm.HazardLevel1, decision.Level)
	assert.Equal(t, denm.BranchAligned, decision.Branch)

	misaligned := atBoundary
	misaligned.BearingDegrees = 45
	misaligned.SignedBearing = 45
	misaligned.HeadingDelta = 45
	decision = classifier.Evaluate(0, misaligned)
	assert.False(t, decision.Triggered)

	justInside := misaligned
	justInside.TimeToCollision = 2.99
	decision = classifier.Evaluate(0, justInside)
	assert.Equal(t, denm.HazardLevel0, decision.Level)
	assert.Equal(t, denm.BranchProximity, decision.Branch)
}

func TestTimeToCollisionStationaryHost(t *testing.T) {
	classifier := newClassifier(t, collisionConfig())

	geometry, decision := classifier.Classify(host(0, 0), alertAt(0.0001, 0, 0), geomath.TenthMicroDegree)

	assert.True(t, math.IsNaN(geometry.TimeToCollision))
	assert.False(t, decision.Triggered)
}

func TestTimeToCollisionMoving(t *testing.T) {
	classifier := newClassifier(t, collisionConfig())

	geometry, decision := classifier.Classify(host(0, 20), alertAt(0.001, 0, 0), geomath.TenthMicroDegree)

	assert.InDelta(t, 5.56, geometry.TimeToCollision, 0.01)
	assert.Equal(t, denm.HazardLevel2, decision.Level)
}

func TestClassifyInvalidInput(t *testing.T) {
	classifier := newClassifier(t, emergencyConfig())

	invalidHost := host(0, 10)
	invalidHost.Position = point(95, 0)

	_, decision := classifier.Classify(invalidHost, alertAt(0.001, 0, 0), geomath.TenthMicroDegree)
	assert.False(t, decision.Triggered)

	// Same values read with the wrong precision are out of range
	_, decision = classifier.Classify(host(0, 10), alertAt(0.001, 0, 0), geomath.MicroDegree)
	assert.False(t, decision.Triggered)
}

func TestConfigValidate(t *testing.T) {
	valid := emergencyConfig()
	assert.NoError(t, valid.Validate())

	unordered := emergencyConfig()
	unordered.Tiers = DistanceTiers(200, 50, 400)
	assert.ErrorIs(t, unordered.Validate(), ErrInvalidConfig)

	unknownMetric := emergencyConfig()
	unknownMetric.Metric = "speed"
	assert.ErrorIs(t, unknownMetric.Validate(), ErrInvalidConfig)

	noWindow := emergencyConfig()
	noWindow.BearingWindow = 0
	assert.ErrorIs(t, noWindow.Validate(), ErrInvalidConfig)

	hold := emergencyConfig()
	hold.Latch = LatchConfig{Mode: LatchHold}
	assert.ErrorIs(t, hold.Validate(), ErrInvalidConfig)

	_, err := NewClassifier(hold)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLatchPerCall(t *testing.T) {
	classifier := newClassifier(t, emergencyConfig())

	for i := 0; i < 3; i++ {
		_, decision := classifier.Classify(host(0, 10), alertAt(0.001, 0, 0), geomath.TenthMicroDegree)
		assert.True(t, decision.Triggered)
		assert.False(t, decision.Suppressed)
	}
}

func TestLatchHold(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	config := emergencyConfig()
	config.Latch = LatchConfig{Mode: LatchHold, HoldFor: 5 * time.Second}

	classifier := newClassifier(t, config, WithClock(func() time.Time { return now }))

	level1 := alertAt(0.001, 0, 0)
	level0 := alertAt(0.0002, 0, 0)

	_, decision := classifier.Classify(host(0, 10), level1, geomath.TenthMicroDegree)
	assert.True(t, decision.Triggered)

	now = now.Add(time.Second)
	_, decision = classifier.Classify(host(0, 10), level1, geomath.TenthMicroDegree)
	assert.False(t, decision.Triggered)
	assert.True(t, decision.Suppressed)
	assert.Equal(t, denm.HazardLevel1, decision.Level)

	// Escalation always passes
	_, decision = classifier.Classify(host(0, 10), level0, geomath.TenthMicroDegree)
	assert.True(t, decision.Triggered)
	assert.Equal(t, denm.HazardLevel0, decision.Level)

	// A different originator is not affected
	other := level1
	other.ActionID.OriginatingStationID = "another"
	_, decision = classifier.Classify(host(0, 10), other, geomath.TenthMicroDegree)
	assert.True(t, decision.Triggered)

	now = now.Add(6 * time.Second)
	_, decision = classifier.Classify(host(0, 10), level1, geomath.TenthMicroDegree)
	assert.True(t, decision.Triggered)
}
