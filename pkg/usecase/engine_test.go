package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/geomath"
)

type fakeTelemetry struct {
	state denm.VehicleState
	err   error
}

func (f *fakeTelemetry) VehicleState() (denm.VehicleState, error) {
	return f.state, f.err
}

var hostPosition = geomath.LatLon{Latitude: 17.5941, Longitude: 78.1252}

func hostTelemetry(heading float64, speed float64) *fakeTelemetry {
	return &fakeTelemetry{
		state: denm.VehicleState{
			StationID: "host",
			Position:  geomath.FromLatLon(hostPosition, geomath.TenthMicroDegree),
			Heading:   heading,
			Speed:     speed,
		},
	}
}

func alert(cause denm.CauseCode, deltaLatitude float64) denm.AlertEvent {
	return denm.AlertEvent{
		ActionID:  denm.ActionID{OriginatingStationID: "peer", SequenceNumber: 4},
		Position:  geomath.FromLatLon(geomath.LatLon{Latitude: hostPosition.Latitude + deltaLatitude, Longitude: hostPosition.Longitude}, geomath.TenthMicroDegree),
		CauseCode: cause,
	}
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newEngine(t *testing.T, config Config, telemetry Telemetry, options ...Option) *Engine {
	engine, err := NewEngine(config, telemetry, options...)
	require.NoError(t, err)
	return engine
}

func TestEmergencyVehicleWarningAhead(t *testing.T) {
	engine := newEngine(t, EmergencyVehicleWarningConfig(), hostTelemetry(0, 10))

	message := engine.OnPeerAlert(alert(denm.CauseCodeEmergencyVehicleApproaching, 0.001))
	require.NotNil(t, message)

	assert.Equal(t, denm.MessageKindWarning, message.Kind)
	assert.Equal(t, "EVW", message.UseCase)
	assert.Equal(t, "host", message.StationID)
	assert.Equal(t, denm.HazardLevel1, message.Decision.Level)
	assert.InDelta(t, 111.19, message.Geometry.DistanceMeters, 0.1)
	assert.Equal(t, "peer", message.Alert.OriginatingStationID())
}

func TestEmergencyVehicleWarningBehind(t *testing.T) {
	engine := newEngine(t, EmergencyVehicleWarningConfig(), hostTelemetry(180, 10))

	assert.Nil(t, engine.OnPeerAlert(alert(denm.CauseCodeEmergencyVehicleApproaching, 0.001)))
}

func TestIrrelevantCauseIsIgnored(t *testing.T) {
	telemetry := hostTelemetry(0, 10)
	engine := newEngine(t, EmergencyVehicleWarningConfig(), telemetry)

	assert.Nil(t, engine.OnPeerAlert(alert(denm.CauseCodeRoadworks, 0)))
	assert.Nil(t, engine.OnPeerAlert(alert(denm.CauseCodeStationaryVehicle, 0)))
}

func TestTelemetryFailure(t *testing.T) {
	telemetry := &fakeTelemetry{err: errors.New("gps lost")}
	engine := newEngine(t, EmergencyVehicleWarningConfig(), telemetry)

	assert.Nil(t, engine.OnPeerAlert(alert(denm.CauseCodeEmergencyVehicleApproaching, 0)))

	engine = newEngine(t, EmergencyVehicleWarningConfig(), nil)
	assert.Nil(t, engine.OnPeerAlert(alert(denm.CauseCodeEmergencyVehicleApproaching, 0)))
}

func TestForwardCollisionWarning(t *testing.T) {
	engine := newEngine(t, ForwardCollisionWarningConfig(), hostTelemetry(0, 20))

	message := engine.OnPeerAlert(alert(denm.CauseCodeStationaryVehicle, 0.001))
	require.NotNil(t, message)
	assert.Equal(t, denm.HazardLevel2, message.Decision.Level)

	stopped := newEngine(t, ForwardCollisionWarningConfig(), hostTelemetry(0, 0))
	assert.Nil(t, stopped.OnPeerAlert(alert(denm.CauseCodeStationaryVehicle, 0.0001)))

	// FCW has no transmitter even when signalled
	assert.True(t, engine.HandleSignal("FCW"))
	assert.Nil(t, engine.OnPeriodicCheck())
}

func TestRoadWorkWarningReceive(t *testing.T) {
	engine := newEngine(t, RoadWorkWarningConfig(), hostTelemetry(0, 10))

	message := engine.OnPeerAlert(alert(denm.CauseCodeRoadworks, 0.003))
	require.NotNil(t, message)
	assert.Equal(t, denm.HazardLevel2, message.Decision.Level)
}

func TestDisasterManagementReceive(t *testing.T) {
	engine := newEngine(t, DisasterManagementConfig(), hostTelemetry(0, 10))

	message := engine.OnPeerAlert(alert(denm.CauseCodeDisasterManagement, -0.001))
	require.NotNil(t, message)
	assert.Equal(t, denm.HazardLevel1, message.Decision.Level)
}

func TestStationaryVehicleNeverReceives(t *testing.T) {
	engine := newEngine(t, StationaryVehicleConfig(), hostTelemetry(0, 0))

	assert.Nil(t, engine.OnPeerAlert(alert(denm.CauseCodeStationaryVehicle, 0)))
}

func TestPeriodicCheckInactive(t *testing.T) {
	for _, config := range DefaultConfigs() {
		engine := newEngine(t, config, hostTelemetry(0, 0))

		assert.False(t, engine.Active(), config.Name)
		assert.Nil(t, engine.OnPeriodicCheck(), config.Name)
	}
}

func TestEmergencyVehicleBroadcast(t *testing.T) {
	engine := newEngine(t, EmergencyVehicleWarningConfig(), hostTelemetry(90, 15), WithClock(fixedClock()))

	assert.False(t, engine.HandleSignal("RWW"))
	assert.True(t, engine.HandleSignal("EVW"))
	assert.True(t, engine.Active())

	message := engine.OnPeriodicCheck()
	require.NotNil(t, message)

	assert.Equal(t, denm.MessageKindBroadcast, message.Kind)
	assert.Equal(t, denm.CauseCodeEmergencyVehicleApproaching, message.Event.CauseCode)
	assert.Equal(t, denm.SubCauseEmergencyElectronicBrakeEngaged, message.Event.SubCauseCode)
	assert.Equal(t, geomath.FromLatLon(hostPosition, geomath.TenthMicroDegree), message.Event.Position)
	assert.Equal(t, 90.0, message.Event.Heading)
	assert.Equal(t, "host", message.Event.OriginatingStationID())

	assert.Equal(t, denm.DestinationShapeCircle, message.Request.Destination.Shape)
	assert.Equal(t, 500.0, message.Request.Destination.RadiusMeters)
	assert.InDelta(t, hostPosition.Latitude, message.Request.Destination.Center.Latitude, 1e-9)
	assert.Equal(t, 2*time.Second, message.Request.Lifetime)
	assert.Equal(t, 2*time.Second, message.Request.ValidityDuration)
	assert.Equal(t, denm.RelevanceDistanceLessThan500m, message.Request.RelevanceDistance)

	// Every tick emits while active
	assert.NotNil(t, engine.OnPeriodicCheck())
}

func TestRoadWorkBroadcastUsesSite(t *testing.T) {
	engine := newEngine(t, RoadWorkWarningConfig(), hostTelemetry(0, 0))
	engine.Activate()

	message := engine.OnPeriodicCheck()
	require.NotNil(t, message)

	assert.Equal(t, geomath.FromLatLon(DefaultRoadWorksSite.Position, geomath.TenthMicroDegree), message.Event.Position)
	assert.Equal(t, int64(175940710), message.Event.Position.Latitude)
	assert.Equal(t, 18.0, message.Event.Heading)
	assert.Equal(t, denm.DestinationShapeRectangle, message.Request.Destination.Shape)
	assert.Equal(t, 500.0, message.Request.Destination.LengthMeters)
	assert.Equal(t, 20.0, message.Request.Destination.WidthMeters)

	require.NotNil(t, message.Event.RoadWorks)
	assert.Equal(t, 20, message.Event.RoadWorks.SpeedLimitKmh)
	assert.True(t, message.Event.RoadWorks.OuterHardShoulderClosed)
	assert.Equal(t, denm.TrafficRuleNoPassing, message.Event.RoadWorks.TrafficFlowRule)
}

func TestStationaryVehiclePrecondition(t *testing.T) {
	telemetry := hostTelemetry(0, 5)
	engine := newEngine(t, StationaryVehicleConfig(), telemetry)
	engine.Activate()

	assert.Nil(t, engine.OnPeriodicCheck())

	telemetry.state.Speed = 0.5
	message := engine.OnPeriodicCheck()
	require.NotNil(t, message)
	require.NotNil(t, message.Event.StationaryVehicle)
	assert.Equal(t, denm.StationarySinceLessThan2Minutes, message.Event.StationaryVehicle.StationarySince)
	assert.Equal(t, "abc", message.Event.StationaryVehicle.VehicleIdentification.WMINumber)
}

func TestDisasterManagementBroadcast(t *testing.T) {
	engine := newEngine(t, DisasterManagementConfig(), hostTelemetry(0, 10))
	engine.Activate()

	message := engine.OnPeriodicCheck()
	require.NotNil(t, message)

	goods := message.Event.StationaryVehicle.DangerousGoods
	require.NotNil(t, goods)
	assert.Equal(t, "ABCDEFGHIJKLMNOPQRSTUVWX", goods.EmergencyActionCode)
	assert.Equal(t, "SOAR ROBOTICS 1234567890", goods.CompanyName)
	assert.Equal(t, "abc", message.Event.StationaryVehicle.VehicleIdentification.WMINumber)
}

func TestGenerationInterval(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	config := EmergencyVehicleWarningConfig()
	config.Transmitter.GenerationInterval = time.Second

	engine := newEngine(t, config, hostTelemetry(0, 10), WithClock(clock))
	engine.Activate()

	assert.NotNil(t, engine.OnPeriodicCheck())

	now = now.Add(500 * time.Millisecond)
	assert.Nil(t, engine.OnPeriodicCheck())

	now = now.Add(500 * time.Millisecond)
	assert.NotNil(t, engine.OnPeriodicCheck())
}

func TestConfigClone(t *testing.T) {
	original := EmergencyVehicleWarningConfig()

	cloned, err := original.Clone()
	require.NoError(t, err)

	cloned.Classifier.Tiers[1].Threshold = 999
	cloned.Transmitter.Destination.RadiusMeters = 10

	assert.Equal(t, 200.0, original.Classifier.Tiers[1].Threshold)
	assert.Equal(t, 500.0, original.Transmitter.Destination.RadiusMeters)
	assert.Equal(t, original.Name, cloned.Name)
}

func TestConfigValidate(t *testing.T) {
	for _, config := range DefaultConfigs() {
		assert.NoError(t, config.Validate(), config.Name)
	}

	broken := EmergencyVehicleWarningConfig()
	broken.Precision = 0
	_, err := NewEngine(broken, nil)
	assert.Error(t, err)

	noCauses := RoadWorkWarningConfig()
	noCauses.RelevantCauses = nil
	assert.Error(t, noCauses.Validate())

	_, err = DefaultConfig("XYZ")
	assert.ErrorIs(t, err, ErrUnknownUseCase)
}
