package usecase

import (
	"time"

	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/geomath"
	"github.com/travigo/denmhazard/pkg/hazard"
)

const (
	defaultRelevanceRadius = 500.0
	defaultLifetime        = 2 * time.Second
	defaultValidity        = 2 * time.Second

	stationarySpeedLimit = 1.0
)

// Road work site broadcast by RWW when no override is configured
var DefaultRoadWorksSite = Site{
	Position: geomath.LatLon{Latitude: 17.594071, Longitude: 78.125249},
	Heading:  18,
}

func baseTransmitter(cause denm.CauseCode, subCause int) *TransmitterConfig {
	return &TransmitterConfig{
		CauseCode:    cause,
		SubCauseCode: subCause,
		Destination: denm.DestinationArea{
			Shape:        denm.DestinationShapeCircle,
			RadiusMeters: defaultRelevanceRadius,
		},
		TrafficClass:              0,
		Lifetime:                  defaultLifetime,
		RelevanceDistance:         denm.RelevanceDistanceLessThan500m,
		RelevanceTrafficDirection: denm.RelevanceAllTrafficDirections,
		ValidityDuration:          defaultValidity,
	}
}

func EmergencyVehicleWarningConfig() Config {
	return Config{
		Name:           EmergencyVehicleWarning,
		Signal:         "EVW",
		RelevantCauses: []denm.CauseCode{denm.CauseCodeEmergencyVehicleApproaching},
		Precision:      geomath.TenthMicroDegree,
		Classifier: &hazard.Config{
			Metric:        hazard.MetricDistance,
			Tiers:         hazard.DistanceTiers(50, 200, 400),
			BearingWindow: 30,
			ForwardOnly:   true,
			Opposite: &hazard.OppositeConfig{
				HeadingWindow: 30,
				MinDelta:      155,
				MaxDelta:      205,
			},
		},
		Transmitter: baseTransmitter(denm.CauseCodeEmergencyVehicleApproaching, denm.SubCauseEmergencyElectronicBrakeEngaged),
	}
}

func ForwardCollisionWarningConfig() Config {
	return Config{
		Name:           ForwardCollisionWarning,
		Signal:         "FCW",
		RelevantCauses: []denm.CauseCode{denm.CauseCodeStationaryVehicle},
		Precision:      geomath.TenthMicroDegree,
		Classifier: &hazard.Config{
			Metric:        hazard.MetricTimeToCollision,
			Tiers:         hazard.DistanceTiers(3, 5, 9),
			BearingWindow: 20,
			ForwardOnly:   true,
		},
	}
}

func RoadWorkWarningConfig() Config {
	transmitter := baseTransmitter(denm.CauseCodeRoadworks, denm.SubCauseCollisionRiskWarningEngaged)
	site := DefaultRoadWorksSite
	transmitter.Site = &site
	transmitter.Destination = denm.DestinationArea{
		Shape:        denm.DestinationShapeRectangle,
		LengthMeters: 500,
		WidthMeters:  20,
	}
	incident := denm.CauseCodeRoadworks
	transmitter.RoadWorks = &denm.RoadWorksContainer{
		LightBarSirenInUse:      true,
		OuterHardShoulderClosed: true,
		SpeedLimitKmh:           20,
		IncidentIndication:      &incident,
		TrafficFlowRule:         denm.TrafficRuleNoPassing,
	}

	return Config{
		Name:           RoadWorkWarning,
		Signal:         "RWW",
		RelevantCauses: []denm.CauseCode{denm.CauseCodeRoadworks},
		Precision:      geomath.TenthMicroDegree,
		Classifier: &hazard.Config{
			Metric:                   hazard.MetricDistance,
			Tiers:                    hazard.DistanceTiers(50, 200, 400),
			BearingWindow:            45,
			ForwardOnly:              true,
			ProximityRequiresForward: true,
		},
		Transmitter: transmitter,
	}
}

func StationaryVehicleConfig() Config {
	transmitter := baseTransmitter(denm.CauseCodeStationaryVehicle, denm.SubCauseEmergencyElectronicBrakeEngaged)
	maxSpeed := stationarySpeedLimit
	transmitter.MaxHostSpeed = &maxSpeed
	transmitter.StationaryVehicle = &denm.StationaryVehicleContainer{
		StationarySince:       denm.StationarySinceLessThan2Minutes,
		StationaryCause:       denm.CauseCodeStationaryVehicle,
		SubCauseCode:          denm.SubCauseEmergencyElectronicBrakeEngaged,
		VehicleIdentification: denm.NewVehicleIdentification("abc", "efghij"),
	}

	return Config{
		Name:        StationaryVehicle,
		Signal:      "SV",
		Precision:   geomath.TenthMicroDegree,
		Transmitter: transmitter,
	}
}

func DisasterManagementConfig() Config {
	transmitter := baseTransmitter(denm.CauseCodeDisasterManagement, denm.SubCauseLocalAreaEmergency)
	transmitter.StationaryVehicle = &denm.StationaryVehicleContainer{
		StationaryCause:       denm.CauseCodeDisasterManagement,
		SubCauseCode:          denm.SubCauseLocalAreaEmergency,
		VehicleIdentification: denm.NewVehicleIdentification("abcdefghi", "defghi"),
		DangerousGoods:        denm.NewDangerousGoods("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "SOAR ROBOTICS 1234567890"),
	}

	return Config{
		Name:           DisasterManagement,
		Signal:         "DM",
		RelevantCauses: []denm.CauseCode{denm.CauseCodeDisasterManagement},
		Precision:      geomath.TenthMicroDegree,
		Classifier: &hazard.Config{
			Metric:        hazard.MetricDistance,
			Tiers:         hazard.DistanceTiers(50, 200, 500),
			IgnoreBearing: true,
		},
		Transmitter: transmitter,
	}
}

// DefaultConfigs returns fresh copies of every use-case configuration
func DefaultConfigs() []Config {
	return []Config{
		EmergencyVehicleWarningConfig(),
		ForwardCollisionWarningConfig(),
		RoadWorkWarningConfig(),
		StationaryVehicleConfig(),
		DisasterManagementConfig(),
	}
}

func DefaultConfig(name Name) (Config, error) {
	return Find(DefaultConfigs(), name)
}
