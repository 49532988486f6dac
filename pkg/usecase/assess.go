package usecase

import (
	"errors"

	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/geomath"
	"github.com/travigo/denmhazard/pkg/hazard"
)

var ErrNotReceiver = errors.New("use-case does not classify received alerts")

// Position is a plain degrees position with motion, used for one-off assessments
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Heading   float64 `json:"heading"`
	Speed     float64 `json:"speed"`
}

type Assessment struct {
	UseCase  Name                  `json:"use_case"`
	Geometry denm.RelativeGeometry `json:"geometry"`
	Decision denm.HazardDecision   `json:"decision"`
}

// Find returns the configuration named name from configs
func Find(configs []Config, name Name) (Config, error) {
	for _, config := range configs {
		if config.Name == name {
			return config, nil
		}
	}

	return Config{}, ErrUnknownUseCase
}

// Assess classifies a single alert for a host with a fresh classifier, so no latch state carries over
func Assess(config Config, host Position, alert Position) (Assessment, error) {
	if config.Classifier == nil {
		return Assessment{}, ErrNotReceiver
	}

	classifier, err := hazard.NewClassifier(*config.Classifier)
	if err != nil {
		return Assessment{}, err
	}

	var cause denm.CauseCode
	if len(config.RelevantCauses) > 0 {
		cause = config.RelevantCauses[0]
	}

	hostState := denm.VehicleState{
		StationID: "assess-host",
		Position:  geomath.FromLatLon(geomath.LatLon{Latitude: host.Latitude, Longitude: host.Longitude}, config.Precision),
		Heading:   host.Heading,
		Speed:     host.Speed,
	}
	alertEvent := denm.AlertEvent{
		ActionID:  denm.ActionID{OriginatingStationID: "assess-alert"},
		Position:  geomath.FromLatLon(geomath.LatLon{Latitude: alert.Latitude, Longitude: alert.Longitude}, config.Precision),
		Heading:   alert.Heading,
		CauseCode: cause,
	}

	geometry, decision := classifier.Classify(hostState, alertEvent, config.Precision)

	return Assessment{
		UseCase:  config.Name,
		Geometry: geometry,
		Decision: decision,
	}, nil
}
