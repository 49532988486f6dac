package usecase

import (
	"time"

	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/geomath"
)

func buildBroadcast(transmitter *TransmitterConfig, host denm.VehicleState, precision geomath.Precision, now time.Time) (denm.AlertEvent, denm.TransmissionRequest) {
	position := host.Position
	heading := host.Heading
	center := host.Position.LatLon(precision)

	if transmitter.Site != nil {
		position = geomath.FromLatLon(transmitter.Site.Position, precision)
		heading = transmitter.Site.Heading
		center = transmitter.Site.Position
	}

	event := denm.AlertEvent{
		ActionID: denm.ActionID{
			OriginatingStationID: host.StationID,
		},
		Position:         position,
		Heading:          heading,
		CauseCode:        transmitter.CauseCode,
		SubCauseCode:     transmitter.SubCauseCode,
		DetectionTime:    now,
		ValidityDuration: transmitter.ValidityDuration,
	}

	if transmitter.RoadWorks != nil {
		roadWorks := *transmitter.RoadWorks
		event.RoadWorks = &roadWorks
	}

	if transmitter.StationaryVehicle != nil {
		stationary := *transmitter.StationaryVehicle
		event.StationaryVehicle = &stationary
	}

	destination := transmitter.Destination
	destination.Center = center

	request := denm.TransmissionRequest{
		TrafficClass:              transmitter.TrafficClass,
		Lifetime:                  transmitter.Lifetime,
		Destination:               destination,
		RelevanceDistance:         transmitter.RelevanceDistance,
		RelevanceTrafficDirection: transmitter.RelevanceTrafficDirection,
		ValidityDuration:          transmitter.ValidityDuration,
	}

	return event, request
}
