package realtime

import (
	"github.com/travigo/denmhazard/pkg/denm"
)

const (
	ReceivedAlertsQueue = "denm-received-queue"
	TelemetryQueue      = "telemetry-queue"
	ScenarioQueue       = "scenario-queue"
	OutboundQueue       = "denm-outbound-queue"
	NotifyQueue         = "notify-queue"
)

// ReceivedAlert is a decoded DENM delivered to one receiving station
type ReceivedAlert struct {
	ReceiverStationID string          `json:"receiver_station_id"`
	Alert             denm.AlertEvent `json:"alert"`
}

// ScenarioSignal asks a station to activate the use-cases listening for Signal
type ScenarioSignal struct {
	StationID string `json:"station_id"`
	Signal    string `json:"signal"`
}
