package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/elastic_client"
)

type DecisionElasticEvent struct {
	Timestamp time.Time

	Kind      string
	UseCase   string
	StationID string

	Level     string
	Branch    string
	Distance  float64
	CauseCode string

	Originator string
}

func decisionEventsIndexName(now time.Time) string {
	yearNumber, weekNumber := now.ISOWeek()
	return fmt.Sprintf("hazard-decision-events-%d-%d", yearNumber, weekNumber)
}

func newDecisionElasticEvent(message denm.OutboundMessage) DecisionElasticEvent {
	event := DecisionElasticEvent{
		Timestamp: message.CreatedAt,
		Kind:      string(message.Kind),
		UseCase:   message.UseCase,
		StationID: message.StationID,
	}

	if message.Decision != nil {
		event.Level = message.Decision.Level.String()
		event.Branch = string(message.Decision.Branch)
	}
	if message.Geometry != nil {
		event.Distance = message.Geometry.DistanceMeters
	}

	alert := message.Alert
	if alert == nil {
		alert = message.Event
	}
	if alert != nil {
		event.CauseCode = alert.CauseCode.String()
		event.Originator = alert.OriginatingStationID()
	}

	return event
}

func indexDecisionEvents(messages []denm.OutboundMessage) {
	for _, message := range messages {
		elasticEvent, err := json.Marshal(newDecisionElasticEvent(message))
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode decision event")
			continue
		}

		elastic_client.IndexRequest(decisionEventsIndexName(message.CreatedAt), bytes.NewReader(elasticEvent))
	}
}
