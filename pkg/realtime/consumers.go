package realtime

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/denm"
)

// decodeBatch rejects every delivery that does not decode and returns the rest
func decodeBatch[T any](queueName string, batch rmq.Deliveries) ([]T, rmq.Deliveries) {
	var values []T
	var accepted rmq.Deliveries

	for _, delivery := range batch {
		var value T
		if err := json.Unmarshal([]byte(delivery.Payload()), &value); err != nil {
			log.Error().Err(err).Str("queue", queueName).Msg("Failed to decode payload")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Str("queue", queueName).Msg("Failed to reject payload")
			}
			continue
		}

		values = append(values, value)
		accepted = append(accepted, delivery)
	}

	return values, accepted
}

func ackBatch(queueName string, batch rmq.Deliveries) {
	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Str("queue", queueName).Msg("Failed to ack payload")
		}
	}
}

type AlertBatchConsumer struct {
	service *Service
}

func NewAlertBatchConsumer(service *Service) *AlertBatchConsumer {
	return &AlertBatchConsumer{service: service}
}

func (c *AlertBatchConsumer) Consume(batch rmq.Deliveries) {
	alerts, accepted := decodeBatch[ReceivedAlert](ReceivedAlertsQueue, batch)

	c.service.HandleAlerts(context.Background(), alerts)

	ackBatch(ReceivedAlertsQueue, accepted)
}

type TelemetryBatchConsumer struct {
	service *Service
}

func NewTelemetryBatchConsumer(service *Service) *TelemetryBatchConsumer {
	return &TelemetryBatchConsumer{service: service}
}

func (c *TelemetryBatchConsumer) Consume(batch rmq.Deliveries) {
	states, accepted := decodeBatch[denm.VehicleState](TelemetryQueue, batch)

	c.service.HandleTelemetry(context.Background(), states)

	ackBatch(TelemetryQueue, accepted)
}

type SignalBatchConsumer struct {
	service *Service
}

func NewSignalBatchConsumer(service *Service) *SignalBatchConsumer {
	return &SignalBatchConsumer{service: service}
}

func (c *SignalBatchConsumer) Consume(batch rmq.Deliveries) {
	signals, accepted := decodeBatch[ScenarioSignal](ScenarioQueue, batch)

	c.service.HandleSignals(context.Background(), signals)

	ackBatch(ScenarioQueue, accepted)
}
