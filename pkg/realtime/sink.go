package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/denmhazard/pkg/denm"
)

// Sink receives every warning and broadcast the engine produces
type Sink interface {
	Publish(ctx context.Context, messages []denm.OutboundMessage) error
}

// Notifier forwards urgent warnings to the driver
type Notifier interface {
	Notify(ctx context.Context, records []WarningRecord) error
}

// QueueSink publishes messages as JSON for the transmission gateway
type QueueSink struct {
	Queue rmq.Queue
}

func (s *QueueSink) Publish(ctx context.Context, messages []denm.OutboundMessage) error {
	payloads, err := marshalAll(messages)
	if err != nil {
		return err
	}

	return s.Queue.PublishBytes(payloads...)
}

// QueueNotifier publishes warning records to the notify queue
type QueueNotifier struct {
	Queue rmq.Queue
}

func (n *QueueNotifier) Notify(ctx context.Context, records []WarningRecord) error {
	payloads, err := marshalAll(records)
	if err != nil {
		return err
	}

	return n.Queue.PublishBytes(payloads...)
}

func marshalAll[T any](values []T) ([][]byte, error) {
	payloads := make([][]byte, 0, len(values))

	for _, value := range values {
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		payloads = append(payloads, payload)
	}

	return payloads, nil
}
