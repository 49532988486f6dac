package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/realtime"
)

type NotifyBatchConsumer struct {
	pusher Pusher
}

func NewNotifyBatchConsumer(pusher Pusher) *NotifyBatchConsumer {
	return &NotifyBatchConsumer{pusher: pusher}
}

func (c *NotifyBatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		var record realtime.WarningRecord
		if err := json.Unmarshal([]byte(delivery.Payload()), &record); err != nil {
			log.Error().Err(err).Msg("Failed to decode warning")
			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject warning")
			}
			continue
		}

		err := c.pusher.SendPush(context.Background(), NewNotification(record))
		if errors.Is(err, ErrNoPushTarget) {
			log.Debug().Str("station", record.StationID).Msg("Station has no push target")
		} else if err != nil {
			log.Error().Err(err).Str("station", record.StationID).Msg("Failed to send push notification")
		}

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack warning")
		}
	}
}
