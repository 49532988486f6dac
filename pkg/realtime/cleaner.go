package realtime

import (
	"context"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

const defaultCleanInterval = 5 * time.Minute

// RunCleaner returns the unacked deliveries of dead consumers to their queues until ctx is done
func RunCleaner(ctx context.Context, connection rmq.Connection, interval time.Duration) {
	if interval <= 0 {
		interval = defaultCleanInterval
	}

	cleaner := rmq.NewCleaner(connection)

	log.Info().Str("interval", interval.String()).Msg("Starting queue cleaner")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			returned, err := cleaner.Clean()
			if err != nil {
				log.Error().Err(err).Msg("Failed to clean queues")
				continue
			}

			if returned != 0 {
				log.Info().Int64("returned", returned).Msg("Returned deliveries of dead consumers")
			}
		}
	}
}
