package consumer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/redis_client"
)

type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer
}

// Setup starts the consumers in the background
func (c *RedisConsumer) Setup() error {
	log.Info().Str("queue", c.QueueName).Int("consumers", c.NumberConsumers).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		return fmt.Errorf("open queue %s: %w", c.QueueName, err)
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return fmt.Errorf("start consuming %s: %w", c.QueueName, err)
	}

	for i := 0; i < c.NumberConsumers; i++ {
		tag := fmt.Sprintf("%s-%d", c.QueueName, i)
		if _, err := queue.AddBatchConsumer(tag, int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return fmt.Errorf("add consumer %s: %w", tag, err)
		}
	}

	return nil
}

// StartStatsServer exposes queue stats for every given queue and a health check. It blocks.
func StartStatsServer(listen string, queueNames ...string) error {
	mux := http.NewServeMux()

	for _, queueName := range queueNames {
		mux.Handle(fmt.Sprintf("/%s/stats", queueName), NewStatsHandler(redis_client.QueueConnection))
	}
	mux.Handle("/health", NewHealthHandler())

	log.Info().Str("listen", listen).Strs("queues", queueNames).Msg("Stats server listening")

	return http.ListenAndServe(listen, mux)
}
