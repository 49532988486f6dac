package realtime

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/config"
	"github.com/travigo/denmhazard/pkg/consumer"
	"github.com/travigo/denmhazard/pkg/database"
	"github.com/travigo/denmhazard/pkg/elastic_client"
	"github.com/travigo/denmhazard/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "engine",
		Usage: "Hazard warning engine for the connected vehicle stations",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run an instance of the hazard engine",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML document overriding the default use-case configuration",
					},
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "address of the queue stats and health server",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					outboundQueue, err := redis_client.QueueConnection.OpenQueue(OutboundQueue)
					if err != nil {
						return err
					}
					notifyQueue, err := redis_client.QueueConnection.OpenQueue(NotifyQueue)
					if err != nil {
						return err
					}

					service, err := NewService(
						cfg,
						&QueueSink{Queue: outboundQueue},
						WithStateCache(NewStateCache(redis_client.Client)),
						WithWarningStore(MongoWarningStore{}),
						WithNotifier(&QueueNotifier{Queue: notifyQueue}),
					)
					if err != nil {
						return err
					}

					consumers := []consumer.RedisConsumer{
						{
							QueueName:       ReceivedAlertsQueue,
							NumberConsumers: 5,
							BatchSize:       50,
							Timeout:         100 * time.Millisecond,
							Consumer:        NewAlertBatchConsumer(service),
						},
						{
							QueueName:       TelemetryQueue,
							NumberConsumers: 2,
							BatchSize:       100,
							Timeout:         100 * time.Millisecond,
							Consumer:        NewTelemetryBatchConsumer(service),
						},
						{
							QueueName:       ScenarioQueue,
							NumberConsumers: 1,
							BatchSize:       10,
							Timeout:         time.Second,
							Consumer:        NewSignalBatchConsumer(service),
						},
					}
					for _, redisConsumer := range consumers {
						if err := redisConsumer.Setup(); err != nil {
							return err
						}
					}

					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()

					go service.Run(ctx, cfg.TickInterval)

					go func() {
						err := consumer.StartStatsServer(c.String("stats-listen"), ReceivedAlertsQueue, TelemetryQueue, ScenarioQueue, OutboundQueue, NotifyQueue)
						if err != nil {
							log.Error().Err(err).Msg("Stats server stopped")
						}
					}()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					cancel()
					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "cleaner",
				Usage: "run the queue cleaner for the engine queues",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()

					go RunCleaner(ctx, redis_client.QueueConnection, defaultCleanInterval)

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals

					return nil
				},
			},
		},
	}
}
