package notify

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/travigo/denmhazard/pkg/consumer"
	"github.com/travigo/denmhazard/pkg/database"
	"github.com/travigo/denmhazard/pkg/realtime"
	"github.com/travigo/denmhazard/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Forwards urgent hazard warnings to the driver's device",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run notify server",
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					pushManager := &PushManager{}
					if err := pushManager.Setup(); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       realtime.NotifyQueue,
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         500 * time.Millisecond,
						Consumer:        NewNotifyBatchConsumer(pushManager),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
		},
	}
}
