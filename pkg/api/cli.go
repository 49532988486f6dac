package api

import (
	"github.com/travigo/denmhazard/pkg/config"
	"github.com/travigo/denmhazard/pkg/database"
	"github.com/travigo/denmhazard/pkg/realtime"
	"github.com/travigo/denmhazard/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the hazard warning web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML document overriding the default use-case configuration",
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
					if err := redis_client.Connect(); err != nil {
						return err
					}

					scenarioQueue, err := redis_client.QueueConnection.OpenQueue(realtime.ScenarioQueue)
					if err != nil {
						return err
					}

					return SetupServer(c.String("listen"), ServerOptions{
						UseCases:       cfg.UseCases,
						ScenarioQueue:  scenarioQueue,
						FindWarnings:   realtime.FindWarnings,
						Authentication: EnsureValidToken(),
					})
				},
			},
		},
	}
}
