package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/api"
	"github.com/travigo/denmhazard/pkg/notify"
	"github.com/travigo/denmhazard/pkg/realtime"
	"github.com/travigo/denmhazard/pkg/warnings"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("DENMHAZARD_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("DENMHAZARD_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "denmhazard",
		Description: "Hazard warning engine for connected vehicle stations - runs all the services",

		Commands: []*cli.Command{
			realtime.RegisterCLI(),
			notify.RegisterCLI(),
			api.RegisterCLI(),
			warnings.RegisterCLI(),
			assessCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
