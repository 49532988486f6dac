package warnings

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/database"
	"github.com/travigo/denmhazard/pkg/realtime"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "warnings",
		Usage: "Archived hazard warnings",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "export archived warnings as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "station",
						Usage: "only export the warnings of this station",
					},
					&cli.Int64Flag{
						Name:  "limit",
						Value: 1000,
						Usage: "maximum number of warnings, newest first",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "file to write, standard output when empty",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					records, err := realtime.FindWarnings(context.Background(), c.String("station"), c.Int64("limit"))
					if err != nil {
						return err
					}

					out := os.Stdout
					if c.String("output") != "" {
						file, err := os.Create(c.String("output"))
						if err != nil {
							return err
						}
						defer file.Close()
						out = file
					}

					if err := ExportCSV(out, records); err != nil {
						return err
					}

					log.Info().Int("count", len(records)).Msg("Exported warnings")

					return nil
				},
			},
		},
	}
}
