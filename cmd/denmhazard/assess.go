package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/travigo/denmhazard/pkg/config"
	"github.com/travigo/denmhazard/pkg/geomath"
	"github.com/travigo/denmhazard/pkg/usecase"
	"github.com/urfave/cli/v2"
)

func assessCommand() *cli.Command {
	return &cli.Command{
		Name:  "assess",
		Usage: "evaluate one host and alert position pair against a use-case",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "use-case",
				Required: true,
				Usage:    "EVW, FCW, RWW or DM",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML document overriding the default use-case configuration",
			},
			&cli.StringFlag{
				Name:     "host",
				Required: true,
				Usage:    "host position as latitude,longitude or an OS grid reference prefixed with grid:",
			},
			&cli.Float64Flag{Name: "heading", Usage: "host heading in degrees"},
			&cli.Float64Flag{Name: "speed", Usage: "host speed in meters per second"},
			&cli.StringFlag{
				Name:     "alert",
				Required: true,
				Usage:    "alert position as latitude,longitude or an OS grid reference prefixed with grid:",
			},
			&cli.Float64Flag{Name: "alert-heading", Usage: "alert heading in degrees"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			useCase, err := usecase.Find(cfg.UseCases, usecase.Name(strings.ToUpper(c.String("use-case"))))
			if err != nil {
				return err
			}

			host, err := parsePosition(c.String("host"))
			if err != nil {
				return err
			}
			alert, err := parsePosition(c.String("alert"))
			if err != nil {
				return err
			}

			assessment, err := usecase.Assess(
				useCase,
				usecase.Position{Latitude: host.Latitude, Longitude: host.Longitude, Heading: c.Float64("heading"), Speed: c.Float64("speed")},
				usecase.Position{Latitude: alert.Latitude, Longitude: alert.Longitude, Heading: c.Float64("alert-heading")},
			)
			if err != nil {
				return err
			}

			pretty.Println(assessment)

			return nil
		},
	}
}

func parsePosition(value string) (geomath.LatLon, error) {
	if gridReference, found := strings.CutPrefix(value, "grid:"); found {
		return geomath.FromGridReference(gridReference)
	}

	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return geomath.LatLon{}, fmt.Errorf("position %q must be latitude,longitude", value)
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geomath.LatLon{}, err
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geomath.LatLon{}, err
	}

	position := geomath.LatLon{Latitude: latitude, Longitude: longitude}
	if !position.Valid() {
		return geomath.LatLon{}, geomath.ErrInvalidPosition
	}

	return position, nil
}
