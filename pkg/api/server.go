package api

import (
	"github.com/adjust/rmq/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/denmhazard/pkg/api/routes"
	"github.com/travigo/denmhazard/pkg/usecase"
)

type ServerOptions struct {
	UseCases      []usecase.Config
	ScenarioQueue rmq.Queue
	FindWarnings  routes.WarningFinder

	// Guards the station control endpoints
	Authentication fiber.Handler
}

func NewServer(opts ServerOptions) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.AssessRouter(group.Group("/assess"), opts.UseCases)

	routes.StationWarningsRouter(group.Group("/stations"), opts.FindWarnings)

	controlGroup := group.Group("/stations")
	if opts.Authentication != nil {
		controlGroup = group.Group("/stations", opts.Authentication)
	}
	routes.StationControlRouter(controlGroup, opts.ScenarioQueue)

	return webApp
}

func SetupServer(listen string, opts ServerOptions) error {
	return NewServer(opts).Listen(listen)
}
