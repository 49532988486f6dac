package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/denmhazard/pkg/usecase"
)

type assessRequest struct {
	UseCase usecase.Name     `json:"use_case"`
	Host    usecase.Position `json:"host"`
	Alert   usecase.Position `json:"alert"`
}

// AssessRouter evaluates one host and alert pair against the configured use-cases
func AssessRouter(router fiber.Router, configs []usecase.Config) {
	router.Post("/", func(c *fiber.Ctx) error {
		var request assessRequest
		if err := c.BodyParser(&request); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Could not parse request body",
			})
		}

		config, err := usecase.Find(configs, request.UseCase)
		if err != nil {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		assessment, err := usecase.Assess(config, request.Host, request.Alert)
		if errors.Is(err, usecase.ErrNotReceiver) {
			c.SendStatus(fiber.StatusUnprocessableEntity)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		} else if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(assessment)
	})
}
