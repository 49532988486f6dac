package routes

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/denmhazard/pkg/database"
	"github.com/travigo/denmhazard/pkg/notify"
	"github.com/travigo/denmhazard/pkg/realtime"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultWarningsLimit = 50

type WarningFinder func(ctx context.Context, stationID string, limit int64) ([]realtime.WarningRecord, error)

func StationWarningsRouter(router fiber.Router, findWarnings WarningFinder) {
	router.Get("/:identifier/warnings", func(c *fiber.Ctx) error {
		limit, err := strconv.ParseInt(c.Query("limit", strconv.Itoa(defaultWarningsLimit)), 10, 64)
		if err != nil || limit <= 0 {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "limit must be a positive number",
			})
		}

		records, err := findWarnings(c.Context(), c.Params("identifier"), limit)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		groups := []string{"basic"}
		if c.QueryBool("detailed") {
			groups = append(groups, "detailed")
		}

		recordsReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, records)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce warnings",
			})
		}

		return c.JSON(recordsReduced)
	})
}

// StationControlRouter holds the authenticated operations on a station
func StationControlRouter(router fiber.Router, scenarioQueue rmq.Queue) {
	router.Post("/:identifier/signals", func(c *fiber.Ctx) error {
		var requestBody struct {
			Signal string `json:"signal"`
		}
		c.BodyParser(&requestBody)

		if requestBody.Signal == "" {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "No signal set",
			})
		}

		signalJson, _ := json.Marshal(realtime.ScenarioSignal{
			StationID: c.Params("identifier"),
			Signal:    requestBody.Signal,
		})

		if err := scenarioQueue.PublishBytes(signalJson); err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.SendStatus(fiber.StatusAccepted)
		return c.JSON(fiber.Map{
			"success": true,
		})
	})

	router.Post("/:identifier/notificationtoken", postNotificationToken)
}

func postNotificationToken(c *fiber.Ctx) error {
	var requestBody struct {
		Token string
	}
	c.BodyParser(&requestBody)

	stationID := c.Params("identifier")

	if requestBody.Token == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "No token set",
		})
	}

	pushTarget := notify.StationPushTarget{
		StationID:             stationID,
		PushNotificationToken: requestBody.Token,
		ModificationDateTime:  time.Now(),
	}

	targetsCollection := database.GetCollection(database.StationPushTargetsCollection)

	filter := bson.M{"stationid": stationID}
	update := bson.M{"$set": pushTarget}
	opts := options.Update().SetUpsert(true)
	_, err := targetsCollection.UpdateOne(context.Background(), filter, update, opts)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
