package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	HazardWarningsCollection     = "hazard_warnings"
	StationPushTargetsCollection = "station_push_targets"
)

func createIndexes() {
	createHazardWarningIndexes()
	createPushTargetIndexes()
}

func createHazardWarningIndexes() {
	warningsCollection := GetCollection(HazardWarningsCollection)
	warningsIndex := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "primaryidentifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "stationid", Value: 1}, {Key: "creationdatetime", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "usecase", Value: 1}, {Key: "level", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := warningsCollection.Indexes().CreateMany(context.Background(), warningsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createPushTargetIndexes() {
	targetsCollection := GetCollection(StationPushTargetsCollection)
	targetsIndex := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "stationid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	opts := options.CreateIndexes()
	_, err := targetsCollection.Indexes().CreateMany(context.Background(), targetsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
