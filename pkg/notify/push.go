package notify

import (
	"context"
	"encoding/base64"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/database"
	"github.com/travigo/denmhazard/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/api/option"
)

var ErrNoPushTarget = errors.New("failed to find station push token")

type Pusher interface {
	SendPush(ctx context.Context, notification Notification) error
}

type PushManager struct {
	FirebaseApp *firebase.App
}

func (m *PushManager) Setup() error {
	env := util.GetEnvironmentVariables()

	decodedKey, err := base64.StdEncoding.DecodeString(env["DENMHAZARD_FIREBASE_SERVICE_ACCOUNT"])
	if err != nil {
		return err
	}

	opts := []option.ClientOption{option.WithCredentialsJSON(decodedKey)}

	app, err := firebase.NewApp(context.Background(), nil, opts...)
	if err != nil {
		return err
	}

	m.FirebaseApp = app

	return nil
}

func (m *PushManager) SendPush(ctx context.Context, notification Notification) error {
	targetsCollection := database.GetCollection(database.StationPushTargetsCollection)

	var target *StationPushTarget
	targetsCollection.FindOne(ctx, bson.M{"stationid": notification.TargetStation}).Decode(&target)

	if target == nil || target.PushNotificationToken == "" {
		return ErrNoPushTarget
	}

	fcmClient, err := m.FirebaseApp.Messaging(ctx)
	if err != nil {
		return err
	}

	_, err = fcmClient.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		Token: target.PushNotificationToken,
	})
	if err != nil {
		return err
	}

	log.Info().Str("station", notification.TargetStation).Str("title", notification.Title).Msg("Sent Push Notification")

	return nil
}
