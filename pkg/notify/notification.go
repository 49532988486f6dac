package notify

import (
	"fmt"
	"time"

	"github.com/travigo/denmhazard/pkg/realtime"
	"github.com/travigo/denmhazard/pkg/usecase"
)

// StationPushTarget is the device that receives the warnings of a station
type StationPushTarget struct {
	StationID             string `bson:"stationid"`
	PushNotificationToken string `bson:"pushnotificationtoken"`

	ModificationDateTime time.Time `bson:"modificationdatetime"`
}

type Notification struct {
	TargetStation string

	Title   string
	Message string
}

var useCaseTitles = map[string]string{
	string(usecase.EmergencyVehicleWarning): "Emergency vehicle approaching",
	string(usecase.ForwardCollisionWarning): "Collision risk ahead",
	string(usecase.RoadWorkWarning):         "Road works ahead",
	string(usecase.StationaryVehicle):       "Stationary vehicle ahead",
	string(usecase.DisasterManagement):      "Emergency in the area",
}

func NewNotification(record realtime.WarningRecord) Notification {
	title, exists := useCaseTitles[record.UseCase]
	if !exists {
		title = "Hazard warning"
	}

	message := fmt.Sprintf("%s reported %.0fm away", record.OriginatingStationID, record.DistanceMeters)
	if record.TimeToCollision >= 0 {
		message = fmt.Sprintf("%s, %.1fs at current speed", message, record.TimeToCollision)
	}

	return Notification{
		TargetStation: record.StationID,
		Title:         title,
		Message:       message,
	}
}
