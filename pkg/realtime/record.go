package realtime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/travigo/denmhazard/pkg/database"
	"github.com/travigo/denmhazard/pkg/denm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const WarningRecordIDFormat = "DENMHAZARD:WARNING:%s"

// WarningRecord is the archived form of a triggered warning
type WarningRecord struct {
	PrimaryIdentifier string    `groups:"basic" bson:"primaryidentifier" json:"primary_identifier" csv:"primary_identifier"`
	CreationDateTime  time.Time `groups:"basic" bson:"creationdatetime" json:"creation_datetime" csv:"creation_datetime"`

	StationID string `groups:"basic" bson:"stationid" json:"station_id" csv:"station_id"`
	UseCase   string `groups:"basic" bson:"usecase" json:"use_case" csv:"use_case"`
	Level     string `groups:"basic" bson:"level" json:"level" csv:"level"`
	Branch    string `groups:"basic" bson:"branch" json:"branch" csv:"branch"`

	OriginatingStationID string `groups:"basic" bson:"originatingstationid" json:"originating_station_id" csv:"originating_station_id"`
	SequenceNumber       uint64 `groups:"basic" bson:"sequencenumber" json:"sequence_number" csv:"sequence_number"`
	CauseCode            string `groups:"basic" bson:"causecode" json:"cause_code" csv:"cause_code"`
	SubCauseCode         int    `groups:"detailed" bson:"subcausecode" json:"sub_cause_code" csv:"sub_cause_code"`

	DistanceMeters float64 `groups:"basic" bson:"distancemeters" json:"distance_meters" csv:"distance_meters"`
	BearingDegrees float64 `groups:"detailed" bson:"bearingdegrees" json:"bearing_degrees" csv:"bearing_degrees"`
	HeadingDelta   float64 `groups:"detailed" bson:"headingdelta" json:"heading_delta" csv:"heading_delta"`
	// Seconds, negative when the host was not moving
	TimeToCollision float64 `groups:"detailed" bson:"timetocollision" json:"time_to_collision" csv:"time_to_collision"`

	HostLatitude   float64 `groups:"detailed" bson:"hostlatitude" json:"host_latitude" csv:"host_latitude"`
	HostLongitude  float64 `groups:"detailed" bson:"hostlongitude" json:"host_longitude" csv:"host_longitude"`
	HostHeading    float64 `groups:"detailed" bson:"hostheading" json:"host_heading" csv:"host_heading"`
	HostSpeed      float64 `groups:"detailed" bson:"hostspeed" json:"host_speed" csv:"host_speed"`
	AlertLatitude  float64 `groups:"detailed" bson:"alertlatitude" json:"alert_latitude" csv:"alert_latitude"`
	AlertLongitude float64 `groups:"detailed" bson:"alertlongitude" json:"alert_longitude" csv:"alert_longitude"`
}

// NewWarningRecord flattens a warning message. Broadcasts have no record.
func NewWarningRecord(message denm.OutboundMessage) (WarningRecord, bool) {
	if message.Kind != denm.MessageKindWarning || message.Decision == nil || message.Geometry == nil || message.Host == nil || message.Alert == nil {
		return WarningRecord{}, false
	}

	host := message.Host.Position.LatLon(message.Precision)
	alert := message.Alert.Position.LatLon(message.Precision)

	timeToCollision := message.Geometry.TimeToCollision
	if math.IsNaN(timeToCollision) {
		timeToCollision = -1
	}

	return WarningRecord{
		PrimaryIdentifier: fmt.Sprintf(WarningRecordIDFormat, uuid.NewString()),
		CreationDateTime:  message.CreatedAt,

		StationID: message.StationID,
		UseCase:   message.UseCase,
		Level:     message.Decision.Level.String(),
		Branch:    string(message.Decision.Branch),

		OriginatingStationID: message.Alert.OriginatingStationID(),
		SequenceNumber:       message.Alert.ActionID.SequenceNumber,
		CauseCode:            message.Alert.CauseCode.String(),
		SubCauseCode:         message.Alert.SubCauseCode,

		DistanceMeters:  message.Geometry.DistanceMeters,
		BearingDegrees:  message.Geometry.BearingDegrees,
		HeadingDelta:    message.Geometry.HeadingDelta,
		TimeToCollision: timeToCollision,

		HostLatitude:   host.Latitude,
		HostLongitude:  host.Longitude,
		HostHeading:    message.Host.Heading,
		HostSpeed:      message.Host.Speed,
		AlertLatitude:  alert.Latitude,
		AlertLongitude: alert.Longitude,
	}, true
}

// Urgent warnings are the ones forwarded to the driver's device
func (r WarningRecord) Urgent() bool {
	return r.Level == denm.HazardLevel0.String() || r.Level == denm.HazardLevel1.String()
}

type WarningStore interface {
	Store(ctx context.Context, records []WarningRecord) error
}

// MongoWarningStore archives warnings in the hazard_warnings collection
type MongoWarningStore struct{}

func (MongoWarningStore) Store(ctx context.Context, records []WarningRecord) error {
	if len(records) == 0 {
		return nil
	}

	var operations []mongo.WriteModel
	for _, record := range records {
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(record))
	}

	collection := database.GetCollection(database.HazardWarningsCollection)
	if _, err := collection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("archive warnings: %w", err)
	}

	return nil
}

// FindWarnings returns the most recent warnings of a station, newest first.
// An empty stationID matches every station.
func FindWarnings(ctx context.Context, stationID string, limit int64) ([]WarningRecord, error) {
	collection := database.GetCollection(database.HazardWarningsCollection)

	filter := bson.M{}
	if stationID != "" {
		filter["stationid"] = stationID
	}

	opts := options.Find().SetSort(bson.D{{Key: "creationdatetime", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	records := []WarningRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}
