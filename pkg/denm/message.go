package denm

import (
	"time"

	"github.com/travigo/denmhazard/pkg/geomath"
)

type MessageKind string

const (
	// MessageKindWarning is a decision that the driver of the host vehicle should be warned
	MessageKindWarning MessageKind = "warning"
	// MessageKindBroadcast is a DENM the host station wants transmitted
	MessageKindBroadcast MessageKind = "broadcast"
)

type OutboundMessage struct {
	Kind      MessageKind `json:"kind"`
	UseCase   string      `json:"use_case"`
	StationID string      `json:"station_id"`
	CreatedAt time.Time   `json:"created_at"`
	// Unit of every GeoPoint in the message
	Precision geomath.Precision `json:"precision"`

	// Warning
	Decision *HazardDecision   `json:"decision,omitempty"`
	Geometry *RelativeGeometry `json:"geometry,omitempty"`
	Host     *VehicleState     `json:"host,omitempty"`
	Alert    *AlertEvent       `json:"alert,omitempty"`

	// Broadcast
	Event   *AlertEvent          `json:"event,omitempty"`
	Request *TransmissionRequest `json:"request,omitempty"`
}

type DestinationShape string

const (
	DestinationShapeCircle    DestinationShape = "circle"
	DestinationShapeRectangle DestinationShape = "rectangle"
)

// DestinationArea is the geographic area a broadcast should be delivered to
type DestinationArea struct {
	Shape  DestinationShape `json:"shape" yaml:"shape"`
	Center geomath.LatLon   `json:"center" yaml:"-"`

	RadiusMeters float64 `json:"radius_meters,omitempty" yaml:"radius_meters"`
	LengthMeters float64 `json:"length_meters,omitempty" yaml:"length_meters"`
	WidthMeters  float64 `json:"width_meters,omitempty" yaml:"width_meters"`
}

const (
	RelevanceDistanceLessThan50m   = "lessThan50m"
	RelevanceDistanceLessThan100m  = "lessThan100m"
	RelevanceDistanceLessThan200m  = "lessThan200m"
	RelevanceDistanceLessThan500m  = "lessThan500m"
	RelevanceDistanceLessThan1000m = "lessThan1000m"

	RelevanceAllTrafficDirections = "allTrafficDirections"
	RelevanceUpstreamTraffic      = "upstreamTraffic"
	RelevanceDownstreamTraffic    = "downstreamTraffic"
	RelevanceOppositeTraffic      = "oppositeTraffic"
)

// TransmissionRequest carries the management and routing metadata of a broadcast
type TransmissionRequest struct {
	TrafficClass int           `json:"traffic_class"`
	Lifetime     time.Duration `json:"lifetime"`

	Destination DestinationArea `json:"destination"`

	RelevanceDistance         string        `json:"relevance_distance"`
	RelevanceTrafficDirection string        `json:"relevance_traffic_direction"`
	ValidityDuration          time.Duration `json:"validity_duration"`
}
