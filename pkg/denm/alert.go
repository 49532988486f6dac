package denm

import (
	"fmt"
	"time"

	"github.com/travigo/denmhazard/pkg/geomath"
)

// VehicleState is the kinematic snapshot of the host vehicle at evaluation time
type VehicleState struct {
	StationID string           `json:"station_id" bson:"stationid" groups:"basic"`
	Position  geomath.GeoPoint `json:"position" bson:"position" groups:"basic"`
	// Degrees clockwise from north
	Heading float64 `json:"heading" bson:"heading" groups:"basic"`
	// Meters per second
	Speed float64 `json:"speed" bson:"speed" groups:"basic"`

	RecordedAt time.Time `json:"recorded_at" bson:"recordedat" groups:"detailed"`
}

// ActionID uniquely identifies a DENM event across retransmissions
type ActionID struct {
	OriginatingStationID string `json:"originating_station_id" bson:"originatingstationid" groups:"basic"`
	SequenceNumber       uint64 `json:"sequence_number" bson:"sequencenumber" groups:"basic"`
}

func (a ActionID) String() string {
	return fmt.Sprintf("%s:%d", a.OriginatingStationID, a.SequenceNumber)
}

// AlertEvent is a decoded DENM received from, or sent to, another station
type AlertEvent struct {
	ActionID ActionID `json:"action_id" bson:"actionid" groups:"basic"`

	Position geomath.GeoPoint `json:"position" bson:"position" groups:"basic"`
	// Degrees clockwise from north
	Heading float64 `json:"heading" bson:"heading" groups:"basic"`

	CauseCode    CauseCode `json:"cause_code" bson:"causecode" groups:"basic"`
	SubCauseCode int       `json:"sub_cause_code" bson:"subcausecode" groups:"basic"`

	DetectionTime time.Time `json:"detection_time" bson:"detectiontime" groups:"basic"`
	// Zero means the validity is unknown
	ValidityDuration time.Duration `json:"validity_duration,omitempty" bson:"validityduration" groups:"detailed"`

	RoadWorks         *RoadWorksContainer         `json:"road_works,omitempty" bson:"roadworks,omitempty" groups:"detailed"`
	StationaryVehicle *StationaryVehicleContainer `json:"stationary_vehicle,omitempty" bson:"stationaryvehicle,omitempty" groups:"detailed"`
}

func (a AlertEvent) OriginatingStationID() string {
	return a.ActionID.OriginatingStationID
}

func (a AlertEvent) Expired(now time.Time) bool {
	if a.ValidityDuration <= 0 || a.DetectionTime.IsZero() {
		return false
	}

	return now.After(a.DetectionTime.Add(a.ValidityDuration))
}

type RoadWorksContainer struct {
	LightBarSirenInUse      bool       `json:"light_bar_siren_in_use" bson:"lightbarsireninuse"`
	OuterHardShoulderClosed bool       `json:"outer_hard_shoulder_closed" bson:"outerhardshoulderclosed"`
	SpeedLimitKmh           int        `json:"speed_limit_kmh,omitempty" bson:"speedlimitkmh"`
	IncidentIndication      *CauseCode `json:"incident_indication,omitempty" bson:"incidentindication,omitempty"`
	TrafficFlowRule         string     `json:"traffic_flow_rule,omitempty" bson:"trafficflowrule"`
}

const (
	TrafficRuleNoPassing = "noPassing"

	StationarySinceLessThan1Minute  = "lessThan1Minute"
	StationarySinceLessThan2Minutes = "lessThan2Minutes"
	StationarySinceLessThan15Minute = "lessThan15Minutes"
)

type StationaryVehicleContainer struct {
	StationarySince string    `json:"stationary_since,omitempty" bson:"stationarysince"`
	StationaryCause CauseCode `json:"stationary_cause" bson:"stationarycause"`
	SubCauseCode    int       `json:"stationary_sub_cause" bson:"stationarysubcause"`

	VehicleIdentification *VehicleIdentification `json:"vehicle_identification,omitempty" bson:"vehicleidentification,omitempty"`
	DangerousGoods        *DangerousGoods        `json:"dangerous_goods,omitempty" bson:"dangerousgoods,omitempty"`
}

// Fixed field widths of the identification and dangerous goods texts
const (
	WMINumberLength           = 3
	VDSLength                 = 6
	EmergencyActionCodeLength = 24
	CompanyNameLength         = 24
)

type VehicleIdentification struct {
	WMINumber string `json:"wmi_number" bson:"wminumber"`
	VDS       string `json:"vds" bson:"vds"`
}

type DangerousGoods struct {
	EmergencyActionCode string `json:"emergency_action_code" bson:"emergencyactioncode"`
	CompanyName         string `json:"company_name" bson:"companyname"`
}

// NewVehicleIdentification truncates both fields to their fixed widths
func NewVehicleIdentification(wmi string, vds string) *VehicleIdentification {
	return &VehicleIdentification{
		WMINumber: fixedWidth(wmi, WMINumberLength),
		VDS:       fixedWidth(vds, VDSLength),
	}
}

func NewDangerousGoods(emergencyActionCode string, companyName string) *DangerousGoods {
	return &DangerousGoods{
		EmergencyActionCode: fixedWidth(emergencyActionCode, EmergencyActionCodeLength),
		CompanyName:         fixedWidth(companyName, CompanyNameLength),
	}
}

func fixedWidth(value string, length int) string {
	if len(value) > length {
		return value[:length]
	}

	return value
}
