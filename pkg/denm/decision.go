package denm

import (
	"encoding/json"
	"fmt"
	"math"
)

// HazardLevel is the urgency tier of a decision. Level0 is the most urgent.
type HazardLevel int

const (
	HazardLevelNone HazardLevel = iota
	HazardLevel0
	HazardLevel1
	HazardLevel2
)

var hazardLevelNames = []string{"none", "level0", "level1", "level2"}

func (l HazardLevel) String() string {
	if l < HazardLevelNone || l > HazardLevel2 {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return hazardLevelNames[l]
}

func (l HazardLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *HazardLevel) UnmarshalText(text []byte) error {
	for index, name := range hazardLevelNames {
		if name == string(text) {
			*l = HazardLevel(index)
			return nil
		}
	}

	return fmt.Errorf("unknown hazard level %q", string(text))
}

// MoreSevereThan reports whether l is strictly more urgent than other.
// HazardLevelNone is less severe than every tier.
func (l HazardLevel) MoreSevereThan(other HazardLevel) bool {
	if l == HazardLevelNone {
		return false
	}
	if other == HazardLevelNone {
		return true
	}
	return l < other
}

// Branch records which rule of the classifier produced a decision
type Branch string

const (
	BranchNone      Branch = "none"
	BranchProximity Branch = "proximity"
	BranchAligned   Branch = "aligned"
	BranchOpposite  Branch = "opposite"
)

type HazardDecision struct {
	Level     HazardLevel `json:"level" bson:"level" groups:"basic"`
	Triggered bool        `json:"triggered" bson:"triggered" groups:"basic"`
	Branch    Branch      `json:"branch" bson:"branch" groups:"basic"`
	// Set when a trigger was held back by the latch
	Suppressed bool `json:"suppressed,omitempty" bson:"suppressed" groups:"basic"`
}

// RelativeGeometry is derived per evaluation and never cached
type RelativeGeometry struct {
	DistanceMeters float64 `bson:"distancemeters"`
	// [0, 360)
	BearingDegrees float64 `bson:"bearingdegrees"`
	// (-180, 180]
	SignedBearing float64 `bson:"signedbearing"`
	// Host heading vs bearing to the alert, [0, 180]
	HeadingDelta float64 `bson:"headingdelta"`
	// Host heading vs alert heading, [0, 180]
	AlertHeadingDelta float64 `bson:"alertheadingdelta"`
	// Seconds, NaN when the host is not moving
	TimeToCollision float64 `bson:"timetocollision"`
}

type relativeGeometryJSON struct {
	DistanceMeters    *float64 `json:"distance_meters"`
	BearingDegrees    *float64 `json:"bearing_degrees"`
	SignedBearing     *float64 `json:"signed_bearing"`
	HeadingDelta      *float64 `json:"heading_delta"`
	AlertHeadingDelta *float64 `json:"alert_heading_delta"`
	TimeToCollision   *float64 `json:"time_to_collision"`
}

// MarshalJSON writes undefined values (NaN) as null
func (g RelativeGeometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(relativeGeometryJSON{
		DistanceMeters:    finiteOrNil(g.DistanceMeters),
		BearingDegrees:    finiteOrNil(g.BearingDegrees),
		SignedBearing:     finiteOrNil(g.SignedBearing),
		HeadingDelta:      finiteOrNil(g.HeadingDelta),
		AlertHeadingDelta: finiteOrNil(g.AlertHeadingDelta),
		TimeToCollision:   finiteOrNil(g.TimeToCollision),
	})
}

func (g *RelativeGeometry) UnmarshalJSON(data []byte) error {
	var decoded relativeGeometryJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	g.DistanceMeters = valueOrNaN(decoded.DistanceMeters)
	g.BearingDegrees = valueOrNaN(decoded.BearingDegrees)
	g.SignedBearing = valueOrNaN(decoded.SignedBearing)
	g.HeadingDelta = valueOrNaN(decoded.HeadingDelta)
	g.AlertHeadingDelta = valueOrNaN(decoded.AlertHeadingDelta)
	g.TimeToCollision = valueOrNaN(decoded.TimeToCollision)

	return nil
}

func finiteOrNil(value float64) *float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

func valueOrNaN(value *float64) float64 {
	if value == nil {
		return math.NaN()
	}
	return *value
}
