package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/geomath"
	"github.com/travigo/denmhazard/pkg/hazard"
)

type Name string

const (
	EmergencyVehicleWarning Name = "EVW"
	ForwardCollisionWarning Name = "FCW"
	RoadWorkWarning         Name = "RWW"
	StationaryVehicle       Name = "SV"
	DisasterManagement      Name = "DM"
)

var ErrUnknownUseCase = errors.New("unknown use-case")

// Site is a fixed event location used instead of the host position
type Site struct {
	Position geomath.LatLon `json:"position"`
	Heading  float64        `json:"heading"`
}

type TransmitterConfig struct {
	CauseCode    denm.CauseCode `json:"cause_code"`
	SubCauseCode int            `json:"sub_cause_code"`

	Site *Site `json:"site,omitempty"`

	Destination  denm.DestinationArea `json:"destination"`
	TrafficClass int                  `json:"traffic_class"`
	Lifetime     time.Duration        `json:"lifetime"`

	RelevanceDistance         string        `json:"relevance_distance"`
	RelevanceTrafficDirection string        `json:"relevance_traffic_direction"`
	ValidityDuration          time.Duration `json:"validity_duration"`

	// Minimum time between two broadcasts, zero sends on every check
	GenerationInterval time.Duration `json:"generation_interval"`
	// Only transmit while the host is slower than this (meters per second)
	MaxHostSpeed *float64 `json:"max_host_speed,omitempty"`

	RoadWorks         *denm.RoadWorksContainer         `json:"road_works,omitempty"`
	StationaryVehicle *denm.StationaryVehicleContainer `json:"stationary_vehicle,omitempty"`
}

type Config struct {
	Name Name `json:"name"`
	// Storyboard signal that activates the engine
	Signal string `json:"signal"`

	RelevantCauses []denm.CauseCode  `json:"relevant_causes"`
	Precision      geomath.Precision `json:"precision"`

	// Nil when the engine never reacts to received alerts
	Classifier *hazard.Config `json:"classifier,omitempty"`
	// Nil when the engine never broadcasts
	Transmitter *TransmitterConfig `json:"transmitter,omitempty"`
}

func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("use-case has no name")
	}

	if !c.Precision.Valid() {
		return fmt.Errorf("%s: invalid precision %v", c.Name, c.Precision)
	}

	if c.Classifier != nil {
		if len(c.RelevantCauses) == 0 {
			return fmt.Errorf("%s: classifier configured without relevant causes", c.Name)
		}
		if err := c.Classifier.Validate(); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}

	if c.Transmitter != nil && c.Transmitter.Site != nil && !c.Transmitter.Site.Position.Valid() {
		return fmt.Errorf("%s: %w", c.Name, geomath.ErrInvalidPosition)
	}

	return nil
}

// Clone returns a deep copy so per-station overrides never alias the defaults
func (c Config) Clone() (Config, error) {
	var cloned Config
	if err := copier.CopyWithOption(&cloned, &c, copier.Option{DeepCopy: true}); err != nil {
		return Config{}, err
	}

	return cloned, nil
}
