package config

import (
	"fmt"
	"time"

	"github.com/travigo/denmhazard/pkg/geomath"
	"github.com/travigo/denmhazard/pkg/hazard"
	"github.com/travigo/denmhazard/pkg/storyboard"
	"github.com/travigo/denmhazard/pkg/usecase"
)

// Document is the YAML layout. Every field is optional and overrides the default.
type Document struct {
	TickIntervalMillis int                        `yaml:"tick_interval_ms"`
	UseCases           map[string]UseCaseDocument `yaml:"use_cases"`
	Stories            []storyboard.Story         `yaml:"stories"`
}

type UseCaseDocument struct {
	Enabled   *bool    `yaml:"enabled"`
	Precision *float64 `yaml:"precision"`

	Tiers                    []float64         `yaml:"tiers"`
	BearingWindow            *float64          `yaml:"bearing_window"`
	ForwardOnly              *bool             `yaml:"forward_only"`
	ProximityRequiresForward *bool             `yaml:"proximity_requires_forward"`
	Opposite                 *OppositeDocument `yaml:"opposite"`
	Latch                    *LatchDocument    `yaml:"latch"`

	Transmitter *TransmitterDocument `yaml:"transmitter"`
}

type OppositeDocument struct {
	HeadingWindow float64 `yaml:"heading_window"`
	MinDelta      float64 `yaml:"min_delta"`
	MaxDelta      float64 `yaml:"max_delta"`
}

type LatchDocument struct {
	Mode    string `yaml:"mode"`
	HoldFor string `yaml:"hold_for"`
}

type TransmitterDocument struct {
	Validity           string        `yaml:"validity"`
	Lifetime           string        `yaml:"lifetime"`
	GenerationInterval string        `yaml:"generation_interval"`
	DestinationRadius  *float64      `yaml:"destination_radius"`
	MaxHostSpeed       *float64      `yaml:"max_host_speed"`
	Site               *SiteDocument `yaml:"site"`
}

type SiteDocument struct {
	// OS grid reference, used instead of latitude/longitude when set
	GridRef   string   `yaml:"gridref"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	Heading   *float64 `yaml:"heading"`
}

func (d *Document) Apply(config *Config) (*Config, error) {
	if d.TickIntervalMillis > 0 {
		config.TickInterval = time.Duration(d.TickIntervalMillis) * time.Millisecond
	}

	if len(d.Stories) > 0 {
		config.Stories = d.Stories
	}

	for name := range d.UseCases {
		if _, err := usecase.DefaultConfig(usecase.Name(name)); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	var useCases []usecase.Config
	for _, useCaseConfig := range config.UseCases {
		document, exists := d.UseCases[string(useCaseConfig.Name)]
		if !exists {
			useCases = append(useCases, useCaseConfig)
			continue
		}

		if document.Enabled != nil && !*document.Enabled {
			continue
		}

		if err := document.apply(&useCaseConfig); err != nil {
			return nil, fmt.Errorf("%s: %w", useCaseConfig.Name, err)
		}

		if err := useCaseConfig.Validate(); err != nil {
			return nil, err
		}

		useCases = append(useCases, useCaseConfig)
	}
	config.UseCases = useCases

	if _, err := storyboard.NewBoard(config.Stories); err != nil {
		return nil, err
	}

	return config, nil
}

func (d UseCaseDocument) apply(config *usecase.Config) error {
	if d.Precision != nil {
		config.Precision = geomath.Precision(*d.Precision)
	}

	if config.Classifier != nil {
		if err := d.applyClassifier(config.Classifier); err != nil {
			return err
		}
	}

	if d.Transmitter != nil {
		if config.Transmitter == nil {
			return fmt.Errorf("use-case has no transmitter")
		}
		if err := d.Transmitter.apply(config.Transmitter); err != nil {
			return err
		}
	}

	return nil
}

func (d UseCaseDocument) applyClassifier(classifier *hazard.Config) error {
	if len(d.Tiers) > 0 {
		if len(d.Tiers) != len(classifier.Tiers) {
			return fmt.Errorf("expected %d tiers, got %d", len(classifier.Tiers), len(d.Tiers))
		}
		for index, threshold := range d.Tiers {
			classifier.Tiers[index].Threshold = threshold
		}
	}

	if d.BearingWindow != nil {
		classifier.BearingWindow = *d.BearingWindow
	}
	if d.ForwardOnly != nil {
		classifier.ForwardOnly = *d.ForwardOnly
	}
	if d.ProximityRequiresForward != nil {
		classifier.ProximityRequiresForward = *d.ProximityRequiresForward
	}

	if d.Opposite != nil {
		classifier.Opposite = &hazard.OppositeConfig{
			HeadingWindow: d.Opposite.HeadingWindow,
			MinDelta:      d.Opposite.MinDelta,
			MaxDelta:      d.Opposite.MaxDelta,
		}
	}

	if d.Latch != nil {
		classifier.Latch.Mode = hazard.LatchMode(d.Latch.Mode)
		if d.Latch.HoldFor != "" {
			holdFor, err := ParseISODuration(d.Latch.HoldFor)
			if err != nil {
				return err
			}
			classifier.Latch.HoldFor = holdFor
		}
	}

	return nil
}

func (d TransmitterDocument) apply(transmitter *usecase.TransmitterConfig) error {
	durations := []struct {
		value  string
		target *time.Duration
	}{
		{d.Validity, &transmitter.ValidityDuration},
		{d.Lifetime, &transmitter.Lifetime},
		{d.GenerationInterval, &transmitter.GenerationInterval},
	}

	for _, duration := range durations {
		if duration.value == "" {
			continue
		}

		parsed, err := ParseISODuration(duration.value)
		if err != nil {
			return err
		}
		*duration.target = parsed
	}

	if d.DestinationRadius != nil {
		transmitter.Destination.RadiusMeters = *d.DestinationRadius
	}

	if d.MaxHostSpeed != nil {
		maxSpeed := *d.MaxHostSpeed
		transmitter.MaxHostSpeed = &maxSpeed
	}

	if d.Site != nil {
		site, err := d.Site.site(transmitter.Site)
		if err != nil {
			return err
		}
		transmitter.Site = site
	}

	return nil
}

func (d SiteDocument) site(current *usecase.Site) (*usecase.Site, error) {
	site := usecase.Site{}
	if current != nil {
		site = *current
	}

	switch {
	case d.GridRef != "":
		position, err := geomath.FromGridReference(d.GridRef)
		if err != nil {
			return nil, err
		}
		site.Position = position
	case d.Latitude != nil && d.Longitude != nil:
		site.Position = geomath.LatLon{Latitude: *d.Latitude, Longitude: *d.Longitude}
	case d.Latitude != nil || d.Longitude != nil:
		return nil, fmt.Errorf("site needs both latitude and longitude")
	}

	if d.Heading != nil {
		site.Heading = *d.Heading
	}

	if !site.Position.Valid() {
		return nil, geomath.ErrInvalidPosition
	}

	return &site, nil
}
