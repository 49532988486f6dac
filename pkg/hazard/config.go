package hazard

import (
	"errors"
	"fmt"
	"time"

	"github.com/travigo/denmhazard/pkg/denm"
)

var ErrInvalidConfig = errors.New("invalid classifier config")

type Metric string

const (
	// MetricDistance compares the great-circle distance in meters against the tiers
	MetricDistance Metric = "distance"
	// MetricTimeToCollision compares distance / host speed in seconds against the tiers
	MetricTimeToCollision Metric = "time-to-collision"
)

type Tier struct {
	Threshold float64          `json:"threshold"`
	Level     denm.HazardLevel `json:"level"`
}

type OppositeConfig struct {
	// Maximum difference between the alert heading and the host heading
	HeadingWindow float64 `json:"heading_window"`
	// Exclusive bounds on |host heading - bearing|
	MinDelta float64 `json:"min_delta"`
	MaxDelta float64 `json:"max_delta"`
}

type LatchMode string

const (
	// LatchPerCall stops later branches overriding an earlier match and forgets everything
	// once the evaluation returns
	LatchPerCall LatchMode = "per-call"
	// LatchHold additionally suppresses repeat triggers from the same originating station
	// that are not more severe than the last one, until HoldFor has passed
	LatchHold LatchMode = "hold"
)

type LatchConfig struct {
	Mode    LatchMode     `json:"mode"`
	HoldFor time.Duration `json:"hold_for"`
}

type Config struct {
	Metric Metric `json:"metric"`

	// Tiers[0] is the proximity override and applies regardless of bearing.
	// The remaining tiers classify aligned and opposite matches.
	// Thresholds are exclusive upper bounds and must be ascending.
	Tiers []Tier `json:"tiers"`

	BearingWindow float64 `json:"bearing_window"`
	// Only accept alerts on the eastern half (signed bearing >= 0) in the aligned branch
	ForwardOnly bool `json:"forward_only"`
	// Apply the ForwardOnly test to the proximity override as well
	ProximityRequiresForward bool `json:"proximity_requires_forward"`
	// Classify on the metric alone
	IgnoreBearing bool `json:"ignore_bearing"`

	Opposite *OppositeConfig `json:"opposite,omitempty"`

	Latch LatchConfig `json:"latch"`
}

// DistanceTiers builds the usual Level0/Level1/Level2 tier list
func DistanceTiers(level0 float64, level1 float64, level2 float64) []Tier {
	return []Tier{
		{Threshold: level0, Level: denm.HazardLevel0},
		{Threshold: level1, Level: denm.HazardLevel1},
		{Threshold: level2, Level: denm.HazardLevel2},
	}
}

func (c Config) Validate() error {
	switch c.Metric {
	case MetricDistance, MetricTimeToCollision:
	default:
		return fmt.Errorf("%w: unknown metric %q", ErrInvalidConfig, c.Metric)
	}

	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidConfig)
	}

	for index, tier := range c.Tiers {
		if tier.Level == denm.HazardLevelNone {
			return fmt.Errorf("%w: tier %d has no level", ErrInvalidConfig, index)
		}
		if index > 0 && tier.Threshold <= c.Tiers[index-1].Threshold {
			return fmt.Errorf("%w: tier thresholds must be ascending", ErrInvalidConfig)
		}
	}

	if !c.IgnoreBearing && (c.BearingWindow <= 0 || c.BearingWindow > 180) {
		return fmt.Errorf("%w: bearing window %v out of range", ErrInvalidConfig, c.BearingWindow)
	}

	if c.Opposite != nil && c.Opposite.MinDelta >= c.Opposite.MaxDelta {
		return fmt.Errorf("%w: opposite delta bounds", ErrInvalidConfig)
	}

	switch c.Latch.Mode {
	case "", LatchPerCall:
	case LatchHold:
		if c.Latch.HoldFor <= 0 {
			return fmt.Errorf("%w: hold latch needs a positive duration", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown latch mode %q", ErrInvalidConfig, c.Latch.Mode)
	}

	return nil
}
