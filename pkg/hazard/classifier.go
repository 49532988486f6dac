package hazard

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/geomath"
)

// Classifier turns host/alert geometry into a tiered hazard decision.
// It is not safe for concurrent use when a hold latch is configured.
type Classifier struct {
	config Config
	latch  *Latch
}

type Option func(*Classifier)

// WithClock replaces the time source of the hold latch
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.latch.now = now
	}
}

func NewClassifier(config Config, options ...Option) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	classifier := &Classifier{
		config: config,
		latch:  NewLatch(config.Latch),
	}

	for _, option := range options {
		option(classifier)
	}

	return classifier, nil
}

func (c *Classifier) Config() Config {
	return c.config
}

// Geometry derives the relative geometry of an alert as seen from the host vehicle
func Geometry(host denm.VehicleState, alert denm.AlertEvent, precision geomath.Precision) denm.RelativeGeometry {
	hostPosition := host.Position.LatLon(precision)
	alertPosition := alert.Position.LatLon(precision)

	distance := geomath.HaversineDistance(hostPosition, alertPosition)
	signedBearing := geomath.SignedBearing(hostPosition, alertPosition)
	bearing := geomath.NormaliseHeading(signedBearing)

	timeToCollision := math.NaN()
	if host.Speed > 0 && !math.IsNaN(distance) {
		timeToCollision = distance / host.Speed
	}

	return denm.RelativeGeometry{
		DistanceMeters:    distance,
		BearingDegrees:    bearing,
		SignedBearing:     signedBearing,
		HeadingDelta:      geomath.AngularDifference(host.Heading, bearing),
		AlertHeadingDelta: geomath.AngularDifference(alert.Heading, host.Heading),
		TimeToCollision:   timeToCollision,
	}
}

// Classify evaluates one alert against the host state and applies the latch
func (c *Classifier) Classify(host denm.VehicleState, alert denm.AlertEvent, precision geomath.Precision) (denm.RelativeGeometry, denm.HazardDecision) {
	geometry := Geometry(host, alert, precision)
	decision := c.Evaluate(host.Heading, geometry)

	decision = c.latch.Apply(alert.OriginatingStationID(), decision)

	log.Debug().
		Str("originator", alert.OriginatingStationID()).
		Float64("distance", geometry.DistanceMeters).
		Float64("bearing", geometry.BearingDegrees).
		Str("level", decision.Level.String()).
		Str("branch", string(decision.Branch)).
		Bool("triggered", decision.Triggered).
		Msg("Classified alert")

	return geometry, decision
}

// Evaluate is the stateless part of the classification. The first matching branch wins.
func (c *Classifier) Evaluate(hostHeading float64, geometry denm.RelativeGeometry) denm.HazardDecision {
	metric := c.metric(geometry)
	if math.IsNaN(metric) || math.IsNaN(geometry.BearingDegrees) {
		return noDecision()
	}

	forward := geometry.SignedBearing >= 0

	// Once a branch has matched no later branch may re-classify this evaluation
	latched := false
	decision := noDecision()

	proximity := c.config.Tiers[0]
	if metric < proximity.Threshold && (!c.config.ProximityRequiresForward || forward) {
		decision = denm.HazardDecision{Level: proximity.Level, Triggered: true, Branch: denm.BranchProximity}
		latched = true
	}

	if !latched && c.aligned(geometry, forward) {
		if level := c.subTier(metric); level != denm.HazardLevelNone {
			decision = denm.HazardDecision{Level: level, Triggered: true, Branch: denm.BranchAligned}
		}
		latched = true
	}

	if !latched && c.opposite(hostHeading, geometry) {
		if level := c.subTier(metric); level != denm.HazardLevelNone {
			decision = denm.HazardDecision{Level: level, Triggered: true, Branch: denm.BranchOpposite}
		}
	}

	return decision
}

func (c *Classifier) metric(geometry denm.RelativeGeometry) float64 {
	if c.config.Metric == MetricTimeToCollision {
		return geometry.TimeToCollision
	}

	return geometry.DistanceMeters
}

func (c *Classifier) aligned(geometry denm.RelativeGeometry, forward bool) bool {
	if c.config.IgnoreBearing {
		return true
	}

	if c.config.ForwardOnly && !forward {
		return false
	}

	return geometry.HeadingDelta < c.config.BearingWindow
}

func (c *Classifier) opposite(hostHeading float64, geometry denm.RelativeGeometry) bool {
	opposite := c.config.Opposite
	if opposite == nil || c.config.IgnoreBearing {
		return false
	}

	if geometry.AlertHeadingDelta >= opposite.HeadingWindow {
		return false
	}

	delta := math.Abs(geomath.NormaliseHeading(hostHeading) - geometry.BearingDegrees)

	return delta > opposite.MinDelta && delta < opposite.MaxDelta
}

func (c *Classifier) subTier(metric float64) denm.HazardLevel {
	for _, tier := range c.config.Tiers[1:] {
		if metric < tier.Threshold {
			return tier.Level
		}
	}

	return denm.HazardLevelNone
}

func noDecision() denm.HazardDecision {
	return denm.HazardDecision{Level: denm.HazardLevelNone, Branch: denm.BranchNone}
}
