package usecase

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/hazard"
	"golang.org/x/exp/slices"
)

var ErrNoTelemetry = errors.New("no telemetry available")

// Telemetry provides the current kinematic state of the host vehicle
type Telemetry interface {
	VehicleState() (denm.VehicleState, error)
}

type UseCase interface {
	Name() Name
	OnPeerAlert(alert denm.AlertEvent) *denm.OutboundMessage
	OnPeriodicCheck() *denm.OutboundMessage
	HandleSignal(signal string) bool
	Activate()
	Active() bool
}

// Engine runs one use-case for one host station. Calls must not overlap.
type Engine struct {
	config     Config
	telemetry  Telemetry
	classifier *hazard.Classifier

	active           bool
	lastTransmission time.Time

	now func() time.Time
}

type Option func(*engineOptions)

type engineOptions struct {
	now func() time.Time
}

func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		o.now = now
	}
}

func NewEngine(config Config, telemetry Telemetry, options ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	engineOptions := &engineOptions{now: time.Now}
	for _, option := range options {
		option(engineOptions)
	}

	engine := &Engine{
		config:    config,
		telemetry: telemetry,
		now:       engineOptions.now,
	}

	if config.Classifier != nil {
		classifier, err := hazard.NewClassifier(*config.Classifier, hazard.WithClock(engineOptions.now))
		if err != nil {
			return nil, err
		}

		engine.classifier = classifier
	}

	return engine, nil
}

func (e *Engine) Name() Name {
	return e.config.Name
}

func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) Active() bool {
	return e.active
}

// Activate latches the transmitter on. There is no way back to inactive.
func (e *Engine) Activate() {
	if !e.active {
		log.Info().Str("usecase", string(e.config.Name)).Msg("Use-case activated")
	}
	e.active = true
}

func (e *Engine) HandleSignal(signal string) bool {
	if e.config.Signal == "" || signal != e.config.Signal {
		return false
	}

	e.Activate()
	return true
}

func (e *Engine) Relevant(cause denm.CauseCode) bool {
	return slices.Contains(e.config.RelevantCauses, cause)
}

// OnPeerAlert classifies a received alert and returns a warning when it triggered
func (e *Engine) OnPeerAlert(alert denm.AlertEvent) *denm.OutboundMessage {
	if e.classifier == nil || !e.Relevant(alert.CauseCode) {
		return nil
	}

	host, err := e.hostState()
	if err != nil {
		log.Error().Err(err).Str("usecase", string(e.config.Name)).Msg("Cannot evaluate alert")
		return nil
	}

	geometry, decision := e.classifier.Classify(host, alert, e.config.Precision)
	if !decision.Triggered {
		return nil
	}

	log.Info().
		Str("usecase", string(e.config.Name)).
		Str("station", host.StationID).
		Str("originator", alert.OriginatingStationID()).
		Str("level", decision.Level.String()).
		Float64("distance", geometry.DistanceMeters).
		Msg("Hazard warning triggered")

	return &denm.OutboundMessage{
		Kind:      denm.MessageKindWarning,
		UseCase:   string(e.config.Name),
		StationID: host.StationID,
		CreatedAt: e.now(),
		Precision: e.config.Precision,
		Decision:  &decision,
		Geometry:  &geometry,
		Host:      &host,
		Alert:     &alert,
	}
}

// OnPeriodicCheck returns a broadcast while the engine is active and its precondition holds
func (e *Engine) OnPeriodicCheck() *denm.OutboundMessage {
	transmitter := e.config.Transmitter
	if transmitter == nil || !e.active {
		return nil
	}

	now := e.now()
	if transmitter.GenerationInterval > 0 && !e.lastTransmission.IsZero() && now.Sub(e.lastTransmission) < transmitter.GenerationInterval {
		return nil
	}

	host, err := e.hostState()
	if err != nil {
		log.Error().Err(err).Str("usecase", string(e.config.Name)).Msg("Cannot build broadcast")
		return nil
	}

	if transmitter.MaxHostSpeed != nil && host.Speed >= *transmitter.MaxHostSpeed {
		return nil
	}

	e.lastTransmission = now

	event, request := buildBroadcast(transmitter, host, e.config.Precision, now)

	return &denm.OutboundMessage{
		Kind:      denm.MessageKindBroadcast,
		UseCase:   string(e.config.Name),
		StationID: host.StationID,
		CreatedAt: now,
		Precision: e.config.Precision,
		Event:     &event,
		Request:   &request,
	}
}

func (e *Engine) hostState() (denm.VehicleState, error) {
	if e.telemetry == nil {
		return denm.VehicleState{}, ErrNoTelemetry
	}

	return e.telemetry.VehicleState()
}
