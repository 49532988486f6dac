package station

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/usecase"
)

var ErrUnknownStation = errors.New("unknown station")

// How long a received action is remembered when the alert carries no validity
const defaultDuplicateWindow = 10 * time.Second

// Station is one host vehicle running every configured use-case.
// All methods are safe for concurrent use and calls are serialised per station.
type Station struct {
	ID string

	mutex   sync.Mutex
	state   *denm.VehicleState
	engines []*usecase.Engine

	sequenceNumber uint64
	seenActions    map[denm.ActionID]time.Time

	now func() time.Time
}

type Option func(*Station)

func WithClock(now func() time.Time) Option {
	return func(s *Station) {
		s.now = now
	}
}

func New(id string, configs []usecase.Config, options ...Option) (*Station, error) {
	station := &Station{
		ID:          id,
		seenActions: map[denm.ActionID]time.Time{},
		now:         time.Now,
	}

	for _, option := range options {
		option(station)
	}

	for _, config := range configs {
		cloned, err := config.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone %s config: %w", config.Name, err)
		}

		engine, err := usecase.NewEngine(cloned, lockedTelemetry{station: station}, usecase.WithClock(station.now))
		if err != nil {
			return nil, err
		}

		station.engines = append(station.engines, engine)
	}

	return station, nil
}

// lockedTelemetry reads the snapshot while the station mutex is already held
type lockedTelemetry struct {
	station *Station
}

func (t lockedTelemetry) VehicleState() (denm.VehicleState, error) {
	if t.station.state == nil {
		return denm.VehicleState{}, usecase.ErrNoTelemetry
	}

	return *t.station.state, nil
}

func (s *Station) UpdateState(state denm.VehicleState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state.StationID = s.ID
	s.state = &state
}

func (s *Station) State() (denm.VehicleState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return lockedTelemetry{station: s}.VehicleState()
}

// Indicate hands a received alert to every engine and collects the resulting warnings
func (s *Station) Indicate(alert denm.AlertEvent) []denm.OutboundMessage {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if alert.OriginatingStationID() == s.ID {
		return nil
	}

	now := s.now()
	if alert.Expired(now) {
		log.Debug().Str("station", s.ID).Str("action", alert.ActionID.String()).Msg("Dropping expired alert")
		return nil
	}

	if until, seen := s.seenActions[alert.ActionID]; seen && now.Before(until) {
		log.Debug().Str("station", s.ID).Str("action", alert.ActionID.String()).Msg("Dropping duplicate alert")
		return nil
	}
	s.seenActions[alert.ActionID] = rememberUntil(alert, now)

	var messages []denm.OutboundMessage
	for _, engine := range s.engines {
		if message := engine.OnPeerAlert(alert); message != nil {
			messages = append(messages, *message)
		}
	}

	return messages
}

// Tick runs the periodic check of every engine and numbers the broadcasts
func (s *Station) Tick() []denm.OutboundMessage {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	for action, until := range s.seenActions {
		if !now.Before(until) {
			delete(s.seenActions, action)
		}
	}

	var messages []denm.OutboundMessage
	for _, engine := range s.engines {
		message := engine.OnPeriodicCheck()
		if message == nil {
			continue
		}

		s.sequenceNumber++
		message.Event.ActionID = denm.ActionID{
			OriginatingStationID: s.ID,
			SequenceNumber:       s.sequenceNumber,
		}

		messages = append(messages, *message)
	}

	return messages
}

// Signal activates every engine listening for the given storyboard signal
func (s *Station) Signal(signal string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	handled := false
	for _, engine := range s.engines {
		if engine.HandleSignal(signal) {
			handled = true
		}
	}

	if !handled {
		log.Warn().Str("station", s.ID).Str("signal", signal).Msg("No use-case handles signal")
	}

	return handled
}

func (s *Station) ActiveUseCases() []usecase.Name {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var active []usecase.Name
	for _, engine := range s.engines {
		if engine.Active() {
			active = append(active, engine.Name())
		}
	}

	return active
}

func rememberUntil(alert denm.AlertEvent, now time.Time) time.Time {
	if alert.ValidityDuration > 0 && !alert.DetectionTime.IsZero() {
		return alert.DetectionTime.Add(alert.ValidityDuration)
	}

	return now.Add(defaultDuplicateWindow)
}
