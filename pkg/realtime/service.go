package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/denmhazard/pkg/config"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/station"
	"github.com/travigo/denmhazard/pkg/storyboard"
	"github.com/travigo/denmhazard/pkg/usecase"
)

// Service runs every host station of one engine instance. Stations are processed in
// parallel and each station serialises its own calls.
type Service struct {
	registry *station.Registry
	board    *storyboard.Board

	sink     Sink
	notifier Notifier
	archive  WarningStore
	states   *StateCache

	started time.Time
	now     func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithStateCache(states *StateCache) Option {
	return func(s *Service) {
		s.states = states
	}
}

func WithWarningStore(archive WarningStore) Option {
	return func(s *Service) {
		s.archive = archive
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

func NewService(cfg *config.Config, sink Sink, options ...Option) (*Service, error) {
	service := &Service{
		sink: sink,
		now:  time.Now,
	}

	for _, option := range options {
		option(service)
	}

	board, err := storyboard.NewBoard(cfg.Stories)
	if err != nil {
		return nil, err
	}

	service.board = board
	service.registry = station.NewRegistry(cfg.UseCases, station.WithClock(service.now))
	service.started = service.now()

	return service, nil
}

func (s *Service) Registry() *station.Registry {
	return s.registry
}

// station returns the host station, restoring its last known state from the cache
func (s *Service) station(ctx context.Context, id string) (*station.Station, error) {
	hostStation, err := s.registry.GetOrCreate(id)
	if err != nil {
		return nil, err
	}

	if s.states == nil {
		return hostStation, nil
	}

	if _, err := hostStation.State(); errors.Is(err, usecase.ErrNoTelemetry) {
		if state, err := s.states.LoadState(ctx, id); err == nil {
			hostStation.UpdateState(state)
		}
	}

	return hostStation, nil
}

func (s *Service) HandleTelemetry(ctx context.Context, states []denm.VehicleState) {
	for _, state := range states {
		if state.StationID == "" {
			log.Error().Msg("Telemetry update has no station")
			continue
		}

		hostStation, err := s.registry.GetOrCreate(state.StationID)
		if err != nil {
			log.Error().Err(err).Str("station", state.StationID).Msg("Failed to create station")
			continue
		}
		hostStation.UpdateState(state)

		if s.states != nil {
			if err := s.states.SaveState(ctx, state); err != nil {
				log.Error().Err(err).Str("station", state.StationID).Msg("Failed to cache vehicle state")
			}
		}
	}
}

func (s *Service) HandleSignals(ctx context.Context, signals []ScenarioSignal) {
	for _, signal := range signals {
		hostStation, err := s.station(ctx, signal.StationID)
		if err != nil {
			log.Error().Err(err).Str("station", signal.StationID).Msg("Failed to create station")
			continue
		}

		hostStation.Signal(signal.Signal)
	}
}

// HandleAlerts indicates received alerts to their stations and dispatches the resulting warnings
func (s *Service) HandleAlerts(ctx context.Context, alerts []ReceivedAlert) []denm.OutboundMessage {
	byStation := map[string][]denm.AlertEvent{}
	var order []string

	for _, received := range alerts {
		if s.states != nil && !s.states.FirstDelivery(ctx, received.ReceiverStationID, received.Alert) {
			log.Debug().Str("station", received.ReceiverStationID).Str("action", received.Alert.ActionID.String()).Msg("Alert already delivered")
			continue
		}

		if _, exists := byStation[received.ReceiverStationID]; !exists {
			order = append(order, received.ReceiverStationID)
		}
		byStation[received.ReceiverStationID] = append(byStation[received.ReceiverStationID], received.Alert)
	}

	p := pool.NewWithResults[[]denm.OutboundMessage]()
	for _, stationID := range order {
		stationID := stationID
		stationAlerts := byStation[stationID]

		p.Go(func() []denm.OutboundMessage {
			hostStation, err := s.station(ctx, stationID)
			if err != nil {
				log.Error().Err(err).Str("station", stationID).Msg("Failed to create station")
				return nil
			}

			var messages []denm.OutboundMessage
			for _, alert := range stationAlerts {
				messages = append(messages, hostStation.Indicate(alert)...)
			}
			return messages
		})
	}

	messages := flatten(p.Wait())
	s.dispatch(ctx, messages)

	return messages
}

// Tick evaluates the storyboard and the periodic checks of every station
func (s *Service) Tick(ctx context.Context) []denm.OutboundMessage {
	elapsed := s.now().Sub(s.started)

	p := pool.NewWithResults[[]denm.OutboundMessage]()
	for _, hostStation := range s.registry.All() {
		hostStation := hostStation

		p.Go(func() []denm.OutboundMessage {
			env := storyboard.Env{
				Time:    elapsed.Seconds(),
				Station: hostStation.ID,
			}
			if state, err := hostStation.State(); err == nil {
				env.Speed = state.Speed
				env.Heading = state.Heading
			}

			for _, trigger := range s.board.Evaluate(env) {
				hostStation.Signal(trigger.Signal)
			}

			return hostStation.Tick()
		})
	}

	messages := flatten(p.Wait())
	s.dispatch(ctx, messages)

	return messages
}

// Run ticks until the context is cancelled
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Str("interval", interval.String()).Msg("Starting engine tick loop")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

func (s *Service) dispatch(ctx context.Context, messages []denm.OutboundMessage) {
	if len(messages) == 0 {
		return
	}

	if s.sink != nil {
		if err := s.sink.Publish(ctx, messages); err != nil {
			log.Error().Err(err).Int("count", len(messages)).Msg("Failed to publish outbound messages")
		}
	}

	indexDecisionEvents(messages)

	var records []WarningRecord
	var urgent []WarningRecord
	for _, message := range messages {
		record, ok := NewWarningRecord(message)
		if !ok {
			continue
		}

		records = append(records, record)
		if record.Urgent() {
			urgent = append(urgent, record)
		}
	}

	if s.archive != nil && len(records) > 0 {
		if err := s.archive.Store(ctx, records); err != nil {
			log.Error().Err(err).Int("count", len(records)).Msg("Failed to archive warnings")
		}
	}

	if s.notifier != nil && len(urgent) > 0 {
		if err := s.notifier.Notify(ctx, urgent); err != nil {
			log.Error().Err(err).Int("count", len(urgent)).Msg("Failed to forward warnings")
		}
	}
}

func flatten(batches [][]denm.OutboundMessage) []denm.OutboundMessage {
	var messages []denm.OutboundMessage
	for _, batch := range batches {
		messages = append(messages, batch...)
	}
	return messages
}
