package station

import (
	"strings"
	"sync"

	"github.com/travigo/denmhazard/pkg/usecase"
	"golang.org/x/exp/slices"
)

// Registry creates stations on first use with the same use-case configuration
type Registry struct {
	mutex    sync.RWMutex
	stations map[string]*Station

	configs []usecase.Config
	options []Option
}

func NewRegistry(configs []usecase.Config, options ...Option) *Registry {
	return &Registry{
		stations: map[string]*Station{},
		configs:  configs,
		options:  options,
	}
}

func (r *Registry) Get(id string) (*Station, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	station, exists := r.stations[id]
	if !exists {
		return nil, ErrUnknownStation
	}

	return station, nil
}

func (r *Registry) GetOrCreate(id string) (*Station, error) {
	if station, err := r.Get(id); err == nil {
		return station, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if station, exists := r.stations[id]; exists {
		return station, nil
	}

	station, err := New(id, r.configs, r.options...)
	if err != nil {
		return nil, err
	}
	r.stations[id] = station

	return station, nil
}

// All returns every station ordered by ID
func (r *Registry) All() []*Station {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stations := make([]*Station, 0, len(r.stations))
	for _, station := range r.stations {
		stations = append(stations, station)
	}

	slices.SortFunc(stations, func(a, b *Station) int {
		return strings.Compare(a.ID, b.ID)
	})

	return stations
}
