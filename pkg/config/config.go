package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/denmhazard/pkg/storyboard"
	"github.com/travigo/denmhazard/pkg/usecase"
	"github.com/travigo/denmhazard/pkg/util"
	"gopkg.in/yaml.v3"
)

const defaultTickInterval = 100 * time.Millisecond

type Config struct {
	TickInterval time.Duration
	UseCases     []usecase.Config
	Stories      []storyboard.Story
}

func Default() *Config {
	return &Config{
		TickInterval: defaultTickInterval,
		UseCases:     usecase.DefaultConfigs(),
		Stories:      storyboard.DefaultStories(),
	}
}

// Load reads the YAML document named by path, or DENMHAZARD_CONFIG when path is empty.
// Without either the defaults are returned.
func Load(path string) (*Config, error) {
	env := util.GetEnvironmentVariables()

	if path == "" {
		path = env["DENMHAZARD_CONFIG"]
	}

	var config *Config

	if path == "" {
		log.Info().Msg("No configuration document set, using defaults")
		config = Default()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		config, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if value := env["DENMHAZARD_TICK_INTERVAL"]; value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			config.TickInterval = parsed
		} else {
			log.Warn().Str("value", value).Msg("Ignoring invalid DENMHAZARD_TICK_INTERVAL")
		}
	}

	return config, nil
}

func Parse(data []byte) (*Config, error) {
	var document Document
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}

	return document.Apply(Default())
}

// ParseISODuration converts an ISO8601 duration such as PT2S into a time.Duration
func ParseISODuration(value string) (time.Duration, error) {
	duration, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	reference := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	return duration.Shift(reference).Sub(reference), nil
}
