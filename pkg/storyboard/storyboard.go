package storyboard

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// Env is what a story condition can see about one station at one instant
type Env struct {
	// Seconds since the scenario started
	Time    float64 `expr:"time"`
	Station string  `expr:"station"`
	Speed   float64 `expr:"speed"`
	Heading float64 `expr:"heading"`
}

type Story struct {
	Name      string `yaml:"name" json:"name"`
	Condition string `yaml:"condition" json:"condition"`
	Signal    string `yaml:"signal" json:"signal"`

	program *vm.Program
}

// Trigger is a signal to deliver to a station
type Trigger struct {
	Story   string
	Station string
	Signal  string
}

// Board fires each story at most once per station
type Board struct {
	stories []*Story

	mutex sync.Mutex
	fired map[string]map[string]bool
}

func NewBoard(stories []Story) (*Board, error) {
	board := &Board{
		fired: map[string]map[string]bool{},
	}

	for _, story := range stories {
		story := story

		if story.Signal == "" {
			return nil, fmt.Errorf("story %q has no signal", story.Name)
		}

		program, err := expr.Compile(story.Condition, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile story %q: %w", story.Name, err)
		}
		story.program = program

		board.stories = append(board.stories, &story)
		board.fired[story.Name] = map[string]bool{}
	}

	return board, nil
}

func (b *Board) Stories() []Story {
	stories := make([]Story, 0, len(b.stories))
	for _, story := range b.stories {
		stories = append(stories, *story)
	}
	return stories
}

// Evaluate returns the triggers that become due for this station
func (b *Board) Evaluate(env Env) []Trigger {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	var triggers []Trigger

	for _, story := range b.stories {
		if b.fired[story.Name][env.Station] {
			continue
		}

		output, err := expr.Run(story.program, env)
		if err != nil {
			log.Error().Err(err).Str("story", story.Name).Msg("Failed to evaluate story condition")
			continue
		}

		if matched, _ := output.(bool); !matched {
			continue
		}

		b.fired[story.Name][env.Station] = true

		log.Info().Str("story", story.Name).Str("station", env.Station).Str("signal", story.Signal).Msg("Story triggered")

		triggers = append(triggers, Trigger{
			Story:   story.Name,
			Station: env.Station,
			Signal:  story.Signal,
		})
	}

	return triggers
}

// DefaultStories are the road works and emergency vehicle demonstration stories
func DefaultStories() []Story {
	return []Story{
		{
			Name:      "road-works",
			Condition: `time >= 1 && station in ["rww_veh"]`,
			Signal:    "RWW",
		},
		{
			Name:      "emergency-vehicle",
			Condition: `time >= 10 && station in ["ambulance.0"]`,
			Signal:    "EVW",
		},
	}
}
