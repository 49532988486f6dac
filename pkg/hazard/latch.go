package hazard

import (
	"time"

	"github.com/travigo/denmhazard/pkg/denm"
)

type heldTrigger struct {
	level denm.HazardLevel
	until time.Time
}

// Latch remembers triggers per originating station when configured to hold them
type Latch struct {
	config LatchConfig
	now    func() time.Time

	held map[string]heldTrigger
}

func NewLatch(config LatchConfig) *Latch {
	return &Latch{
		config: config,
		now:    time.Now,
		held:   map[string]heldTrigger{},
	}
}

func (l *Latch) Apply(originator string, decision denm.HazardDecision) denm.HazardDecision {
	if l.config.Mode != LatchHold || !decision.Triggered {
		return decision
	}

	now := l.now()
	l.expire(now)

	if previous, exists := l.held[originator]; exists && !decision.Level.MoreSevereThan(previous.level) {
		decision.Triggered = false
		decision.Suppressed = true
		return decision
	}

	l.held[originator] = heldTrigger{
		level: decision.Level,
		until: now.Add(l.config.HoldFor),
	}

	return decision
}

// Reset forgets every held trigger
func (l *Latch) Reset() {
	l.held = map[string]heldTrigger{}
}

func (l *Latch) expire(now time.Time) {
	for originator, trigger := range l.held {
		if !now.Before(trigger.until) {
			delete(l.held, originator)
		}
	}
}
