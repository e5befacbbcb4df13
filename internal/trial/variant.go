// Package trial implements the timed trial state machines.
//
// Trials never own timers. Starting, finishing or resetting a trial bumps a
// session tag and hands the host a Tick to schedule; the host delivers the tag
// back when the timer fires, and ticks carrying a stale tag are ignored. That
// keeps a reset trial from being revived by a callback scheduled before the
// reset, and lets tests drive trials with a manual clock.
package trial

import (
	"time"

	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/scoring"
)

// Phase is a trial lifecycle state.
type Phase int

// Countdown phases, then reaction phases.
const (
	Idle Phase = iota
	Running
	Finished

	Waiting
	Ready
	TooEarly
	Result
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Waiting:
		return "waiting"
	case Ready:
		return "ready"
	case TooEarly:
		return "tooEarly"
	case Result:
		return "result"
	}
	return "unknown"
}

// Kind selects what a countdown trial measures.
type Kind int

const (
	// Counter trials count primary interactions.
	Counter Kind = iota
	// Text trials collect typed text against a target.
	Text
)

// Variant parametrizes a countdown trial.
type Variant struct {
	Type            model.TestType
	Kind            Kind
	Durations       []int
	DefaultDuration int
	TickInterval    time.Duration
	Scale           scoring.Scale
	// CountDetail names the counter in result details for Counter trials.
	CountDetail string
}

// Built-in countdown variants.
var (
	ClickSpeed = Variant{
		Type:            model.ClickSpeed,
		Kind:            Counter,
		Durations:       []int{1, 5, 10, 30, 60},
		DefaultDuration: 5,
		TickInterval:    50 * time.Millisecond,
		Scale:           scoring.ClickScale,
		CountDetail:     model.DetailClicks,
	}
	SpacebarSpeed = Variant{
		Type:            model.SpacebarSpeed,
		Kind:            Counter,
		Durations:       []int{5, 10, 30},
		DefaultDuration: 10,
		TickInterval:    50 * time.Millisecond,
		Scale:           scoring.SpacebarScale,
		CountDetail:     model.DetailHits,
	}
	TypingSpeed = Variant{
		Type:            model.TypingSpeed,
		Kind:            Text,
		Durations:       []int{30, 60, 120},
		DefaultDuration: 60,
		TickInterval:    time.Second,
		Scale:           scoring.TypingScale,
	}
)

// VariantFor returns the countdown variant for t.
func VariantFor(t model.TestType) (Variant, bool) {
	switch t {
	case model.ClickSpeed:
		return ClickSpeed, true
	case model.SpacebarSpeed:
		return SpacebarSpeed, true
	case model.TypingSpeed:
		return TypingSpeed, true
	}
	return Variant{}, false
}

// Tick asks the host to call back with Tag after the given delay.
type Tick struct {
	Tag   uint64
	After time.Duration
}

// Recorder stores completed results.
type Recorder interface {
	Append(r model.NewResult) model.TestResult
}

// Outcome is a committed trial result with its rating.
type Outcome struct {
	Result model.TestResult
	Rating string
	// Typing holds the full breakdown for text trials.
	Typing scoring.TypingScore
}
