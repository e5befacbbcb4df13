package trial

import (
	"math"
	"slices"
	"time"

	"github.com/verte-zerg/reflex/internal/clock"
	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/scoring"
)

// Countdown runs a click, spacebar or typing trial.
type Countdown struct {
	variant Variant
	clock   clock.Clock
	rec     Recorder

	phase    Phase
	duration int
	tag      uint64

	count  int
	typed  string
	target string

	startedAt  time.Time
	finishedAt time.Time
	outcome    *Outcome
}

// CountdownSnapshot is the live view of a countdown trial.
type CountdownSnapshot struct {
	Type      model.TestType
	Phase     Phase
	Duration  int
	Durations []int
	Count     int
	Typed     string
	Target    string
	Elapsed   time.Duration
	Remaining time.Duration
	Outcome   *Outcome
}

// NewCountdown returns an idle trial for v.
func NewCountdown(v Variant, clk clock.Clock, rec Recorder) *Countdown {
	return &Countdown{
		variant:  v,
		clock:    clk,
		rec:      rec,
		duration: v.DefaultDuration,
	}
}

// Variant returns the trial parameters.
func (c *Countdown) Variant() Variant { return c.variant }

// SelectDuration changes the trial length. Only accepted while idle and for
// one of the variant's durations.
func (c *Countdown) SelectDuration(sec int) bool {
	if c.phase != Idle || !slices.Contains(c.variant.Durations, sec) {
		return false
	}
	c.duration = sec
	return true
}

// SetTarget sets the text to type. Only accepted while idle.
func (c *Countdown) SetTarget(text string) bool {
	if c.phase != Idle {
		return false
	}
	c.target = text
	return true
}

// Press records a primary interaction for counter trials. The first press
// starts the trial, counts as one, and returns the first tick to schedule.
func (c *Countdown) Press() (Tick, bool) {
	if c.variant.Kind != Counter {
		return Tick{}, false
	}
	switch c.phase {
	case Idle:
		c.count = 1
		return c.start(), true
	case Running:
		now := c.clock.Now()
		if c.remainingAt(now) <= 0 {
			c.finish(now)
			return Tick{}, false
		}
		c.count++
	}
	return Tick{}, false
}

// Input replaces the typed text for text trials. The first non-empty input
// starts the trial; typing the target exactly finishes it.
func (c *Countdown) Input(text string) (Tick, bool) {
	if c.variant.Kind != Text {
		return Tick{}, false
	}
	switch c.phase {
	case Idle:
		if text == "" {
			return Tick{}, false
		}
		c.typed = text
		tick := c.start()
		if c.typed == c.target {
			c.finish(c.startedAt)
			return Tick{}, false
		}
		return tick, true
	case Running:
		now := c.clock.Now()
		if c.remainingAt(now) <= 0 {
			c.finish(now)
			return Tick{}, false
		}
		c.typed = text
		if c.typed == c.target {
			c.finish(now)
		}
	}
	return Tick{}, false
}

// Tick handles a scheduled tick. It returns the next tick while the trial is
// still running.
func (c *Countdown) Tick(tag uint64) (Tick, bool) {
	if tag != c.tag || c.phase != Running {
		return Tick{}, false
	}
	now := c.clock.Now()
	if c.remainingAt(now) <= 0 {
		c.finish(now)
		return Tick{}, false
	}
	return Tick{Tag: c.tag, After: c.variant.TickInterval}, true
}

// Reset returns the trial to idle and invalidates pending ticks.
func (c *Countdown) Reset() {
	c.tag++
	c.phase = Idle
	c.count = 0
	c.typed = ""
	c.startedAt = time.Time{}
	c.finishedAt = time.Time{}
	c.outcome = nil
}

// Snapshot reports the current state.
func (c *Countdown) Snapshot() CountdownSnapshot {
	s := CountdownSnapshot{
		Type:      c.variant.Type,
		Phase:     c.phase,
		Duration:  c.duration,
		Durations: c.variant.Durations,
		Count:     c.count,
		Typed:     c.typed,
		Target:    c.target,
		Outcome:   c.outcome,
	}
	switch c.phase {
	case Running:
		s.Elapsed = c.elapsed(c.clock.Now())
	case Finished:
		s.Elapsed = c.elapsed(c.finishedAt)
	}
	s.Remaining = c.total() - s.Elapsed
	return s
}

func (c *Countdown) start() Tick {
	c.tag++
	c.phase = Running
	c.startedAt = c.clock.Now()
	c.outcome = nil
	return Tick{Tag: c.tag, After: c.variant.TickInterval}
}

func (c *Countdown) finish(now time.Time) {
	c.tag++
	c.phase = Finished
	c.finishedAt = now

	var (
		result model.NewResult
		typing scoring.TypingScore
	)
	switch c.variant.Kind {
	case Text:
		elapsed := c.elapsed(now)
		typing = scoring.Typing(c.typed, c.target, elapsed)
		result = model.NewResult{
			Type:     c.variant.Type,
			Score:    float64(typing.WPM),
			Duration: math.Round(elapsed.Seconds()),
			Details: map[string]float64{
				model.DetailCPM:      float64(typing.CPM),
				model.DetailAccuracy: float64(typing.Accuracy),
				model.DetailErrors:   float64(typing.Errors),
			},
		}
	default:
		result = model.NewResult{
			Type:     c.variant.Type,
			Score:    scoring.Rate(c.count, c.duration),
			Duration: float64(c.duration),
			Details:  map[string]float64{c.variant.CountDetail: float64(c.count)},
		}
	}

	stored := c.rec.Append(result)
	c.outcome = &Outcome{
		Result: stored,
		Rating: c.variant.Scale.Rate(stored.Score),
		Typing: typing,
	}
}

func (c *Countdown) total() time.Duration {
	return time.Duration(c.duration) * time.Second
}

// elapsed is measured from the start instant, clamped to [0, duration].
func (c *Countdown) elapsed(now time.Time) time.Duration {
	d := now.Sub(c.startedAt)
	if d < 0 {
		return 0
	}
	if total := c.total(); d > total {
		return total
	}
	return d
}

func (c *Countdown) remainingAt(now time.Time) time.Duration {
	return c.total() - c.elapsed(now)
}
