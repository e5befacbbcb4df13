package trial

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/reflex/internal/clock"
	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/scoring"
)

// Reaction delay bounds: delays fall in [MinDelay, MinDelay+DelaySpread).
const (
	MinDelay    = time.Second
	DelaySpread = 4 * time.Second
)

// DelayFunc picks the wait before the ready signal.
type DelayFunc func() time.Duration

// RandomDelay draws uniform delays from rnd.
func RandomDelay(rnd *rand.Rand) DelayFunc {
	return func() time.Duration {
		return MinDelay + time.Duration(rnd.Int63n(int64(DelaySpread)))
	}
}

// Reaction runs single-shot reaction time attempts.
type Reaction struct {
	clock clock.Clock
	rec   Recorder
	delay DelayFunc

	phase   Phase
	tag     uint64
	readyAt time.Time

	attempts []int64
	outcome  *Outcome
}

// ReactionSnapshot is the live view of a reaction session.
type ReactionSnapshot struct {
	Phase    Phase
	Last     int64
	Attempts []int64
	Average  int64
	Best     int64
	Outcome  *Outcome
}

// NewReaction returns a session in the waiting phase. Call Start to schedule
// the first ready signal.
func NewReaction(clk clock.Clock, rec Recorder, delay DelayFunc) *Reaction {
	return &Reaction{
		clock: clk,
		rec:   rec,
		delay: delay,
		phase: Waiting,
	}
}

// Start enters the waiting phase and returns the ready signal to schedule.
func (r *Reaction) Start() Tick {
	r.tag++
	r.phase = Waiting
	r.readyAt = time.Time{}
	return Tick{Tag: r.tag, After: r.delay()}
}

// Elapse handles the scheduled ready signal. It reports whether the session
// moved to ready.
func (r *Reaction) Elapse(tag uint64) bool {
	if tag != r.tag || r.phase != Waiting {
		return false
	}
	r.phase = Ready
	r.readyAt = r.clock.Now()
	return true
}

// Press records a primary interaction. From tooEarly or result it restarts
// waiting and returns the next ready signal to schedule.
func (r *Reaction) Press() (Tick, bool) {
	switch r.phase {
	case Waiting:
		r.tag++
		r.phase = TooEarly
	case Ready:
		ms := scoring.ReactionMillis(r.readyAt, r.clock.Now())
		r.attempts = append(r.attempts, ms)
		r.phase = Result
		stored := r.rec.Append(model.NewResult{
			Type:     model.ReactionTime,
			Score:    float64(ms),
			Duration: 0,
			Details:  map[string]float64{model.DetailAttempt: float64(len(r.attempts))},
		})
		r.outcome = &Outcome{Result: stored, Rating: scoring.ReactionScale.Rate(stored.Score)}
	case TooEarly, Result:
		return r.Start(), true
	}
	return Tick{}, false
}

// Reset clears the session attempts and restarts waiting.
func (r *Reaction) Reset() Tick {
	r.attempts = nil
	r.outcome = nil
	return r.Start()
}

// Snapshot reports the current state and session statistics.
func (r *Reaction) Snapshot() ReactionSnapshot {
	s := ReactionSnapshot{
		Phase:    r.phase,
		Attempts: append([]int64(nil), r.attempts...),
		Outcome:  r.outcome,
	}
	if len(r.attempts) == 0 {
		return s
	}
	s.Last = r.attempts[len(r.attempts)-1]
	var sum int64
	s.Best = r.attempts[0]
	for _, a := range r.attempts {
		sum += a
		if a < s.Best {
			s.Best = a
		}
	}
	s.Average = int64(math.Round(float64(sum) / float64(len(r.attempts))))
	return s
}
