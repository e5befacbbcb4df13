// Package stats derives per-test statistics from stored results.
package stats

import (
	"github.com/verte-zerg/reflex/internal/model"
)

// ByType returns the results of type t, preserving their order.
func ByType(results []model.TestResult, t model.TestType) []model.TestResult {
	out := make([]model.TestResult, 0, len(results))
	for _, r := range results {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// BestScore returns the maximum score among results of type t. The maximum
// is used for every type, reaction time included, where a smaller value is
// the better attempt. ok is false when there are no results of type t.
func BestScore(results []model.TestResult, t model.TestType) (best float64, ok bool) {
	for _, r := range results {
		if r.Type != t {
			continue
		}
		if !ok || r.Score > best {
			best = r.Score
			ok = true
		}
	}
	return best, ok
}

// Source supplies the current result snapshot, newest first.
type Source interface {
	All() []model.TestResult
}

// Aggregator answers statistics queries against a Source.
type Aggregator struct {
	src Source
}

// NewAggregator binds an Aggregator to src.
func NewAggregator(src Source) *Aggregator {
	return &Aggregator{src: src}
}

// ByType returns stored results of type t, newest first.
func (a *Aggregator) ByType(t model.TestType) []model.TestResult {
	return ByType(a.src.All(), t)
}

// BestScore returns the best stored score of type t.
func (a *Aggregator) BestScore(t model.TestType) (float64, bool) {
	return BestScore(a.src.All(), t)
}

// Summary condenses the results of one test type.
type Summary struct {
	Type    model.TestType
	Count   int
	Best    float64
	Average float64
	Latest  *model.TestResult
}

// Summarize computes a Summary for type t. results must be newest first.
func Summarize(results []model.TestResult, t model.TestType) Summary {
	s := Summary{Type: t}
	filtered := ByType(results, t)
	if len(filtered) == 0 {
		return s
	}
	s.Count = len(filtered)
	s.Best, _ = BestScore(filtered, t)
	var total float64
	for _, r := range filtered {
		total += r.Score
	}
	s.Average = total / float64(len(filtered))
	latest := filtered[0]
	s.Latest = &latest
	return s
}

// Summarize computes a Summary for type t from the current snapshot.
func (a *Aggregator) Summarize(t model.TestType) Summary {
	return Summarize(a.src.All(), t)
}
