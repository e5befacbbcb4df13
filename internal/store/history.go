package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/reflex/internal/clock"
	"github.com/verte-zerg/reflex/internal/model"
)

// Storage keys.
const (
	HistoryKey = "testHistory"
	ConsentKey = "cookieConsent"
)

// MaxResults is the number of results kept, newest first.
const MaxResults = 50

// History is the persistent result log. The in-memory sequence is
// authoritative for the process; the medium is written best-effort.
type History struct {
	kv    KV
	log   *zap.SugaredLogger
	clock clock.Clock
	newID func() string

	mu      sync.Mutex
	results []model.TestResult
}

// Option configures a History.
type Option func(*History)

// WithClock sets the clock used for result timestamps.
func WithClock(c clock.Clock) Option {
	return func(h *History) { h.clock = c }
}

// WithIDs sets the result id generator.
func WithIDs(fn func() string) Option {
	return func(h *History) { h.newID = fn }
}

// NewHistory loads the stored results from kv.
func NewHistory(kv KV, log *zap.SugaredLogger, opts ...Option) *History {
	h := &History{
		kv:    kv,
		log:   log,
		clock: clock.Real{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.results = h.load()
	return h
}

func (h *History) load() []model.TestResult {
	raw, ok, err := h.kv.Get(context.Background(), HistoryKey)
	if err != nil {
		h.log.Warnw("failed to read result history", "key", HistoryKey, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	results, skipped, err := decodeResults(raw)
	if err != nil {
		h.log.Warnw("stored result history is corrupt, starting empty", "key", HistoryKey, "error", err)
		return nil
	}
	if skipped > 0 {
		h.log.Debugw("skipped malformed history records", "count", skipped)
	}
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// Append stamps r with a new id and the current time, stores it as the
// newest entry and returns the stored record.
func (h *History) Append(r model.NewResult) model.TestResult {
	result := model.TestResult{
		ID:        h.newID(),
		Type:      r.Type,
		Score:     r.Score,
		Duration:  r.Duration,
		Timestamp: h.clock.Now().UnixMilli(),
		Details:   copyDetails(r.Details),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]model.TestResult, 0, min(len(h.results)+1, MaxResults))
	next = append(next, result)
	next = append(next, h.results...)
	if len(next) > MaxResults {
		next = next[:MaxResults]
	}
	h.persist(next)
	h.results = next
	return result
}

// All returns the stored results, newest first.
func (h *History) All() []model.TestResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.TestResult, len(h.results))
	copy(out, h.results)
	return out
}

// Clear removes every stored result.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.kv.Delete(context.Background(), HistoryKey); err != nil {
		h.log.Warnw("failed to clear result history", "key", HistoryKey, "error", err)
	}
	h.results = nil
}

func (h *History) persist(results []model.TestResult) {
	data, err := json.Marshal(results)
	if err != nil {
		h.log.Warnw("failed to encode result history", "error", err)
		return
	}
	if err := h.kv.Set(context.Background(), HistoryKey, string(data)); err != nil {
		h.log.Warnw("failed to persist result history", "key", HistoryKey, "error", err)
	}
}

func decodeResults(raw string) ([]model.TestResult, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, 0, err
	}
	results := make([]model.TestResult, 0, len(items))
	skipped := 0
	for _, item := range items {
		var r model.TestResult
		if err := json.Unmarshal(item, &r); err != nil {
			skipped++
			continue
		}
		if err := validateResult(r); err != nil {
			skipped++
			continue
		}
		results = append(results, r)
	}
	return results, skipped, nil
}

func validateResult(r model.TestResult) error {
	if r.ID == "" {
		return fmt.Errorf("missing id")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown type %q", r.Type)
	}
	if r.Score < 0 || math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
		return fmt.Errorf("invalid score %v", r.Score)
	}
	if r.Duration < 0 || math.IsNaN(r.Duration) || math.IsInf(r.Duration, 0) {
		return fmt.Errorf("invalid duration %v", r.Duration)
	}
	return nil
}

func copyDetails(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
