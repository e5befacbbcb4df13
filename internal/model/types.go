// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TestType identifies which trial produced a result.
type TestType string

// Test types, using the values stored in the history key.
const (
	ClickSpeed    TestType = "cps"
	SpacebarSpeed TestType = "spacebar"
	ReactionTime  TestType = "reaction"
	TypingSpeed   TestType = "typing"
)

// TestTypes lists every test type in display order.
var TestTypes = []TestType{ClickSpeed, SpacebarSpeed, TypingSpeed, ReactionTime}

// Valid reports whether t is one of the known test types.
func (t TestType) Valid() bool {
	switch t {
	case ClickSpeed, SpacebarSpeed, ReactionTime, TypingSpeed:
		return true
	}
	return false
}

// Label returns a short human-readable name.
func (t TestType) Label() string {
	switch t {
	case ClickSpeed:
		return "CPS"
	case SpacebarSpeed:
		return "Spacebar"
	case ReactionTime:
		return "Reaction"
	case TypingSpeed:
		return "Typing"
	}
	return string(t)
}

// Unit returns the unit of the score for this test type.
func (t TestType) Unit() string {
	switch t {
	case ClickSpeed:
		return "CPS"
	case SpacebarSpeed:
		return "SPS"
	case ReactionTime:
		return "ms"
	case TypingSpeed:
		return "WPM"
	}
	return ""
}

// ParseTestType accepts stored values and long names such as "click-speed".
func ParseTestType(s string) (TestType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cps", "click", "click-speed":
		return ClickSpeed, nil
	case "spacebar", "spacebar-speed":
		return SpacebarSpeed, nil
	case "reaction", "reaction-time":
		return ReactionTime, nil
	case "typing", "typing-speed":
		return TypingSpeed, nil
	}
	return "", fmt.Errorf("unknown test type %q", s)
}

// TestResult is a completed trial outcome. It is immutable once created.
type TestResult struct {
	ID        string             `json:"id"`
	Type      TestType           `json:"type"`
	Score     float64            `json:"score"`
	Duration  float64            `json:"duration"`
	Timestamp int64              `json:"timestamp"`
	Details   map[string]float64 `json:"details,omitempty"`
}

// Time converts the millisecond timestamp.
func (r TestResult) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// NewResult is a result before the store assigns an id and timestamp.
type NewResult struct {
	Type     TestType
	Score    float64
	Duration float64
	Details  map[string]float64
}

// Detail labels recorded per test type.
const (
	DetailClicks   = "clicks"
	DetailHits     = "hits"
	DetailCPM      = "cpm"
	DetailAccuracy = "accuracy"
	DetailErrors   = "errors"
	DetailAttempt  = "attempt"
)

// Consent is the stored cookie-consent choice.
type Consent string

// Consent choices.
const (
	ConsentAll       Consent = "all"
	ConsentEssential Consent = "essential"
)

// Valid reports whether c is a known consent choice.
func (c Consent) Valid() bool {
	return c == ConsentAll || c == ConsentEssential
}

// TrialConfig defines settings for a countdown trial.
type TrialConfig struct {
	Duration int
}

// TypingConfig defines settings for the typing trial.
type TypingConfig struct {
	Duration     int
	Words        int
	CapsPct      float64
	PunctPct     float64
	WordListPath string
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Type TestType
	Last int
}
