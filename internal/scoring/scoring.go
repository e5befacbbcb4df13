// Package scoring maps raw trial counters and timestamps to scores.
package scoring

import (
	"math"
	"strings"
	"time"
)

// Rate returns count per second over durationSec, rounded to two decimals.
func Rate(count, durationSec int) float64 {
	if durationSec <= 0 || count <= 0 {
		return 0
	}
	return Round2(float64(count) / float64(durationSec))
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TypingScore is the outcome of a typing trial.
type TypingScore struct {
	WPM      int
	CPM      int
	Accuracy int
	Errors   int
	Correct  int
	Words    int
}

// Typing scores typed against target over elapsed. Characters are compared
// by position; positions past the end of target never match.
func Typing(typed, target string, elapsed time.Duration) TypingScore {
	typedRunes := []rune(typed)
	targetRunes := []rune(target)

	correct := 0
	for i, r := range typedRunes {
		if i < len(targetRunes) && targetRunes[i] == r {
			correct++
		}
	}

	score := TypingScore{
		Correct: correct,
		Errors:  len(typedRunes) - correct,
		Words:   len(strings.Fields(typed)),
	}
	if len(typedRunes) > 0 {
		score.Accuracy = int(math.Round(100 * float64(correct) / float64(len(typedRunes))))
	}
	minutes := elapsed.Minutes()
	if minutes > 0 {
		score.WPM = int(math.Round(float64(score.Words) / minutes))
		score.CPM = int(math.Round(float64(len(typedRunes)) / minutes))
	}
	return score
}

// ReactionMillis is the whole milliseconds between ready and pressed, never negative.
func ReactionMillis(ready, pressed time.Time) int64 {
	ms := pressed.Sub(ready).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
