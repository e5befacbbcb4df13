package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/reflex/internal/model"
)

func TestMovingAverage(t *testing.T) {
	require.Equal(t, []float64{2, 3, 5}, MovingAverage([]float64{2, 4, 6}, 2))
	require.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
	require.Empty(t, MovingAverage(nil, 3))
}

func TestSparkline(t *testing.T) {
	require.Equal(t, "", Sparkline(nil))
	require.Equal(t, "+++", Sparkline([]float64{4, 4, 4}))
	line := Sparkline([]float64{1, 5, 9})
	require.Equal(t, " +@", line)
}

func TestTrendIsOldestFirst(t *testing.T) {
	results := []model.TestResult{
		{Type: model.ClickSpeed, Score: 9},
		{Type: model.ReactionTime, Score: 300},
		{Type: model.ClickSpeed, Score: 5},
	}
	require.Equal(t, []float64{5, 9}, Trend(results, model.ClickSpeed, 1))
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHistory(&buf, nil, time.UTC))
	require.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	results := []model.TestResult{
		{ID: "b", Type: model.ReactionTime, Score: 198, Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli(), Details: map[string]float64{"attempt": 2}},
		{ID: "a", Type: model.ClickSpeed, Score: 4.6, Duration: 5, Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC).UnixMilli(), Details: map[string]float64{"clicks": 23}},
	}
	require.NoError(t, RenderHistory(&buf, results, time.UTC))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "When"))
	require.Contains(t, lines[1], "2026-03-01 10:00")
	require.Contains(t, lines[1], "Excellent!")
	require.Contains(t, lines[1], "attempt=2")
	require.Contains(t, lines[2], "4.60")
	require.Contains(t, lines[2], "Beginner")
	require.Contains(t, lines[2], "clicks=23")
}

func TestRenderBest(t *testing.T) {
	results := []model.TestResult{
		{Type: model.ClickSpeed, Score: 7},
		{Type: model.ClickSpeed, Score: 5},
		{Type: model.ClickSpeed, Score: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderBest(&buf, results, []model.TestType{model.ClickSpeed, model.TypingSpeed}, 1))
	out := buf.String()
	require.Contains(t, out, "7.00 CPS")
	require.Contains(t, out, "5.00 CPS")
	require.Contains(t, out, " +@")
	require.Regexp(t, `Typing\s+0\s+-`, out)
}

func TestRenderTop(t *testing.T) {
	results := []model.TestResult{
		{Type: model.TypingSpeed, Score: 45, Timestamp: 2},
		{Type: model.TypingSpeed, Score: 82, Timestamp: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderTop(&buf, results, model.TypingSpeed, 5, time.UTC))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, "Top Typing", lines[0])
	require.Contains(t, lines[1], "82 WPM")
	require.Contains(t, lines[1], "Professional")
	require.Contains(t, lines[2], "45 WPM")
}
