package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/scoring"
)

const sparkChars = " .:-=+*#%@"

const timeLayout = "2006-01-02 15:04"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal-minVal < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Trend returns the scores of type t oldest first, smoothed over window.
// results must be newest first.
func Trend(results []model.TestResult, t model.TestType, window int) []float64 {
	filtered := ByType(results, t)
	scores := make([]float64, len(filtered))
	for i, r := range filtered {
		scores[len(filtered)-1-i] = r.Score
	}
	return MovingAverage(scores, window)
}

// FormatScore renders a score with the precision its type is recorded at.
func FormatScore(t model.TestType, score float64) string {
	switch t {
	case model.ClickSpeed, model.SpacebarSpeed:
		return fmt.Sprintf("%.2f", score)
	default:
		return fmt.Sprintf("%.0f", score)
	}
}

// FormatDetails renders details as sorted key=value pairs.
func FormatDetails(details map[string]float64) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, details[k]))
	}
	return strings.Join(parts, " ")
}

// RenderHistory prints results as an aligned table in the given order.
func RenderHistory(w io.Writer, results []model.TestResult, loc *time.Location) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	headers := []string{"When", "Test", "Score", "Unit", "Rating", "Duration", "Details"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Time().In(loc).Format(timeLayout),
			r.Type.Label(),
			FormatScore(r.Type, r.Score),
			r.Type.Unit(),
			scoring.ScaleFor(r.Type).Rate(r.Score),
			fmt.Sprintf("%gs", r.Duration),
			FormatDetails(r.Details),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBest prints a summary per test type with a score trend.
func RenderBest(w io.Writer, results []model.TestResult, types []model.TestType, window int) error {
	headers := []string{"Test", "Runs", "Best", "Average", "Latest", "Trend"}
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		s := Summarize(results, t)
		if s.Count == 0 {
			rows = append(rows, []string{t.Label(), "0", "-", "-", "-", ""})
			continue
		}
		rows = append(rows, []string{
			t.Label(),
			fmt.Sprintf("%d", s.Count),
			FormatScore(t, s.Best) + " " + t.Unit(),
			FormatScore(t, s.Average) + " " + t.Unit(),
			FormatScore(t, s.Latest.Score) + " " + t.Unit(),
			Sparkline(Trend(results, t, window)),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTop prints a leaderboard of the n best results of type t.
func RenderTop(w io.Writer, results []model.TestResult, t model.TestType, n int, loc *time.Location) error {
	top := TopResults(results, t, n)
	if _, err := fmt.Fprintf(w, "Top %s\n", t.Label()); err != nil {
		return err
	}
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	rows := make([][]string, 0, len(top))
	for i, r := range top {
		rows = append(rows, []string{
			fmt.Sprintf("%d.", i+1),
			FormatScore(t, r.Score) + " " + t.Unit(),
			scoring.ScaleFor(t).Rate(r.Score),
			r.Time().In(loc).Format(timeLayout),
		})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{0: true, 1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
