package stats

import (
	"testing"

	"github.com/verte-zerg/reflex/internal/model"
)

func TestTopResults(t *testing.T) {
	results := []model.TestResult{
		{ID: "new", Type: model.ClickSpeed, Score: 8, Timestamp: 4},
		{ID: "mid", Type: model.ClickSpeed, Score: 11.5, Timestamp: 3},
		{ID: "other", Type: model.SpacebarSpeed, Score: 20, Timestamp: 2},
		{ID: "old", Type: model.ClickSpeed, Score: 8, Timestamp: 1},
	}
	top := TopResults(results, model.ClickSpeed, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 results, got %d", len(top))
	}
	if top[0].ID != "mid" || top[1].ID != "new" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopResults(results, model.ClickSpeed, 10); len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got := TopResults(results, model.ClickSpeed, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
