package stats

import (
	"sort"

	"github.com/verte-zerg/reflex/internal/model"
)

// TopResults returns the n highest-scoring results of type t. Equal scores
// keep the newer result first.
func TopResults(results []model.TestResult, t model.TestType, n int) []model.TestResult {
	if n <= 0 {
		return nil
	}
	items := ByType(results, t)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].Timestamp > items[j].Timestamp
		}
		return items[i].Score > items[j].Score
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
