package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/store"
	"github.com/verte-zerg/reflex/internal/trial"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	dbPath, historyType, historyLast, historyJSON = "", "", 0, false
	bestType, bestTop, clearYes = "", 5, false
	return filepath.Join(dir, "results.db")
}

func seed(t *testing.T, path string, results ...model.NewResult) {
	t.Helper()
	db, err := store.OpenSQLite(path)
	require.NoError(t, err)
	h := store.NewHistory(db, zaptest.NewLogger(t).Sugar())
	for _, r := range results {
		h.Append(r)
	}
	require.NoError(t, db.Close())
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestHistoryJSONFiltersByType(t *testing.T) {
	path := isolate(t)
	seed(t, path,
		model.NewResult{Type: model.ClickSpeed, Score: 6.2, Duration: 5},
		model.NewResult{Type: model.ReactionTime, Score: 231},
		model.NewResult{Type: model.ClickSpeed, Score: 7.4, Duration: 5},
	)

	out := execute(t, "history", "--json", "--type", "click-speed", "--db", path)
	var got []model.TestResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 7.4, got[0].Score)
	assert.Equal(t, 6.2, got[1].Score)
}

func TestHistoryTableWhenNotTerminal(t *testing.T) {
	path := isolate(t)
	seed(t, path, model.NewResult{Type: model.TypingSpeed, Score: 64, Duration: 60})

	out := execute(t, "history", "--db", path)
	assert.Contains(t, out, "Typing")
	assert.Contains(t, out, "Fast")
}

func TestBestAndTop(t *testing.T) {
	path := isolate(t)
	seed(t, path,
		model.NewResult{Type: model.SpacebarSpeed, Score: 5.1, Duration: 10},
		model.NewResult{Type: model.SpacebarSpeed, Score: 9.3, Duration: 10},
	)

	out := execute(t, "best", "--db", path)
	assert.Contains(t, out, "9.30 SPS")

	out = execute(t, "best", "--type", "spacebar", "--top", "1", "--db", path)
	assert.Contains(t, out, "Top Spacebar")
	assert.Contains(t, out, "9.30 SPS")
	assert.NotContains(t, out, "5.10")
}

func TestClearRequiresConfirmation(t *testing.T) {
	path := isolate(t)
	seed(t, path, model.NewResult{Type: model.ReactionTime, Score: 199})

	out := execute(t, "clear", "--db", path)
	assert.Contains(t, out, "Aborted.")

	out = execute(t, "clear", "--yes", "--db", path)
	assert.Contains(t, out, "Deleted 1 results.")

	clearYes = false
	out = execute(t, "clear", "--db", path)
	assert.Contains(t, out, "No results stored.")
}

func TestConsentRoundTrip(t *testing.T) {
	path := isolate(t)

	assert.Equal(t, "not set\n", execute(t, "consent", "--db", path))
	execute(t, "consent", "essential", "--db", path)
	assert.Equal(t, "essential\n", execute(t, "consent", "--db", path))
}

func TestParseHistoryConfig(t *testing.T) {
	cfg, err := parseHistoryConfig("reaction-time", 3)
	require.NoError(t, err)
	assert.Equal(t, model.HistoryConfig{Type: model.ReactionTime, Last: 3}, cfg)

	_, err = parseHistoryConfig("golf", 0)
	assert.Error(t, err)
	_, err = parseHistoryConfig("", -1)
	assert.Error(t, err)
}

func TestValidateTypingConfig(t *testing.T) {
	valid := model.TypingConfig{Duration: 60, Words: 25, CapsPct: 0.5, PunctPct: 0.5}
	assert.NoError(t, validateTypingConfig(valid))

	bad := valid
	bad.Duration = 45
	assert.Error(t, validateTypingConfig(bad))

	bad = valid
	bad.CapsPct = 1.5
	assert.Error(t, validateTypingConfig(bad))

	assert.Error(t, validateDuration(trial.ClickSpeed, 2))
	assert.NoError(t, validateDuration(trial.ClickSpeed, 30))
}
